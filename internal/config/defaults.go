package config

var defaults = map[string]any{
	"secret":    "",
	"listen":    ":3000",
	"log_level": "info",

	"session_ttl": 720, // 12 hours
	"nonce_store": "memory",

	"base_url": "/",

	"email.host":     "",
	"email.port":     "25",
	"email.username": "",
	"email.password": "",
	"email.from":     "noreply@example.com",

	"storage.sqlite.path": "./data/visitorlog.db",
}

func Defaults() map[string]any {
	values := make(map[string]any)
	for k, v := range defaults {
		values[k] = v
	}
	return values
}
