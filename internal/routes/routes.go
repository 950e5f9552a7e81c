package routes

import (
	"fmt"
	"html/template"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"visitorlog/internal/config"
	"visitorlog/internal/storage"
)

// Merge into existing gin.H
func H(c *gin.Context, data gin.H) gin.H {
	if data == nil {
		data = gin.H{}
	}
	data["BaseURL"] = config.Cfg.BaseURL
	if username := c.GetString("username"); username != "" {
		data["Username"] = username
	}
	return data
}

// Returns a HTML response with merged data
func HTML(c *gin.Context, code int, name string, data gin.H) {
	c.HTML(code, name, H(c, data))
}

// getStorage pulls the storage provider injected by the server setup.
func getStorage(c *gin.Context) storage.Provider {
	provider, ok := c.MustGet("Storage").(storage.Provider)
	if !ok {
		panic("invalid storage provider in context")
	}
	return provider
}

// Helper function to generate a URL for a given path
func UrlFor(c *gin.Context, path string) string {
	scheme := "http"
	if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}
	return fmt.Sprintf("%s://%s%s", scheme, c.Request.Host, path)
}

// TemplateFuncs returns template helpers shared by all pages.
func TemplateFuncs() template.FuncMap {
	return template.FuncMap{
		"datetime": func(t time.Time) string {
			return t.Format("Jan 2, 2006 15:04")
		},
		"dateinput": func(t time.Time) string {
			return t.Format("2006-01-02")
		},
		"add": func(a, b int) int { return a + b },
		"sub": func(a, b int) int { return a - b },
	}
}

// Health registers the liveness endpoint.
func Health(r *gin.Engine) {
	r.GET("/health", func(c *gin.Context) {
		msg := c.Query("ping")
		if msg == "" {
			msg = "pong"
		}

		c.JSON(200, gin.H{"message": msg})
	})
}
