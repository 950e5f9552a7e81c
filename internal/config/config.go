package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"

	"visitorlog/internal/email"
)

type Config struct {
	// Secret key for signing session tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// Listen address for the HTTP server, e.g. ":3000"
	Listen   string `mapstructure:"listen"`
	LogLevel string `mapstructure:"log_level"`

	// Session lifetime in minutes.
	SessionTTL uint   `mapstructure:"session_ttl"`
	NonceStore string `mapstructure:"nonce_store"`

	// Base URL for the application. May be relative, e.g. /visitorlog/, or absolute.
	BaseURL string `mapstructure:"base_url"`

	Storage Storage `mapstructure:"storage"`

	// SMTP settings for credential-change notifications.
	Email email.SMTPConfig `mapstructure:"email"`
}

var Cfg *Config

func getConfigPath() string {
	// Docker images mount config under /app/instance
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from an optional config file and the
// environment, and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("unable to read config file: %w", err)
		}
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	// Convert relative sqlite path into the instance folder
	if cfg.Storage.SQLite != nil && cfg.Storage.SQLite.Path != ":memory:" {
		if cfg.Storage.SQLite.Path == "" {
			return nil, fmt.Errorf("storage.sqlite.path must not be empty")
		}
		if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) && cfg.Storage.SQLite.Path[0] != '.' {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
