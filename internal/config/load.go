package config

import (
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// Load reads configuration from environment variables, applying defaults for
// anything not set. The environment variable names match the deployment
// contract (DB_USER, DB_HOSTS, JWT_SECRET, ...) rather than a viper prefix
// scheme. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("database.user", "app_user")
	v.SetDefault("database.password", "app_pass")
	v.SetDefault("database.name", "app_db")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.hosts", "database")
	v.SetDefault("database.max_attempts", 90)
	v.SetDefault("auth.jwt_secret", "change-me")
	v.SetDefault("auth.token_lifetime_minutes", 120)

	// Environment bindings. DB_HOSTS is an ordered, comma-separated failover
	// list; DB_HOST is accepted as a single-host fallback.
	bindings := map[string][]string{
		"server.port":                 {"SERVER_PORT"},
		"server.log_level":            {"LOG_LEVEL"},
		"database.user":               {"DB_USER"},
		"database.password":           {"DB_PASS"},
		"database.name":               {"DB_NAME"},
		"database.port":               {"DB_PORT"},
		"database.hosts":              {"DB_HOSTS", "DB_HOST"},
		"database.max_attempts":       {"DB_MAX_ATTEMPTS"},
		"auth.jwt_secret":             {"JWT_SECRET"},
		"auth.token_lifetime_minutes": {"JWT_EXPIRES_MIN"},
	}
	for key, envs := range bindings {
		if err := v.BindEnv(append([]string{key}, envs...)...); err != nil {
			return nil, fmt.Errorf("failed to bind environment variable for %s: %w", key, err)
		}
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:     v.GetInt("server.port"),
			LogLevel: v.GetString("server.log_level"),
		},
		Database: DatabaseConfig{
			User:        v.GetString("database.user"),
			Password:    v.GetString("database.password"),
			Name:        v.GetString("database.name"),
			Port:        v.GetInt("database.port"),
			Hosts:       splitHosts(v.GetString("database.hosts")),
			MaxAttempts: v.GetInt("database.max_attempts"),
		},
		Auth: AuthConfig{
			JWTSecret:            v.GetString("auth.jwt_secret"),
			TokenLifetimeMinutes: v.GetInt("auth.token_lifetime_minutes"),
		},
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// splitHosts parses a comma-separated host list, trimming whitespace and
// dropping empty entries.
func splitHosts(raw string) []string {
	var hosts []string
	for _, host := range strings.Split(raw, ",") {
		if host = strings.TrimSpace(host); host != "" {
			hosts = append(hosts, host)
		}
	}
	return hosts
}
