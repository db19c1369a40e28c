package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth"     validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Hosts is the ordered failover list: connection selection walks it from the
// first entry and adopts the first host that answers a liveness probe.
type DatabaseConfig struct {
	User     string   `mapstructure:"user"     validate:"required"`
	Password string   `mapstructure:"password" validate:"required"`
	Name     string   `mapstructure:"name"     validate:"required"`
	Port     int      `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	Hosts    []string `mapstructure:"hosts"    validate:"required,min=1,dive,required"`

	// MaxAttempts bounds the number of full passes over the host list
	// before engine selection gives up.
	MaxAttempts int `mapstructure:"max_attempts" validate:"required,gt=0"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret"             validate:"required"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}
