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
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
//
// The JWT secret signs short-lived access tokens only. Refresh tokens are
// opaque random handles persisted server-side; they carry no signed payload,
// so no key material is involved in their lifetime setting.
type AuthConfig struct {
	JWTSecret                string `mapstructure:"jwt_secret"                  validate:"required,min=32"`
	AccessTokenLifetimeMin   int    `mapstructure:"access_token_lifetime_min"   validate:"required,gt=0,lte=60"`
	RefreshTokenLifetimeDays int    `mapstructure:"refresh_token_lifetime_days" validate:"required,gt=0"`
}
