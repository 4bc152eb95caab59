package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Storage  StorageConfig  `mapstructure:"storage" validate:"required"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
	// ShareBaseURL, when set, is prefixed to album codes to build the
	// shareable links returned by the API.
	ShareBaseURL string `mapstructure:"share_base_url" validate:"omitempty,url"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret string `mapstructure:"jwt_secret" validate:"required,min=32"`
	// Token lifetimes are expressed in minutes.
	TokenLifetimeMinutes        int `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
	RefreshTokenLifetimeMinutes int `mapstructure:"refresh_token_lifetime_minutes" validate:"required,gt=0"`
}

// StorageConfig contains settings for the Supabase Storage collaborator
// used to issue signed upload URLs for memory files.
type StorageConfig struct {
	SupabaseURL    string `mapstructure:"supabase_url" validate:"required,url"`
	ServiceRoleKey string `mapstructure:"service_role_key" validate:"required"`
	Bucket         string `mapstructure:"bucket" validate:"required"`
	// SignedURLExpirySeconds controls how long issued upload URLs stay valid.
	SignedURLExpirySeconds int `mapstructure:"signed_url_expiry_seconds" validate:"required,gt=0"`
}
