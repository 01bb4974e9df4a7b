package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	Auth     AuthConfig     `mapstructure:"auth" validate:"required"`
	Payment  PaymentConfig  `mapstructure:"payment"`
	Engine   EngineConfig   `mapstructure:"engine"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
type DatabaseConfig struct {
	URL string `mapstructure:"url" validate:"required,url"`
}

// AuthConfig contains all authentication and authorization settings.
type AuthConfig struct {
	JWTSecret            string `mapstructure:"jwt_secret" validate:"required,min=32"`
	TokenLifetimeMinutes int    `mapstructure:"token_lifetime_minutes" validate:"required,gt=0"`
}

// PaymentConfig contains payment gateway settings. Optional: when the
// secret is empty the payment endpoints are disabled.
type PaymentConfig struct {
	KeyID     string `mapstructure:"key_id"`
	KeySecret string `mapstructure:"key_secret"`
}

// EngineConfig overrides the progress engine's default parameters.
// Zero values keep the defaults.
type EngineConfig struct {
	StabilityBoost      int `mapstructure:"stability_boost" validate:"omitempty,gt=0"`
	DecayPerDay         int `mapstructure:"decay_per_day" validate:"omitempty,gt=0"`
	LowIntensityDays    int `mapstructure:"low_intensity_days" validate:"omitempty,gt=0"`
	MediumIntensityDays int `mapstructure:"medium_intensity_days" validate:"omitempty,gt=0"`
	HighIntensityDays   int `mapstructure:"high_intensity_days" validate:"omitempty,gt=0"`
}
