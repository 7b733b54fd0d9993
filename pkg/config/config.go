package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment names
const (
	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// Config holds all configuration for the application
type Config struct {
	App     AppConfig
	Storage StorageConfig
	Session SessionConfig
}

// AppConfig holds application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	// AdminSecret is the out-of-band super-admin secret checked by the
	// presentation layer before it calls AdminLogin.
	AdminSecret string `mapstructure:"admin_secret"`
}

// StorageConfig holds local storage configuration
type StorageConfig struct {
	// Path is the sqlite file backing the key-value store.
	// ":memory:" is accepted for throwaway runs.
	Path string `mapstructure:"path"`
	// DataKey is the well-known key the full dataset is persisted under.
	DataKey string `mapstructure:"data_key"`
}

// SessionConfig holds session token configuration
type SessionConfig struct {
	TokenSecret string        `mapstructure:"token_secret"`
	TokenExpiry time.Duration `mapstructure:"token_expiry"`
	Issuer      string        `mapstructure:"issuer"`
}

// Load loads configuration from environment and config files with
// development defaults applied.
func Load(appName string) (*Config, error) {
	return loadConfig(appName, true)
}

// LoadWithValidation loads configuration and validates it for the current
// environment. In production this fails fast on insecure secrets.
func LoadWithValidation(appName string) (*Config, error) {
	cfg, err := loadConfig(appName, true)
	if err != nil {
		return nil, err
	}

	if cfg.App.Environment == EnvProduction {
		if cfg.Session.TokenSecret == "" || cfg.Session.TokenSecret == "dev-secret-change-in-production" {
			return nil, errors.New("ZAVEORAH_SESSION_TOKEN_SECRET must be set to a secure value in production")
		}
		if cfg.App.AdminSecret == "" {
			return nil, errors.New("ZAVEORAH_APP_ADMIN_SECRET must be set in production")
		}
	}

	return cfg, nil
}

// loadConfig is the internal configuration loader
func loadConfig(appName string, applyDefaults bool) (*Config, error) {
	v := viper.New()

	if applyDefaults {
		setDefaults(v, appName)
	}

	v.SetEnvPrefix("ZAVEORAH")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/zaveorah")

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper, appName string) {
	v.SetDefault("app.name", appName)
	v.SetDefault("app.environment", EnvDevelopment)
	v.SetDefault("app.admin_secret", "")

	v.SetDefault("storage.path", "zaveorah.db")
	v.SetDefault("storage.data_key", "zaveorah_multibiz_data")

	v.SetDefault("session.token_secret", "dev-secret-change-in-production")
	v.SetDefault("session.token_expiry", 12*time.Hour)
	v.SetDefault("session.issuer", "zaveorah")
}
