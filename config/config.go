package config

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for all environment variables read by Load
const EnvPrefix = "RECIPEBASKET"

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	API       APIConfig
	RateLimit RateLimitConfig
	Log       LogConfig
}

// ServerConfig holds configuration of the basket HTTP facade
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// APIConfig holds recipe backend configuration
type APIConfig struct {
	BaseURL   string            `mapstructure:"base_url"`
	Timeout   time.Duration     `mapstructure:"timeout"`
	UserAgent string            `mapstructure:"user_agent"`
	Headers   map[string]string `mapstructure:"headers"`
	Debug     bool              `mapstructure:"debug"`
}

// RateLimitConfig holds rate limiting configuration.
// Zero disables the corresponding limiter.
type RateLimitConfig struct {
	PerIP         int     `mapstructure:"per_ip"`         // requests per minute per client IP
	OutboundRPS   float64 `mapstructure:"outbound_rps"`   // requests per second to the backend
	OutboundBurst int     `mapstructure:"outbound_burst"`
}

// LogConfig holds logger configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // "text" or "json"
}

// Load loads configuration from a .env file, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/recipe-basket/")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads variables from ./.env without overriding ones already set
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000", "http://localhost:5173"})

	// Recipe backend defaults
	v.SetDefault("api.base_url", "http://localhost:5000/api/")
	v.SetDefault("api.timeout", "60s") // generation calls an LLM behind the backend
	v.SetDefault("api.user_agent", "RecipeBasket/1.0")
	v.SetDefault("api.headers", map[string]string{})
	v.SetDefault("api.debug", false)

	// Rate limit defaults
	v.SetDefault("ratelimit.per_ip", 60)
	v.SetDefault("ratelimit.outbound_rps", 0)
	v.SetDefault("ratelimit.outbound_burst", 1)

	// Log defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

func validate(config *Config) error {
	u, err := url.Parse(config.API.BaseURL)
	if err != nil || u.Host == "" || (u.Scheme != "http" && u.Scheme != "https") {
		return fmt.Errorf("API base URL must be an absolute http(s) URL (set %s_API_BASE_URL), got: %q", EnvPrefix, config.API.BaseURL)
	}

	if config.API.Timeout < 0 {
		return fmt.Errorf("API timeout must not be negative, got: %s", config.API.Timeout)
	}

	if config.RateLimit.PerIP < 0 || config.RateLimit.OutboundRPS < 0 || config.RateLimit.OutboundBurst < 0 {
		return fmt.Errorf("rate limits must not be negative")
	}

	if _, err := logrus.ParseLevel(config.Log.Level); err != nil {
		return fmt.Errorf("invalid log level: %s", config.Log.Level)
	}

	if config.Log.Format != "text" && config.Log.Format != "json" {
		return fmt.Errorf("log format must be 'text' or 'json', got: %s", config.Log.Format)
	}

	return nil
}
