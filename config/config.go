package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Catalog  CatalogConfig
	Cache    CacheConfig
	Recalc   RecalcConfig
	Gemini   GeminiConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	Matching MatchingConfig
	Pincodes PincodesConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port            string        `mapstructure:"port"`
	Environment     string        `mapstructure:"environment"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// DatabaseConfig selects the product store
type DatabaseConfig struct {
	Driver  string `mapstructure:"driver"` // "memory", "postgres" or "sqlite"
	DSN     string `mapstructure:"dsn"`
	Migrate bool   `mapstructure:"migrate"`
}

// CatalogConfig points at a product catalogue file to load at startup
type CatalogConfig struct {
	Path string `mapstructure:"path"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	Type          string        `mapstructure:"type"` // "memory" or "redis"
	RedisAddr     string        `mapstructure:"redis_addr"`
	RedisPassword string        `mapstructure:"redis_password"`
	RedisDB       int           `mapstructure:"redis_db"`
	TTL           time.Duration `mapstructure:"ttl"`
}

// RecalcConfig selects where recalculations run
type RecalcConfig struct {
	Mode           string        `mapstructure:"mode"` // "local" or "remote"
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	RequestsPerSec float64       `mapstructure:"requests_per_sec"`
}

// GeminiConfig holds the optional language model estimator settings
type GeminiConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
}

// KafkaConfig holds event publishing configuration
type KafkaConfig struct {
	Enabled bool     `mapstructure:"enabled"`
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

// TracingConfig holds OpenTelemetry configuration
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

// MatchingConfig selects the cart name matching strategy
type MatchingConfig struct {
	Strategy      string  `mapstructure:"strategy"` // "exact", "casefold" or "similarity"
	MinSimilarity float64 `mapstructure:"min_similarity"`
}

// PincodesConfig points at extra pincode coordinates
type PincodesConfig struct {
	Path string `mapstructure:"path"`
}

// Load loads configuration from .env, environment variables and config files
func Load() (*Config, error) {
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/carboncart/")

	// CARBONCART_SERVER_PORT -> server.port
	v.SetEnvPrefix("CARBONCART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	_ = v.BindEnv("gemini.api_key", "CARBONCART_GEMINI_API_KEY", "GEMINI_API_KEY")

	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
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

// loadEnvFile loads ./.env when present. Existing variables win.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	return godotenv.Load(".env")
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"chrome-extension://*"})
	v.SetDefault("server.shutdown_timeout", "10s")

	// Product store defaults
	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.migrate", true)
	v.SetDefault("catalog.path", "")

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.redis_addr", "")
	v.SetDefault("cache.redis_password", "")
	v.SetDefault("cache.redis_db", 0)
	v.SetDefault("cache.ttl", "5m")

	// Recalculation defaults
	v.SetDefault("recalc.mode", "local")
	v.SetDefault("recalc.base_url", "")
	v.SetDefault("recalc.timeout", "30s")
	v.SetDefault("recalc.requests_per_sec", 5)

	// Gemini defaults
	v.SetDefault("gemini.model", "gemini-1.5-flash")
	v.SetDefault("gemini.temperature", 0.2)

	// Kafka defaults
	v.SetDefault("kafka.enabled", false)
	v.SetDefault("kafka.brokers", []string{"localhost:9092"})
	v.SetDefault("kafka.topic", "cart-events")

	// Tracing defaults
	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "carboncart-backend")
	v.SetDefault("tracing.jaeger_endpoint", "http://localhost:14268/api/traces")

	// Matching defaults
	v.SetDefault("matching.strategy", "exact")
	v.SetDefault("matching.min_similarity", 0.5)

	v.SetDefault("pincodes.path", "")
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Server.Port == "" {
		return fmt.Errorf("server port is required")
	}

	switch config.Database.Driver {
	case "memory":
	case "postgres", "sqlite":
		if config.Database.DSN == "" {
			return fmt.Errorf("database DSN is required for driver '%s' (set CARBONCART_DATABASE_DSN)", config.Database.Driver)
		}
	default:
		return fmt.Errorf("database driver must be 'memory', 'postgres' or 'sqlite', got: %s", config.Database.Driver)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" {
		return fmt.Errorf("cache type must be 'memory' or 'redis', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.RedisAddr == "" {
		return fmt.Errorf("Redis address is required when cache type is 'redis'")
	}

	switch config.Recalc.Mode {
	case "local":
	case "remote":
		if config.Recalc.BaseURL == "" {
			return fmt.Errorf("recalc base URL is required when mode is 'remote'")
		}
	default:
		return fmt.Errorf("recalc mode must be 'local' or 'remote', got: %s", config.Recalc.Mode)
	}

	switch config.Matching.Strategy {
	case "exact", "casefold", "similarity":
	default:
		return fmt.Errorf("matching strategy must be 'exact', 'casefold' or 'similarity', got: %s", config.Matching.Strategy)
	}

	if config.Matching.MinSimilarity < 0 || config.Matching.MinSimilarity > 1 {
		return fmt.Errorf("matching min_similarity must be between 0 and 1, got: %v", config.Matching.MinSimilarity)
	}

	if config.Kafka.Enabled && (len(config.Kafka.Brokers) == 0 || config.Kafka.Topic == "") {
		return fmt.Errorf("kafka brokers and topic are required when kafka is enabled")
	}

	return nil
}
