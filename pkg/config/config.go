package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// Recurrence generation runner
	GenerationCheckInterval time.Duration
	GenerationConcurrency   int

	// Upper bound for any single storage round trip
	StorageTimeout time.Duration

	// Requests per minute per client IP
	RateLimitPerMinute int
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "1h")
	viper.SetDefault("JWT_ISSUER", "finman-backend")
	viper.SetDefault("GENERATION_CHECK_INTERVAL", "1h")
	viper.SetDefault("GENERATION_CONCURRENCY", 4)
	viper.SetDefault("STORAGE_TIMEOUT", "5s")
	viper.SetDefault("RATE_LIMIT_PER_MINUTE", 100)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "a-very-secret-key-should-be-longer-and-random" {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}
	cfg.JWTExpiryDuration = parseDurationOr("JWT_EXPIRY_DURATION", time.Hour)
	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")

	cfg.GenerationCheckInterval = parseDurationOr("GENERATION_CHECK_INTERVAL", time.Hour)
	cfg.GenerationConcurrency = viper.GetInt("GENERATION_CONCURRENCY")
	if cfg.GenerationConcurrency < 1 {
		log.Printf("Warning: Invalid GENERATION_CONCURRENCY (%d). Defaulting to 4.\n", cfg.GenerationConcurrency)
		cfg.GenerationConcurrency = 4
	}

	cfg.StorageTimeout = parseDurationOr("STORAGE_TIMEOUT", 5*time.Second)

	cfg.RateLimitPerMinute = viper.GetInt("RATE_LIMIT_PER_MINUTE")
	if cfg.RateLimitPerMinute < 1 {
		cfg.RateLimitPerMinute = 100
	}

	return cfg, nil
}

func parseDurationOr(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback)
		return fallback
	}
	return d
}
