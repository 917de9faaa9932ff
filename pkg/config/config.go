package config

import (
	"log"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	EnableDBCheck bool

	// ReviewThreshold is the classification confidence below which imported
	// transactions are routed to human review instead of auto-posting.
	ReviewThreshold float64

	// ImportRateLimit is an ulule/limiter formatted rate ("20-M" = 20/minute)
	// applied to the statement import route.
	ImportRateLimit string

	// CORSAllowedOrigins lists the origins the dashboard frontend runs on.
	CORSAllowedOrigins []string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("REVIEW_THRESHOLD", 0.8)
	viper.SetDefault("IMPORT_RATE_LIMIT", "20-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:3000")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")

	cfg.ReviewThreshold = viper.GetFloat64("REVIEW_THRESHOLD")
	if cfg.ReviewThreshold < 0 || cfg.ReviewThreshold > 1 {
		log.Printf("Warning: REVIEW_THRESHOLD %.2f outside [0,1]. Defaulting to 0.8.\n", cfg.ReviewThreshold)
		cfg.ReviewThreshold = 0.8
	}

	cfg.ImportRateLimit = viper.GetString("IMPORT_RATE_LIMIT")
	cfg.CORSAllowedOrigins = viper.GetStringSlice("CORS_ALLOWED_ORIGINS")

	return cfg, nil
}
