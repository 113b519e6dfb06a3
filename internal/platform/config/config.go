package config

import (
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL   string
	Port          string
	IsProduction  bool
	PricebookPath string

	// Discount engine client
	DiscountBaseURL        string
	DiscountConnectTimeout time.Duration
	DiscountReadTimeout    time.Duration
	DiscountEnabled        bool

	// Virtual journal
	JournalPath      string
	VJServerHost     string
	VJServerPort     int
	VJConnectTimeout time.Duration
	VJReadTimeout    time.Duration
	VJRetryAttempts  int
	VJRetryDelay     time.Duration
	VJEnabled        bool
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("PRICEBOOK_PATH", "")
	viper.SetDefault("DISCOUNT_BASE_URL", "http://localhost:8081")
	viper.SetDefault("DISCOUNT_CONNECT_TIMEOUT", "2s")
	viper.SetDefault("DISCOUNT_READ_TIMEOUT", "5s")
	viper.SetDefault("DISCOUNT_ENABLED", true)
	viper.SetDefault("JOURNAL_PATH", "register_journal.txt")
	viper.SetDefault("VJ_SERVER_HOST", "localhost")
	viper.SetDefault("VJ_SERVER_PORT", 9090)
	viper.SetDefault("VJ_CONNECT_TIMEOUT", "3s")
	viper.SetDefault("VJ_READ_TIMEOUT", "5s")
	viper.SetDefault("VJ_RETRY_ATTEMPTS", 3)
	viper.SetDefault("VJ_RETRY_DELAY", "1s")
	viper.SetDefault("VJ_ENABLED", true)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.PricebookPath = viper.GetString("PRICEBOOK_PATH")

	cfg.DiscountBaseURL = viper.GetString("DISCOUNT_BASE_URL")
	cfg.DiscountConnectTimeout = parseDuration("DISCOUNT_CONNECT_TIMEOUT", 2*time.Second)
	cfg.DiscountReadTimeout = parseDuration("DISCOUNT_READ_TIMEOUT", 5*time.Second)
	cfg.DiscountEnabled = viper.GetBool("DISCOUNT_ENABLED")

	cfg.JournalPath = viper.GetString("JOURNAL_PATH")
	cfg.VJServerHost = viper.GetString("VJ_SERVER_HOST")
	cfg.VJServerPort = viper.GetInt("VJ_SERVER_PORT")
	cfg.VJConnectTimeout = parseDuration("VJ_CONNECT_TIMEOUT", 3*time.Second)
	cfg.VJReadTimeout = parseDuration("VJ_READ_TIMEOUT", 5*time.Second)
	cfg.VJRetryAttempts = viper.GetInt("VJ_RETRY_ATTEMPTS")
	cfg.VJRetryDelay = parseDuration("VJ_RETRY_DELAY", time.Second)
	cfg.VJEnabled = viper.GetBool("VJ_ENABLED")

	return cfg, nil
}

// parseDuration reads a duration key, falling back to a default on bad input.
func parseDuration(key string, fallback time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, fallback.String())
		}
		return fallback
	}
	return d
}
