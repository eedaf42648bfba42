// Package config provides configuration management for the application.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds all configuration values for the application.
type Config struct {
	// Server
	ServerAddress string

	// AWS
	AWSRegion      string
	SnapshotBucket string

	// Database
	DBHost     string
	DBPort     int
	DBName     string
	DBUser     string
	DBPassword string

	// Projection defaults
	DefaultHorizonMonths  int
	MaxHorizonMonths      int
	SellingCostPercent    float64
	DSCRStrongThreshold   float64
	DSCRAdequateThreshold float64

	// Application
	Stage    string
	LogLevel string
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	// Load .env file if it exists (for local development)
	_ = godotenv.Load()

	cfg := &Config{
		// Server
		ServerAddress: getEnv("SERVER_ADDRESS", ":8080"),

		// AWS
		AWSRegion:      getEnv("AWS_REGION", "me-central-1"),
		SnapshotBucket: getEnv("SNAPSHOT_BUCKET", "investment-quote-snapshots-dev"),

		// Database
		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnvInt("DB_PORT", 5432),
		DBName:     getEnv("DB_NAME", "investment_projections"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: getEnv("DB_PASSWORD", ""),

		// Projection defaults
		DefaultHorizonMonths:  getEnvInt("DEFAULT_HORIZON_MONTHS", 120),
		MaxHorizonMonths:      getEnvInt("MAX_HORIZON_MONTHS", 360),
		SellingCostPercent:    getEnvFloat("SELLING_COST_PERCENT", 0),
		DSCRStrongThreshold:   getEnvFloat("DSCR_STRONG_THRESHOLD", 1.20),
		DSCRAdequateThreshold: getEnvFloat("DSCR_ADEQUATE_THRESHOLD", 1.00),

		// Application
		Stage:    getEnv("STAGE", "dev"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string.
func (c *Config) DatabaseURL() string {
	sslMode := "require" // Use SSL for RDS
	if c.DBHost == "localhost" || c.DBHost == "127.0.0.1" {
		sslMode = "disable" // Disable SSL for local development
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + strconv.Itoa(c.DBPort) + "/" + c.DBName + "?sslmode=" + sslMode
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvInt retrieves an environment variable as int or returns a default value.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvFloat retrieves an environment variable as float64 or returns a default value.
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatVal, err := strconv.ParseFloat(value, 64); err == nil {
			return floatVal
		}
	}
	return defaultValue
}
