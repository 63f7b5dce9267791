package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote catalog API
	CatalogBaseURL string

	// Image resolution
	AssetHost        string
	PlaceholderImage string

	// Cart persistence
	StorageURL string
	CartKey    string
	CartTTL    time.Duration

	// Widget scope
	DealerScope []string

	// API Configuration
	APIPort string
	APIHost string

	// CORS
	AllowedOrigins []string

	// Kafka (catalog refresh, optional)
	KafkaBrokers string
	CatalogTopic string

	// Environment
	Env      string
	LogLevel string
}

func Load() (*Config, error) {
	// Load .env file
	godotenv.Load()

	return &Config{
		CatalogBaseURL:   getEnv("CATALOG_BASE_URL", "https://test-frontend.dev.int.perx.ru/api"),
		AssetHost:        getEnv("ASSET_HOST", "https://test-frontend.dev.int.perx.ru"),
		PlaceholderImage: getEnv("PLACEHOLDER_IMAGE", "https://via.placeholder.com/400x300?text=No+Image"),
		StorageURL:       getEnv("STORAGE_URL", "sqlite://widget.db"),
		CartKey:          getEnv("CART_KEY", ""),
		CartTTL:          getEnvAsDuration("CART_TTL", 10*time.Minute),
		DealerScope:      getEnvAsList("DEALER_SCOPE"),
		APIPort:          getEnv("API_PORT", "8080"),
		APIHost:          getEnv("API_HOST", "0.0.0.0"),
		AllowedOrigins:   getEnvAsList("ALLOWED_ORIGINS"),
		KafkaBrokers:     getEnv("KAFKA_BROKERS", ""),
		CatalogTopic:     getEnv("CATALOG_TOPIC", "catalog-events"),
		Env:              getEnv("ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}

// getEnvAsList splits a comma-separated value, dropping empty entries.
func getEnvAsList(key string) []string {
	value := os.Getenv(key)
	if value == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
