package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all application configuration
type Config struct {
	// Server configuration
	Port string

	// Logging
	LogLevel  string
	LogPretty bool

	// Datastore configuration
	DatastoreType string // "mysql" or "sqlite"
	MySQLDSN      string // user:password@tcp(host:port)/dbname
	SQLitePath    string // file path or ":memory:"
	StoreTable    string // table holding the store rows
	AutoMigrate   bool   // create the store table on startup

	// Geocoding
	GeocoderURL     string
	GeocoderTimeout time.Duration

	// Proximity search defaults for the HTTP API
	SearchMaxDistance float64 // miles
	SearchLimit       int

	// Rate limiting
	RateLimitType   string // "memory" or "redis"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// Redis configuration (rate limiter)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// Load .env file if it exists (for local development)
	// In production/Docker, environment variables are set directly
	err := godotenv.Load()
	if err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return FromEnv()
}

// FromEnv builds the configuration from the current environment only
func FromEnv() *Config {
	return &Config{
		Port: getEnv("PORT", "3000"),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		DatastoreType: strings.ToLower(getEnv("DATASTORE_TYPE", "mysql")),
		MySQLDSN:      getEnv("MYSQL_DSN", ""),
		SQLitePath:    getEnv("SQLITE_PATH", "./data/stores.db"),
		StoreTable:    getEnv("STORE_TABLE", "stores"),
		AutoMigrate:   getEnvAsBool("AUTO_MIGRATE", false),

		GeocoderURL:     getEnv("GEOCODER_URL", "https://api.postcodes.io"),
		GeocoderTimeout: time.Duration(getEnvAsInt("GEOCODER_TIMEOUT", 5)) * time.Second,

		SearchMaxDistance: getEnvAsFloat("SEARCH_MAX_DISTANCE", 50),
		SearchLimit:       getEnvAsInt("SEARCH_LIMIT", 5),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 10),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsFloat reads an environment variable as a float64
// Returns default if not set or invalid
func getEnvAsFloat(key string, defaultValue float64) float64 {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return defaultValue
	}

	return value
}

// getEnvAsBool reads an environment variable as a bool (1/0, true/false, ...)
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}

	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}

	return value
}
