package config

import (
	"errors"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/handin-dev/handin-backend/internal/logger"
)

var (
	customLog = logger.NewLogger()
)

// Signing algorithms the token layer accepts. Only the HMAC family is
// supported because the service signs and verifies with a single shared
// secret.
var supportedAlgorithms = map[string]bool{
	"HS256": true,
	"HS384": true,
	"HS512": true,
}

// Config holds application configuration values
type Config struct {
	ServerPort    string
	AppEnv        string
	MongoHost     string
	MongoPort     string
	MongoUsername string
	MongoPassword string
	MongoDB       string
	JWTSecret     string
	JWTAlgorithm  string
	JWTExpiration time.Duration
}

// LoadConfig loads configuration from environment variables.
// It uses a .env file for local development if present (ignores it for production).
func LoadConfig() (*Config, error) {
	customLog.Println("Loading configuration from environment variables...")

	// Attempt to load .env file if in development environment (skip in production)
	if os.Getenv("APP_ENV") != "production" {
		if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
			customLog.Warnf("Warning: Error loading .env file: %v", err)
		}
	}

	// Required settings. All of them must be present and non-empty; missing
	// ones are collected so the operator sees the full list at once instead
	// of fixing them one restart at a time.
	required := map[string]string{
		"MONGO_DB":                    "",
		"MONGO_USERNAME":              "",
		"MONGO_PASSWORD":              "",
		"SECRET_KEY":                  "",
		"ALGORITHM":                   "",
		"ACCESS_TOKEN_EXPIRE_MINUTES": "",
	}
	var missing []string
	for key := range required {
		value := os.Getenv(key)
		if value == "" {
			missing = append(missing, key)
			continue
		}
		required[key] = value
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}

	// Optional settings with sane defaults for local development.
	cfg := &Config{
		ServerPort:    getEnv("SERVER_PORT", "8000"),
		AppEnv:        getEnv("APP_ENV", "development"),
		MongoHost:     getEnv("MONGO_HOST", "localhost"),
		MongoPort:     getEnv("MONGO_PORT", "27017"),
		MongoUsername: required["MONGO_USERNAME"],
		MongoPassword: required["MONGO_PASSWORD"],
		MongoDB:       required["MONGO_DB"],
		JWTSecret:     required["SECRET_KEY"],
		JWTAlgorithm:  strings.ToUpper(required["ALGORITHM"]),
	}

	if cfg.JWTSecret == "!!replace_this_with_a_real_secret_key!!" {
		customLog.Warnln("WARNING: SECRET_KEY is set to the default placeholder!")
	}

	if !supportedAlgorithms[cfg.JWTAlgorithm] {
		return nil, fmt.Errorf("unsupported ALGORITHM %q: must be one of HS256, HS384, HS512", required["ALGORITHM"])
	}

	expireMinutes, err := strconv.Atoi(required["ACCESS_TOKEN_EXPIRE_MINUTES"])
	if err != nil || expireMinutes <= 0 {
		return nil, fmt.Errorf("invalid ACCESS_TOKEN_EXPIRE_MINUTES %q: must be a positive integer", required["ACCESS_TOKEN_EXPIRE_MINUTES"])
	}
	cfg.JWTExpiration = time.Duration(expireMinutes) * time.Minute

	customLog.Printf("Configuration loaded successfully. Port: %s, Mongo: %s:%s/%s, Token Exp: %v",
		cfg.ServerPort, cfg.MongoHost, cfg.MongoPort, cfg.MongoDB, cfg.JWTExpiration)
	return cfg, nil
}

// MongoURI builds the connection string for the configured MongoDB host.
// Credentials are passed separately via driver options so they never need
// URL escaping here.
func (c *Config) MongoURI() string {
	return fmt.Sprintf("mongodb://%s:%s", c.MongoHost, c.MongoPort)
}

// getEnv reads an environment variable or returns a default value.
func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return fallback
}
