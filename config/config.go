// Package config loads and validates application configuration from
// environment variables. Loading collects every problem it finds and reports
// them together, so a misconfigured deployment fails once with a full list
// instead of one variable at a time.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// PoolConfig holds the settings for the PostgreSQL connection pool.
type PoolConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	MaxSize  int
}

// AuthConfig holds session-token settings. SessionTTL bounds both the JWT
// expiry and the session cookie's MaxAge.
type AuthConfig struct {
	Secret     string
	SessionTTL time.Duration
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port string
}

// AppConfig is the top-level configuration for the application.
type AppConfig struct {
	DB     *PoolConfig
	Auth   *AuthConfig
	Server *ServerConfig
}

func getRequiredEnv(key string, errs *[]string) string {
	value, exists := os.LookupEnv(key)
	if !exists {
		*errs = append(*errs, fmt.Sprintf("missing required environment variable: %s", key))
		return ""
	}
	return value
}

func getOptionalEnv(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getOptionalEnvInt(key string, defaultValue int, errs *[]string) int {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueInt, err := strconv.Atoi(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected integer, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueInt
}

func getOptionalEnvDuration(key string, defaultValue time.Duration, errs *[]string) time.Duration {
	valueStr, exists := os.LookupEnv(key)
	if !exists {
		return defaultValue
	}
	valueDuration, err := time.ParseDuration(valueStr)
	if err != nil {
		*errs = append(*errs, fmt.Sprintf("invalid value for %s: expected duration string, got %q: %v", key, valueStr, err))
		return defaultValue
	}
	return valueDuration
}

// clampPoolSize keeps the pool size within bounds the database can serve.
func clampPoolSize(size int, varName string, errs *[]string) int {
	if size < 2 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is less than minimum 2, clamping to 2", varName, size))
		return 2
	}
	if size > 100 {
		*errs = append(*errs, fmt.Sprintf("pool size for %s (%d) is greater than maximum 100, clamping to 100", varName, size))
		return 100
	}
	return size
}

// LoadConfig reads the environment and returns a validated AppConfig.
// All problems found are aggregated into a single error.
func LoadConfig() (*AppConfig, error) {
	var errs []string

	dbUser := getRequiredEnv("DB_USER", &errs)
	dbPassword := getRequiredEnv("DB_PASSWORD", &errs)
	dbName := getRequiredEnv("DB_NAME", &errs)
	dbHost := getOptionalEnv("DB_HOST", "localhost")
	dbPort := getOptionalEnvInt("DB_PORT", 5432, &errs)
	poolSize := clampPoolSize(getOptionalEnvInt("DB_POOL_SIZE", 10, &errs), "DB_POOL_SIZE", &errs)

	db := &PoolConfig{
		Host:     dbHost,
		Port:     dbPort,
		User:     dbUser,
		Password: dbPassword,
		DBName:   dbName,
		MaxSize:  poolSize,
	}

	// The session token secret must come from the environment; there is no
	// usable default for a signing key.
	secret := getRequiredEnv("APP_SECRET", &errs)
	sessionTTL := getOptionalEnvDuration("SESSION_TTL", 24*time.Hour, &errs)

	auth := &AuthConfig{
		Secret:     secret,
		SessionTTL: sessionTTL,
	}

	server := &ServerConfig{
		Port: getOptionalEnv("PORT", "8080"),
	}

	if len(errs) > 0 {
		return nil, fmt.Errorf("configuration errors:\n- %s", strings.Join(errs, "\n- "))
	}

	return &AppConfig{
		DB:     db,
		Auth:   auth,
		Server: server,
	}, nil
}
