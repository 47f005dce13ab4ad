// Package config handles configuration loading for the task service.
package config

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// minSecretLength is the shortest accepted HS256 signing secret.
const minSecretLength = 32

// Config holds all configuration for the task service.
type Config struct {
	DBHost         string
	DBPort         string
	DBUser         string
	DBPassword     string
	DBName         string
	DBSSLMode      string
	RedisHost      string
	RedisPort      string
	RedisPassword  string
	SessionSecret  string
	SessionExpiry  time.Duration
	Port           string
	Environment    string
	LogLevel       string
	AllowedOrigins []string
	SwaggerHost    string
	Cookie         CookieConfig
	AutoMigrate    bool
	Admin          AdminConfig
}

// CookieConfig controls the attributes of the session cookie.
type CookieConfig struct {
	Path     string
	Domain   string
	Secure   bool
	SameSite http.SameSite
}

// AdminConfig describes an administrator bootstrapped at startup.
type AdminConfig struct {
	Name     string
	Email    string
	Password string
}

// Enabled reports whether all admin bootstrap fields are set.
func (a AdminConfig) Enabled() bool {
	return a.Name != "" && a.Email != "" && a.Password != ""
}

// Load reads configuration from a .env file, if present, and environment variables.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var missing []string
	required := func(key string) string {
		v := os.Getenv(key)
		if v == "" {
			missing = append(missing, key)
		}
		return v
	}

	cfg := &Config{
		DBHost:         required("DB_HOST"),
		DBPort:         required("DB_PORT"),
		DBUser:         required("DB_USER"),
		DBPassword:     required("DB_PASSWORD"),
		DBName:         required("DB_NAME"),
		DBSSLMode:      getEnv("DB_SSLMODE", "disable"),
		RedisHost:      required("REDIS_HOST"),
		RedisPort:      required("REDIS_PORT"),
		RedisPassword:  getEnv("REDIS_PASSWORD", ""),
		SessionSecret:  required("SESSION_SECRET"),
		SessionExpiry:  parseDuration(getEnv("SESSION_EXPIRY", "24h"), 24*time.Hour),
		Port:           getEnv("PORT", "8080"),
		Environment:    getEnv("ENVIRONMENT", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		AllowedOrigins: splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:8080")),
		SwaggerHost:    getEnv("SWAGGER_HOST", ""),
		Cookie: CookieConfig{
			Path:     "/",
			Domain:   getEnv("COOKIE_DOMAIN", ""),
			Secure:   parseBool(getEnv("COOKIE_SECURE", "false"), false),
			SameSite: parseSameSite(getEnv("COOKIE_SAMESITE", "lax")),
		},
		AutoMigrate: parseBool(getEnv("AUTO_MIGRATE", "true"), true),
		Admin: AdminConfig{
			Name:     getEnv("ADMIN_NAME", ""),
			Email:    getEnv("ADMIN_EMAIL", ""),
			Password: getEnv("ADMIN_PASSWORD", ""),
		},
	}

	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %s", strings.Join(missing, ", "))
	}
	if len(cfg.SessionSecret) < minSecretLength {
		return nil, errors.New("SESSION_SECRET must be at least 32 bytes")
	}
	return cfg, nil
}

// IsProduction reports whether the service runs in production.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

func getEnv(key, defaultValue string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultValue
}

func parseDuration(value string, defaultValue time.Duration) time.Duration {
	duration, err := time.ParseDuration(value)
	if err != nil {
		return defaultValue
	}
	return duration
}

func parseBool(value string, defaultValue bool) bool {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return defaultValue
	}
	return b
}

func parseSameSite(value string) http.SameSite {
	switch strings.ToLower(value) {
	case "none":
		return http.SameSiteNoneMode
	case "strict":
		return http.SameSiteStrictMode
	default:
		return http.SameSiteLaxMode
	}
}

func splitList(value string) []string {
	var out []string
	for _, p := range strings.Split(value, ",") {
		if s := strings.TrimRight(strings.TrimSpace(p), "/"); s != "" {
			out = append(out, s)
		}
	}
	return out
}
