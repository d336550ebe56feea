package config

import (
	"os"
	"strconv"
	"strings"
)

// Config holds runtime configuration loaded from the environment
type Config struct {
	Host           string
	Port           string
	DatabaseURL    string
	AllowedOrigins []string
	APIKey         string
	RequireAPIKey  bool
	RateLimit      float64
	SMTP           SMTPConfig
}

// SMTPConfig holds the outbound email configuration
type SMTPConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

// Load reads configuration from environment variables
func Load() *Config {
	origins := getEnvOrDefault("ALLOWED_ORIGINS", "http://localhost:3000")

	return &Config{
		Host:           getEnvOrDefault("HOST", "0.0.0.0"),
		Port:           getEnvOrDefault("PORT", "8080"),
		DatabaseURL:    os.Getenv("DATABASE_URL"),
		AllowedOrigins: strings.Split(origins, ","),
		APIKey:         os.Getenv("API_KEY"),
		RequireAPIKey:  getEnvOrDefault("REQUIRE_API_KEY", "false") == "true",
		RateLimit:      getEnvFloat("RATE_LIMIT_PER_SECOND", 10),
		SMTP: SMTPConfig{
			Host:     os.Getenv("SMTP_HOST"),
			Port:     getEnvOrDefault("SMTP_PORT", "587"),
			Username: os.Getenv("SMTP_USERNAME"),
			Password: os.Getenv("SMTP_PASSWORD"),
			From:     getEnvOrDefault("SMTP_FROM", "pricetrack@example.com"),
			Enabled:  getEnvOrDefault("SMTP_ENABLED", "false") == "true",
		},
	}
}

// Addr returns the host:port pair for the SMTP server
func (c *SMTPConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// getEnvOrDefault gets environment variable or returns default value
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvFloat gets a float environment variable or returns default value
func getEnvFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil {
			return parsed
		}
	}
	return defaultValue
}
