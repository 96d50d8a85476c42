// Package config materializes process configuration from environment
// variables at startup. Services receive a Config at construction instead of
// reading the environment themselves.
package config

import (
	"os"
	"strings"
	"time"
)

// Config holds runtime settings for the LibertyEngine backend.
//
// SecretKey signs both access and refresh tokens; rotating it invalidates
// every outstanding token.
type Config struct {
	DatabaseURL     string
	Port            string
	SecretKey       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	FrontendURL     string
	ConfirmBaseURL  string
	ResendAPIKey    string
	MailFrom        string
	AllowedOrigins  []string
}

// Load reads configuration from the environment, applying development
// defaults for anything unset. Call godotenv.Load before this in main.
func Load() *Config {
	cfg := &Config{
		DatabaseURL:     os.Getenv("DATABASE_URL"),
		Port:            getenv("PORT", "3001"),
		SecretKey:       getenv("SECRET_KEY", "@@ secret base @@"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),
		FrontendURL:     getenv("FRONTEND_URL", "http://localhost:8080"),
		ConfirmBaseURL:  getenv("MAIL_CONFIRM_BASE_URL", "http://localhost:3001"),
		ResendAPIKey:    os.Getenv("RESEND_API_KEY"),
		MailFrom:        getenv("MAIL_FROM", "noreply@localhost"),
	}

	origins := getenv("ALLOWED_ORIGINS", cfg.FrontendURL)
	for _, o := range strings.Split(origins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
		}
	}

	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return fallback
	}
	return d
}
