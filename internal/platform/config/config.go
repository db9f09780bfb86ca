package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

type Config struct {
	Addr             string
	DatabaseURL      string
	JWTSecret        string
	Environment      string
	LogLevel         string
	StorageDir       string
	AnalyticsBaseURL string
	AnalyticsToken   string
	SeedAdminEmail   string
	SeedAdminPass    string
	RunMigrations    bool
	RunSeed          bool
	MaxBodyBytes     int64
	MetricsEnabled   bool
}

func Load() Config {
	return Config{
		Addr:             getEnv("APP_ADDR", ":8080"),
		DatabaseURL:      getEnv("DATABASE_URL", ""),
		JWTSecret:        getEnv("JWT_SECRET", ""),
		Environment:      getEnv("APP_ENV", "development"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		StorageDir:       getEnv("STORAGE_DIR", "storage/attachments"),
		AnalyticsBaseURL: getEnv("ANALYTICS_BASE_URL", ""),
		AnalyticsToken:   getEnv("ANALYTICS_TOKEN", ""),
		SeedAdminEmail:   getEnv("SEED_ADMIN_EMAIL", ""),
		SeedAdminPass:    getEnv("SEED_ADMIN_PASSWORD", ""),
		RunMigrations:    getEnvBool("RUN_MIGRATIONS", true),
		RunSeed:          getEnvBool("RUN_SEED", true),
		MaxBodyBytes:     int64(getEnvInt("MAX_BODY_BYTES", 11<<20)),
		MetricsEnabled:   getEnvBool("METRICS_ENABLED", true),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return fallback
	}
	return parsed
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" {
		if strings.TrimSpace(c.JWTSecret) == "" {
			return fmt.Errorf("JWT_SECRET must be set to a strong value in production")
		}
		if c.RunSeed && strings.TrimSpace(c.SeedAdminPass) == "" {
			return fmt.Errorf("SEED_ADMIN_PASSWORD must be changed or RUN_SEED disabled in production")
		}
	}
	// The body limit must leave room for the 10 MB attachment ceiling
	// plus multipart framing.
	if c.MaxBodyBytes < 10<<20 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least %d", 10<<20)
	}
	return nil
}
