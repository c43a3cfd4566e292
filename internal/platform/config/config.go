package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Addr            string
	DatabaseURL     string
	TokenSecret     string
	Environment     string
	MigrationsDir   string
	RunMigrations   bool
	StatementDir    string
	MaxBodyBytes    int64
	RequestTimeout  time.Duration
	MetricsEnabled  bool
	SettleRetries   int
	DefaultCurrency string
}

func Load() Config {
	return Config{
		Addr:            getEnv("APP_ADDR", ":8080"),
		DatabaseURL:     getEnv("DATABASE_URL", ""),
		TokenSecret:     getEnv("TOKEN_SECRET", ""),
		Environment:     getEnv("APP_ENV", "development"),
		MigrationsDir:   getEnv("MIGRATIONS_DIR", "migrations"),
		RunMigrations:   getEnvBool("RUN_MIGRATIONS", true),
		StatementDir:    getEnv("STATEMENT_DIR", "storage/statements"),
		MaxBodyBytes:    int64(getEnvInt("MAX_BODY_BYTES", 1048576)),
		RequestTimeout:  getEnvDuration("REQUEST_TIMEOUT", 30*time.Second),
		MetricsEnabled:  getEnvBool("METRICS_ENABLED", true),
		SettleRetries:   getEnvInt("SETTLE_RETRIES", 3),
		DefaultCurrency: getEnv("DEFAULT_CURRENCY", "USD"),
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.DatabaseURL) == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.Environment == "production" && strings.TrimSpace(c.TokenSecret) == "" {
		return fmt.Errorf("TOKEN_SECRET must be set to a strong value in production")
	}
	if c.MaxBodyBytes < 1024 {
		return fmt.Errorf("MAX_BODY_BYTES must be at least 1024")
	}
	if c.SettleRetries < 1 {
		return fmt.Errorf("SETTLE_RETRIES must be positive")
	}
	return nil
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

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}
	parsed, err := time.ParseDuration(value)
	if err != nil {
		return fallback
	}
	return parsed
}
