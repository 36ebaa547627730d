package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Application
	AppName  string
	AppEnv   string
	AppPort  string
	LogLevel string

	// Upload
	UploadMaxSize int

	// Report
	PreviewRows   int
	RulesParallel bool

	// Snapshot
	SnapshotTTL time.Duration

	// Redis
	RedisEnabled  bool
	RedisHost     string
	RedisPort     string
	RedisPassword string
	RedisDB       int
}

func Load() (*Config, error) {
	// Load .env file if exists
	_ = godotenv.Load()
	_ = godotenv.Load("../../.env") // For when running from cmd/web

	cfg := &Config{
		AppName:  getEnv("APP_NAME", "Data Health Check Tool"),
		AppEnv:   getEnv("APP_ENV", "development"),
		AppPort:  getEnv("APP_PORT", "8080"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		UploadMaxSize: getEnvAsInt("UPLOAD_MAX_SIZE", 52428800), // 50MB

		PreviewRows:   getEnvAsInt("PREVIEW_ROWS", 100),
		RulesParallel: getEnvAsBool("RULES_PARALLEL", false),

		SnapshotTTL: getEnvAsDuration("SNAPSHOT_TTL", 30*time.Minute),

		RedisEnabled:  getEnvAsBool("REDIS_ENABLED", false),
		RedisHost:     getEnv("REDIS_HOST", "127.0.0.1"),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}

	if cfg.UploadMaxSize <= 0 {
		return nil, fmt.Errorf("UPLOAD_MAX_SIZE must be positive, got %d", cfg.UploadMaxSize)
	}
	if cfg.PreviewRows <= 0 {
		return nil, fmt.Errorf("PREVIEW_ROWS must be positive, got %d", cfg.PreviewRows)
	}
	if cfg.SnapshotTTL <= 0 {
		return nil, fmt.Errorf("SNAPSHOT_TTL must be positive, got %s", cfg.SnapshotTTL)
	}

	return cfg, nil
}

func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}

func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
