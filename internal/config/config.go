package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

const defaultJWTSecret = "your-secret-key-change-in-production"

// Config chứa toàn bộ application configuration, populate từ environment variables
type Config struct {
	App      AppConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Queue    QueueConfig
	Category CategoryConfig
	MinIO    MinIOConfig
	Snapshot SnapshotConfig
}

type AppConfig struct {
	Name        string
	Environment string // development, staging, production
	Port        string
	Version     string
	// Chạy goose migration khi API khởi động
	AutoMigrate bool
}

type RedisConfig struct {
	Host     string
	Password string
	DB       int
	// false: dùng cache in-memory
	Enabled bool
}

type JWTConfig struct {
	Secret string
	// TTL của token do cmd/admintoken phát hành
	TokenTTL time.Duration
}

type QueueConfig struct {
	// false: event chỉ được log, không enqueue
	Enabled     bool
	Concurrency int
}

type CategoryConfig struct {
	MaxDepth     int
	TreeCacheTTL time.Duration
	TxTimeout    time.Duration
}

type MinIOConfig struct {
	Endpoint  string // localhost:9000
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// SnapshotConfig: worker định kỳ export cây category ra xlsx và lưu lên MinIO
type SnapshotConfig struct {
	Enabled   bool
	Cron      string // cron 5 trường, giờ UTC
	Scope     string // active | inactive | live | all
	Retention int    // số bản giữ lại mỗi scope
}

func Load() (*Config, error) {
	cfg := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Catalog API"),
			Environment: getEnv("APP_ENV", "development"),
			Port:        getEnv("APP_PORT", "8080"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			AutoMigrate: getEnvBool("DB_AUTO_MIGRATE", true),
		},
		Redis: RedisConfig{
			Host:     getEnv("REDIS_HOST", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvInt("REDIS_DB", 0),
			Enabled:  getEnvBool("REDIS_ENABLED", true),
		},
		JWT: JWTConfig{
			Secret:   getEnv("JWT_SECRET", defaultJWTSecret),
			TokenTTL: getEnvDuration("JWT_TOKEN_TTL", 24*time.Hour),
		},
		Queue: QueueConfig{
			Enabled:     getEnvBool("QUEUE_ENABLED", true),
			Concurrency: getEnvInt("QUEUE_CONCURRENCY", 10),
		},
		Category: CategoryConfig{
			MaxDepth:     getEnvInt("CATEGORY_MAX_DEPTH", 3),
			TreeCacheTTL: getEnvDuration("CATEGORY_TREE_CACHE_TTL", 10*time.Minute),
			TxTimeout:    getEnvDuration("CATEGORY_TX_TIMEOUT", 10*time.Second),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", "localhost:9000"),
			AccessKey: getEnv("MINIO_ACCESS_KEY", "minioadmin"),
			SecretKey: getEnv("MINIO_SECRET_KEY", "minioadmin"),
			Bucket:    getEnv("MINIO_BUCKET", "catalog"),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
		Snapshot: SnapshotConfig{
			Enabled:   getEnvBool("SNAPSHOT_ENABLED", false),
			Cron:      getEnv("SNAPSHOT_CRON", "0 1 * * *"),
			Scope:     getEnv("SNAPSHOT_SCOPE", "live"),
			Retention: getEnvInt("SNAPSHOT_RETENTION", 14),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return cfg, nil
}

func (c *Config) Validate() error {
	if c.Category.MaxDepth < 1 {
		return fmt.Errorf("CATEGORY_MAX_DEPTH must be >= 1 (got %d)", c.Category.MaxDepth)
	}
	if c.Queue.Enabled && !c.Redis.Enabled {
		return fmt.Errorf("QUEUE_ENABLED requires REDIS_ENABLED (asynq runs on redis)")
	}

	if c.Snapshot.Enabled {
		if !c.Queue.Enabled {
			return fmt.Errorf("SNAPSHOT_ENABLED requires QUEUE_ENABLED")
		}
		if _, err := cron.ParseStandard(c.Snapshot.Cron); err != nil {
			return fmt.Errorf("invalid SNAPSHOT_CRON %q: %w", c.Snapshot.Cron, err)
		}
		if c.Snapshot.Retention < 1 {
			return fmt.Errorf("SNAPSHOT_RETENTION must be >= 1 (got %d)", c.Snapshot.Retention)
		}
	}

	if c.App.Environment == "production" {
		if c.JWT.Secret == defaultJWTSecret {
			return fmt.Errorf("JWT_SECRET must be set in production")
		}
	}

	return nil
}

func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// Helper functions
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

func getEnvInt(key string, defaultValue int) int {
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

func getEnvBool(key string, defaultValue bool) bool {
	valueStr := strings.TrimSpace(os.Getenv(key))
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvDuration nhận format của time.ParseDuration ("30s", "5m")
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
