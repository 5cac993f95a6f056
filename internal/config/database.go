package config

import (
	"fmt"
	"strconv"
	"time"

	"catalog-backend/internal/infrastructure/database"
)

// LoadDatabaseConfig đọc DB_* env. Khác getEnvInt: giá trị sai format là lỗi, không fallback.
func LoadDatabaseConfig() (*database.DBConfig, error) {
	ints := map[string]string{
		"DB_PORT":            "5432",
		"DB_MAX_CONNECTIONS": "25",
		"DB_MIN_CONNECTIONS": "5",
		"DB_MAX_RETRIES":     "5",
	}
	parsedInts := make(map[string]int, len(ints))
	for key, def := range ints {
		v, err := strconv.Atoi(getEnv(key, def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		parsedInts[key] = v
	}

	durations := map[string]string{
		"DB_MAX_CONN_LIFETIME":   "5m",
		"DB_MAX_CONN_IDLE_TIME":  "1m",
		"DB_HEALTH_CHECK_PERIOD": "1m",
		"DB_RETRY_DELAY":         "1s",
		"DB_CONNECT_TIMEOUT":     "10s",
	}
	parsedDurations := make(map[string]time.Duration, len(durations))
	for key, def := range durations {
		v, err := time.ParseDuration(getEnv(key, def))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		parsedDurations[key] = v
	}

	return &database.DBConfig{
		Host:              getEnv("DB_HOST", "localhost"),
		Port:              parsedInts["DB_PORT"],
		Username:          getEnv("DB_USER", "catalog"),
		Password:          getEnv("DB_PASSWORD", "secret"),
		DBName:            getEnv("DB_NAME", "catalog_dev"),
		SSLMode:           getEnv("DB_SSLMODE", "disable"),
		MaxConns:          int32(parsedInts["DB_MAX_CONNECTIONS"]),
		MinConns:          int32(parsedInts["DB_MIN_CONNECTIONS"]),
		MaxConnLifetime:   parsedDurations["DB_MAX_CONN_LIFETIME"],
		MaxConnIdleTime:   parsedDurations["DB_MAX_CONN_IDLE_TIME"],
		HealthCheckPeriod: parsedDurations["DB_HEALTH_CHECK_PERIOD"],
		MaxRetries:        parsedInts["DB_MAX_RETRIES"],
		RetryDelay:        parsedDurations["DB_RETRY_DELAY"],
		ConnectTimeout:    parsedDurations["DB_CONNECT_TIMEOUT"],
	}, nil
}
