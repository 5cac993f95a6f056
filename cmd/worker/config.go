package main

import (
	"os"

	"catalog-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

// Config riêng của worker process
type Config struct {
	RedisAddr   string
	Concurrency int
	HealthAddr  string
}

func loadConfig(c *container.Container) *Config {
	cfg := &Config{
		RedisAddr:   c.Config.Redis.Host,
		Concurrency: c.Config.Queue.Concurrency,
		HealthAddr:  ":9999",
	}
	if addr := os.Getenv("WORKER_HEALTH_ADDR"); addr != "" {
		cfg.HealthAddr = addr
	}

	log.Info().
		Str("redis", cfg.RedisAddr).
		Int("concurrency", cfg.Concurrency).
		Str("health", cfg.HealthAddr).
		Msg("[Config] Worker configuration loaded")

	return cfg
}
