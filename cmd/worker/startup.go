// cmd/worker/startup.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"catalog-backend/pkg/container"

	"github.com/rs/zerolog/log"
)

type healthServer struct {
	srv *http.Server
}

// startServices bật HTTP health endpoint cho probe (/health, /ready)
func startServices(c *container.Container, cfg *Config) *healthServer {
	log.Info().Msg("============================================")
	log.Info().Msg("Catalog Worker Starting...")
	log.Info().Msg("============================================")

	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "UP", "service": "catalog-worker"})
	})
	mux.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
		checks := c.HealthCheck(r.Context())
		status := http.StatusOK
		if checks["redis"] != "ok" {
			status = http.StatusServiceUnavailable
		}
		writeJSON(w, status, checks)
	})
	mux.Handle("/metrics", c.Metrics.Handler())

	hs := &healthServer{srv: &http.Server{
		Addr:              cfg.HealthAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}}

	go func() {
		log.Info().Str("addr", cfg.HealthAddr).Msg("[Health] Starting health check server")
		if err := hs.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("[Health] Failed to start")
		}
	}()

	return hs
}

func (h *healthServer) Shutdown() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := h.srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("[Health] Shutdown failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
