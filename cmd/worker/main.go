// cmd/worker/main.go
package main

import (
	"os"
	"os/signal"
	"syscall"

	"catalog-backend/pkg/container"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Info().Msg("No .env file found, using system environment variables")
	}

	c, err := container.NewContainer()
	if err != nil {
		log.Fatal().Err(err).Msg("[Container] Failed to initialize")
	}
	defer c.Cleanup()

	cfg := loadConfig(c)

	handlers := initializeHandlers(c)

	srv := setupAsynqServer(c, cfg, handlers)

	scheduler := setupScheduler(c)

	health := startServices(c, cfg)

	waitForShutdown(srv, scheduler, health)
}

func waitForShutdown(srv *asynqServer, scheduler *asynqScheduler, health *healthServer) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("[Shutdown] Gracefully stopping...")
	health.Shutdown()
	scheduler.Shutdown()
	srv.Shutdown()
	log.Info().Msg("[Shutdown] Stopped")
}
