package main

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog/log"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Debug().Err(err).Msg("no .env file loaded")
	}

	cfg, err := loadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}
	setupLogging(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	clock := clockwork.NewRealClock()

	var stores Stores
	switch cfg.Store {
	case storeMemory:
		log.Warn().Msg("using in-memory store, data is lost on restart")
		stores = memoryStores(clock)
	default:
		var database *sql.DB
		database, err = setupDatabase(ctx, cfg.Database, cfg.AutoMigrate)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to setup database")
		}
		defer database.Close()
		stores = postgresStores(database)
	}

	services, err := setupServices(cfg, stores, clock)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to setup services")
	}

	relayDone := make(chan struct{})
	go func() {
		defer close(relayDone)
		services.Gateway.Start(ctx)
	}()

	server := setupServer(cfg, services)
	go func() {
		log.Info().Str("addr", server.Addr).Str("store", cfg.Store).Msg("server starting")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	<-relayDone
	log.Info().Msg("server stopped")
}
