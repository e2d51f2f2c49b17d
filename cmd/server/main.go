package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/openseminar/server/internal/adapters/httpapi"
	"github.com/openseminar/server/internal/adapters/identity"
	"github.com/openseminar/server/internal/adapters/ws"
	"github.com/openseminar/server/internal/app"
	"github.com/openseminar/server/internal/config"
	"github.com/openseminar/server/internal/storage/memory"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	// Human-friendly output for terminal; in production you may want JSON only.
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	// Explicit constructor wiring: each collaborator is built once and
	// handed to its dependents.
	repo := memory.NewRepository()
	journal := app.NewJournal(repo, cfg.JournalDepth)
	go journal.Run(ctx)

	hub := ws.NewHub(cfg.WSBuffer, cfg.WSWriteTimeout)
	resolver := identity.NewStaticResolver()
	sessions := app.NewSessionManager()
	orch := app.NewOrchestrator(sessions, resolver, hub, journal)

	reaper := &app.Reaper{
		Sessions:  sessions,
		IdleTTL:   cfg.IdleTTL,
		Retention: cfg.RoomRetention,
		Interval:  cfg.ReapInterval,
	}
	go reaper.Run(ctx)

	r := httpapi.SetupRouter(ctx, cfg, orch, hub)
	addr := fmt.Sprintf(":%d", cfg.Port)

	srv := &http.Server{
		Addr:    addr,
		Handler: r,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("seminar server started")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error().Err(err).Msg("server error")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down")
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited gracefully")
}
