// Package main is the entry point for fiiwatch, a ceiling-price monitor for
// logistics-segment FIIs.
//
// The service assembles a primary feed (fixed fund universe + SELIC rate),
// completes missing fund fields from the secondary market data source, and
// derives a dividend-based ceiling price per fund. Results are served over
// HTTP and pushed over a WebSocket stream; runs are re-triggered by
// risk-premium changes (debounced), manual refresh, and a cron schedule.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/fiiwatch/internal/clients/bcb"
	"github.com/aristath/fiiwatch/internal/clients/brapi"
	"github.com/aristath/fiiwatch/internal/config"
	"github.com/aristath/fiiwatch/internal/events"
	"github.com/aristath/fiiwatch/internal/modules/enrichment"
	"github.com/aristath/fiiwatch/internal/modules/pipeline"
	"github.com/aristath/fiiwatch/internal/modules/universe"
	"github.com/aristath/fiiwatch/internal/scheduler"
	"github.com/aristath/fiiwatch/internal/server"
	"github.com/aristath/fiiwatch/pkg/logger"
)

// pipelineRefresher adapts the orchestrator to the scheduler's Refresher.
type pipelineRefresher struct {
	orch *pipeline.Orchestrator
}

func (r pipelineRefresher) Refresh(ctx context.Context) error {
	_, err := r.orch.Refresh(ctx)
	return err
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.Default()
		fallback.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log, err := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})
	if err != nil {
		fallback := logger.Default()
		fallback.Fatal().Err(err).Msg("Invalid log configuration")
	}
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting fiiwatch")

	bus := events.NewBus(log)

	// Clients for the two external collaborators.
	rateClient := bcb.NewClient(cfg.BCBBaseURL, log)
	quoteClient := brapi.NewClient(cfg.BrapiBaseURL, cfg.BrapiToken, log)

	// Primary feed: watch list + risk-free rate.
	entries := universe.ParseTickers(cfg.Tickers)
	feed := universe.NewFeed(entries, rateClient, log)

	cascade := enrichment.New(quoteClient, bus, log)
	orch := pipeline.New(feed, cascade, bus, cfg.Debounce(), log)

	// Periodic refresh keeps the published result warm.
	sched := scheduler.New(log)
	refreshJob := scheduler.NewRefreshJob(pipelineRefresher{orch}, 60*time.Second)
	if err := sched.AddJob(cfg.RefreshSchedule, refreshJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.RefreshSchedule).Msg("Failed to register refresh job")
	}
	sched.Start()

	srv := server.New(server.Config{
		Log:      log,
		Port:     cfg.Port,
		DevMode:  cfg.DevMode,
		Pipeline: orch,
		Bus:      bus,
	})

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	// Warm the first result so early dashboard loads see data.
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
		defer cancel()
		if _, err := orch.Run(ctx, pipeline.DefaultRiskPremium); err != nil {
			log.Warn().Err(err).Msg("Initial run failed, waiting for next trigger")
		}
	}()

	// Wait for shutdown signal.
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down")

	sched.Stop()
	orch.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server shutdown failed")
	}

	log.Info().Msg("Stopped")
}
