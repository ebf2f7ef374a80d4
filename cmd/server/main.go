// Package main is the entry point for the Folio holdings valuation service.
// It aggregates per-portfolio position contracts into grouped, multi-currency
// holdings views, allocation slices, and cross-portfolio performance curves.
package main

import (
	"context"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/periphas/folio/internal/clientdata"
	"github.com/periphas/folio/internal/clients/fxrates"
	"github.com/periphas/folio/internal/clients/positions"
	"github.com/periphas/folio/internal/config"
	"github.com/periphas/folio/internal/database"
	allocationmod "github.com/periphas/folio/internal/modules/allocation"
	allocationhandlers "github.com/periphas/folio/internal/modules/allocation/handlers"
	currencyhandlers "github.com/periphas/folio/internal/modules/currency/handlers"
	holdingsmod "github.com/periphas/folio/internal/modules/holdings"
	holdingshandlers "github.com/periphas/folio/internal/modules/holdings/handlers"
	performancemod "github.com/periphas/folio/internal/modules/performance"
	performancehandlers "github.com/periphas/folio/internal/modules/performance/handlers"
	"github.com/periphas/folio/internal/scheduler"
	"github.com/periphas/folio/internal/server"
	"github.com/periphas/folio/internal/services"
	"github.com/periphas/folio/pkg/logger"
)

func main() {
	// Load configuration first to get log level
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{
			Level:  "info",
			Pretty: true,
		})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: true,
	})

	log.Info().Msg("Starting Folio")

	// Client cache database (exchange rates, currency catalogue)
	cacheDB, err := database.New(database.Config{
		Path:    filepath.Join(cfg.DataDir, "client_data.db"),
		Profile: database.ProfileCache,
		Name:    "client_data",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open client cache database")
	}
	defer cacheDB.Close()

	cacheRepo := clientdata.NewRepository(cacheDB.Conn())
	if err := cacheRepo.InitSchema(); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize client cache schema")
	}

	fetchTimeout := time.Duration(cfg.FetchTimeoutSec) * time.Second

	// Upstream clients
	fxClient := fxrates.NewClient(cfg.FxURL, fetchTimeout, cacheRepo, log)
	backendClient := positions.NewClient(cfg.BackendURL, fetchTimeout, cacheRepo, log)

	// Services and aggregation modules
	rateService := services.NewRateService(fxClient, cfg.SyncCurrencies, log)

	holdingsAggregator := holdingsmod.NewAggregator(log)
	allocationBuilder := allocationmod.NewBuilder(log)
	performanceAggregator := performancemod.NewAggregator(
		backendClient,
		rateService,
		performancemod.NewResultCache(performancemod.DefaultResultTTL),
		fetchTimeout,
		log,
	)

	// Background jobs: FX refresh every 5 minutes, cache cleanup hourly
	sched := scheduler.New(log)
	fxSyncJob := scheduler.NewFxSyncJob(rateService, log)
	if err := sched.AddJob("0 */5 * * * *", fxSyncJob); err != nil {
		log.Fatal().Err(err).Msg("Failed to register FX sync job")
	}
	if err := sched.AddJob("@hourly", clientdata.NewCleanupJob(cacheRepo, log)); err != nil {
		log.Fatal().Err(err).Msg("Failed to register cache cleanup job")
	}
	sched.Start()

	// Warm the rate cache once at startup, off the critical path
	go func() {
		if err := sched.RunNow(fxSyncJob); err != nil {
			log.Warn().Err(err).Msg("Initial FX rate warm-up failed")
		}
	}()

	srv := server.New(server.Config{
		Log:                 log,
		Config:              cfg,
		HoldingsHandlers:    holdingshandlers.NewHandler(backendClient, holdingsAggregator, log),
		AllocationHandlers:  allocationhandlers.NewHandler(backendClient, allocationBuilder, log),
		PerformanceHandlers: performancehandlers.NewHandler(backendClient, performanceAggregator, cfg.BaseCurrency, log),
		CurrencyHandlers:    currencyhandlers.NewHandler(backendClient, log),
		SystemHandlers:      server.NewSystemHandlers(log),
	})

	// Start server in goroutine so shutdown handling below is not blocked
	go func() {
		if err := srv.Start(); err != nil {
			log.Fatal().Err(err).Msg("Failed to start server")
		}
	}()

	log.Info().Int("port", cfg.Port).Msg("Server started successfully")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	sched.Stop()

	// Give in-flight requests up to 10 seconds to complete
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
