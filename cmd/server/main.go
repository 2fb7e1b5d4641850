// Package main is the entry point for the Hierarch allocation service.
// It wires the sqlite-backed universe and run stores, the HRP allocator,
// the cron scheduler, and the HTTP API, then blocks until a shutdown signal.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aristath/hierarch/internal/config"
	"github.com/aristath/hierarch/internal/database"
	"github.com/aristath/hierarch/internal/modules/allocation"
	allocationhandlers "github.com/aristath/hierarch/internal/modules/allocation/handlers"
	"github.com/aristath/hierarch/internal/modules/allocation/jobs"
	"github.com/aristath/hierarch/internal/modules/universe"
	universehandlers "github.com/aristath/hierarch/internal/modules/universe/handlers"
	"github.com/aristath/hierarch/internal/scheduler"
	"github.com/aristath/hierarch/internal/server"
	"github.com/aristath/hierarch/pkg/hrp"
	"github.com/aristath/hierarch/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallbackLog := logger.New(logger.Config{Level: "info", Pretty: true})
		fallbackLog.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	log.Info().Msg("Starting Hierarch")

	universeDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("universe"),
		Profile: database.ProfileStandard,
		Name:    "universe",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open universe database")
	}
	defer universeDB.Close()

	runsDB, err := database.New(database.Config{
		Path:    cfg.DatabasePath("runs"),
		Profile: database.ProfileStandard,
		Name:    "runs",
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to open runs database")
	}
	defer runsDB.Close()

	if err := universe.InitSchema(universeDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize universe schema")
	}
	if err := allocation.InitSchema(runsDB.Conn()); err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize runs schema")
	}

	securityRepo := universe.NewSecurityRepository(universeDB.Conn(), log)
	historyDB := universe.NewHistoryDB(universeDB.Conn(), log)
	runRepo := allocation.NewRepository(runsDB.Conn(), log)

	allocationService := allocation.NewService(
		hrp.NewWithOptions(hrp.Options{Parallel: true}),
		runRepo,
		securityRepo,
		historyDB,
		allocation.Defaults{
			Linkage:      cfg.Linkage,
			LookbackDays: cfg.LookbackDays,
		},
		log,
	)

	sched := scheduler.New(log)
	reallocateJob := jobs.NewReallocateJob(allocationService, log)
	if err := sched.AddJob(cfg.ReallocateSchedule, reallocateJob); err != nil {
		log.Fatal().Err(err).Str("schedule", cfg.ReallocateSchedule).Msg("Failed to schedule reallocation job")
	}
	sched.Start()
	defer sched.Stop()

	srv := server.New(server.Config{
		Log:                log,
		Config:             cfg,
		AllocationHandlers: allocationhandlers.NewHandler(allocationService, log),
		UniverseHandlers:   universehandlers.NewHandler(securityRepo, historyDB, log),
	})

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		log.Fatal().Err(err).Msg("HTTP server failed")
	case sig := <-quit:
		log.Info().Str("signal", sig.String()).Msg("Shutting down")
	}

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server stopped")
}
