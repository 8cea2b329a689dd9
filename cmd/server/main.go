// Package main is the entry point for the Korean climate risk API server.
// It wires the calibration registry, the three risk engines (transition,
// physical, ESG), the partner session store and the HTTP surface, then
// serves until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/kclimate/krisk/internal/clients/openmeteo"
	"github.com/kclimate/krisk/internal/config"
	"github.com/kclimate/krisk/internal/modules/esg"
	"github.com/kclimate/krisk/internal/modules/partner"
	"github.com/kclimate/krisk/internal/modules/physical"
	"github.com/kclimate/krisk/internal/modules/reports"
	"github.com/kclimate/krisk/internal/modules/transition"
	"github.com/kclimate/krisk/internal/scheduler"
	"github.com/kclimate/krisk/internal/server"
	"github.com/kclimate/krisk/pkg/logger"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fallback := logger.New(logger.Config{Level: "info", Pretty: true})
		fallback.Fatal().Err(err).Msg("failed to load configuration")
	}

	log := logger.New(logger.Config{
		Level:  cfg.LogLevel,
		Pretty: cfg.DevMode,
	})
	logger.SetGlobalLogger(log)

	weather := openmeteo.NewClient(openmeteo.Config{
		BaseURL:      cfg.OpenMeteoBaseURL,
		FetchTimeout: cfg.WeatherTimeout,
	}, log)

	transitionEngine := transition.NewEngine(cfg.BaseWACC, log)
	physicalEngine := physical.NewEngine(weather, log)
	esgEngine := esg.NewEngine(transitionEngine, log)
	reportGenerator := reports.NewGenerator(transitionEngine, physicalEngine, esgEngine, log)
	sessions := partner.NewStore(cfg.SessionTTL, nil, log)

	jobs := scheduler.New(log)
	if err := jobs.Register("@every 10m", &scheduler.SessionSweepJob{Store: sessions}); err != nil {
		log.Fatal().Err(err).Msg("failed to register session sweep")
	}
	if err := jobs.Register("@every 10m", &scheduler.WeatherCacheSweepJob{Client: weather}); err != nil {
		log.Fatal().Err(err).Msg("failed to register weather cache sweep")
	}
	jobs.Start()
	defer jobs.Stop()

	srv := server.New(server.Config{
		Log:        log,
		Port:       cfg.Port,
		DevMode:    cfg.DevMode,
		Transition: transitionEngine,
		Physical:   physicalEngine,
		ESG:        esgEngine,
		Reports:    reportGenerator,
		Sessions:   sessions,
	})

	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-errCh:
		log.Fatal().Err(err).Msg("server failed")
	case sig := <-stop:
		log.Info().Str("signal", sig.String()).Msg("shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
	log.Info().Msg("server stopped")
}
