package app

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/haliaxis/triarb/internal/execution"
	"github.com/haliaxis/triarb/internal/storage"
	"github.com/haliaxis/triarb/internal/venue"
	"github.com/haliaxis/triarb/pkg/config"
	"github.com/haliaxis/triarb/pkg/healthprobe"
	"github.com/haliaxis/triarb/pkg/httpserver"
)

// New creates a new application instance.
func New(cfg *config.Config, logger *zap.Logger, opts *Options) (*App, error) {
	if opts == nil {
		opts = &Options{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	healthChecker := setupHealthChecker()

	sink, err := setupStorage(cfg, logger)
	if err != nil {
		cancel()
		return nil, fmt.Errorf("setup storage: %w", err)
	}

	adapter := setupAdapter(cfg, logger, opts)

	controller := execution.NewController(adapter, sink, executionConfig(cfg), logger)

	httpServer := setupHTTPServer(cfg, logger, healthChecker, controller)

	a := &App{
		cfg:           cfg,
		logger:        logger,
		healthChecker: healthChecker,
		httpServer:    httpServer,
		adapter:       adapter,
		sink:          sink,
		controller:    controller,
		ctx:           ctx,
		cancel:        cancel,
	}

	if opts.Simulate {
		a.demo = newDemoFeed(controller, logger)
	}

	return a, nil
}

func setupHealthChecker() *healthprobe.HealthChecker {
	return healthprobe.New()
}

func setupHTTPServer(
	cfg *config.Config,
	logger *zap.Logger,
	healthChecker *healthprobe.HealthChecker,
	controller *execution.Controller,
) *httpserver.Server {
	return httpserver.New(&httpserver.Config{
		Port:          cfg.HTTPPort,
		Logger:        logger,
		HealthChecker: healthChecker,
		Controller:    controller,
	})
}

func setupStorage(cfg *config.Config, logger *zap.Logger) (execution.Sink, error) {
	return storage.New(storage.Config{
		Mode:             storage.Mode(cfg.StorageMode),
		PostgresHost:     cfg.PostgresHost,
		PostgresPort:     cfg.PostgresPort,
		PostgresUser:     cfg.PostgresUser,
		PostgresPassword: cfg.PostgresPass,
		PostgresDatabase: cfg.PostgresDB,
		PostgresSSLMode:  cfg.PostgresSSL,
		SQLitePath:       cfg.SQLitePath,
	}, logger)
}

// setupAdapter selects the venue Adapter per ExecutionMode/Options.Simulate:
// "simulate" (or the simulate subcommand) gets the in-memory
// SimulatedAdapter seeded with the demo feed's cycle; "live" gets the
// HMAC-signed REST adapter wrapped in a circuit breaker (§5 shared
// resources: repeated venue failures must stop admitting, not burn the
// cycle deadline on a dead connection).
func setupAdapter(cfg *config.Config, logger *zap.Logger, opts *Options) venue.Adapter {
	if opts.Simulate || cfg.ExecutionMode == "simulate" {
		sim := venue.NewSimulatedAdapter(cfg.VenueName)
		seedDemoOrderbooks(sim)
		return sim
	}

	rest := venue.NewRESTAdapter(venue.RESTAdapterConfig{
		VenueName:     cfg.VenueName,
		BaseURL:       cfg.VenueBaseURL,
		APIKey:        cfg.VenueAPIKey,
		APISecret:     cfg.VenueAPISecret,
		APIPassphrase: cfg.VenueAPIPassphrase,
		FeeToken:      cfg.FeeToken,
		FeeDiscount:   cfg.FeeDiscount,
		Logger:        logger,
	})

	return venue.NewBreakerAdapter(rest, venue.BreakerConfig{
		MaxFailures: uint32(cfg.BreakerMaxFailures),
		OpenTimeout: cfg.BreakerOpenTimeout,
		Logger:      logger,
	})
}

func executionConfig(cfg *config.Config) execution.Config {
	return execution.Config{
		FundingCap:               cfg.FundingCap,
		RevalidationThresholdPct: cfg.RevalidationThresholdPct,
		PerLegFeePct:             cfg.PerLegFeePct,
		FeeToken:                 cfg.FeeToken,
		FeeDiscount:              cfg.FeeDiscount,
		TimeSyncBufferMS:         cfg.TimeSyncBufferMS,
		OrderbookDepth:           cfg.OrderbookDepth,
		ParallelProbe:            true,
		RequireManualConfirm:     cfg.RequireManualConfirm,
		ProbeDeadline:            cfg.ProbeDeadline,
		CycleDeadline:            cfg.CycleDeadline,
		ManualConfirmDeadline:    cfg.ManualConfirmDeadline,
	}
}
