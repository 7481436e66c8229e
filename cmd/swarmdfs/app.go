package main

import (
	"context"
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/config"
	"github.com/BaSui01/swarmdfs/internal/metrics"
	"github.com/BaSui01/swarmdfs/internal/telemetry"
	"github.com/BaSui01/swarmdfs/internal/tracestore"
	"github.com/BaSui01/swarmdfs/playbook"
	"github.com/BaSui01/swarmdfs/swarm"
)

// app holds everything one command invocation needs.
type app struct {
	cfg       *config.Config
	logger    *zap.Logger
	registry  *prometheus.Registry
	collector *metrics.Collector // nil when metrics are disabled
	telemetry *telemetry.Providers
	store     tracestore.Store
}

// loadConfig loads the config file and applies flag overrides.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.NewLoader().
		WithConfigPath(opts.configPath).
		WithValidator(func(c *config.Config) error { return c.Validate() }).
		Load()
	if err != nil {
		return nil, err
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if opts.logFormat != "" {
		cfg.Log.Format = opts.logFormat
	}
	return cfg, nil
}

// newApp sets up logging, telemetry, metrics and the trace store.
func newApp(ctx context.Context, opts *rootOptions) (*app, error) {
	cfg, err := loadConfig(opts)
	if err != nil {
		return nil, err
	}

	logger := initLogger(cfg.Log)
	a := &app{cfg: cfg, logger: logger}

	a.telemetry, err = telemetry.Init(ctx, cfg.Telemetry, logger)
	if err != nil {
		logger.Warn("failed to initialize telemetry", zap.Error(err))
	}

	if cfg.Metrics.Enabled {
		a.registry = prometheus.NewRegistry()
		a.registry.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		a.collector = metrics.NewCollector(cfg.Metrics.Namespace, a.registry, logger)
	}

	store, err := tracestore.New(ctx, cfg.Store, logger)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("failed to open trace store: %w", err)
	}
	if a.collector != nil {
		store = tracestore.Instrumented(store, a.collector)
	}
	a.store = store

	return a, nil
}

// newSwarm builds a Swarm from pb. The playbook policy wins over swarm.policy.
func (a *app) newSwarm(pb *playbook.Playbook) (*swarm.Swarm, error) {
	policyName := a.cfg.Swarm.Policy
	if pb.Policy != "" {
		policyName = pb.Policy
	}
	policy, err := swarm.PolicyByName(policyName)
	if err != nil {
		return nil, err
	}

	workers := swarm.RateLimitAll(pb.Pool(a.logger), a.cfg.Swarm.WorkerRPS, a.cfg.Swarm.WorkerBurst)

	observers := swarm.MultiObserver{swarm.NewZapObserver(a.logger)}
	if a.collector != nil {
		observers = append(observers, a.collector)
	}

	return swarm.New(workers,
		swarm.WithPolicy(policy),
		swarm.WithObserver(observers),
		swarm.WithLogger(a.logger),
		swarm.WithTracer(a.telemetry.Tracer("github.com/BaSui01/swarmdfs/swarm")),
	), nil
}

// Close releases the store and flushes telemetry.
func (a *app) Close() {
	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Warn("failed to close trace store", zap.Error(err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := a.telemetry.Shutdown(ctx); err != nil {
		a.logger.Warn("failed to shutdown telemetry", zap.Error(err))
	}

	_ = a.logger.Sync()
}
