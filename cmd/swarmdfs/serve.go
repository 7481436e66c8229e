package main

import (
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/BaSui01/swarmdfs/api/handlers"
	"github.com/BaSui01/swarmdfs/internal/server"
	"github.com/BaSui01/swarmdfs/playbook"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var (
		playbookPath string
		port         int
		watch        bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the run API over HTTP",
		Long: "Starts an HTTP server exposing POST /v1/runs, GET /v1/runs, GET /v1/runs/{id},\n" +
			"/health, /ready, /version and /metrics. Runs are executed one at a time.\n" +
			"With --watch the playbook file is polled and the swarm rebuilt on change.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			pb, err := playbook.Load(playbookPath)
			if err != nil {
				return err
			}

			a, err := newApp(cmd.Context(), root)
			if err != nil {
				return err
			}
			defer a.Close()

			if cmd.Flags().Changed("port") {
				a.cfg.Server.HTTPPort = port
			}

			runner, err := a.newSwarmRunner(pb)
			if err != nil {
				return err
			}
			handler := a.buildHandler(runner)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if watch {
				w, err := playbook.NewWatcher(playbookPath, playbook.WithWatcherLogger(a.logger))
				if err != nil {
					return err
				}
				w.OnReload(runner.Reload)
				if err := w.Start(ctx); err != nil {
					return err
				}
				defer w.Stop()
			}

			mgr := server.NewManager(handler, server.FromServerConfig(a.cfg.Server), a.logger)
			if err := mgr.Start(); err != nil {
				return err
			}
			a.logger.Info("swarmdfs server started",
				zap.String("addr", mgr.Addr()),
				zap.String("playbook", pb.Name),
				zap.String("version", Version),
				zap.String("build_time", BuildTime),
				zap.String("git_commit", GitCommit),
				zap.Bool("watch", watch),
			)

			return mgr.Wait(ctx)
		},
	}

	cmd.Flags().StringVarP(&playbookPath, "playbook", "p", "", "path to playbook YAML (required)")
	cmd.Flags().IntVar(&port, "port", 0, "override server.http_port")
	cmd.Flags().BoolVar(&watch, "watch", false, "reload the playbook when the file changes")
	_ = cmd.MarkFlagRequired("playbook")

	return cmd
}

// buildHandler mounts the routes and wraps them in the middleware chain.
func (a *app) buildHandler(runner *swarmRunner) http.Handler {
	mux := http.NewServeMux()

	health := handlers.NewHealthHandler(Version, a.logger)
	health.RegisterCheck(handlers.NewStoreHealthCheck(a.store))
	health.Register(mux)

	handlers.NewRunHandler(runner, a.store, a.cfg.Swarm.RunTimeout, a.logger).Register(mux)

	mux.HandleFunc("GET /version", func(w http.ResponseWriter, r *http.Request) {
		handlers.WriteSuccess(w, http.StatusOK, map[string]string{
			"playbook":   runner.Playbook(),
			"version":    Version,
			"build_time": BuildTime,
			"git_commit": GitCommit,
		})
	})

	if a.registry != nil {
		mux.Handle("GET /metrics", promhttp.HandlerFor(a.registry, promhttp.HandlerOpts{Registry: a.registry}))
	}

	return Chain(mux,
		Recovery(a.logger),
		RequestID(),
		SecurityHeaders(),
		RequestLogger(a.logger),
		MetricsMiddleware(a.collector),
		OTelTracing(),
	)
}
