package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"contest-sync/core/loader"
	"contest-sync/core/logger"
	"contest-sync/core/middleware/auth"
	"contest-sync/core/middleware/rayid"
	"contest-sync/core/reconcile"
	"contest-sync/core/scheduler"
	"contest-sync/core/server"
	"contest-sync/feature/contest"
	"contest-sync/feature/contest/upstream"
	"contest-sync/feature/integrity"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/swagger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	_ "contest-sync/docs/swagger"
)

// @title Contest Sync API
// @version 1.0
// @description Read API over the synchronized programming contest calendar.
// @host localhost:3000
// @BasePath /

// shutdownTimeout bounds the graceful shutdown of the HTTP listener.
const shutdownTimeout = 10 * time.Second

// startCmd represents the start command
var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the sync scheduler and the HTTP server",
	Long: `Starts the full, incremental and keepalive sync cycles and serves the
contest API, the cycle status and the Prometheus metrics.`,
	RunE: runStart,
}

func init() {
	RootCmd.AddCommand(startCmd)
}

func runStart(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// 1. Configuration, logger and store
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()
	logg := rt.logger
	zap.ReplaceGlobals(logg)
	cfg := rt.cfg

	// 2. Metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	// 3. Sync pipeline
	fetcher := upstream.NewFetcher(cfg.Upstream, logg)
	engine := reconcile.NewEngine(contest.NewAdapter(rt.repo),
		reconcile.WithLogger(logg),
		reconcile.WithMetrics(reconcile.NewMetrics(registry)),
	)
	syncOpts := []contest.SyncerOption{
		contest.WithSyncLogger(logg),
		contest.WithSyncMetrics(contest.NewMetrics(registry)),
	}
	if rt.archive != nil {
		syncOpts = append(syncOpts, contest.WithArchive(rt.archive))
	}
	syncer := contest.NewSyncer(fetcher, engine, cfg.Sync, syncOpts...)

	// 4. HTTP server
	app := fiber.New(fiber.Config{
		DisableStartupMessage: true,
	})

	// A panicking cycle takes the process down: close the listener, then exit.
	sched := scheduler.New(syncer.Cycles(),
		scheduler.WithLogger(logg),
		scheduler.WithMetrics(scheduler.NewMetrics(registry)),
		scheduler.WithPanicHandler(func(cycle string, recovered any) {
			logg.Error("Cycle panicked, shutting down",
				zap.String("cycle", cycle),
				zap.Any("panic", recovered),
				zap.Stack("stack"),
			)
			_ = app.ShutdownWithTimeout(shutdownTimeout)
			_ = logg.Sync()
			os.Exit(1)
		}),
	)

	mgr := loader.NewManager()
	mgr.Register(contest.NewFeature(rt.repo, sched, logg))
	mgr.Register(integrity.NewFeature(rt.integrityDeps(fetcher), logg))

	// RayID first so every log line carries it
	app.Use(rayid.New())

	app.Use(func(c *fiber.Ctx) error {
		l := logger.WithRayID(logg, c)
		l.Info("Request started",
			zap.String("method", c.Method()),
			zap.String("path", c.Path()),
			zap.String("ip", c.IP()),
		)
		err := c.Next()
		if err != nil {
			l.Error("Request error", zap.Error(err))
		}
		return err
	})

	// Public endpoints
	app.Get("/metrics", adaptor.HTTPHandler(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Feature routes require the API key; unmatched requests still get a 404
	guarded := server.Guard(app, auth.New(auth.Config{ApiKey: cfg.Server.ApiKey}))
	loaded, err := mgr.LoadAll(guarded)
	if err != nil {
		return err
	}
	logg.Info("Features loaded", zap.Strings("features", loaded))

	app.Use(server.NotFound)

	// 5. Start cycles and listener
	if err := sched.Start(ctx); err != nil {
		return fmt.Errorf("failed to start scheduler: %w", err)
	}
	defer sched.Stop()

	listenErr := make(chan error, 1)
	go func() {
		logg.Info("Starting server", zap.String("port", cfg.Server.Port))
		listenErr <- app.Listen(":" + cfg.Server.Port)
	}()

	// 6. Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case sig := <-quit:
		logg.Info("Shutting down server...", zap.String("signal", sig.String()))
	case err := <-listenErr:
		if err != nil {
			return fmt.Errorf("server failed: %w", err)
		}
	}

	cancel()
	sched.Stop()
	if err := app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		logg.Warn("Server shutdown failed", zap.Error(err))
	}
	return nil
}
