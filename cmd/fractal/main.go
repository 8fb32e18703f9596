// Package main is the entry point for the headless fractal simulator.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/Faultbox/fractal/internal/config"
	"github.com/Faultbox/fractal/internal/export"
	"github.com/Faultbox/fractal/internal/fractal"
	"github.com/Faultbox/fractal/internal/logger"
	"github.com/Faultbox/fractal/internal/sim"
	"github.com/Faultbox/fractal/pkg/math"
)

func main() {
	// Parse CLI flags first
	config.ParseFlags()

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Config error: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	if err := logger.Init(cfg.Logging.Level, cfg.Logging.LogFile); err != nil {
		fmt.Fprintf(os.Stderr, "Logger error: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("=== Fractal ===")
	logger.Sugar.Debugf("Config: %+v", cfg)

	if err := run(cfg); err != nil {
		logger.Error("simulation failed", zap.Error(err))
		logger.Sync()
		os.Exit(1)
	}
	logger.Info("simulation finished normally")
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Metrics.Enabled {
		srv := serveMetrics(cfg.Metrics.Listen)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	tree, err := fractal.New(cfg.Settings(), cfg.TreeOptions()...)
	if err != nil {
		return fmt.Errorf("failed to create tree: %w", err)
	}
	defer tree.Close()

	runner := sim.New(sim.Config{
		FPS:      cfg.Simulation.FPS,
		Frames:   cfg.Simulation.Frames,
		Realtime: cfg.Simulation.Realtime,
		Duration: cfg.Simulation.Duration,
		Root: fractal.RootTransform{
			Position: cfg.Simulation.RootPositionVec(),
			Rotation: math.QuatIdentity(),
			Scale:    cfg.Simulation.RootScale,
		},
		RootSpin: cfg.Simulation.RootSpin,
	}, tree)

	stats, err := runner.Run(ctx)
	if errors.Is(err, context.Canceled) {
		logger.Info("interrupted", zap.Int("frames", stats.Frames))
	} else if err != nil {
		return err
	}

	if cfg.Export.Path != "" {
		if err := export.WriteFile(cfg.Export.Path, export.Capture(tree), cfg.Export.Indent); err != nil {
			return fmt.Errorf("failed to export snapshot: %w", err)
		}
		logger.Info("snapshot written", zap.String("path", cfg.Export.Path), zap.Int("frames", stats.Frames))
	}
	return nil
}

func serveMetrics(addr string) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		logger.Info("serving metrics", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("metrics server failed", zap.Error(err))
		}
	}()
	return srv
}
