package config

import (
	"flag"
	"time"
)

var (
	flagConfig   = flag.String("config", "", "Path to config file")
	flagDebug    = flag.Bool("debug", false, "Enable debug logging")
	flagDepth    = flag.Int("depth", 0, "Tree depth (3-8)")
	flagSeed     = flag.Int64("seed", 0, "Random seed for tree construction")
	flagFrames   = flag.Int("frames", 0, "Number of fixed-step frames to simulate")
	flagFPS      = flag.Int("fps", 0, "Simulation frame rate")
	flagRealtime = flag.Bool("realtime", false, "Step with wall-clock time")
	flagDuration = flag.Duration("duration", 0, "Stop a realtime run after this long")
	flagWorkers  = flag.Int("workers", -1, "Parallel workers per level (0 = GOMAXPROCS)")
	flagExport   = flag.String("export", "", "Write a JSON snapshot of the final frame to this path")
	flagMetrics  = flag.String("metrics", "", "Serve Prometheus metrics on this address")
)

// ParseFlags parses command-line flags. Call this early in main().
func ParseFlags() {
	flag.Parse()
}

// ConfigPath returns the explicit config path if provided via --config flag.
func ConfigPath() string {
	return *flagConfig
}

// applyFlags applies CLI flag overrides to the config.
func applyFlags(cfg *Config) {
	if *flagDebug {
		cfg.Logging.Level = "debug"
	}
	if *flagDepth > 0 {
		cfg.Fractal.Depth = *flagDepth
	}
	if *flagSeed != 0 {
		cfg.Fractal.Seed = *flagSeed
	}
	if *flagFrames > 0 {
		cfg.Simulation.Frames = *flagFrames
	}
	if *flagFPS > 0 {
		cfg.Simulation.FPS = *flagFPS
	}
	if *flagRealtime {
		cfg.Simulation.Realtime = true
	}
	if *flagDuration > time.Duration(0) {
		cfg.Simulation.Duration = *flagDuration
	}
	if *flagWorkers >= 0 {
		cfg.Propagation.Workers = *flagWorkers
	}
	if *flagExport != "" {
		cfg.Export.Path = *flagExport
	}
	if *flagMetrics != "" {
		cfg.Metrics.Enabled = true
		cfg.Metrics.Listen = *flagMetrics
	}
}
