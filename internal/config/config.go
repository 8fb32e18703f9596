// Package config handles simulator configuration loading and management.
package config

import (
	"time"

	"github.com/Faultbox/fractal/internal/fractal"
	"github.com/Faultbox/fractal/pkg/math"
)

// Config holds all simulator settings.
type Config struct {
	Fractal     FractalConfig     `yaml:"fractal"`
	Propagation PropagationConfig `yaml:"propagation"`
	Simulation  SimulationConfig  `yaml:"simulation"`
	Metrics     MetricsConfig     `yaml:"metrics"`
	Export      ExportConfig      `yaml:"export"`
	Logging     LoggingConfig     `yaml:"logging"`
}

// FractalConfig holds tree construction settings. Angles are in degrees.
type FractalConfig struct {
	Depth             int     `yaml:"depth"`
	SagAngleMin       float32 `yaml:"sag_angle_min"`
	SagAngleMax       float32 `yaml:"sag_angle_max"`
	SpinSpeedMin      float32 `yaml:"spin_speed_min"` // degrees per second
	SpinSpeedMax      float32 `yaml:"spin_speed_max"` // degrees per second
	ReverseSpinChance float32 `yaml:"reverse_spin_chance"`
	Seed              int64   `yaml:"seed"` // 0 = random
}

// PropagationConfig holds parallel update tuning.
type PropagationConfig struct {
	Workers   int `yaml:"workers"`    // 0 = GOMAXPROCS
	BatchSize int `yaml:"batch_size"` // minimum parts per task
}

// SimulationConfig holds frame loop settings.
type SimulationConfig struct {
	FPS          int           `yaml:"fps"`
	Frames       int           `yaml:"frames"`   // fixed-step frame count
	Realtime     bool          `yaml:"realtime"` // wall-clock dt instead of fixed steps
	Duration     time.Duration `yaml:"duration"` // realtime only; 0 = until interrupted
	RootPosition [3]float32    `yaml:"root_position"`
	RootScale    float32       `yaml:"root_scale"`
	RootSpin     float32       `yaml:"root_spin"` // degrees per second about world up
}

// MetricsConfig holds Prometheus endpoint settings.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Listen  string `yaml:"listen"`
}

// ExportConfig holds snapshot export settings.
type ExportConfig struct {
	Path   string `yaml:"path"` // empty = no export
	Indent bool   `yaml:"indent"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	s := fractal.DefaultSettings()
	return &Config{
		Fractal: FractalConfig{
			Depth:             s.Depth,
			SagAngleMin:       s.SagAngleMin,
			SagAngleMax:       s.SagAngleMax,
			SpinSpeedMin:      s.SpinSpeedMin,
			SpinSpeedMax:      s.SpinSpeedMax,
			ReverseSpinChance: s.ReverseSpinChance,
		},
		Propagation: PropagationConfig{
			Workers:   0,
			BatchSize: 5,
		},
		Simulation: SimulationConfig{
			FPS:       60,
			Frames:    600,
			RootScale: 1,
		},
		Metrics: MetricsConfig{
			Enabled: false,
			Listen:  "127.0.0.1:9464",
		},
		Logging: LoggingConfig{
			Level:   "info",
			LogFile: "",
		},
	}
}

// Settings converts the fractal section to tree construction settings.
func (c *Config) Settings() fractal.Settings {
	return fractal.Settings{
		Depth:             c.Fractal.Depth,
		SagAngleMin:       c.Fractal.SagAngleMin,
		SagAngleMax:       c.Fractal.SagAngleMax,
		SpinSpeedMin:      c.Fractal.SpinSpeedMin,
		SpinSpeedMax:      c.Fractal.SpinSpeedMax,
		ReverseSpinChance: c.Fractal.ReverseSpinChance,
		Seed:              c.Fractal.Seed,
	}
}

// TreeOptions returns the propagation options for fractal.New.
func (c *Config) TreeOptions() []fractal.Option {
	return []fractal.Option{
		fractal.WithWorkers(c.Propagation.Workers),
		fractal.WithBatchSize(c.Propagation.BatchSize),
	}
}

// RootPositionVec returns the configured root position as a vector.
func (s SimulationConfig) RootPositionVec() math.Vec3 {
	p := s.RootPosition
	return math.Vec3{X: p[0], Y: p[1], Z: p[2]}
}
