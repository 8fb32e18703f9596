package config

import (
	"errors"
	"fmt"
)

// Configuration errors outside the fractal section.
var (
	ErrInvalidFPS       = errors.New("fps must be positive")
	ErrInvalidFrames    = errors.New("frames must not be negative")
	ErrInvalidRootScale = errors.New("root scale must be positive")
	ErrInvalidDuration  = errors.New("duration must not be negative")
	ErrMissingListen    = errors.New("metrics enabled without a listen address")
)

// Validate checks every section. Tree settings are checked by the fractal
// package so the rules live in one place.
func (c *Config) Validate() error {
	errs := []error{c.Settings().Validate()}

	if c.Propagation.Workers < 0 || c.Propagation.BatchSize < 0 {
		errs = append(errs, fmt.Errorf("propagation: workers=%d batch_size=%d must not be negative",
			c.Propagation.Workers, c.Propagation.BatchSize))
	}
	if c.Simulation.FPS <= 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidFPS, c.Simulation.FPS))
	}
	if c.Simulation.Frames < 0 {
		errs = append(errs, fmt.Errorf("%w: %d", ErrInvalidFrames, c.Simulation.Frames))
	}
	if c.Simulation.Duration < 0 {
		errs = append(errs, fmt.Errorf("%w: %v", ErrInvalidDuration, c.Simulation.Duration))
	}
	if !(c.Simulation.RootScale > 0) {
		errs = append(errs, fmt.Errorf("%w: %g", ErrInvalidRootScale, c.Simulation.RootScale))
	}
	if c.Metrics.Enabled && c.Metrics.Listen == "" {
		errs = append(errs, ErrMissingListen)
	}

	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
