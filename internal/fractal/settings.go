// Package fractal animates a fixed-branching tree of parts and propagates
// world transforms level by level, parents strictly before children, with
// all parts of a level updated in parallel.
package fractal

import (
	"errors"
	"fmt"
)

// Tree shape and motion constants.
const (
	// Branching is the number of children of every non-leaf part.
	Branching = 5

	MinDepth = 3
	MaxDepth = 8

	// MaxAngle bounds both the sag range (degrees) and the spin speed range
	// (degrees per second).
	MaxAngle = 90

	// ChildOffset is the distance from a parent to its child along the
	// child's rotated up axis, in units of the child's scale.
	ChildOffset = 1.5

	// LevelScale is the size ratio between a level and its parent level.
	LevelScale = 0.5

	// SagEpsilon is the sag axis magnitude at or below which a part is
	// treated as pointing straight up and receives no sag.
	SagEpsilon = 1e-6
)

// Validation errors.
var (
	ErrInvalidDepth         = errors.New("depth out of range")
	ErrInvalidSagRange      = errors.New("sag angle out of range")
	ErrInvalidSpinRange     = errors.New("spin speed out of range")
	ErrInvalidReverseChance = errors.New("reverse spin chance out of range")
	ErrInvalidWorkers       = errors.New("worker count must not be negative")
	ErrInvalidBatchSize     = errors.New("batch size must not be negative")
	ErrInvalidScale         = errors.New("root scale must be positive")
	ErrTreeClosed           = errors.New("tree is closed")
)

// Settings are the construction-time parameters of a tree.
type Settings struct {
	Depth int

	// SagAngleMin and SagAngleMax bound each part's maximum sag, in degrees.
	SagAngleMin float32
	SagAngleMax float32

	// SpinSpeedMin and SpinSpeedMax bound each part's spin speed, in
	// degrees per second.
	SpinSpeedMin float32
	SpinSpeedMax float32

	// ReverseSpinChance is the probability that a part spins clockwise.
	ReverseSpinChance float32

	// Seed makes construction deterministic. Zero picks a time-based seed.
	Seed int64
}

// DefaultSettings returns the settings of a medium-sized tree.
func DefaultSettings() Settings {
	return Settings{
		Depth:             4,
		SagAngleMin:       15,
		SagAngleMax:       25,
		SpinSpeedMin:      20,
		SpinSpeedMax:      25,
		ReverseSpinChance: 0.25,
	}
}

// Validate reports every out-of-range field. Values are never clamped.
func (s Settings) Validate() error {
	var errs []error
	if s.Depth < MinDepth || s.Depth > MaxDepth {
		errs = append(errs, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidDepth, s.Depth, MinDepth, MaxDepth))
	}
	if !inRange(s.SagAngleMin, 0, MaxAngle) || !inRange(s.SagAngleMax, 0, MaxAngle) {
		errs = append(errs, fmt.Errorf("%w: [%g, %g] not within [0, %d] degrees",
			ErrInvalidSagRange, s.SagAngleMin, s.SagAngleMax, MaxAngle))
	}
	if !inRange(s.SpinSpeedMin, 0, MaxAngle) || !inRange(s.SpinSpeedMax, 0, MaxAngle) {
		errs = append(errs, fmt.Errorf("%w: [%g, %g] not within [0, %d] degrees/s",
			ErrInvalidSpinRange, s.SpinSpeedMin, s.SpinSpeedMax, MaxAngle))
	}
	if !inRange(s.ReverseSpinChance, 0, 1) {
		errs = append(errs, fmt.Errorf("%w: %g not in [0, 1]", ErrInvalidReverseChance, s.ReverseSpinChance))
	}
	return errors.Join(errs...)
}

// inRange is false for NaN.
func inRange(v, lo, hi float32) bool {
	return v >= lo && v <= hi
}
