// Package sim drives a tree frame by frame, either in fixed steps or
// against the wall clock.
package sim

import (
	"context"
	"fmt"
	"time"

	"github.com/chewxy/math32"
	"go.uber.org/zap"

	"github.com/Faultbox/fractal/internal/fractal"
	"github.com/Faultbox/fractal/internal/logger"
	"github.com/Faultbox/fractal/pkg/math"
)

// Stepper advances an animation by one frame.
type Stepper interface {
	Step(dt float32, root fractal.RootTransform) error
}

// Config holds frame loop settings.
type Config struct {
	FPS      int
	Frames   int           // fixed-step mode: number of frames
	Realtime bool          // step with measured wall-clock dt
	Duration time.Duration // realtime mode: 0 runs until ctx is done
	Root     fractal.RootTransform
	RootSpin float32 // degrees per second about world up
}

// Stats summarizes a run.
type Stats struct {
	Frames  int
	SimTime float64 // seconds of simulated time
	Wall    time.Duration
}

// Runner owns the frame cadence. The stepper never sees a cancelled frame:
// ctx is only checked between frames.
type Runner struct {
	cfg       Config
	stepper   Stepper
	rootAngle float32
	log       *zap.Logger
}

// New creates a runner for s.
func New(cfg Config, s Stepper) *Runner {
	return &Runner{
		cfg:     cfg,
		stepper: s,
		log:     logger.Named("sim"),
	}
}

// Run steps until the configured frames or duration are used up, or ctx
// is done.
func (r *Runner) Run(ctx context.Context) (Stats, error) {
	if r.cfg.FPS <= 0 {
		return Stats{}, fmt.Errorf("invalid fps %d", r.cfg.FPS)
	}

	r.log.Info("starting simulation",
		zap.Int("fps", r.cfg.FPS),
		zap.Bool("realtime", r.cfg.Realtime),
		zap.Int("frames", r.cfg.Frames),
		zap.Duration("duration", r.cfg.Duration),
	)

	var (
		stats Stats
		err   error
	)
	start := time.Now()
	if r.cfg.Realtime {
		stats, err = r.runRealtime(ctx)
	} else {
		stats, err = r.runFixed(ctx)
	}
	stats.Wall = time.Since(start)

	r.log.Info("simulation finished",
		zap.Int("frames", stats.Frames),
		zap.Float64("sim_seconds", stats.SimTime),
		zap.Duration("wall", stats.Wall),
	)
	return stats, err
}

func (r *Runner) runFixed(ctx context.Context) (Stats, error) {
	var stats Stats
	dt := 1 / float32(r.cfg.FPS)
	fps := newFPSCounter(r.log)

	for stats.Frames < r.cfg.Frames {
		select {
		case <-ctx.Done():
			return stats, ctx.Err()
		default:
		}

		if err := r.frame(dt, &stats); err != nil {
			return stats, err
		}
		fps.tick(dt)
	}
	return stats, nil
}

func (r *Runner) runRealtime(ctx context.Context) (Stats, error) {
	var stats Stats
	if r.cfg.Duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, r.cfg.Duration)
		defer cancel()
	}

	ticker := time.NewTicker(time.Second / time.Duration(r.cfg.FPS))
	defer ticker.Stop()

	fps := newFPSCounter(r.log)
	lastTime := time.Now()
	for {
		select {
		case <-ctx.Done():
			if r.cfg.Duration > 0 && ctx.Err() == context.DeadlineExceeded {
				return stats, nil
			}
			return stats, ctx.Err()
		case now := <-ticker.C:
			dt := float32(now.Sub(lastTime).Seconds())
			lastTime = now

			if err := r.frame(dt, &stats); err != nil {
				return stats, err
			}
			fps.tick(dt)
		}
	}
}

func (r *Runner) frame(dt float32, stats *Stats) error {
	if err := r.stepper.Step(dt, r.root(dt)); err != nil {
		return fmt.Errorf("frame %d: %w", stats.Frames, err)
	}
	stats.Frames++
	stats.SimTime += float64(dt)
	return nil
}

// root returns the external transform for the next frame, turning it about
// world up by RootSpin.
func (r *Runner) root(dt float32) fractal.RootTransform {
	rt := r.cfg.Root
	if r.cfg.RootSpin != 0 {
		r.rootAngle += r.cfg.RootSpin * (math32.Pi / 180) * dt
		rt.Rotation = math.QuatRotateY(r.rootAngle).Mul(rt.Rotation)
	}
	return rt
}

// fpsCounter logs frame statistics once per second of wall time.
type fpsCounter struct {
	log        *zap.Logger
	frameCount int
	timer      time.Time
}

func newFPSCounter(log *zap.Logger) *fpsCounter {
	return &fpsCounter{log: log, timer: time.Now()}
}

func (c *fpsCounter) tick(dt float32) {
	c.frameCount++
	if time.Since(c.timer) >= time.Second {
		c.log.Debug("fps", zap.Int("count", c.frameCount), zap.String("dt", fmt.Sprintf("%.2fms", dt*1000)))
		c.frameCount = 0
		c.timer = time.Now()
	}
}
