package fractal

import (
	"fmt"
	"sync"
	"time"

	"cogentcore.org/core/base/randx"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/Faultbox/fractal/internal/logger"
	"github.com/Faultbox/fractal/pkg/math"
)

// Tree is an animated part hierarchy. Step, Rebuild and Close serialize on
// the tree; slices returned by the accessors are only valid until the next
// one of those calls.
type Tree struct {
	mu sync.Mutex

	id        uuid.UUID
	settings  Settings
	rng       randx.Rand
	fixedRand bool
	workers   int
	batchSize int

	prop  propagator
	store *partStore
	frame uint64
	log   *zap.Logger
}

// Option configures a Tree.
type Option func(*Tree)

// WithRand draws part parameters from r instead of a source seeded from
// Settings.Seed. The same source is reused by Rebuild.
func WithRand(r randx.Rand) Option {
	return func(t *Tree) {
		t.rng = r
		t.fixedRand = true
	}
}

// WithWorkers bounds the number of parts updated concurrently within a
// level. Zero means GOMAXPROCS; one runs every level on the calling
// goroutine.
func WithWorkers(n int) Option {
	return func(t *Tree) { t.workers = n }
}

// WithBatchSize sets the minimum number of parts per task. It is rounded
// up to whole sibling groups.
func WithBatchSize(n int) Option {
	return func(t *Tree) { t.batchSize = n }
}

// New validates s and builds a tree. No tree is returned on error.
func New(s Settings, opts ...Option) (*Tree, error) {
	t := &Tree{id: uuid.New()}
	for _, opt := range opts {
		opt(t)
	}

	if err := s.Validate(); err != nil {
		logger.Warn("rejected tree settings", zap.Error(err))
		return nil, fmt.Errorf("invalid settings: %w", err)
	}
	if t.workers < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidWorkers, t.workers)
	}
	if t.batchSize < 0 {
		return nil, fmt.Errorf("%w: %d", ErrInvalidBatchSize, t.batchSize)
	}

	t.log = logger.Named("fractal").With(zap.Stringer("tree", t.id))
	t.prop = newPropagator(t.workers, t.batchSize)
	t.rebuild(s)

	t.log.Info("tree built",
		zap.Int("depth", s.Depth),
		zap.Int("parts", t.store.totalParts()),
		zap.Int("workers", t.prop.workers),
		zap.Int("batch", t.prop.batchSize),
	)
	return t, nil
}

func (t *Tree) rebuild(s Settings) {
	if !t.fixedRand {
		t.rng = newRand(s)
	}
	t.settings = s
	t.store = build(s, t.rng)
	t.frame = 0
	instrumentBuild(t.store.totalParts())
}

func (t *Tree) teardown() {
	instrumentRelease(t.store.totalParts())
	t.store.release()
	t.store = nil
}

// Step advances the tree by dt seconds under the given root transform.
// It returns once every level has been written.
func (t *Tree) Step(dt float32, root RootTransform) error {
	if !(root.Scale > 0) {
		return fmt.Errorf("%w: %g", ErrInvalidScale, root.Scale)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.store == nil {
		return ErrTreeClosed
	}

	start := time.Now()
	t.prop.step(t.store, root, dt)
	t.frame++
	instrumentStep(time.Since(start))
	return nil
}

// Rebuild tears the tree down and builds it again from s. Nothing changes
// if s is invalid.
func (t *Tree) Rebuild(s Settings) error {
	if err := s.Validate(); err != nil {
		t.log.Warn("rejected rebuild settings", zap.Error(err))
		return fmt.Errorf("invalid settings: %w", err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	if t.store == nil {
		return ErrTreeClosed
	}

	old := t.settings.Depth
	t.teardown()
	t.rebuild(s)
	t.log.Info("tree rebuilt", zap.Int("old_depth", old), zap.Int("depth", s.Depth))
	return nil
}

// Close releases every level. It is safe to call more than once.
func (t *Tree) Close() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.store == nil {
		return
	}
	t.teardown()
	t.log.Info("tree closed", zap.Uint64("frames", t.frame))
}

// ID identifies the tree in logs and exports.
func (t *Tree) ID() uuid.UUID {
	return t.id
}

// Settings returns the settings the tree was last built with.
func (t *Tree) Settings() Settings {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.settings
}

// Frame returns the number of steps since the last build.
func (t *Tree) Frame() uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

// Depth returns the number of levels, or zero once closed.
func (t *Tree) Depth() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.store == nil {
		return 0
	}
	return t.store.depth()
}

// TotalParts returns the number of parts across all levels.
func (t *Tree) TotalParts() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.store == nil {
		return 0
	}
	return t.store.totalParts()
}

// PartCount returns the number of parts in level k.
func (t *Tree) PartCount(k int) int {
	return len(t.Parts(k))
}

// Parts returns the live parts of level k, or nil if k is out of range.
func (t *Tree) Parts(k int) []Part {
	lv := t.level(k)
	if lv == nil {
		return nil
	}
	return lv.parts
}

// Matrices returns the live transform matrices of level k, ordered like
// its parts, or nil if k is out of range.
func (t *Tree) Matrices(k int) []math.Mat3x4 {
	lv := t.level(k)
	if lv == nil {
		return nil
	}
	return lv.matrices
}

// Sequence returns the per-level variation vector drawn at construction.
func (t *Tree) Sequence(k int) math.Vec4 {
	lv := t.level(k)
	if lv == nil {
		return math.Vec4{}
	}
	return lv.sequence
}

// LevelBuffers is a copy of one level's output.
type LevelBuffers struct {
	Sequence math.Vec4
	Matrices []math.Mat3x4
}

// CopyLevels copies the buffers of every level together with the frame
// they were written at. Everything is read under one lock, so a concurrent
// Step or Rebuild never shows up half applied. Levels is nil once closed.
func (t *Tree) CopyLevels() (frame uint64, levels []LevelBuffers) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.store == nil {
		return t.frame, nil
	}
	levels = make([]LevelBuffers, len(t.store.levels))
	for k, lv := range t.store.levels {
		levels[k] = LevelBuffers{
			Sequence: lv.sequence,
			Matrices: append([]math.Mat3x4(nil), lv.matrices...),
		}
	}
	return t.frame, levels
}

func (t *Tree) level(k int) *level {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.store == nil || k < 0 || k >= t.store.depth() {
		return nil
	}
	return &t.store.levels[k]
}
