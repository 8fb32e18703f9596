// Package export captures the per-level transform buffers of a tree in a
// form a renderer or an offline tool can consume.
package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/segmentio/encoding/json"

	"github.com/Faultbox/fractal/internal/fractal"
	"github.com/Faultbox/fractal/pkg/math"
)

// Snapshot is a copy of every level's instance data at one frame.
type Snapshot struct {
	Tree   uuid.UUID `json:"tree"`
	Frame  uint64    `json:"frame"`
	Depth  int       `json:"depth"`
	Levels []Level   `json:"levels"`
}

// Level is the instance data of one level. Matrices are column-major 3x4,
// ordered like the level's parts.
type Level struct {
	Index    int           `json:"index"`
	Count    int           `json:"count"`
	Scale    float32       `json:"scale"` // relative to the root scale
	Sequence math.Vec4     `json:"sequence"`
	Matrices []math.Mat3x4 `json:"matrices"`
}

// Capture copies the current buffers of t in one consistent read.
func Capture(t *fractal.Tree) Snapshot {
	frame, levels := t.CopyLevels()
	s := Snapshot{
		Tree:   t.ID(),
		Frame:  frame,
		Depth:  len(levels),
		Levels: make([]Level, len(levels)),
	}
	for k, lv := range levels {
		s.Levels[k] = Level{
			Index:    k,
			Count:    len(lv.Matrices),
			Scale:    fractal.LevelScaleOf(k),
			Sequence: lv.Sequence,
			Matrices: lv.Matrices,
		}
	}
	return s
}

// Write encodes s as JSON.
func Write(w io.Writer, s Snapshot, indent bool) error {
	enc := json.NewEncoder(w)
	if indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(s); err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}
	return nil
}

// WriteFile writes s to path, creating parent directories as needed.
func WriteFile(path string, s Snapshot, indent bool) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Write(f, s, indent); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// Read decodes a snapshot written by Write.
func Read(r io.Reader) (Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return Snapshot{}, fmt.Errorf("decoding snapshot: %w", err)
	}
	return s, nil
}
