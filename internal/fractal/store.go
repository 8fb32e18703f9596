package fractal

import "github.com/Faultbox/fractal/pkg/math"

// level holds the contiguous state of one tree level. The parent of
// parts[i] is parts[Parent(i)] of the previous level.
type level struct {
	parts    []Part
	matrices []math.Mat3x4
	// sequence is opaque per-level variation data for renderers.
	sequence math.Vec4
}

// partStore owns every level of one tree. All levels are allocated
// together and released together.
type partStore struct {
	levels []level
}

func newPartStore(depth int) *partStore {
	s := &partStore{levels: make([]level, depth)}
	for k := range s.levels {
		n := LevelSize(k)
		s.levels[k] = level{
			parts:    make([]Part, n),
			matrices: make([]math.Mat3x4, n),
		}
	}
	return s
}

func (s *partStore) depth() int {
	return len(s.levels)
}

func (s *partStore) totalParts() int {
	total := 0
	for i := range s.levels {
		total += len(s.levels[i].parts)
	}
	return total
}

// release drops every level. The store must not be used afterwards.
func (s *partStore) release() {
	for i := range s.levels {
		s.levels[i] = level{}
	}
	s.levels = nil
}
