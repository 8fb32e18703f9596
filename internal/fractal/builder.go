package fractal

import (
	"time"

	"cogentcore.org/core/base/randx"

	"github.com/Faultbox/fractal/pkg/math"
)

// newRand returns the random source for a tree built with s.
func newRand(s Settings) randx.Rand {
	seed := s.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return randx.NewSysRand(seed)
}

// build allocates a store for s and fills in every part. Draws from rng
// happen in a fixed order so a seeded source yields the same tree.
func build(s Settings, rng randx.Rand) *partStore {
	store := newPartStore(s.Depth)
	for k := range store.levels {
		lv := &store.levels[k]
		lv.sequence = math.Vec4{rng.Float32(), rng.Float32(), rng.Float32(), rng.Float32()}
		for i := range lv.parts {
			lv.parts[i] = newPart(s, rng, k, i)
		}
	}
	return store
}

func newPart(s Settings, rng randx.Rand, level, index int) Part {
	local := math.QuatIdentity()
	if level > 0 {
		local = ChildRotation(index)
	}

	maxSag := radians(lerp(s.SagAngleMin, s.SagAngleMax, rng.Float32()))

	direction := float32(1)
	if rng.Float32() < s.ReverseSpinChance {
		direction = -1
	}
	spin := direction * radians(lerp(s.SpinSpeedMin, s.SpinSpeedMax, rng.Float32()))

	return Part{
		LocalRotation: local,
		WorldRotation: math.QuatIdentity(),
		MaxSagAngle:   maxSag,
		SpinVelocity:  spin,
	}
}
