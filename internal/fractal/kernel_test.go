package fractal

import (
	"math/rand"
	"testing"

	"cogentcore.org/core/base/randx"
	"github.com/chewxy/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Faultbox/fractal/pkg/math"
)

func quatNear(t *testing.T, want, got math.Quat, delta float64, msgAndArgs ...interface{}) {
	t.Helper()
	assert.InDelta(t, want.X, got.X, delta, msgAndArgs...)
	assert.InDelta(t, want.Y, got.Y, delta, msgAndArgs...)
	assert.InDelta(t, want.Z, got.Z, delta, msgAndArgs...)
	assert.InDelta(t, want.W, got.W, delta, msgAndArgs...)
}

// steppedStore builds a store and propagates one frame sequentially.
func steppedStore(t *testing.T, depth int, seed int64) *partStore {
	t.Helper()
	s := DefaultSettings()
	s.Depth = depth
	store := build(s, randx.NewSysRand(seed))
	newPropagator(1, 0).step(store, IdentityRoot(), 1.0/60)
	return store
}

func levelUpdate(store *partStore, k int, dt float32) LevelUpdate {
	return LevelUpdate{
		Scale:     LevelScaleOf(k),
		DeltaTime: dt,
		Parents:   store.levels[k-1].parts,
		Parts:     store.levels[k].parts,
		Matrices:  store.levels[k].matrices,
	}
}

func TestExecuteNoDrift(t *testing.T) {
	store := steppedStore(t, 4, 3)

	// A part with no spin and no sag must sit exactly at parent * local.
	lv := store.levels[2]
	for i := range lv.parts {
		lv.parts[i].SpinAngle = 0
		lv.parts[i].SpinVelocity = 0
		lv.parts[i].MaxSagAngle = 0
	}
	levelUpdate(store, 2, 0.5).ExecuteRange(0, len(lv.parts))

	parents := store.levels[1].parts
	for i, part := range lv.parts {
		want := parents[Parent(i)].WorldRotation.Mul(part.LocalRotation)
		quatNear(t, want, part.WorldRotation, 1e-6, "part %d", i)
	}
}

func TestExecuteSpinAccumulates(t *testing.T) {
	store := steppedStore(t, 3, 5)
	lv := store.levels[1]
	start := make([]float32, len(lv.parts))
	for i := range lv.parts {
		start[i] = lv.parts[i].SpinAngle
	}

	dt1, dt2 := float32(0.016), float32(0.033)
	u1 := levelUpdate(store, 1, dt1)
	u1.ExecuteRange(0, len(lv.parts))
	u2 := levelUpdate(store, 1, dt2)
	u2.ExecuteRange(0, len(lv.parts))

	for i, part := range lv.parts {
		assert.InDelta(t, start[i]+part.SpinVelocity*(dt1+dt2), part.SpinAngle, 1e-6, "part %d", i)
	}

	// dt=0 leaves the angle untouched.
	before := lv.parts[3].SpinAngle
	levelUpdate(store, 1, 0).Execute(3)
	assert.Equal(t, before, lv.parts[3].SpinAngle)
}

// singleChild sets up one parent with a straight-up child (identity local
// rotation, no spin).
func singleChild(parentRot math.Quat, maxSag float32) LevelUpdate {
	parents := []Part{{WorldPosition: math.Vec3{X: 1, Y: 2, Z: 3}, WorldRotation: parentRot}}
	parts := []Part{{LocalRotation: math.QuatIdentity(), MaxSagAngle: maxSag}}
	return LevelUpdate{
		Scale:     0.5,
		DeltaTime: 1.0 / 60,
		Parents:   parents,
		Parts:     parts,
		Matrices:  make([]math.Mat3x4, 1),
	}
}

func TestExecuteDegenerateSagAxis(t *testing.T) {
	for _, angle := range []float32{0, 0.7, -2.1, 3.1} {
		parentRot := math.QuatRotateY(angle)
		u := singleChild(parentRot, radians(25))
		u.Execute(0)

		part := u.Parts[0]
		assert.Equal(t, parentRot, part.WorldRotation, "spin about up, angle %v", angle)
		assert.False(t, isNaN(part.WorldRotation), "angle %v", angle)

		wantPos := math.Vec3{X: 1, Y: 2 + ChildOffset*0.5, Z: 3}
		assert.InDelta(t, 0, part.WorldPosition.Distance(wantPos), 1e-6)
	}
}

func TestExecuteSagContinuity(t *testing.T) {
	maxSag := radians(25)
	prev := float32(2)
	for _, tilt := range []float32{1e-1, 1e-2, 1e-3, 1e-4, 1e-5, 1e-7, 0} {
		parentRot := math.QuatRotateX(tilt)
		u := singleChild(parentRot, maxSag)
		u.Execute(0)

		got := u.Parts[0].WorldRotation
		require.False(t, isNaN(got), "tilt %v", tilt)

		// Sag rotates by maxSag*sin(tilt), so the child's up axis moves away
		// from the parent's by at most that angle.
		dev := got.Rotate(math.Up).Distance(parentRot.Rotate(math.Up))
		assert.LessOrEqual(t, dev, maxSag*tilt*1.01+1e-6, "tilt %v", tilt)
		assert.LessOrEqual(t, dev, prev+1e-7, "deviation must shrink with tilt")
		prev = dev
	}
}

func TestExecuteSagDroops(t *testing.T) {
	// A child tipped sideways sags towards world down.
	parents := []Part{{WorldRotation: math.QuatIdentity()}}
	parts := []Part{{LocalRotation: ChildRotation(1), MaxSagAngle: radians(20)}}
	u := LevelUpdate{Scale: 1, Parents: parents, Parts: parts, Matrices: make([]math.Mat3x4, 1)}
	u.Execute(0)

	up := u.Parts[0].WorldRotation.Rotate(math.Up)
	assert.InDelta(t, -math32.Sin(radians(20)), up.Y, 1e-5)
	assert.Positive(t, up.X)
}

func TestExecuteWritesMatrix(t *testing.T) {
	store := steppedStore(t, 4, 11)
	for k := 1; k < store.depth(); k++ {
		scale := LevelScaleOf(k)
		lv := store.levels[k]
		for i, part := range lv.parts {
			m := lv.matrices[i]
			require.Equal(t, math.TRS(part.WorldPosition, part.WorldRotation, scale), m)
			assert.InDelta(t, scale, m.Column(1).Length(), 1e-5)

			parent := store.levels[k-1].parts[Parent(i)]
			offset := part.WorldPosition.Sub(parent.WorldPosition)
			assert.InDelta(t, ChildOffset*scale, offset.Length(), 1e-5, "level %d part %d", k, i)
		}
	}
}

func TestExecuteOrderIndependent(t *testing.T) {
	store := steppedStore(t, 5, 21)
	const k = 3

	ordered := append([]Part(nil), store.levels[k].parts...)
	shuffled := append([]Part(nil), store.levels[k].parts...)
	orderedM := make([]math.Mat3x4, len(ordered))
	shuffledM := make([]math.Mat3x4, len(shuffled))

	parents := store.levels[k-1].parts
	a := LevelUpdate{Scale: LevelScaleOf(k), DeltaTime: 0.02, Parents: parents, Parts: ordered, Matrices: orderedM}
	b := LevelUpdate{Scale: LevelScaleOf(k), DeltaTime: 0.02, Parents: parents, Parts: shuffled, Matrices: shuffledM}

	a.ExecuteRange(0, len(ordered))
	for _, i := range rand.New(rand.NewSource(1)).Perm(len(shuffled)) {
		b.Execute(i)
	}

	assert.Equal(t, ordered, shuffled)
	assert.Equal(t, orderedM, shuffledM)
}

func isNaN(q math.Quat) bool {
	return q.X != q.X || q.Y != q.Y || q.Z != q.Z || q.W != q.W
}
