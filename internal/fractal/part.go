package fractal

import (
	"github.com/chewxy/math32"

	"github.com/Faultbox/fractal/pkg/math"
)

// Part is one node of the tree. LocalRotation, MaxSagAngle and SpinVelocity
// are fixed at construction; the rest is rewritten every frame.
type Part struct {
	WorldPosition math.Vec3
	LocalRotation math.Quat
	WorldRotation math.Quat

	// MaxSagAngle is in radians.
	MaxSagAngle float32
	// SpinAngle is in radians and only ever advanced by SpinVelocity*dt.
	SpinAngle float32
	// SpinVelocity is in radians per second.
	SpinVelocity float32
}

// childRotations orients the five children of a part: one continuing
// straight on, four tipped 90 degrees to the sides.
var childRotations = [Branching]math.Quat{
	math.QuatIdentity(),
	math.QuatRotateZ(-0.5 * math32.Pi),
	math.QuatRotateZ(0.5 * math32.Pi),
	math.QuatRotateX(0.5 * math32.Pi),
	math.QuatRotateX(-0.5 * math32.Pi),
}

// ChildRotation returns the fixed local rotation of the child at the given
// position among its siblings (0..4).
func ChildRotation(sibling int) math.Quat {
	return childRotations[sibling%Branching]
}

// Parent returns the index in level k-1 of the parent of part i in level k.
func Parent(i int) int {
	return i / Branching
}

// LevelSize returns the number of parts in the given level.
func LevelSize(level int) int {
	n := 1
	for ; level > 0; level-- {
		n *= Branching
	}
	return n
}

// TotalParts returns the number of parts in a tree of the given depth.
func TotalParts(depth int) int {
	return (LevelSize(depth) - 1) / (Branching - 1)
}

// LevelScaleOf returns the scale of level k relative to the root scale.
func LevelScaleOf(k int) float32 {
	s := float32(1)
	for ; k > 0; k-- {
		s *= LevelScale
	}
	return s
}

func radians(deg float32) float32 {
	return deg * (math32.Pi / 180)
}

func lerp(a, b, t float32) float32 {
	return a + (b-a)*t
}
