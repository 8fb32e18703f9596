package fractal

import "github.com/Faultbox/fractal/pkg/math"

// RootTransform places the whole tree in the world.
type RootTransform struct {
	Position math.Vec3
	Rotation math.Quat
	Scale    float32
}

// IdentityRoot is a root at the origin with no rotation and unit scale.
func IdentityRoot() RootTransform {
	return RootTransform{Rotation: math.QuatIdentity(), Scale: 1}
}

// LevelUpdate advances every part of one level by one frame.
//
// Parents must hold this frame's final values and is only read. Execute(i)
// reads Parts[i] and Parents[Parent(i)] and writes only Parts[i] and
// Matrices[i], so indices may run in any order or concurrently.
type LevelUpdate struct {
	Scale     float32
	DeltaTime float32
	Parents   []Part
	Parts     []Part
	Matrices  []math.Mat3x4
}

// Execute updates part i.
func (u LevelUpdate) Execute(i int) {
	parent := &u.Parents[Parent(i)]
	part := u.Parts[i]

	part.SpinAngle += part.SpinVelocity * u.DeltaTime

	upAxis := parent.WorldRotation.Mul(part.LocalRotation).Rotate(math.Up)
	sagAxis := math.Up.Cross(upAxis)
	sagMagnitude := sagAxis.Length()

	base := parent.WorldRotation
	if sagMagnitude > SagEpsilon {
		sagAxis = sagAxis.Scale(1 / sagMagnitude)
		sag := math.QuatFromAxisAngle(sagAxis, part.MaxSagAngle*sagMagnitude)
		base = sag.Mul(parent.WorldRotation)
	}

	part.WorldRotation = base.Mul(part.LocalRotation.Mul(math.QuatRotateY(part.SpinAngle)))
	part.WorldPosition = parent.WorldPosition.Add(
		part.WorldRotation.Rotate(math.Vec3{Y: ChildOffset * u.Scale}))

	u.Parts[i] = part
	u.Matrices[i] = math.TRS(part.WorldPosition, part.WorldRotation, u.Scale)
}

// ExecuteRange updates parts [lo, hi).
func (u LevelUpdate) ExecuteRange(lo, hi int) {
	for i := lo; i < hi; i++ {
		u.Execute(i)
	}
}

// updateRoot spins the root in place under the external transform.
// The root is neither offset nor sagged.
func updateRoot(root *Part, matrix *math.Mat3x4, rt RootTransform, dt float32) {
	root.SpinAngle += root.SpinVelocity * dt
	root.WorldRotation = rt.Rotation.Mul(root.LocalRotation.Mul(math.QuatRotateY(root.SpinAngle)))
	root.WorldPosition = rt.Position
	*matrix = math.TRS(root.WorldPosition, root.WorldRotation, rt.Scale)
}
