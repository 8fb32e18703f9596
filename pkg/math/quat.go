package math

import "github.com/chewxy/math32"

// Quat represents a quaternion for 3D rotations.
// Components are stored as X, Y, Z, W where W is the scalar part.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns an identity quaternion (no rotation).
func QuatIdentity() Quat {
	return Quat{X: 0, Y: 0, Z: 0, W: 1}
}

// QuatFromAxisAngle creates a quaternion from axis-angle rotation.
// axis should be normalized, angle is in radians.
func QuatFromAxisAngle(axis Vec3, angle float32) Quat {
	s, c := math32.Sincos(angle / 2)
	return Quat{
		X: axis.X * s,
		Y: axis.Y * s,
		Z: axis.Z * s,
		W: c,
	}
}

// QuatRotateX returns a rotation of angle radians about +X.
func QuatRotateX(angle float32) Quat {
	return QuatFromAxisAngle(Vec3{1, 0, 0}, angle)
}

// QuatRotateY returns a rotation of angle radians about +Y.
func QuatRotateY(angle float32) Quat {
	return QuatFromAxisAngle(Up, angle)
}

// QuatRotateZ returns a rotation of angle radians about +Z.
func QuatRotateZ(angle float32) Quat {
	return QuatFromAxisAngle(Vec3{0, 0, 1}, angle)
}

// Mul multiplies two quaternions (combines rotations).
// The result applies other first, then q.
func (q Quat) Mul(other Quat) Quat {
	return Quat{
		X: q.W*other.X + q.X*other.W + q.Y*other.Z - q.Z*other.Y,
		Y: q.W*other.Y - q.X*other.Z + q.Y*other.W + q.Z*other.X,
		Z: q.W*other.Z + q.X*other.Y - q.Y*other.X + q.Z*other.W,
		W: q.W*other.W - q.X*other.X - q.Y*other.Y - q.Z*other.Z,
	}
}

// Rotate applies the rotation to v. q must be a unit quaternion.
func (q Quat) Rotate(v Vec3) Vec3 {
	u := Vec3{q.X, q.Y, q.Z}
	t := u.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(u.Cross(t))
}

// Basis returns the rotated X, Y and Z axes, i.e. the columns of the
// equivalent rotation matrix.
func (q Quat) Basis() (x, y, z Vec3) {
	xx := q.X * q.X
	xy := q.X * q.Y
	xz := q.X * q.Z
	xw := q.X * q.W
	yy := q.Y * q.Y
	yz := q.Y * q.Z
	yw := q.Y * q.W
	zz := q.Z * q.Z
	zw := q.Z * q.W

	x = Vec3{1 - 2*(yy+zz), 2 * (xy + zw), 2 * (xz - yw)}
	y = Vec3{2 * (xy - zw), 1 - 2*(xx+zz), 2 * (yz + xw)}
	z = Vec3{2 * (xz + yw), 2 * (yz - xw), 1 - 2*(xx+yy)}
	return x, y, z
}
