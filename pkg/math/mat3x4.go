package math

// Mat3x4 is an affine transform stored as four column vectors in
// column-major order: the three basis columns followed by the translation.
//
//	[m0 m3 m6 m9 ]
//	[m1 m4 m7 m10]
//	[m2 m5 m8 m11]
//
// This is the per-instance layout consumed by instanced draw calls.
type Mat3x4 [12]float32

// TRS builds a transform from a translation, a unit rotation and a uniform
// scale. The basis columns are the rotated axes multiplied by scale.
func TRS(position Vec3, rotation Quat, scale float32) Mat3x4 {
	x, y, z := rotation.Basis()
	x, y, z = x.Scale(scale), y.Scale(scale), z.Scale(scale)
	return Mat3x4{
		x.X, x.Y, x.Z,
		y.X, y.Y, y.Z,
		z.X, z.Y, z.Z,
		position.X, position.Y, position.Z,
	}
}

// Column returns column i (0..3). Column 3 is the translation.
func (m Mat3x4) Column(i int) Vec3 {
	return Vec3{m[i*3], m[i*3+1], m[i*3+2]}
}

// Translation returns the translation column.
func (m Mat3x4) Translation() Vec3 {
	return m.Column(3)
}
