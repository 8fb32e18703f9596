package math

import (
	"math"
	"testing"
)

func TestQuatIdentity(t *testing.T) {
	q := QuatIdentity()
	if q.X != 0 || q.Y != 0 || q.Z != 0 || q.W != 1 {
		t.Errorf("Identity quaternion should be (0,0,0,1), got (%v,%v,%v,%v)", q.X, q.Y, q.Z, q.W)
	}
}

func TestQuatFromAxisAngle(t *testing.T) {
	// 90 degrees around Y axis
	q := QuatFromAxisAngle(Vec3{X: 0, Y: 1, Z: 0}, float32(math.Pi/2))

	// Should have Y component and W = cos(45deg)
	expectedW := float32(math.Cos(math.Pi / 4))
	expectedY := float32(math.Sin(math.Pi / 4))

	if math.Abs(float64(q.W-expectedW)) > 0.001 {
		t.Errorf("QuatFromAxisAngle W: expected %v, got %v", expectedW, q.W)
	}
	if math.Abs(float64(q.Y-expectedY)) > 0.001 {
		t.Errorf("QuatFromAxisAngle Y: expected %v, got %v", expectedY, q.Y)
	}
}

func TestQuatFromAxisAngleZero(t *testing.T) {
	// A zero angle must give the exact identity so that composing with it
	// leaves other rotations bit-for-bit unchanged.
	q := QuatFromAxisAngle(Vec3{X: 0.6, Y: 0, Z: 0.8}, 0)
	if q != QuatIdentity() {
		t.Errorf("zero-angle quaternion = %v, want identity", q)
	}

	r := QuatRotateX(0.3).Mul(QuatRotateZ(1.1))
	if got := r.Mul(q); got != r {
		t.Errorf("r * identity = %v, want %v", got, r)
	}
}

func TestQuatRotate(t *testing.T) {
	tests := []struct {
		name string
		q    Quat
		v    Vec3
		want Vec3
	}{
		{"identity", QuatIdentity(), Vec3{1, 2, 3}, Vec3{1, 2, 3}},
		{"z -90 tips up to +x", QuatRotateZ(-math.Pi / 2), Up, Vec3{1, 0, 0}},
		{"z +90 tips up to -x", QuatRotateZ(math.Pi / 2), Up, Vec3{-1, 0, 0}},
		{"x +90 tips up to +z", QuatRotateX(math.Pi / 2), Up, Vec3{0, 0, 1}},
		{"x -90 tips up to -z", QuatRotateX(-math.Pi / 2), Up, Vec3{0, 0, -1}},
		{"y 90 keeps up", QuatRotateY(math.Pi / 2), Up, Up},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.q.Rotate(tt.v)
			if got.Distance(tt.want) > 1e-6 {
				t.Errorf("Rotate(%v) = %v, want %v", tt.v, got, tt.want)
			}
		})
	}
}

func TestQuatMulOrder(t *testing.T) {
	// a.Mul(b) applies b first.
	a := QuatRotateX(math.Pi / 2)
	b := QuatRotateZ(-math.Pi / 2)

	got := a.Mul(b).Rotate(Up)
	want := a.Rotate(b.Rotate(Up))
	if got.Distance(want) > 1e-6 {
		t.Errorf("(a*b).Rotate = %v, want a.Rotate(b.Rotate) = %v", got, want)
	}
}

func TestQuatBasisMatchesRotate(t *testing.T) {
	q := QuatRotateX(0.4).Mul(QuatRotateY(1.3)).Mul(QuatRotateZ(-0.7))
	x, y, z := q.Basis()

	if d := x.Distance(q.Rotate(Vec3{1, 0, 0})); d > 1e-6 {
		t.Errorf("basis x off by %v", d)
	}
	if d := y.Distance(q.Rotate(Up)); d > 1e-6 {
		t.Errorf("basis y off by %v", d)
	}
	if d := z.Distance(q.Rotate(Vec3{0, 0, 1})); d > 1e-6 {
		t.Errorf("basis z off by %v", d)
	}
}
