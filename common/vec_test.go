package common

import (
	"math"
	"testing"
)

const testEps = 1e-5

func almostEqual(a, b float32) bool {
	return math.Abs(float64(a-b)) < testEps
}

func vecAlmostEqual(a, b Vec3) bool {
	return almostEqual(a.X, b.X) && almostEqual(a.Y, b.Y) && almostEqual(a.Z, b.Z)
}

func TestVec3Basics(t *testing.T) {
	a := Vec3{1, 2, 3}
	b := Vec3{4, -5, 6}

	if got := a.Add(b); !vecAlmostEqual(got, Vec3{5, -3, 9}) {
		t.Errorf("Add = %v", got)
	}
	if got := a.Sub(b); !vecAlmostEqual(got, Vec3{-3, 7, -3}) {
		t.Errorf("Sub = %v", got)
	}
	if got := a.Dot(b); !almostEqual(got, 4-10+18) {
		t.Errorf("Dot = %v", got)
	}
	if got := a.Scale(2); !vecAlmostEqual(got, Vec3{2, 4, 6}) {
		t.Errorf("Scale = %v", got)
	}
}

func TestVec3Cross(t *testing.T) {
	x := Vec3{1, 0, 0}
	y := Vec3{0, 1, 0}
	if got := x.Cross(y); !vecAlmostEqual(got, Vec3{0, 0, 1}) {
		t.Errorf("x cross y = %v, want +z", got)
	}
	if got := y.Cross(x); !vecAlmostEqual(got, Vec3{0, 0, -1}) {
		t.Errorf("y cross x = %v, want -z", got)
	}
}

func TestVec3Normalize(t *testing.T) {
	v := Vec3{3, 0, 4}.Normalize()
	if !almostEqual(v.Length(), 1) {
		t.Errorf("normalized length = %v", v.Length())
	}
	if !vecAlmostEqual(v, Vec3{0.6, 0, 0.8}) {
		t.Errorf("normalized = %v", v)
	}

	// Zero vector stays zero instead of producing NaN.
	z := Vec3{}.Normalize()
	if !vecAlmostEqual(z, Vec3{}) {
		t.Errorf("zero normalize = %v", z)
	}
}

func TestSphericalRoundTrip(t *testing.T) {
	cases := []Vec3{
		{0, 0, 5},
		{3, 1, -2},
		{-4, 2, 1},
		{0.5, -3, 0.25},
	}
	for _, v := range cases {
		s := SphericalFromVec3(v)
		back := s.Vec3()
		if !vecAlmostEqual(back, v) {
			t.Errorf("round trip %v -> %+v -> %v", v, s, back)
		}
	}
}

func TestSphericalFromVec3Zero(t *testing.T) {
	s := SphericalFromVec3(Vec3{})
	if s.Radius != 0 || s.Phi != 0 || s.Theta != 0 {
		t.Errorf("zero vector spherical = %+v", s)
	}
}

func TestSphericalMakeSafe(t *testing.T) {
	s := Spherical{Radius: 1, Phi: 0, Theta: 0}.MakeSafe(1e-6)
	if s.Phi < 1e-6 {
		t.Errorf("phi not nudged off the pole: %v", s.Phi)
	}

	s = Spherical{Radius: 1, Phi: math.Pi, Theta: 0}.MakeSafe(1e-6)
	if s.Phi > math.Pi-1e-6 {
		t.Errorf("phi not nudged off the far pole: %v", s.Phi)
	}
}

func TestQuatFromUnitVectors(t *testing.T) {
	from := Vec3{0, 1, 0}
	to := Vec3{0, 0, 1}
	q := QuatFromUnitVectors(from, to)
	if got := from.ApplyQuaternion(q); !vecAlmostEqual(got, to) {
		t.Errorf("rotated = %v, want %v", got, to)
	}

	// Opposite vectors still produce a valid half-turn.
	q = QuatFromUnitVectors(Vec3{0, 1, 0}, Vec3{0, -1, 0})
	if got := (Vec3{0, 1, 0}).ApplyQuaternion(q); !vecAlmostEqual(got, Vec3{0, -1, 0}) {
		t.Errorf("opposite rotated = %v", got)
	}
}

func TestQuatInvertUndoesRotation(t *testing.T) {
	q := QuatFromUnitVectors(Vec3{0, 1, 0}, Vec3{1, 0, 0})
	inv := q.Invert()
	v := Vec3{2, -1, 3}
	back := v.ApplyQuaternion(q).ApplyQuaternion(inv)
	if !vecAlmostEqual(back, v) {
		t.Errorf("invert round trip = %v, want %v", back, v)
	}
}

func TestQuatDotIdentity(t *testing.T) {
	q := QuatIdentity()
	if got := q.Dot(q); !almostEqual(got, 1) {
		t.Errorf("identity dot identity = %v", got)
	}
}

func TestQuatLookAt(t *testing.T) {
	eye := Vec3{0, 0, 5}
	target := Vec3{}
	q := QuatLookAt(eye, target, Vec3{0, 1, 0})

	// The camera's local -Z axis should point from eye toward target.
	forward := (Vec3{0, 0, -1}).ApplyQuaternion(q)
	want := target.Sub(eye).Normalize()
	if !vecAlmostEqual(forward, want) {
		t.Errorf("forward = %v, want %v", forward, want)
	}
}
