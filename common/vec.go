package common

import "math"

// Vec3 is a 3-component float32 vector in world space.
type Vec3 struct {
	X, Y, Z float32
}

// Add returns v + o.
func (v Vec3) Add(o Vec3) Vec3 {
	return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z}
}

// Sub returns v - o.
func (v Vec3) Sub(o Vec3) Vec3 {
	return Vec3{v.X - o.X, v.Y - o.Y, v.Z - o.Z}
}

// Scale returns v scaled by s.
func (v Vec3) Scale(s float32) Vec3 {
	return Vec3{v.X * s, v.Y * s, v.Z * s}
}

// Dot returns the dot product of v and o.
func (v Vec3) Dot(o Vec3) float32 {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

// Cross returns the cross product v × o.
func (v Vec3) Cross(o Vec3) Vec3 {
	return Vec3{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

// LengthSq returns the squared length of v.
func (v Vec3) LengthSq() float32 {
	return v.X*v.X + v.Y*v.Y + v.Z*v.Z
}

// Length returns the length of v.
func (v Vec3) Length() float32 {
	return float32(math.Sqrt(float64(v.LengthSq())))
}

// DistanceSqTo returns the squared distance between v and o.
func (v Vec3) DistanceSqTo(o Vec3) float32 {
	return v.Sub(o).LengthSq()
}

// Normalize returns v scaled to unit length. The zero vector is returned unchanged.
func (v Vec3) Normalize() Vec3 {
	l := v.Length()
	if l == 0 {
		return v
	}
	return v.Scale(1 / l)
}

// ApplyQuaternion returns v rotated by the unit quaternion q.
func (v Vec3) ApplyQuaternion(q Quat) Vec3 {
	// t = 2 * cross(q.xyz, v); v' = v + q.w*t + cross(q.xyz, t)
	qv := Vec3{q.X, q.Y, q.Z}
	t := qv.Cross(v).Scale(2)
	return v.Add(t.Scale(q.W)).Add(qv.Cross(t))
}

// Quat is a quaternion (x, y, z, w). Rotation quaternions are kept unit-length.
type Quat struct {
	X, Y, Z, W float32
}

// QuatIdentity returns the identity rotation.
func QuatIdentity() Quat {
	return Quat{W: 1}
}

// Dot returns the quaternion dot product of q and o.
func (q Quat) Dot(o Quat) float32 {
	return q.X*o.X + q.Y*o.Y + q.Z*o.Z + q.W*o.W
}

// Invert returns the inverse rotation. Assumes q is unit-length (conjugate).
func (q Quat) Invert() Quat {
	return Quat{-q.X, -q.Y, -q.Z, q.W}
}

// Normalize returns q scaled to unit length. A zero quaternion becomes identity.
func (q Quat) Normalize() Quat {
	l := float32(math.Sqrt(float64(q.X*q.X + q.Y*q.Y + q.Z*q.Z + q.W*q.W)))
	if l == 0 {
		return QuatIdentity()
	}
	return Quat{q.X / l, q.Y / l, q.Z / l, q.W / l}
}

// QuatFromUnitVectors returns the shortest-arc rotation taking unit vector
// from onto unit vector to.
func QuatFromUnitVectors(from, to Vec3) Quat {
	r := from.Dot(to) + 1
	if r < 1e-8 {
		// Opposite vectors: rotate 180° around any axis perpendicular to from.
		if abs32(from.X) > abs32(from.Z) {
			return Quat{-from.Y, from.X, 0, 0}.Normalize()
		}
		return Quat{0, -from.Z, from.Y, 0}.Normalize()
	}
	c := from.Cross(to)
	return Quat{c.X, c.Y, c.Z, r}.Normalize()
}

// QuatLookAt returns the orientation of a viewer at eye looking toward target
// with the given up hint. The basis matches the LookAt view matrix: z points
// from target to eye, x is right, y is the recomputed up.
func QuatLookAt(eye, target, up Vec3) Quat {
	z := eye.Sub(target)
	if z.LengthSq() == 0 {
		z = Vec3{Z: 1}
	}
	z = z.Normalize()
	x := up.Cross(z)
	if x.LengthSq() == 0 {
		// up parallel to view direction; nudge z and retry
		z.X += 1e-4
		z = z.Normalize()
		x = up.Cross(z)
	}
	x = x.Normalize()
	y := z.Cross(x)
	return quatFromBasis(x, y, z)
}

// quatFromBasis converts an orthonormal column basis (x, y, z) to a quaternion
// using Shepperd's method.
func quatFromBasis(x, y, z Vec3) Quat {
	m00, m01, m02 := x.X, y.X, z.X
	m10, m11, m12 := x.Y, y.Y, z.Y
	m20, m21, m22 := x.Z, y.Z, z.Z

	trace := m00 + m11 + m22
	switch {
	case trace > 0:
		s := 0.5 / float32(math.Sqrt(float64(trace)+1))
		return Quat{(m21 - m12) * s, (m02 - m20) * s, (m10 - m01) * s, 0.25 / s}
	case m00 > m11 && m00 > m22:
		s := 2 * float32(math.Sqrt(float64(1+m00-m11-m22)))
		return Quat{0.25 * s, (m01 + m10) / s, (m02 + m20) / s, (m21 - m12) / s}
	case m11 > m22:
		s := 2 * float32(math.Sqrt(float64(1+m11-m00-m22)))
		return Quat{(m01 + m10) / s, 0.25 * s, (m12 + m21) / s, (m02 - m20) / s}
	default:
		s := 2 * float32(math.Sqrt(float64(1+m22-m00-m11)))
		return Quat{(m02 + m20) / s, (m12 + m21) / s, 0.25 * s, (m10 - m01) / s}
	}
}

// Spherical holds spherical coordinates relative to an origin: Radius is the
// distance, Phi the polar angle measured from the +Y axis, and Theta the
// azimuthal angle around Y measured from +Z.
type Spherical struct {
	Radius float32
	Phi    float32
	Theta  float32
}

// SphericalFromVec3 converts an offset vector to spherical coordinates.
func SphericalFromVec3(v Vec3) Spherical {
	r := v.Length()
	if r == 0 {
		return Spherical{}
	}
	return Spherical{
		Radius: r,
		Phi:    float32(math.Acos(float64(clamp32(v.Y/r, -1, 1)))),
		Theta:  float32(math.Atan2(float64(v.X), float64(v.Z))),
	}
}

// Vec3 converts spherical coordinates back to a Cartesian offset.
func (s Spherical) Vec3() Vec3 {
	sinPhiRadius := float32(math.Sin(float64(s.Phi))) * s.Radius
	return Vec3{
		X: sinPhiRadius * float32(math.Sin(float64(s.Theta))),
		Y: float32(math.Cos(float64(s.Phi))) * s.Radius,
		Z: sinPhiRadius * float32(math.Cos(float64(s.Theta))),
	}
}

// MakeSafe clamps Phi away from the poles by eps so the up direction never
// degenerates.
func (s Spherical) MakeSafe(eps float32) Spherical {
	s.Phi = clamp32(s.Phi, eps, math.Pi-eps)
	return s
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func abs32(v float32) float32 {
	if v < 0 {
		return -v
	}
	return v
}
