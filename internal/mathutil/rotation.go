package mathutil

import "math"

// RotX returns a rotation around the X axis for row vectors. Angle in radians.
func RotX(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		1, 0, 0, 0,
		0, c, s, 0,
		0, -s, c, 0,
		0, 0, 0, 1,
	}
}

// RotY returns a rotation around the Y axis.
func RotY(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, 0, -s, 0,
		0, 1, 0, 0,
		s, 0, c, 0,
		0, 0, 0, 1,
	}
}

// RotZ returns a rotation around the Z axis.
func RotZ(a float64) Mat4 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat4{
		c, s, 0, 0,
		-s, c, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// EulerXYZ returns RotX(r.x) × RotY(r.y) × RotZ(r.z).
func EulerXYZ(r Vec3) Mat4 {
	return Mat4Mul(Mat4Mul(RotX(r[0]), RotY(r[1])), RotZ(r[2]))
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
