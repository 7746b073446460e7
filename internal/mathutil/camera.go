package mathutil

import "math"

var (
	Forward = Vec3{0, 0, 1}
	Up      = Vec3{0, 1, 0}
)

// World builds an object-to-world matrix from a position and orientation basis.
// The object's local -Z faces forward (right-handed).
func World(position, forward, up Vec3) Mat4 {
	z := forward.Neg().Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4{
		x[0], x[1], x[2], 0,
		y[0], y[1], y[2], 0,
		z[0], z[1], z[2], 0,
		position[0], position[1], position[2], 1,
	}
}

// LookAtRH builds a right-handed view matrix.
func LookAtRH(eye, at, up Vec3) Mat4 {
	z := eye.Sub(at).Normalize()
	x := up.Cross(z).Normalize()
	y := z.Cross(x)
	return Mat4{
		x[0], y[0], z[0], 0,
		x[1], y[1], z[1], 0,
		x[2], y[2], z[2], 0,
		-x.Dot(eye), -y.Dot(eye), -z.Dot(eye), 1,
	}
}

// PerspectiveFovRH builds a right-handed projection mapping view depth
// [near, far] to NDC z [0, 1]. Clip w equals the view-space distance (-z).
func PerspectiveFovRH(fovY, aspect, near, far float64) Mat4 {
	yScale := 1 / math.Tan(fovY/2)
	xScale := yScale / aspect
	zr := far / (near - far)
	return Mat4{
		xScale, 0, 0, 0,
		0, yScale, 0, 0,
		0, 0, zr, -1,
		0, 0, zr * near, 0,
	}
}
