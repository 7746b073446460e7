package mathutil

// Mat4 is a 4×4 matrix stored row-major and applied to row vectors (v' = v × M),
// so translation lives in the bottom row and A×B applies A first.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// Mat4Chain multiplies left to right: ms[0] × ms[1] × ...
func Mat4Chain(ms ...Mat4) Mat4 {
	out := Mat4Identity()
	for _, m := range ms {
		out = Mat4Mul(out, m)
	}
	return out
}

// MulPoint transforms a 3D point (w=1) and returns the affine result.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8] + m[12],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9] + m[13],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10] + m[14],
	}
}

// MulDir transforms a direction (w=0); translation is ignored.
func (m Mat4) MulDir(v Vec3) Vec3 {
	return Vec3{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10],
	}
}

// MulHomog transforms a point (w=1) and returns the clip-space x, y, z, w
// without the perspective divide.
func (m Mat4) MulHomog(v Vec3) [4]float64 {
	return [4]float64{
		v[0]*m[0] + v[1]*m[4] + v[2]*m[8] + m[12],
		v[0]*m[1] + v[1]*m[5] + v[2]*m[9] + m[13],
		v[0]*m[2] + v[1]*m[6] + v[2]*m[10] + m[14],
		v[0]*m[3] + v[1]*m[7] + v[2]*m[11] + m[15],
	}
}

func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// Translation returns the bottom-row translation.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[12], m[13], m[14]}
}

// ApproxEqual reports whether every element differs by at most eps.
func (m Mat4) ApproxEqual(o Mat4, eps float64) bool {
	for i := 0; i < 16; i++ {
		d := m[i] - o[i]
		if d > eps || d < -eps {
			return false
		}
	}
	return true
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	return m.ApproxEqual(Mat4Identity(), 1e-8)
}
