package viewmatrix

import (
	"spincube-renderer/internal/mathutil"
)

// Default camera placement: slightly above the scene, looking down at y=1.
const (
	DefaultFOV  = 3.142 / 2
	DefaultNear = 0.01
	DefaultFar  = 100.0
)

// Camera holds a right-handed look-at camera and its perspective frustum.
type Camera struct {
	Eye  mathutil.Vec3 `json:"eye" yaml:"eye"`
	At   mathutil.Vec3 `json:"at" yaml:"at"`
	Up   mathutil.Vec3 `json:"up" yaml:"up"`
	FOV  float64       `json:"fov" yaml:"fov"` // vertical, radians
	Near float64       `json:"near" yaml:"near"`
	Far  float64       `json:"far" yaml:"far"`
}

func DefaultCamera() Camera {
	return Camera{
		Eye:  mathutil.Vec3{0, 2, -5},
		At:   mathutil.Vec3{0, 1, 0},
		Up:   mathutil.Vec3{0, 1, 0},
		FOV:  DefaultFOV,
		Near: DefaultNear,
		Far:  DefaultFar,
	}
}

// View returns the world-to-view matrix.
func (c Camera) View() mathutil.Mat4 {
	return mathutil.LookAtRH(c.Eye, c.At, c.Up)
}

// Projection returns the view-to-clip matrix for the given width/height ratio.
func (c Camera) Projection(aspect float64) mathutil.Mat4 {
	return mathutil.PerspectiveFovRH(c.FOV, aspect, c.Near, c.Far)
}

// ViewProjection returns View × Projection for a width×height target.
func (c Camera) ViewProjection(width, height int) mathutil.Mat4 {
	return mathutil.Mat4Mul(c.View(), c.Projection(float64(width)/float64(height)))
}

// ProjectVertices transforms model-space vertices through world and
// viewProj into screen coordinates for a width×height target.
// Returns px, py (pixels, y down), pz (NDC depth, 0 = near) and a visibility
// flag per vertex that is false for vertices at or behind the near plane.
func ProjectVertices(verts []mathutil.Vec3, world, viewProj mathutil.Mat4, near float64, width, height int) ([]float64, []float64, []float64, []bool) {
	n := len(verts)
	px := make([]float64, n)
	py := make([]float64, n)
	pz := make([]float64, n)
	visible := make([]bool, n)

	wvp := mathutil.Mat4Mul(world, viewProj)
	halfW := float64(width) / 2
	halfH := float64(height) / 2

	for i, v := range verts {
		c := wvp.MulHomog(v)
		if c[3] <= near {
			continue
		}
		invW := 1 / c[3]
		px[i] = (c[0]*invW + 1) * halfW
		py[i] = (1 - c[1]*invW) * halfH
		pz[i] = c[2] * invW
		visible[i] = true
	}

	return px, py, pz, visible
}
