package raster

import (
	"image"
	"image/color"

	"spincube-renderer/internal/mathutil"
	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/viewmatrix"
)

// DefaultClearColor is the dark blue background.
var DefaultClearColor = color.NRGBA{R: 0, G: 32, B: 77, A: 255}

// Item is one mesh placed in the world.
type Item struct {
	Mesh  *mesh.Mesh
	World mathutil.Mat4
}

// Scene is everything one draw needs. It replaces any shared device state:
// callers build a Scene per frame and hand it to RenderScene with a target.
type Scene struct {
	Camera   viewmatrix.Camera
	Items    []Item
	Clear    color.NRGBA
	Backdrop *image.NRGBA // optional, replaces Clear when set
	Light    *LightConfig // optional, nil renders unlit vertex colors
}

// RenderScene clears fb and draws every item of the scene into it.
func RenderScene(fb *FrameBuffer, s *Scene) {
	if s.Backdrop != nil {
		fb.ClearBackdrop(s.Backdrop)
	} else {
		fb.Clear(s.Clear)
	}

	viewProj := s.Camera.ViewProjection(fb.Width, fb.Height)

	for _, it := range s.Items {
		m := it.Mesh
		if m == nil || len(m.Verts) == 0 {
			continue
		}

		px, py, pz, visible := viewmatrix.ProjectVertices(m.Verts, it.World, viewProj, s.Camera.Near, fb.Width, fb.Height)

		for t := 0; t < m.TriangleCount(); t++ {
			tri := m.Triangle(t)
			if !visible[tri[0]] || !visible[tri[1]] || !visible[tri[2]] {
				continue
			}

			shade := 1.0
			if s.Light != nil {
				shade = s.Light.ComputeShade(faceNormal(m, tri, it.World))
			}
			RasterizeTriangle(fb, px, py, pz, m.Colors, tri, s.Light, shade)
		}
	}
}

// Render draws the scene into a fresh width×height image.
func Render(s *Scene, width, height int) *image.NRGBA {
	fb := NewFrameBuffer(width, height)
	RenderScene(fb, s)
	return fb.Image()
}

func faceNormal(m *mesh.Mesh, tri [3]int, world mathutil.Mat4) mathutil.Vec3 {
	v0 := world.MulPoint(m.Verts[tri[0]])
	v1 := world.MulPoint(m.Verts[tri[1]])
	v2 := world.MulPoint(m.Verts[tri[2]])
	return v1.Sub(v0).Cross(v2.Sub(v0)).Normalize()
}
