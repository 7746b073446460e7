package mesh

import (
	"image/color"

	"spincube-renderer/internal/mathutil"
)

var (
	cubeDark  = colorF(0.25, 0.35, 0.0, 1.0)
	cubeLight = colorF(0.5, 0.7, 0.0, 1.0)
)

// Cube returns a 2×2×2 cube centered on the origin: 8 shared vertices,
// 12 triangles. Faces at z=-1 are shaded darker than faces at z=+1.
func Cube() Mesh {
	return Mesh{
		Verts: []mathutil.Vec3{
			{-1, 1, -1},
			{1, 1, -1},
			{1, 1, 1},
			{-1, 1, 1},
			{-1, -1, -1},
			{1, -1, -1},
			{1, -1, 1},
			{-1, -1, 1},
		},
		Colors: []color.NRGBA{
			cubeDark, cubeDark, cubeLight, cubeLight,
			cubeDark, cubeDark, cubeLight, cubeLight,
		},
		Indices: []uint16{
			0, 1, 3, 3, 1, 2,
			4, 5, 0, 0, 5, 1,
			7, 4, 3, 3, 4, 0,
			5, 6, 1, 1, 6, 2,
			6, 7, 2, 2, 7, 3,
			5, 4, 6, 6, 4, 7,
		},
	}
}

func colorF(r, g, b, a float64) color.NRGBA {
	return color.NRGBA{
		R: uint8(r*255 + 0.5),
		G: uint8(g*255 + 0.5),
		B: uint8(b*255 + 0.5),
		A: uint8(a*255 + 0.5),
	}
}
