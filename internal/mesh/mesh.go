package mesh

import (
	"fmt"
	"image/color"

	"spincube-renderer/internal/mathutil"
)

// Mesh is an indexed triangle list with one color per vertex.
type Mesh struct {
	Verts   []mathutil.Vec3
	Colors  []color.NRGBA
	Indices []uint16 // three per triangle
}

// TriangleCount returns the number of triangles in the index list.
func (m *Mesh) TriangleCount() int {
	return len(m.Indices) / 3
}

// Triangle returns the vertex indices of triangle i.
func (m *Mesh) Triangle(i int) [3]int {
	return [3]int{int(m.Indices[i*3]), int(m.Indices[i*3+1]), int(m.Indices[i*3+2])}
}

// Validate checks index bounds and per-vertex attribute lengths.
func (m *Mesh) Validate() error {
	if len(m.Colors) != len(m.Verts) {
		return fmt.Errorf("mesh: %d colors for %d vertices", len(m.Colors), len(m.Verts))
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("mesh: index count %d is not a multiple of 3", len(m.Indices))
	}
	for i, idx := range m.Indices {
		if int(idx) >= len(m.Verts) {
			return fmt.Errorf("mesh: index %d at %d out of range (%d vertices)", idx, i, len(m.Verts))
		}
	}
	return nil
}
