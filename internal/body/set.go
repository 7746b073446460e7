package body

import (
	"math/rand"

	"spincube-renderer/internal/mathutil"
)

// Spec is the starting state of one body.
type Spec struct {
	Position mathutil.Vec3 `json:"position" yaml:"position"`
	Rotation mathutil.Vec3 `json:"rotation" yaml:"rotation"`
}

// NewSet builds one body per spec. Body i draws from its own source seeded
// with seed+i, so bodies never share random state.
func NewSet(specs []Spec, seed int64, opts ...Option) []*Body {
	bodies := make([]*Body, len(specs))
	for i, s := range specs {
		src := rand.New(rand.NewSource(seed + int64(i)))
		bodies[i] = New(s.Position, s.Rotation, src, opts...)
	}
	return bodies
}
