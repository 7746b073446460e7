package body

import "spincube-renderer/internal/mathutil"

// DefaultBound is the half-extent of the square region bodies bounce inside.
const DefaultBound = 3.5

// DefaultStep is the per-tick movement and rotation increment.
const DefaultStep = 0.001

// xyDirections are the initial (x, y) direction combinations, in draw order.
var xyDirections = [4][2]float64{
	{1, 1},
	{-1, 1},
	{-1, -1},
	{1, -1},
}

// Body is a self-animating rigid body: it drifts along a diagonal direction,
// reverses at the bounds, and spins around one axis at a time.
//
// The world matrix is recomputed by every mutator, so WorldMatrix never lags
// behind Position or Rotation. A Body is not safe for concurrent use.
type Body struct {
	position  mathutil.Vec3
	rotation  mathutil.Vec3
	direction mathutil.Vec3
	axis      Axis
	world     mathutil.Mat4

	rng    Source
	bound  float64
	policy BouncePolicy
}

// Option configures a Body at construction.
type Option func(*Body)

// WithBound sets the bounce half-extent.
func WithBound(b float64) Option {
	return func(bd *Body) { bd.bound = b }
}

// WithPolicy sets which components are checked against the bound.
func WithPolicy(p BouncePolicy) Option {
	return func(bd *Body) { bd.policy = p }
}

// New creates a body at position/rotation and draws its initial axis and
// direction from src: the axis (one of 3), the x/y direction pair (one of 4),
// then the z direction (one of 2).
func New(position, rotation mathutil.Vec3, src Source, opts ...Option) *Body {
	b := &Body{
		position: position,
		rotation: rotation,
		rng:      src,
		bound:    DefaultBound,
		policy:   BounceXY,
	}
	for _, o := range opts {
		o(b)
	}

	b.axis = Axis(src.Intn(3))
	xy := xyDirections[src.Intn(4)]
	b.direction[0], b.direction[1] = xy[0], xy[1]
	if src.Intn(2) == 0 {
		b.direction[2] = -1
	} else {
		b.direction[2] = 1
	}

	b.updateWorld()
	return b
}

// Tick advances the body by one step of size delta. The bound is tested
// against the position before the move; on a hit the direction reverses and
// a new rotation axis is drawn. Reports whether the body bounced.
func (b *Body) Tick(delta float64) bool {
	bounced := b.outOfBounds()
	if bounced {
		b.direction = b.direction.Neg()
		b.axis = Axis(b.rng.Intn(3))
	}

	b.Move(b.direction.Scale(delta))

	angle := b.direction[0] * delta
	switch b.axis {
	case AxisY:
		b.RotateY(angle)
	case AxisZ:
		b.RotateZ(angle)
	default:
		b.RotateX(angle)
	}
	return bounced
}

// Spin rotates around Y, X and Z by delta without moving.
func (b *Body) Spin(delta float64) {
	b.RotateY(delta)
	b.RotateX(delta)
	b.RotateZ(delta)
}

func (b *Body) outOfBounds() bool {
	p := b.position
	if p[1] >= b.bound || p[1] <= -b.bound {
		return true
	}
	if b.policy == BounceXY && (p[0] > b.bound || p[0] < -b.bound) {
		return true
	}
	return false
}

func (b *Body) SetPosition(p mathutil.Vec3) {
	b.position = p
	b.updateWorld()
}

func (b *Body) SetRotation(r mathutil.Vec3) {
	b.rotation = r
	b.updateWorld()
}

func (b *Body) Move(d mathutil.Vec3) {
	b.position = b.position.Add(d)
	b.updateWorld()
}

func (b *Body) RotateX(radians float64) {
	b.rotation[0] += radians
	b.updateWorld()
}

func (b *Body) RotateY(radians float64) {
	b.rotation[1] += radians
	b.updateWorld()
}

func (b *Body) RotateZ(radians float64) {
	b.rotation[2] += radians
	b.updateWorld()
}

func (b *Body) WorldMatrix() mathutil.Mat4 { return b.world }
func (b *Body) Position() mathutil.Vec3    { return b.position }
func (b *Body) Rotation() mathutil.Vec3    { return b.rotation }
func (b *Body) Direction() mathutil.Vec3   { return b.direction }
func (b *Body) Axis() Axis                 { return b.axis }
func (b *Body) Bound() float64             { return b.bound }
func (b *Body) Policy() BouncePolicy       { return b.policy }

// WorldFor composes the world transform for a rotation and position.
func WorldFor(position, rotation mathutil.Vec3) mathutil.Mat4 {
	return mathutil.Mat4Mul(
		mathutil.EulerXYZ(rotation),
		mathutil.World(position, mathutil.Forward, mathutil.Up),
	)
}

func (b *Body) updateWorld() {
	b.world = WorldFor(b.position, b.rotation)
}
