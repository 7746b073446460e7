package batch

import (
	"spincube-renderer/internal/body"
	"spincube-renderer/internal/mathutil"
)

// BodyState is a snapshot of one body after a frame's ticks.
type BodyState struct {
	Position  mathutil.Vec3 `json:"position"`
	Rotation  mathutil.Vec3 `json:"rotation"`
	Direction mathutil.Vec3 `json:"direction"`
	Axis      string        `json:"axis"`
	Bounces   int           `json:"bounces"`
	World     mathutil.Mat4 `json:"-"`
}

// FrameState is everything needed to render one frame, detached from the
// live bodies so frames can be rendered in any order.
type FrameState struct {
	Index  int
	Tick   int
	Bodies []BodyState
}

// Stepper advances one body by one tick.
type Stepper func(b *body.Body, step float64) bool

// Bounce is the default motion: drift, reverse at the bounds, spin one axis.
func Bounce(b *body.Body, step float64) bool { return b.Tick(step) }

// Spin only rotates around all three axes.
func Spin(b *body.Body, step float64) bool {
	b.Spin(step)
	return false
}

// Simulate steps every body ticksPerFrame times per frame and records
// frames snapshots. Frame 0 is the initial state. Runs on the calling
// goroutine only.
func Simulate(bodies []*body.Body, frames, ticksPerFrame int, step float64, motion Stepper) []FrameState {
	states := make([]FrameState, 0, frames)
	bounces := make([]int, len(bodies))

	for f := 0; f < frames; f++ {
		if f > 0 {
			for i, b := range bodies {
				for k := 0; k < ticksPerFrame; k++ {
					if motion(b, step) {
						bounces[i]++
					}
				}
			}
		}

		fs := FrameState{
			Index:  f,
			Tick:   f * ticksPerFrame,
			Bodies: make([]BodyState, len(bodies)),
		}
		for i, b := range bodies {
			fs.Bodies[i] = BodyState{
				Position:  b.Position(),
				Rotation:  b.Rotation(),
				Direction: b.Direction(),
				Axis:      b.Axis().String(),
				Bounces:   bounces[i],
				World:     b.WorldMatrix(),
			}
		}
		states = append(states, fs)
	}

	return states
}
