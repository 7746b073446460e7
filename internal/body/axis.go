package body

import "fmt"

// Axis selects which rotation component a body advances each tick.
type Axis int

const (
	AxisX Axis = iota
	AxisY
	AxisZ
)

func (a Axis) String() string {
	switch a {
	case AxisX:
		return "X"
	case AxisY:
		return "Y"
	case AxisZ:
		return "Z"
	}
	return fmt.Sprintf("Axis(%d)", int(a))
}

// BouncePolicy decides which position components are tested against the bound.
type BouncePolicy int

const (
	// BounceXY reverses when y reaches ±bound or x passes ±bound.
	BounceXY BouncePolicy = iota
	// BounceY only tests y.
	BounceY
)

func (p BouncePolicy) String() string {
	switch p {
	case BounceXY:
		return "xy"
	case BounceY:
		return "y"
	}
	return fmt.Sprintf("BouncePolicy(%d)", int(p))
}

// ParseBouncePolicy accepts "xy" or "y".
func ParseBouncePolicy(s string) (BouncePolicy, error) {
	switch s {
	case "xy", "":
		return BounceXY, nil
	case "y":
		return BounceY, nil
	}
	return 0, fmt.Errorf("body: unknown bounce policy %q", s)
}

// Source picks a uniformly random integer in [0, n). *math/rand.Rand satisfies it.
type Source interface {
	Intn(n int) int
}
