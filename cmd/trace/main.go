package main

import (
	"flag"
	"fmt"
	"os"

	"spincube-renderer/internal/body"
)

func main() {
	ticks := flag.Int("ticks", 10000, "Number of ticks to simulate")
	every := flag.Int("every", 1000, "Print the body state every N ticks (0: bounces only)")
	seed := flag.Int64("seed", 1, "Random seed for bounce axis selection")
	policy := flag.String("policy", "xy", "Bounce policy: xy or y")
	step := flag.Float64("step", body.DefaultStep, "Tick delta")
	flag.Parse()

	p, err := body.ParseBouncePolicy(*policy)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	b := body.NewSet([]body.Spec{{}}, *seed, body.WithPolicy(p))[0]
	fmt.Printf("Policy: %s, Bound: %.2f, Seed: %d\n", b.Policy(), b.Bound(), *seed)
	printState(0, b)

	bounces := 0
	for t := 1; t <= *ticks; t++ {
		before := b.Position()
		if b.Tick(*step) {
			bounces++
			fmt.Printf("  bounce #%d at tick %d: pos=(%.4f, %.4f, %.4f) dir=%s axis=%s\n",
				bounces, t, before[0], before[1], before[2], fmtDir(b.Direction()), b.Axis())
		}
		if *every > 0 && t%*every == 0 {
			printState(t, b)
		}
	}

	fmt.Println("------------------------------------------------------------")
	fmt.Printf("Ticks: %d, Bounces: %d\n", *ticks, bounces)
}

func printState(t int, b *body.Body) {
	p, r := b.Position(), b.Rotation()
	fmt.Printf("tick %7d: pos=(%.4f, %.4f, %.4f) rot=(%.4f, %.4f, %.4f) dir=%s axis=%s\n",
		t, p[0], p[1], p[2], r[0], r[1], r[2], fmtDir(b.Direction()), b.Axis())
}

func fmtDir(d [3]float64) string {
	return fmt.Sprintf("(%+.0f, %+.0f, %+.0f)", d[0], d[1], d[2])
}
