package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/gdamore/tcell/v2"

	"spincube-renderer/internal/batch"
	"spincube-renderer/internal/config"
	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/preview"
	"spincube-renderer/internal/raster"
)

func main() {
	configFile := flag.String("config", "", "Path to a JSON or YAML config file")
	seed := flag.Int64("seed", 0, "Random seed for bounce axis selection")
	ticks := flag.Int("ticks", 0, "Simulation ticks per frame (default: 50)")
	fps := flag.Int("fps", 60, "Frames per second")
	frames := flag.Int("frames", 0, "Stop after this many frames (default: run until q)")
	flag.Parse()

	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	flags := config.Flags{TicksPerFrame: *ticks}
	flag.Visit(func(f *flag.Flag) {
		if f.Name == "seed" {
			flags.Seed = seed
		}
	})
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if *fps <= 0 {
		*fps = 60
	}

	screen, err := tcell.NewScreen()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: screen: %v\n", err)
		os.Exit(1)
	}
	if err := screen.Init(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: screen init: %v\n", err)
		os.Exit(1)
	}
	screen.HideCursor()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cube := mesh.Cube()
	bg := cfg.Clear()
	opts := preview.Options{
		Mesh:          &cube,
		Camera:        *cfg.Camera,
		Clear:         &bg,
		Step:          cfg.Step,
		TicksPerFrame: cfg.TicksPerFrame,
		FrameInterval: time.Second / time.Duration(*fps),
		MaxFrames:     *frames,
		Motion:        batch.Bounce,
	}
	if cfg.Motion == config.MotionSpin {
		opts.Motion = batch.Spin
	}
	if cfg.Lighting {
		lc := raster.DefaultLightConfig()
		opts.Light = &lc
	}

	st, err := preview.Run(ctx, screen, cfg.NewBodies(), opts)
	screen.Fini()
	if err != nil && !errors.Is(err, context.Canceled) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("%d frames, %d ticks, %d bounces\n", st.Frames, st.Ticks, st.Bounces)
}
