package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"spincube-renderer/internal/batch"
	"spincube-renderer/internal/config"
	"spincube-renderer/internal/logging"
	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/raster"
	"spincube-renderer/internal/texture"
)

func main() {
	// CLI flags
	configFile := flag.String("config", "", "Path to a JSON or YAML config file")
	outputDir := flag.String("output", "", "Output directory (default: renders)")
	frames := flag.Int("frames", 0, "Number of frames to render (default: 120)")
	ticks := flag.Int("ticks", 0, "Simulation ticks per frame (default: 50)")
	seed := flag.Int64("seed", 0, "Random seed for bounce axis selection")
	workers := flag.Int("workers", 0, "Number of worker goroutines (default: NumCPU)")
	size := flag.String("size", "", "Frame size as WIDTHxHEIGHT (default: 640x480)")
	format := flag.String("format", "", "Output: frames, animation or both (default: both)")
	logLevel := flag.String("log-level", "", "Log level: debug, info, warn, error")

	flag.Parse()

	// Load config
	var cfg config.Config
	if *configFile != "" {
		var err error
		cfg, err = config.Load(*configFile)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	flags := config.Flags{
		OutputDir:     *outputDir,
		Frames:        *frames,
		TicksPerFrame: *ticks,
		Workers:       *workers,
		Format:        *format,
		LogLevel:      *logLevel,
	}
	if isFlagSet("seed") {
		flags.Seed = seed
	}
	if *size != "" {
		if _, err := fmt.Sscanf(*size, "%dx%d", &flags.Width, &flags.Height); err != nil {
			fmt.Fprintf(os.Stderr, "Error: bad -size %q: want WIDTHxHEIGHT\n", *size)
			os.Exit(1)
		}
	}

	// CLI flags override config file
	cfg.Resolve(flags)
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log); err != nil {
		log.Error("render failed", zap.Error(err))
		log.Sync()
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, log *zap.Logger) error {
	cube := mesh.Cube()
	batchCfg := batch.Config{
		OutputDir:   cfg.OutputDir,
		Width:       cfg.Width,
		Height:      cfg.Height,
		Supersample: cfg.Supersample,
		WriteFrames: cfg.Format != config.FormatAnimation,
		Animate:     cfg.Format != config.FormatFrames,
		FrameMS:     cfg.FrameMS,
		Workers:     cfg.Workers,
		Mesh:        &cube,
		Camera:      *cfg.Camera,
		Clear:       cfg.Clear(),
		Log:         log,
	}
	if cfg.Lighting {
		lc := raster.DefaultLightConfig()
		batchCfg.Light = &lc
	}
	if cfg.Backdrop != "" {
		bg, err := texture.LoadBackdrop(cfg.Backdrop)
		if err != nil {
			return err
		}
		batchCfg.Backdrop = bg
	}

	motion := batch.Bounce
	if cfg.Motion == config.MotionSpin {
		motion = batch.Spin
	}

	log.Info("spinning cube renderer",
		zap.Int("bodies", len(cfg.Bodies)),
		zap.Int("frames", cfg.Frames),
		zap.Int("ticks_per_frame", cfg.TicksPerFrame),
		zap.String("size", fmt.Sprintf("%dx%d", cfg.Width, cfg.Height)),
		zap.String("policy", cfg.BouncePolicy),
		zap.Int("workers", cfg.Workers),
		zap.String("output", cfg.OutputDir))

	start := time.Now()
	states := batch.Simulate(cfg.NewBodies(), cfg.Frames, cfg.TicksPerFrame, cfg.Step, motion)
	log.Debug("simulation done", zap.Duration("elapsed", time.Since(start)))

	// Run batch
	results, err := batch.Run(ctx, batchCfg, states)
	if err != nil {
		return err
	}

	// Count results
	// batch.Run already logged each failure
	success, failed := 0, 0
	for _, r := range results {
		if r.Success {
			success++
		} else {
			failed++
		}
	}

	// Write manifest
	m := batch.Manifest{
		RunID:   uuid.NewString(),
		Created: time.Now().UTC(),
		Width:   cfg.Width,
		Height:  cfg.Height,
	}
	if batchCfg.Animate {
		m.Animation = batch.AnimationFile
	}
	manifestPath := filepath.Join(cfg.OutputDir, batch.ManifestFile)
	if err := batch.WriteManifest(manifestPath, m, results); err != nil {
		log.Warn("manifest write failed", zap.Error(err))
	} else {
		log.Info("manifest written", zap.String("path", manifestPath), zap.String("run_id", m.RunID))
	}

	log.Info("done",
		zap.Int("rendered", success),
		zap.Int("total", len(results)),
		zap.Duration("elapsed", time.Since(start)))

	if failed > 0 {
		return fmt.Errorf("%d of %d frames failed", failed, len(results))
	}
	return nil
}

func isFlagSet(name string) bool {
	set := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			set = true
		}
	})
	return set
}
