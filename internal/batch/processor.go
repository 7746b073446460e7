package batch

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"sync/atomic"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/cespare/xxhash/v2"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/postprocess"
	"spincube-renderer/internal/raster"
	"spincube-renderer/internal/viewmatrix"
)

// Output file names inside OutputDir.
const (
	FramesDir     = "frames"
	AnimationFile = "animation.webp"
	ManifestFile  = "manifest.json"
)

// Config holds all shared resources for a batch run.
type Config struct {
	OutputDir   string
	Width       int
	Height      int
	Supersample int
	WriteFrames bool
	Animate     bool
	FrameMS     int
	Workers     int

	Mesh     *mesh.Mesh
	Camera   viewmatrix.Camera
	Clear    color.NRGBA
	Backdrop *image.NRGBA
	Light    *raster.LightConfig

	Log *zap.Logger
}

// Result holds the outcome of rendering one frame.
type Result struct {
	Frame    FrameState
	Image    string // path relative to OutputDir, empty when frames are not written
	Checksum uint64
	Success  bool
	Error    string

	img *image.NRGBA
}

// Run renders all frame states using a bounded worker pool and writes the
// requested outputs. Per-frame failures are reported in the results; the
// returned error is for cancellation and whole-run failures.
func Run(ctx context.Context, cfg Config, states []FrameState) ([]Result, error) {
	log := cfg.Log
	if log == nil {
		log = zap.NewNop()
	}
	if cfg.Supersample < 1 {
		cfg.Supersample = 1
	}
	if cfg.Workers < 1 {
		cfg.Workers = 1
	}

	if err := os.MkdirAll(cfg.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("batch: create %s: %w", cfg.OutputDir, err)
	}
	if cfg.WriteFrames {
		if err := os.MkdirAll(filepath.Join(cfg.OutputDir, FramesDir), 0755); err != nil {
			return nil, fmt.Errorf("batch: create frames dir: %w", err)
		}
	}

	rw, rh := cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample
	if cfg.Backdrop != nil {
		cfg.Backdrop = postprocess.Fit(cfg.Backdrop, rw, rh)
	}

	total := len(states)
	results := make([]Result, total)
	var processed atomic.Int64
	start := time.Now()

	// Progress reporter
	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(2 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				p := processed.Load()
				if p > 0 {
					rate := float64(p) / time.Since(start).Seconds()
					log.Info("progress",
						zap.Int64("done", p),
						zap.Int("total", total),
						zap.Float64("frames_per_sec", rate))
				}
			}
		}
	}()

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := range states {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = processFrame(cfg, states[i])
			processed.Add(1)
			if !results[i].Success {
				log.Warn("frame failed", zap.Int("frame", states[i].Index), zap.String("error", results[i].Error))
			}
			return nil
		})
	}
	err := g.Wait()
	close(done)
	if err != nil {
		return results, fmt.Errorf("batch: %w", err)
	}

	log.Debug("frames rendered", zap.Int("count", total), zap.Duration("elapsed", time.Since(start)))

	if cfg.Animate {
		if err := writeAnimation(cfg, results); err != nil {
			return results, err
		}
	}

	return results, nil
}

func processFrame(cfg Config, fs FrameState) Result {
	res := Result{Frame: fs}

	scene := raster.Scene{
		Camera:   cfg.Camera,
		Clear:    cfg.Clear,
		Backdrop: cfg.Backdrop,
		Light:    cfg.Light,
		Items:    make([]raster.Item, len(fs.Bodies)),
	}
	for i, b := range fs.Bodies {
		scene.Items[i] = raster.Item{Mesh: cfg.Mesh, World: b.World}
	}

	img := raster.Render(&scene, cfg.Width*cfg.Supersample, cfg.Height*cfg.Supersample)

	// Post-processing: supersample downsample
	if cfg.Supersample > 1 {
		img = postprocess.Downsample(img, cfg.Width, cfg.Height)
	}
	res.Checksum = xxhash.Sum64(img.Pix)

	if cfg.WriteFrames {
		rel := filepath.Join(FramesDir, fmt.Sprintf("%04d.webp", fs.Index))
		if err := writeWebP(filepath.Join(cfg.OutputDir, rel), img); err != nil {
			res.Error = err.Error()
			return res
		}
		res.Image = filepath.ToSlash(rel)
	}

	if cfg.Animate {
		res.img = img
	}
	res.Success = true
	return res
}

func writeWebP(path string, img image.Image) error {
	var buf bytes.Buffer
	if err := nativewebp.Encode(&buf, img, nil); err != nil {
		return fmt.Errorf("WebP encode: %w", err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

func writeAnimation(cfg Config, results []Result) error {
	ani := &nativewebp.Animation{
		BackgroundColor: bgra(cfg.Clear),
	}
	for _, r := range results {
		if !r.Success || r.img == nil {
			continue
		}
		ani.Images = append(ani.Images, r.img)
		ani.Durations = append(ani.Durations, uint(cfg.FrameMS))
		ani.Disposals = append(ani.Disposals, 0)
	}
	if len(ani.Images) == 0 {
		return fmt.Errorf("batch: no frames for animation")
	}

	var buf bytes.Buffer
	if err := nativewebp.EncodeAll(&buf, ani, nil); err != nil {
		return fmt.Errorf("batch: encode animation: %w", err)
	}
	path := filepath.Join(cfg.OutputDir, AnimationFile)
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("batch: write %s: %w", path, err)
	}
	return nil
}

// bgra packs a color in the byte order of the WebP ANIM chunk.
func bgra(c color.NRGBA) uint32 {
	return uint32(c.B) | uint32(c.G)<<8 | uint32(c.R)<<16 | uint32(c.A)<<24
}
