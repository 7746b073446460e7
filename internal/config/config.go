package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"gopkg.in/yaml.v3"

	"spincube-renderer/internal/body"
	"spincube-renderer/internal/viewmatrix"
)

// Output formats.
const (
	FormatFrames    = "frames"
	FormatAnimation = "animation"
	FormatBoth      = "both"
)

// Motion modes.
const (
	MotionBounce = "bounce"
	MotionSpin   = "spin"
)

// Render size limits.
const (
	MaxSize        = 8192  // output width or height
	MaxSupersample = 8
	MaxRenderSize  = 16384 // width or height times supersample
)

// Config holds all render and simulation settings.
type Config struct {
	// Paths
	OutputDir string `json:"output_dir" yaml:"output_dir"`
	Backdrop  string `json:"backdrop" yaml:"backdrop"`

	// Render settings
	Width       int       `json:"width" yaml:"width"`
	Height      int       `json:"height" yaml:"height"`
	Supersample int       `json:"supersample" yaml:"supersample"`
	Lighting    bool      `json:"lighting" yaml:"lighting"`
	ClearColor  []float64 `json:"clear_color" yaml:"clear_color"` // RGBA in [0, 1]

	Camera *viewmatrix.Camera `json:"camera" yaml:"camera"`

	// Simulation
	Frames        int         `json:"frames" yaml:"frames"`
	TicksPerFrame int         `json:"ticks_per_frame" yaml:"ticks_per_frame"`
	Step          float64     `json:"step" yaml:"step"`
	Seed          int64       `json:"seed" yaml:"seed"`
	Motion        string      `json:"motion" yaml:"motion"`
	BouncePolicy  string      `json:"bounce_policy" yaml:"bounce_policy"`
	Bound         float64     `json:"bound" yaml:"bound"`
	Bodies        []body.Spec `json:"bodies" yaml:"bodies"`

	// Output
	Format  string `json:"format" yaml:"format"`
	FrameMS int    `json:"frame_ms" yaml:"frame_ms"`
	Workers int    `json:"workers" yaml:"workers"`

	LogLevel string `json:"log_level" yaml:"log_level"`
}

// Load reads a JSON or YAML config file (chosen by extension) and returns Config.
// Fields not set in the file keep their zero values.
func Load(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}

	return cfg, nil
}

// Default returns a resolved config with no file and no flags.
func Default() Config {
	var cfg Config
	cfg.Resolve(Flags{})
	return cfg
}

// Flags holds CLI flag values that override config file settings.
// Zero values mean "not set".
type Flags struct {
	OutputDir     string
	Frames        int
	TicksPerFrame int
	Seed          *int64
	Workers       int
	Width         int
	Height        int
	Format        string
	LogLevel      string
}

// Resolve applies flag overrides and fills any empty fields with defaults.
func (c *Config) Resolve(flags Flags) {
	// CLI flags override config file
	if flags.OutputDir != "" {
		c.OutputDir = flags.OutputDir
	}
	if flags.Frames > 0 {
		c.Frames = flags.Frames
	}
	if flags.TicksPerFrame > 0 {
		c.TicksPerFrame = flags.TicksPerFrame
	}
	if flags.Seed != nil {
		c.Seed = *flags.Seed
	}
	if flags.Workers > 0 {
		c.Workers = flags.Workers
	}
	if flags.Width > 0 {
		c.Width = flags.Width
	}
	if flags.Height > 0 {
		c.Height = flags.Height
	}
	if flags.Format != "" {
		c.Format = flags.Format
	}
	if flags.LogLevel != "" {
		c.LogLevel = flags.LogLevel
	}

	if c.OutputDir == "" {
		c.OutputDir = "renders"
	}
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Supersample <= 0 {
		c.Supersample = 2
	}
	if c.ClearColor == nil {
		c.ClearColor = []float64{0.0, 0.125, 0.3, 1.0}
	}
	if c.Camera == nil {
		cam := viewmatrix.DefaultCamera()
		c.Camera = &cam
	}
	if c.Frames <= 0 {
		c.Frames = 120
	}
	if c.TicksPerFrame <= 0 {
		c.TicksPerFrame = 50
	}
	if c.Step <= 0 {
		c.Step = body.DefaultStep
	}
	if c.Motion == "" {
		c.Motion = MotionBounce
	}
	if c.BouncePolicy == "" {
		c.BouncePolicy = body.BounceXY.String()
	}
	if c.Bound <= 0 {
		c.Bound = body.DefaultBound
	}
	if len(c.Bodies) == 0 {
		c.Bodies = []body.Spec{{}}
	}
	if c.Format == "" {
		c.Format = FormatBoth
	}
	if c.FrameMS <= 0 {
		c.FrameMS = 40
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.LogLevel == "" {
		c.LogLevel = "info"
	}
}

// Validate checks a resolved config.
func (c *Config) Validate() error {
	var errs []error

	switch c.Format {
	case FormatFrames, FormatAnimation, FormatBoth:
	default:
		errs = append(errs, fmt.Errorf("format %q: want frames, animation or both", c.Format))
	}
	switch c.Motion {
	case MotionBounce, MotionSpin:
	default:
		errs = append(errs, fmt.Errorf("motion %q: want bounce or spin", c.Motion))
	}
	policy, err := body.ParseBouncePolicy(c.BouncePolicy)
	if err != nil {
		errs = append(errs, err)
	}
	if c.Bound <= 0 {
		errs = append(errs, fmt.Errorf("bound %v: must be positive", c.Bound))
	} else {
		for i, b := range c.Bodies {
			p := b.Position
			if math.Abs(p[1]) >= c.Bound || (policy == body.BounceXY && math.Abs(p[0]) > c.Bound) {
				errs = append(errs, fmt.Errorf("bodies[%d].position %v: outside bound %v", i, p, c.Bound))
			}
		}
	}
	if c.Width > MaxSize || c.Height > MaxSize {
		errs = append(errs, fmt.Errorf("size %dx%d: larger than %d", c.Width, c.Height, MaxSize))
	}
	if c.Supersample > MaxSupersample {
		errs = append(errs, fmt.Errorf("supersample %d: larger than %d", c.Supersample, MaxSupersample))
	} else if rw, rh := c.Width*c.Supersample, c.Height*c.Supersample; rw > MaxRenderSize || rh > MaxRenderSize {
		errs = append(errs, fmt.Errorf("supersampled size %dx%d: larger than %d", rw, rh, MaxRenderSize))
	}
	if len(c.ClearColor) != 4 {
		errs = append(errs, fmt.Errorf("clear_color: want 4 components, got %d", len(c.ClearColor)))
	} else {
		for i, v := range c.ClearColor {
			if v < 0 || v > 1 {
				errs = append(errs, fmt.Errorf("clear_color[%d] = %v: outside [0, 1]", i, v))
			}
		}
	}
	if cam := c.Camera; cam != nil {
		if cam.Near <= 0 || cam.Far <= cam.Near {
			errs = append(errs, fmt.Errorf("camera: need 0 < near < far, got near=%v far=%v", cam.Near, cam.Far))
		}
		if cam.FOV <= 0 || cam.FOV >= math.Pi {
			errs = append(errs, fmt.Errorf("camera: fov %v outside (0, pi)", cam.FOV))
		}
		if cam.Eye == cam.At {
			errs = append(errs, errors.New("camera: eye and at coincide"))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("config: %w", errors.Join(errs...))
	}
	return nil
}

// Policy returns the parsed bounce policy. Call after Validate.
func (c *Config) Policy() body.BouncePolicy {
	p, _ := body.ParseBouncePolicy(c.BouncePolicy)
	return p
}

// Clear returns ClearColor as an 8-bit color.
func (c *Config) Clear() color.NRGBA {
	if len(c.ClearColor) != 4 {
		return color.NRGBA{}
	}
	u := func(v float64) uint8 { return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255)) }
	return color.NRGBA{R: u(c.ClearColor[0]), G: u(c.ClearColor[1]), B: u(c.ClearColor[2]), A: u(c.ClearColor[3])}
}

// NewBodies builds the configured bodies.
func (c *Config) NewBodies() []*body.Body {
	return body.NewSet(c.Bodies, c.Seed, body.WithBound(c.Bound), body.WithPolicy(c.Policy()))
}
