// Package preview plays the simulation live in a terminal using half-block
// cells, two pixels per character.
package preview

import (
	"context"
	"image/color"
	"time"

	"github.com/gdamore/tcell/v2"
	"go.uber.org/zap"

	"spincube-renderer/internal/batch"
	"spincube-renderer/internal/body"
	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/raster"
	"spincube-renderer/internal/viewmatrix"
)

const upperHalf = '▀'

// DefaultFrameInterval is roughly 60 frames per second.
const DefaultFrameInterval = 16 * time.Millisecond

// Options controls a preview session. Zero values get defaults.
type Options struct {
	Mesh   *mesh.Mesh
	Camera viewmatrix.Camera
	Clear  *color.NRGBA // nil uses raster.DefaultClearColor
	Light  *raster.LightConfig

	Motion        batch.Stepper
	Step          float64
	TicksPerFrame int
	FrameInterval time.Duration
	MaxFrames     int // 0 runs until quit

	Log *zap.Logger
}

// Stats summarizes a finished session.
type Stats struct {
	Frames  int
	Ticks   int
	Bounces int
}

func (o *Options) defaults() {
	if o.Mesh == nil {
		m := mesh.Cube()
		o.Mesh = &m
	}
	if o.Camera == (viewmatrix.Camera{}) {
		o.Camera = viewmatrix.DefaultCamera()
	}
	if o.Clear == nil {
		c := raster.DefaultClearColor
		o.Clear = &c
	}
	if o.Motion == nil {
		o.Motion = batch.Bounce
	}
	if o.Step <= 0 {
		o.Step = body.DefaultStep
	}
	if o.TicksPerFrame < 1 {
		o.TicksPerFrame = 1
	}
	if o.FrameInterval <= 0 {
		o.FrameInterval = DefaultFrameInterval
	}
	if o.Log == nil {
		o.Log = zap.NewNop()
	}
}

// Run drives the bodies and draws them to an initialized screen until the
// user quits (Esc, q, Ctrl-C), MaxFrames frames have been shown or ctx is
// done. The caller owns the screen and must Fini it.
// A cancelled ctx is reported as its error; every other exit returns nil.
func Run(ctx context.Context, screen tcell.Screen, bodies []*body.Body, opts Options) (Stats, error) {
	opts.defaults()
	var st Stats

	events := make(chan tcell.Event, 16)
	quit := make(chan struct{})
	defer close(quit)
	go screen.ChannelEvents(events, quit)

	items := make([]raster.Item, len(bodies))
	scene := raster.Scene{
		Camera: opts.Camera,
		Clear:  *opts.Clear,
		Light:  opts.Light,
		Items:  items,
	}

	var fb *raster.FrameBuffer
	draw := func() {
		cols, rows := screen.Size()
		if cols <= 0 || rows <= 0 {
			return
		}
		if fb == nil || fb.Width != cols || fb.Height != rows*2 {
			fb = raster.NewFrameBuffer(cols, rows*2)
			opts.Log.Debug("framebuffer resized", zap.Int("width", cols), zap.Int("height", rows*2))
		}
		for i, b := range bodies {
			items[i] = raster.Item{Mesh: opts.Mesh, World: b.WorldMatrix()}
		}
		raster.RenderScene(fb, &scene)
		blit(screen, fb, rows)
		screen.Show()
	}

	draw()

	ticker := time.NewTicker(opts.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return st, ctx.Err()

		case ev, ok := <-events:
			if !ok {
				return st, nil
			}
			switch ev := ev.(type) {
			case *tcell.EventKey:
				if isQuitKey(ev) {
					return st, nil
				}
			case *tcell.EventResize:
				screen.Sync()
				draw()
			}

		case <-ticker.C:
			for _, b := range bodies {
				for k := 0; k < opts.TicksPerFrame; k++ {
					if opts.Motion(b, opts.Step) {
						st.Bounces++
					}
				}
			}
			st.Ticks += opts.TicksPerFrame
			draw()
			st.Frames++
			if opts.MaxFrames > 0 && st.Frames >= opts.MaxFrames {
				return st, nil
			}
		}
	}
}

func isQuitKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return true
	case tcell.KeyRune:
		return ev.Rune() == 'q' || ev.Rune() == 'Q'
	}
	return false
}

// blit draws pixel rows 2y and 2y+1 into character row y.
func blit(screen tcell.Screen, fb *raster.FrameBuffer, rows int) {
	for y := 0; y < rows; y++ {
		for x := 0; x < fb.Width; x++ {
			top := fb.At(x, 2*y)
			bot := fb.At(x, 2*y+1)
			style := tcell.StyleDefault.
				Foreground(rgb(top)).
				Background(rgb(bot))
			screen.SetContent(x, y, upperHalf, nil, style)
		}
	}
}

func rgb(c color.NRGBA) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}
