package preview

import (
	"context"
	"image/color"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"spincube-renderer/internal/body"
	"spincube-renderer/internal/mathutil"
	"spincube-renderer/internal/raster"
)

func newScreen(t *testing.T, cols, rows int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("")
	require.NoError(t, s.Init())
	s.SetSize(cols, rows)
	t.Cleanup(s.Fini)
	return s
}

func TestRunStopsAfterMaxFrames(t *testing.T) {
	screen := newScreen(t, 24, 10)
	bodies := body.NewSet([]body.Spec{{}}, 1)

	st, err := Run(context.Background(), screen, bodies, Options{
		TicksPerFrame: 5,
		FrameInterval: time.Millisecond,
		MaxFrames:     3,
		Log:           zaptest.NewLogger(t),
	})
	require.NoError(t, err)
	assert.Equal(t, 3, st.Frames)
	assert.Equal(t, 15, st.Ticks)
	assert.Zero(t, st.Bounces)

	dir := bodies[0].Direction()
	for k := 0; k < 3; k++ {
		assert.InDelta(t, 15*body.DefaultStep*dir[k], bodies[0].Position()[k], 1e-12)
	}
}

func TestRunDrawsHalfBlocks(t *testing.T) {
	screen := newScreen(t, 24, 10)
	bodies := body.NewSet([]body.Spec{{}}, 1)

	_, err := Run(context.Background(), screen, bodies, Options{
		FrameInterval: time.Millisecond,
		MaxFrames:     1,
	})
	require.NoError(t, err)

	cells, w, h := screen.GetContents()
	require.Equal(t, 24, w)
	require.Equal(t, 10, h)

	want := tcell.NewRGBColor(int32(raster.DefaultClearColor.R), int32(raster.DefaultClearColor.G), int32(raster.DefaultClearColor.B))
	corner := cells[0]
	require.NotEmpty(t, corner.Runes)
	assert.Equal(t, upperHalf, corner.Runes[0])
	fg, bg, _ := corner.Style.Decompose()
	assert.Equal(t, want, fg)
	assert.Equal(t, want, bg)

	// the cube sits in the middle of the view
	var painted int
	for _, c := range cells {
		fg, bg, _ := c.Style.Decompose()
		if fg != want || bg != want {
			painted++
		}
	}
	assert.Positive(t, painted)
}

func TestRunKeepsTransparentBlackClear(t *testing.T) {
	screen := newScreen(t, 24, 10)
	_, err := Run(context.Background(), screen, body.NewSet([]body.Spec{{}}, 1), Options{
		Clear:         &color.NRGBA{},
		FrameInterval: time.Millisecond,
		MaxFrames:     1,
	})
	require.NoError(t, err)

	cells, _, _ := screen.GetContents()
	fg, bg, _ := cells[0].Style.Decompose()
	black := tcell.NewRGBColor(0, 0, 0)
	assert.Equal(t, black, fg)
	assert.Equal(t, black, bg)
}

func TestRunQuitKeys(t *testing.T) {
	keys := []struct {
		name string
		key  tcell.Key
		r    rune
	}{
		{"q", tcell.KeyRune, 'q'},
		{"escape", tcell.KeyEscape, 0},
		{"ctrl-c", tcell.KeyCtrlC, 0},
	}
	for _, tc := range keys {
		t.Run(tc.name, func(t *testing.T) {
			screen := newScreen(t, 8, 4)
			screen.InjectKey(tc.key, tc.r, tcell.ModNone)

			done := make(chan error, 1)
			go func() {
				_, err := Run(context.Background(), screen, body.NewSet([]body.Spec{{}}, 2), Options{
					FrameInterval: time.Hour,
				})
				done <- err
			}()

			select {
			case err := <-done:
				assert.NoError(t, err)
			case <-time.After(5 * time.Second):
				t.Fatal("preview did not quit")
			}
		})
	}
}

func TestRunIgnoresOtherKeys(t *testing.T) {
	screen := newScreen(t, 8, 4)
	screen.InjectKey(tcell.KeyRune, 'x', tcell.ModNone)

	st, err := Run(context.Background(), screen, body.NewSet([]body.Spec{{}}, 3), Options{
		FrameInterval: time.Millisecond,
		MaxFrames:     2,
	})
	require.NoError(t, err)
	assert.Equal(t, 2, st.Frames)
}

func TestRunContextCancel(t *testing.T) {
	screen := newScreen(t, 8, 4)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := Run(ctx, screen, body.NewSet([]body.Spec{{}}, 4), Options{FrameInterval: time.Hour})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunCountsBounces(t *testing.T) {
	screen := newScreen(t, 8, 4)
	bodies := body.NewSet([]body.Spec{{Position: mathutil.Vec3{0, 3.5, 0}}}, 5)

	st, err := Run(context.Background(), screen, bodies, Options{
		FrameInterval: time.Millisecond,
		MaxFrames:     1,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, st.Bounces)
}

func TestRunFollowsResize(t *testing.T) {
	screen := newScreen(t, 8, 4)
	_, err := Run(context.Background(), screen, body.NewSet([]body.Spec{{}}, 6), Options{
		FrameInterval: time.Millisecond,
		MaxFrames:     1,
	})
	require.NoError(t, err)

	screen.SetSize(12, 6)
	_, err = Run(context.Background(), screen, body.NewSet([]body.Spec{{}}, 6), Options{
		FrameInterval: time.Millisecond,
		MaxFrames:     1,
	})
	require.NoError(t, err)

	cells, w, h := screen.GetContents()
	require.Equal(t, 12, w)
	require.Equal(t, 6, h)
	assert.Equal(t, upperHalf, cells[len(cells)-1].Runes[0])
}
