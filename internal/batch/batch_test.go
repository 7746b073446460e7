package batch

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"github.com/cespare/xxhash/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
	"go.uber.org/zap/zaptest/observer"

	"spincube-renderer/internal/body"
	"spincube-renderer/internal/mathutil"
	"spincube-renderer/internal/mesh"
	"spincube-renderer/internal/raster"
	"spincube-renderer/internal/viewmatrix"
)

func testBodies(seed int64, specs ...body.Spec) []*body.Body {
	if len(specs) == 0 {
		specs = []body.Spec{{}}
	}
	return body.NewSet(specs, seed)
}

func TestSimulateSnapshots(t *testing.T) {
	bodies := testBodies(1)
	initial := bodies[0].Position()

	states := Simulate(bodies, 4, 10, body.DefaultStep, Bounce)
	require.Len(t, states, 4)

	assert.Equal(t, 0, states[0].Tick)
	assert.Equal(t, initial, states[0].Bodies[0].Position)
	assert.Equal(t, 30, states[3].Tick)

	dir := states[0].Bodies[0].Direction
	for k := 0; k < 3; k++ {
		assert.InDelta(t, 30*body.DefaultStep*dir[k], states[3].Bodies[0].Position[k], 1e-12)
	}
	for _, fs := range states {
		b := fs.Bodies[0]
		assert.Equal(t, body.WorldFor(b.Position, b.Rotation), b.World)
	}
	assert.Equal(t, bodies[0].Position(), states[3].Bodies[0].Position)
}

func TestSimulateCountsBounces(t *testing.T) {
	bodies := testBodies(2, body.Spec{Position: mathutil.Vec3{0, 3.5, 0}})
	states := Simulate(bodies, 2, 1, body.DefaultStep, Bounce)
	assert.Equal(t, 0, states[0].Bodies[0].Bounces)
	assert.Equal(t, 1, states[1].Bodies[0].Bounces)
}

func TestSimulateSpin(t *testing.T) {
	bodies := testBodies(3)
	states := Simulate(bodies, 3, 5, 0.01, Spin)

	last := states[2].Bodies[0]
	assert.Equal(t, mathutil.Vec3{}, last.Position)
	for k := 0; k < 3; k++ {
		assert.InDelta(t, 0.1, last.Rotation[k], 1e-12)
	}
}

func testConfig(t *testing.T, dir string) Config {
	m := mesh.Cube()
	return Config{
		OutputDir:   dir,
		Width:       48,
		Height:      32,
		Supersample: 1,
		WriteFrames: true,
		Animate:     true,
		FrameMS:     40,
		Workers:     3,
		Mesh:        &m,
		Camera:      viewmatrix.DefaultCamera(),
		Clear:       raster.DefaultClearColor,
		Log:         zaptest.NewLogger(t),
	}
}

func TestRunWritesFramesAnimationAndManifest(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	states := Simulate(testBodies(5), 5, 200, body.DefaultStep, Bounce)

	results, err := Run(context.Background(), cfg, states)
	require.NoError(t, err)
	require.Len(t, results, 5)

	for i, r := range results {
		require.True(t, r.Success, r.Error)
		assert.Equal(t, i, r.Frame.Index)
		assert.Equal(t, fmt.Sprintf("frames/%04d.webp", i), r.Image)

		data, err := os.ReadFile(filepath.Join(dir, r.Image))
		require.NoError(t, err)
		img, err := nativewebp.Decode(bytes.NewReader(data))
		require.NoError(t, err)
		assert.Equal(t, image.Rect(0, 0, 48, 32), img.Bounds())

		if n, ok := img.(*image.NRGBA); ok {
			assert.Equal(t, r.Checksum, xxhash.Sum64(n.Pix), "frame %d", i)
		}
	}
	assert.NotEqual(t, results[0].Checksum, results[4].Checksum, "the body moved")

	ani, err := os.ReadFile(filepath.Join(dir, AnimationFile))
	require.NoError(t, err)
	assert.Equal(t, []byte("RIFF"), ani[:4])
	assert.True(t, bytes.Contains(ani, []byte("ANIM")))
	assert.GreaterOrEqual(t, bytes.Count(ani, []byte("ANMF")), 5)

	manifestPath := filepath.Join(dir, ManifestFile)
	created := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, WriteManifest(manifestPath, Manifest{
		RunID:     "run-1",
		Created:   created,
		Width:     48,
		Height:    32,
		Animation: AnimationFile,
	}, results))

	raw, err := os.ReadFile(manifestPath)
	require.NoError(t, err)
	var m Manifest
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "run-1", m.RunID)
	assert.True(t, created.Equal(m.Created))
	require.Len(t, m.Frames, 5)
	assert.Equal(t, 800, m.Frames[4].Tick)
	assert.Len(t, m.Frames[4].Checksum, 16)
	assert.Equal(t, results[4].Frame.Bodies[0].Position, m.Frames[4].Bodies[0].Position)
}

func TestRunAnimationOnlySupersampled(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig(t, dir)
	cfg.WriteFrames = false
	cfg.Supersample = 2
	lc := raster.DefaultLightConfig()
	cfg.Light = &lc

	results, err := Run(context.Background(), cfg, Simulate(testBodies(6), 2, 1, body.DefaultStep, Bounce))
	require.NoError(t, err)
	for _, r := range results {
		assert.True(t, r.Success)
		assert.Empty(t, r.Image)
	}

	_, err = os.Stat(filepath.Join(dir, FramesDir))
	assert.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, AnimationFile))
	assert.NoError(t, err)
}

func TestRunLogsEachFailedFrameOnce(t *testing.T) {
	dir := t.TempDir()
	// a directory in the way makes the frame write fail
	require.NoError(t, os.MkdirAll(filepath.Join(dir, FramesDir, "0001.webp"), 0o755))

	core, logs := observer.New(zap.WarnLevel)
	cfg := testConfig(t, dir)
	cfg.Animate = false
	cfg.Log = zap.New(core)

	results, err := Run(context.Background(), cfg, Simulate(testBodies(9), 3, 1, body.DefaultStep, Bounce))
	require.NoError(t, err)
	assert.True(t, results[0].Success)
	assert.False(t, results[1].Success)
	assert.NotEmpty(t, results[1].Error)
	assert.True(t, results[2].Success)

	failed := logs.FilterMessage("frame failed").All()
	require.Len(t, failed, 1)
	assert.Equal(t, int64(1), failed[0].ContextMap()["frame"])
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	cfg := testConfig(t, t.TempDir())
	_, err := Run(ctx, cfg, Simulate(testBodies(7), 3, 1, body.DefaultStep, Bounce))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRunBackdrop(t *testing.T) {
	cfg := testConfig(t, t.TempDir())
	cfg.WriteFrames = false
	cfg.Animate = false
	bg := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	for i := 0; i < len(bg.Pix); i += 4 {
		copy(bg.Pix[i:], []uint8{200, 10, 10, 255})
	}
	cfg.Backdrop = bg

	results, err := Run(context.Background(), cfg, Simulate(testBodies(8), 1, 1, body.DefaultStep, Bounce))
	require.NoError(t, err)
	require.True(t, results[0].Success)

	plain := testConfig(t, t.TempDir())
	plain.WriteFrames = false
	plain.Animate = false
	other, err := Run(context.Background(), plain, Simulate(testBodies(8), 1, 1, body.DefaultStep, Bounce))
	require.NoError(t, err)
	assert.NotEqual(t, other[0].Checksum, results[0].Checksum)
}

func TestBGRA(t *testing.T) {
	assert.Equal(t, uint32(0xFF00204D), bgra(color.NRGBA{R: 0, G: 32, B: 77, A: 255}))
	assert.Equal(t, uint32(0x80112233), bgra(color.NRGBA{R: 0x11, G: 0x22, B: 0x33, A: 0x80}))
}
