package raster

import (
	"image/color"
	"math"
)

// RasterizeTriangle fills one screen-space triangle with interpolated vertex
// colors and a z-buffer test (smaller depth wins). Winding is ignored, so
// both faces are drawn. When lc is nil colors are written unlit; otherwise
// the per-face shade is applied through lc.
//
// This is the hot path: no allocation inside the pixel loop.
func RasterizeTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	colors []color.NRGBA,
	idx [3]int,
	lc *LightConfig,
	shade float64,
) {
	nv := len(px)
	for _, i := range idx {
		if i < 0 || i >= nv || i >= len(colors) {
			return
		}
	}

	x0, y0, z0 := px[idx[0]], py[idx[0]], pz[idx[0]]
	x1, y1, z1 := px[idx[1]], py[idx[1]], pz[idx[1]]
	x2, y2, z2 := px[idx[2]], py[idx[2]], pz[idx[2]]
	c0, c1, c2 := colors[idx[0]], colors[idx[1]], colors[idx[2]]

	// Bounding box, clamped to the target
	minX := int(math.Floor(math.Min(math.Min(x0, x1), x2)))
	maxX := int(math.Ceil(math.Max(math.Max(x0, x1), x2)))
	minY := int(math.Floor(math.Min(math.Min(y0, y1), y2)))
	maxY := int(math.Ceil(math.Max(math.Max(y0, y1), y2)))

	if minX < 0 {
		minX = 0
	}
	if maxX >= fb.Width {
		maxX = fb.Width - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= fb.Height {
		maxY = fb.Height - 1
	}
	if minX > maxX || minY > maxY {
		return
	}

	// Barycentric setup
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-12 && det < 1e-12 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) + 0.5 - y2
		rowOff := sy * fb.Width
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) + 0.5 - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < 0 || w1 < 0 || w2 < 0 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			if z < 0 || z > 1 {
				continue
			}
			zIdx := rowOff + sx
			if z >= fb.ZBuf[zIdx] {
				continue
			}
			fb.ZBuf[zIdx] = z

			r := lerp3(c0.R, c1.R, c2.R, w0, w1, w2)
			g := lerp3(c0.G, c1.G, c2.G, w0, w1, w2)
			b := lerp3(c0.B, c1.B, c2.B, w0, w1, w2)
			a := lerp3(c0.A, c1.A, c2.A, w0, w1, w2)
			if lc != nil {
				r, g, b = lc.Shade(r, g, b, shade)
			}

			pxIdx := zIdx * 4
			fb.Color[pxIdx] = r
			fb.Color[pxIdx+1] = g
			fb.Color[pxIdx+2] = b
			fb.Color[pxIdx+3] = a
		}
	}
}

func lerp3(a, b, c uint8, w0, w1, w2 float64) uint8 {
	return clamp255(float64(a)*w0 + float64(b)*w1 + float64(c)*w2)
}

func clamp255(v float64) uint8 {
	if v < 0 {
		return 0
	}
	if v > 255 {
		return 255
	}
	return uint8(v + 0.5)
}
