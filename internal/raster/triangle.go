package raster

import (
	"image"
	"math"
)

// BlendMode selects how a draw call combines with the framebuffer.
type BlendMode uint8

const (
	// Opaque tests and writes the z-buffer.
	Opaque BlendMode = iota
	// AlphaBlend tests the z-buffer but does not write it, matching the
	// original overlay's depth-mask-off accessory pass. Callers order
	// alpha-blended draws back to front.
	AlphaBlend
	// Additive adds color without any depth interaction, for glow-style
	// accessories.
	Additive
)

// drawTriangle rasterizes one triangle with bilinear texturing, flat
// shading, and per-frame color correction.
//
// Hot path: no allocation in the pixel loop.
func drawTriangle(
	fb *FrameBuffer,
	px, py, pz []float64,
	uvs [][2]float32,
	vi, ti [3]int,
	tex *image.NRGBA,
	shade float64,
	cc ColorCorrection,
	mode BlendMode,
	defR, defG, defB, defA uint8,
) {
	nv := len(px)
	for _, i := range vi {
		if i < 0 || i >= nv {
			return
		}
		// Behind-camera vertices are marked with -Inf depth.
		if math.IsInf(pz[i], -1) {
			return
		}
	}

	x0, y0, z0 := px[vi[0]], py[vi[0]], pz[vi[0]]
	x1, y1, z1 := px[vi[1]], py[vi[1]], pz[vi[1]]
	x2, y2, z2 := px[vi[2]], py[vi[2]], pz[vi[2]]

	nuv := len(uvs)
	hasUV := tex != nil
	for _, i := range ti {
		if i < 0 || i >= nuv {
			hasUV = false
			break
		}
	}

	var u0, v0, u1, v1, u2, v2 float64
	if hasUV {
		u0, v0 = float64(uvs[ti[0]][0]), float64(uvs[ti[0]][1])
		u1, v1 = float64(uvs[ti[1]][0]), float64(uvs[ti[1]][1])
		u2, v2 = float64(uvs[ti[2]][0]), float64(uvs[ti[2]][1])
	}

	// Bounding box clipped to the framebuffer.
	w, h := fb.Width, fb.Height
	minX := int(math.Min(math.Min(x0, x1), x2))
	maxX := int(math.Max(math.Max(x0, x1), x2)) + 1
	minY := int(math.Min(math.Min(y0, y1), y2))
	maxY := int(math.Max(math.Max(y0, y1), y2)) + 1

	if minX < 0 {
		minX = 0
	}
	if maxX >= w {
		maxX = w - 1
	}
	if minY < 0 {
		minY = 0
	}
	if maxY >= h {
		maxY = h - 1
	}
	if minX >= maxX || minY >= maxY {
		return
	}

	// Barycentric setup.
	det := (y1-y2)*(x0-x2) + (x2-x1)*(y0-y2)
	if det > -1e-8 && det < 1e-8 {
		return
	}
	invDet := 1.0 / det

	dy12 := y1 - y2
	dx21 := x2 - x1
	dy20 := y2 - y0
	dx02 := x0 - x2

	// Per-face color factors: shade plus the light estimate's rgb scale and
	// average intensity.
	fr := shade * cc[0] * cc[3]
	fg := shade * cc[1] * cc[3]
	fbl := shade * cc[2] * cc[3]

	for sy := minY; sy <= maxY; sy++ {
		dsy := float64(sy) - y2
		rowOff := sy * w
		for sx := minX; sx <= maxX; sx++ {
			dsx := float64(sx) - x2
			w0 := (dy12*dsx + dx21*dsy) * invDet
			w1 := (dy20*dsx + dx02*dsy) * invDet
			w2 := 1.0 - w0 - w1

			if w0 < -0.001 || w1 < -0.001 || w2 < -0.001 {
				continue
			}

			z := w0*z0 + w1*z1 + w2*z2
			zIdx := rowOff + sx
			if mode != Additive && z <= fb.ZBuf[zIdx] {
				continue
			}

			var cr, cg, cb, ca uint8
			if hasUV {
				u := w0*u0 + w1*u1 + w2*u2
				v := w0*v0 + w1*v1 + w2*v2
				cr, cg, cb, ca = SampleTexture(tex, u, v)
			} else {
				cr, cg, cb, ca = defR, defG, defB, defA
			}
			if ca < 8 {
				continue
			}

			// sRGB decode, shade, re-encode.
			sr := math.Pow(srgbToLinear[cr]*fr, invGamma) * 255
			sg := math.Pow(srgbToLinear[cg]*fg, invGamma) * 255
			sb := math.Pow(srgbToLinear[cb]*fbl, invGamma) * 255

			pxIdx := zIdx * 4
			switch mode {
			case Opaque:
				fb.ZBuf[zIdx] = z
				fb.Color[pxIdx] = clamp255(sr)
				fb.Color[pxIdx+1] = clamp255(sg)
				fb.Color[pxIdx+2] = clamp255(sb)
				fb.Color[pxIdx+3] = ca

			case AlphaBlend:
				// Source-over; depth tested above but not written.
				a := float64(ca) / 255.0
				ia := 1 - a
				fb.Color[pxIdx] = clamp255(sr*a + float64(fb.Color[pxIdx])*ia)
				fb.Color[pxIdx+1] = clamp255(sg*a + float64(fb.Color[pxIdx+1])*ia)
				fb.Color[pxIdx+2] = clamp255(sb*a + float64(fb.Color[pxIdx+2])*ia)
				if ca > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = ca
				}

			case Additive:
				fb.Color[pxIdx] = clamp255(float64(fb.Color[pxIdx]) + sr)
				fb.Color[pxIdx+1] = clamp255(float64(fb.Color[pxIdx+1]) + sg)
				fb.Color[pxIdx+2] = clamp255(float64(fb.Color[pxIdx+2]) + sb)
				lum := sr*0.299 + sg*0.587 + sb*0.114
				if add := clamp255(lum); add > fb.Color[pxIdx+3] {
					fb.Color[pxIdx+3] = add
				}
			}
		}
	}
}
