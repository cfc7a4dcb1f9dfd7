// Copyright 2019 Branen Salmon
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

// Package lut provides the LUT-arithmetic primitives that cg-tools
// clients compose to build a filter's ramp: gamma, brightness,
// contrast/limits, negation, CIE brightness, resolution lowering,
// clipping and cross-depth translation. Every primitive operates
// in place on a coopgamma.Ramps and takes no hidden state, so callers
// may freely compose them in whatever order a given tool needs.
package lut

import (
	"math"

	"github.com/branen/cg-tools/coopgamma"
)

// StartOver replaces each selected channel with the identity ramp:
// stop i becomes i/(size-1) * max, where max is the depth's nominal
// maximum (1 for float depths, Depth.Max() otherwise).
func StartOver(r *coopgamma.Ramps, red, green, blue bool) {
	max := nominalMax(r.Depth)
	identity := func(ch []float64) {
		n := len(ch)
		if n == 0 {
			return
		}
		if n == 1 {
			ch[0] = 0
			return
		}
		for i := range ch {
			ch[i] = float64(i) / float64(n-1) * max
		}
	}
	if red {
		identity(r.Red)
	}
	if green {
		identity(r.Green)
	}
	if blue {
		identity(r.Blue)
	}
}

func nominalMax(d coopgamma.Depth) float64 {
	if d.Float() {
		return 1
	}
	return d.Max()
}

// Gamma applies the per-channel power-law correction y <- max*(y/max)^g,
// starting from whatever is currently in the ramp. y=0 always maps to
// 0, and g=1 is the identity transform (bit-exact, per testable
// property 2).
func Gamma(r *coopgamma.Ramps, rg, gg, bg float64) {
	max := nominalMax(r.Depth)
	apply := func(ch []float64, g float64) {
		if g == 1 {
			return
		}
		for i, y := range ch {
			if y <= 0 {
				ch[i] = 0
				continue
			}
			ch[i] = max * math.Pow(y/max, g)
		}
	}
	apply(r.Red, rg)
	apply(r.Green, gg)
	apply(r.Blue, bg)
}

// RGBBrightness applies a multiplicative scale y <- y*b per channel.
// It is not clipped; callers that need a bounded result should follow
// with Clip.
func RGBBrightness(r *coopgamma.Ramps, rb, gb, bb float64) {
	scale := func(ch []float64, b float64) {
		if b == 1 {
			return
		}
		for i, y := range ch {
			ch[i] = y * b
		}
	}
	scale(r.Red, rb)
	scale(r.Green, gb)
	scale(r.Blue, bb)
}

// CIEBrightness scales luminance in a perceptual, dark-point-preserving
// way rather than linearly: b=1 is the identity and b=0 maps every
// stop to absolute darkness, matching CIE 1976 L* lightness scaling.
// y is first treated as being in [0,1] (relative to the depth's
// nominal max), scaled in L* space, and mapped back.
func CIEBrightness(r *coopgamma.Ramps, rb, gb, bb float64) {
	max := nominalMax(r.Depth)
	scale := func(ch []float64, b float64) {
		if b == 1 {
			return
		}
		for i, y := range ch {
			rel := y / max
			l := lFromY(rel)
			l *= b
			ch[i] = yFromL(l) * max
		}
	}
	scale(r.Red, rb)
	scale(r.Green, gb)
	scale(r.Blue, bb)
}

// lFromY converts a relative luminance in [0,1] to CIE 1976 L* in
// [0,100].
func lFromY(y float64) float64 {
	const e = 216.0 / 24389.0
	const k = 24389.0 / 27.0
	if y <= e {
		return k * y
	}
	return 116*math.Cbrt(y) - 16
}

// yFromL is the inverse of lFromY.
func yFromL(l float64) float64 {
	const k = 24389.0 / 27.0
	if l <= 8 {
		return l / k
	}
	t := (l + 16) / 116
	return t * t * t
}

// RGBLimits applies an affine brightness+contrast mapping
// y <- min + y*(max-min)/depthMax per channel.
func RGBLimits(r *coopgamma.Ramps, rmin, rmax, gmin, gmax, bmin, bmax float64) {
	depthMax := nominalMax(r.Depth)
	apply := func(ch []float64, lo, hi float64) {
		for i, y := range ch {
			ch[i] = lo + y*(hi-lo)/depthMax
		}
	}
	apply(r.Red, rmin, rmax)
	apply(r.Green, gmin, gmax)
	apply(r.Blue, bmin, bmax)
}

// Negative reverses the selected channels: y <- max - y.
func Negative(r *coopgamma.Ramps, red, green, blue bool) {
	max := nominalMax(r.Depth)
	apply := func(ch []float64) {
		for i, y := range ch {
			ch[i] = max - y
		}
	}
	if red {
		apply(r.Red)
	}
	if green {
		apply(r.Green)
	}
	if blue {
		apply(r.Blue)
	}
}

// LowerResolution quantises each channel's ramp to at most Nres
// distinct output values uniformly distributed across the nominal
// range; an Nres of 0 leaves that channel unchanged.
func LowerResolution(r *coopgamma.Ramps, rres, gres, bres int) {
	max := nominalMax(r.Depth)
	apply := func(ch []float64, nres int) {
		if nres <= 0 {
			return
		}
		for i, y := range ch {
			if nres == 1 {
				ch[i] = 0
				continue
			}
			step := max / float64(nres-1)
			level := math.Round(y / step)
			if level < 0 {
				level = 0
			}
			if level > float64(nres-1) {
				level = float64(nres - 1)
			}
			ch[i] = level * step
		}
	}
	apply(r.Red, rres)
	apply(r.Green, gres)
	apply(r.Blue, bres)
}

// Clip saturates the selected channels into the depth's representable
// range: [0, Depth.Max()] for integer depths, [0,1] for float depths.
func Clip(r *coopgamma.Ramps, red, green, blue bool) {
	apply := func(ch []float64) {
		for i, y := range ch {
			ch[i] = r.Depth.Saturate(y, true)
		}
	}
	if red {
		apply(r.Red)
	}
	if green {
		apply(r.Green)
	}
	if blue {
		apply(r.Blue)
	}
}

// Linearise converts the selected channels from gamma-encoded (sRGB
// transfer function) values to linear light, relative to the depth's
// nominal max.
func Linearise(r *coopgamma.Ramps, red, green, blue bool) {
	max := nominalMax(r.Depth)
	apply := func(ch []float64) {
		for i, y := range ch {
			ch[i] = srgbToLinear(y/max) * max
		}
	}
	if red {
		apply(r.Red)
	}
	if green {
		apply(r.Green)
	}
	if blue {
		apply(r.Blue)
	}
}

// Standardise is the inverse of Linearise: it re-encodes linear-light
// values back into the sRGB transfer function.
func Standardise(r *coopgamma.Ramps, red, green, blue bool) {
	max := nominalMax(r.Depth)
	apply := func(ch []float64) {
		for i, y := range ch {
			ch[i] = linearToSRGB(y/max) * max
		}
	}
	if red {
		apply(r.Red)
	}
	if green {
		apply(r.Green)
	}
	if blue {
		apply(r.Blue)
	}
}

func srgbToLinear(c float64) float64 {
	if c <= 0.04045 {
		return c / 12.92
	}
	return math.Pow((c+0.055)/1.055, 2.4)
}

func linearToSRGB(c float64) float64 {
	if c <= 0.0031308 {
		return c * 12.92
	}
	return 1.055*math.Pow(c, 1/2.4) - 0.055
}

// Translate rewrites dst (already allocated to its target size) by
// resampling src at dst's abscissae:
//
//	dst[i] = src[round(i/(len(dst)-1) * (len(src)-1))] * dstMax/srcMax
//
// This is used to materialise a filter computed at one depth onto a
// CRTC whose ramps live at a different depth.
func Translate(dst []float64, dstMax float64, src []float64, srcMax float64) {
	n := len(dst)
	m := len(src)
	if n == 0 || m == 0 {
		return
	}
	if n == 1 {
		dst[0] = src[0] * dstMax / srcMax
		return
	}
	for i := 0; i < n; i++ {
		pos := float64(i) / float64(n-1) * float64(m-1)
		j := int(math.Round(pos))
		if j < 0 {
			j = 0
		}
		if j >= m {
			j = m - 1
		}
		dst[i] = src[j] * dstMax / srcMax
	}
}
