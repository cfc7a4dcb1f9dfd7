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

package lut

import (
	"math"
	"testing"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/stretchr/testify/require"
)

func allDepths() []coopgamma.Depth {
	return []coopgamma.Depth{coopgamma.U8, coopgamma.U16, coopgamma.U32, coopgamma.U64, coopgamma.F32, coopgamma.F64}
}

// Testable property 2: gamma(1,1,1) is a bit-exact no-op on the identity ramp.
func TestGammaIdentityIsNoOp(t *testing.T) {
	for _, d := range allDepths() {
		r := coopgamma.NewRamps(d, 17, 17, 17)
		StartOver(r, true, true, true)
		before := r.Clone()
		Gamma(r, 1, 1, 1)
		require.Equal(t, before.Red, r.Red, "depth %v", d)
		require.Equal(t, before.Green, r.Green, "depth %v", d)
		require.Equal(t, before.Blue, r.Blue, "depth %v", d)
	}
}

// Testable property 3: negative;negative over the same channels is the identity.
func TestNegativeIsInvolution(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.U8, 8, 8, 8)
	StartOver(r, true, true, true)
	Gamma(r, 2.2, 2.2, 2.2)
	before := r.Clone()
	Negative(r, true, true, true)
	Negative(r, true, true, true)
	for i := range r.Red {
		require.InDelta(t, before.Red[i], r.Red[i], 1e-9)
		require.InDelta(t, before.Green[i], r.Green[i], 1e-9)
		require.InDelta(t, before.Blue[i], r.Blue[i], 1e-9)
	}
}

// Testable property 4: brightness(0) zeroes the ramp, brightness(1) is identity.
func TestRGBBrightnessLinearity(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.U16, 10, 10, 10)
	StartOver(r, true, true, true)
	ones := r.Clone()
	RGBBrightness(r, 1, 1, 1)
	require.Equal(t, ones.Red, r.Red)

	StartOver(r, true, true, true)
	RGBBrightness(r, 0, 0, 0)
	for _, v := range r.Red {
		require.Equal(t, 0.0, v)
	}
}

func TestRGBLimits(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.U8, 3, 3, 3)
	StartOver(r, true, true, true)
	RGBLimits(r, 10, 200, 0, 255, 50, 60)
	require.InDelta(t, 10, r.Red[0], 1e-9)
	require.InDelta(t, 200, r.Red[2], 1e-9)
	require.InDelta(t, 50, r.Blue[0], 1e-9)
	require.InDelta(t, 60, r.Blue[2], 1e-9)
}

func TestLowerResolutionQuantises(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.U8, 256, 256, 256)
	StartOver(r, true, true, true)
	LowerResolution(r, 2, 0, 0)
	distinct := map[float64]bool{}
	for _, v := range r.Red {
		distinct[v] = true
	}
	require.LessOrEqual(t, len(distinct), 2)
	require.Equal(t, 256, len(r.Green)) // unchanged channel still same length
}

// Testable property 1: round-trip depth translation error <= 1 LSB.
func TestTranslateRoundTrip(t *testing.T) {
	src := make([]float64, 37)
	for i := range src {
		src[i] = float64(i) / float64(len(src)-1)
	}
	for _, d := range allDepths() {
		dst := make([]float64, 256)
		Translate(dst, d.Max(), src, 1)
		back := make([]float64, len(src))
		Translate(back, 1, dst, d.Max())
		for i := range src {
			require.LessOrEqual(t, math.Abs(back[i]*d.Max()-src[i]*d.Max()), 1.0+1e-9)
		}
	}
}

func TestClipClampsFloatsAndIntegers(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.F64, 2, 2, 2)
	r.Red[0] = -0.5
	r.Red[1] = 1.5
	Clip(r, true, false, false)
	require.Equal(t, 0.0, r.Red[0])
	require.Equal(t, 1.0, r.Red[1])

	u := coopgamma.NewRamps(coopgamma.U8, 2, 2, 2)
	u.Green[0] = -5
	u.Green[1] = 999
	Clip(u, false, true, false)
	require.Equal(t, 0.0, u.Green[0])
	require.Equal(t, 255.0, u.Green[1])
}

func TestLineariseThenStandardiseRoundTrips(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.F64, 64, 64, 64)
	StartOver(r, true, true, true)
	before := r.Clone()
	Linearise(r, true, true, true)
	Standardise(r, true, true, true)
	for i := range r.Red {
		require.InDelta(t, before.Red[i], r.Red[i], 1e-6)
	}
}

func TestLineariseLeavesSkippedChannelsUntouched(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.F64, 8, 8, 8)
	StartOver(r, true, true, true)
	before := r.Clone()
	Linearise(r, true, false, false)
	require.Equal(t, before.Green, r.Green)
	require.Equal(t, before.Blue, r.Blue)
	require.NotEqual(t, before.Red, r.Red)
}

func TestCIEBrightnessEndpoints(t *testing.T) {
	r := coopgamma.NewRamps(coopgamma.F64, 5, 5, 5)
	StartOver(r, true, true, true)
	identity := r.Clone()
	CIEBrightness(r, 1, 1, 1)
	for i := range r.Red {
		require.InDelta(t, identity.Red[i], r.Red[i], 1e-9)
	}
	StartOver(r, true, true, true)
	CIEBrightness(r, 0, 0, 0)
	for _, v := range r.Red {
		require.InDelta(t, 0, v, 1e-9)
	}
}
