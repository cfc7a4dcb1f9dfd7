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

package filter

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRainbowPaletteAtPhaseZeroIsPureRed(t *testing.T) {
	r, g, b := RainbowPalette(0, 1, 0)
	require.InDelta(t, 1, r, 1e-9)
	require.InDelta(t, 0, g, 1e-9)
	require.InDelta(t, 0, b, 1e-9)
}

func TestRainbowPaletteAtThirdCycleIsPureGreen(t *testing.T) {
	// freqHz=1 means a full revolution every 1s, i.e. 1/3s per channel.
	r, g, b := RainbowPalette(333333333*time.Nanosecond, 1, 0)
	require.InDelta(t, 0, r, 0.01)
	require.InDelta(t, 1, g, 0.01)
	require.InDelta(t, 0, b, 0.01)
}

func TestRainbowPaletteNeverExceedsOne(t *testing.T) {
	for ms := 0; ms < 3000; ms += 37 {
		r, g, b := RainbowPalette(time.Duration(ms)*time.Millisecond, 2, 0.4)
		require.LessOrEqual(t, r, 1.0)
		require.LessOrEqual(t, g, 1.0)
		require.LessOrEqual(t, b, 1.0)
		require.GreaterOrEqual(t, r, 0.0)
		require.GreaterOrEqual(t, g, 0.0)
		require.GreaterOrEqual(t, b, 0.0)
	}
}

func TestRainbowPaletteCyclesBackToRed(t *testing.T) {
	r, g, b := RainbowPalette(1*time.Second, 1, 0)
	require.InDelta(t, 1, r, 1e-9)
	require.InDelta(t, 0, g, 1e-9)
	require.InDelta(t, 0, b, 1e-9)
}
