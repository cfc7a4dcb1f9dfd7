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

func TestChannelFadeOutReachesTargetAtDeadline(t *testing.T) {
	rgb := [3]ChannelFade{
		{Target: 0.5, Duration: 3 * time.Second},
		{Target: 0, Duration: 2 * time.Second},
		{Target: 0, Duration: 1 * time.Second},
	}
	require.InDelta(t, 0.5, rgb[0].Value(3*time.Second, FadeOut), 1e-9)
	require.InDelta(t, 0, rgb[1].Value(2*time.Second, FadeOut), 1e-9)
	require.InDelta(t, 0, rgb[2].Value(1*time.Second, FadeOut), 1e-9)

	// Before any deadline, every channel starts at full brightness.
	require.InDelta(t, 1, rgb[0].Value(0, FadeOut), 1e-9)
	require.True(t, AllDone(rgb, 3*time.Second))
	require.False(t, AllDone(rgb, 2500*time.Millisecond))
}

func TestChannelFadeOutIsMonotoneBetweenEndpoints(t *testing.T) {
	c := ChannelFade{Target: 0.5, Duration: 4 * time.Second}
	prev := c.Value(0, FadeOut)
	for _, ms := range []int{500, 1000, 2000, 3000, 4000} {
		cur := c.Value(time.Duration(ms)*time.Millisecond, FadeOut)
		require.LessOrEqual(t, cur, prev)
		prev = cur
	}
}

func TestChannelFadeInIsSymmetricToFadeOut(t *testing.T) {
	rgb := [3]ChannelFade{
		{Target: 0.5, Duration: 3 * time.Second},
		{Target: 0, Duration: 2 * time.Second},
		{Target: 0, Duration: 1 * time.Second},
	}
	require.InDelta(t, 1, rgb[0].Value(3*time.Second, FadeIn), 1e-9)
	require.InDelta(t, 1, rgb[1].Value(2*time.Second, FadeIn), 1e-9)
	require.InDelta(t, 1, rgb[2].Value(1*time.Second, FadeIn), 1e-9)
	require.InDelta(t, rgb[0].Target, rgb[0].Value(0, FadeIn), 1e-9)
}

func TestChannelFadeZeroDurationCompletesImmediately(t *testing.T) {
	c := ChannelFade{Target: 0.2, Duration: 0}
	require.True(t, c.Done(0))
	require.InDelta(t, 0.2, c.Value(0, FadeOut), 1e-9)
	require.InDelta(t, 1, c.Value(0, FadeIn), 1e-9)
}
