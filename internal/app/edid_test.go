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

package app

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/branen/cg-tools/coopgamma"
)

func TestGamutKeyUsesGamutWhenPresent(t *testing.T) {
	info := coopgamma.CRTCInfo{
		Name: "eDP-1",
		Gamut: &coopgamma.Gamut{
			Red:   coopgamma.Point{X: 0x1111, Y: 0x2222},
			Green: coopgamma.Point{X: 0x3333, Y: 0x4444},
			Blue:  coopgamma.Point{X: 0x5555, Y: 0x6666},
		},
	}
	require.Equal(t, "111122223333444455556666", GamutKey(info))
}

func TestGamutKeyFallsBackToNameHash(t *testing.T) {
	a := coopgamma.CRTCInfo{Name: "eDP-1"}
	b := coopgamma.CRTCInfo{Name: "HDMI-1"}
	require.NotEqual(t, GamutKey(a), GamutKey(b))
	require.Equal(t, GamutKey(a), GamutKey(coopgamma.CRTCInfo{Name: "eDP-1"}))
	require.Len(t, GamutKey(a), 16)
}
