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
	"fmt"
	"hash/fnv"

	"github.com/branen/cg-tools/coopgamma"
)

// GamutKey derives the hexadecimal key cg-icc looks a CRTC up by in
// an icctab file. The real EDID isn't available over this protocol
// (§6 only names the daemon's opaque connection, not an EDID query),
// so the key is instead built from whatever uniquely identifies the
// monitor here: its reported gamut, when present, else a hash of its
// name.
func GamutKey(info coopgamma.CRTCInfo) string {
	if info.Gamut != nil {
		g := info.Gamut
		return fmt.Sprintf("%04x%04x%04x%04x%04x%04x",
			g.Red.X, g.Red.Y, g.Green.X, g.Green.Y, g.Blue.X, g.Blue.Y)
	}
	h := fnv.New64a()
	h.Write([]byte(info.Name))
	return fmt.Sprintf("%016x", h.Sum64())
}
