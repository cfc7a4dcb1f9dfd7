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

package coopgamma

// Support is the daemon's tri-state report of whether a CRTC's gamma
// ramps can be programmed cooperatively.
type Support int

const (
	No Support = iota
	Maybe
	Yes
)

func (s Support) String() string {
	switch s {
	case No:
		return "no"
	case Maybe:
		return "maybe"
	case Yes:
		return "yes"
	default:
		return "unknown"
	}
}

// Colourspace is the CRTC's reported colourspace tag.
type Colourspace int

const (
	UnknownColourspace Colourspace = iota
	SRGB
	RGB
	NonRGB
	Grey
)

// Lifespan controls when a filter is removed by the daemon.
type Lifespan int

const (
	// UntilRemoval persists until explicitly removed.
	UntilRemoval Lifespan = iota
	// UntilDeath is removed by the daemon when this client disconnects.
	UntilDeath
	// Remove requests removal of an existing filter.
	Remove
)

// Point is a 10-bit fixed-point chromaticity coordinate, as used in a
// CRTC's optional reported gamut.
type Point struct {
	X, Y uint16
}

// Gamut is the optional (red, green, blue) chromaticity triple a CRTC
// may report.
type Gamut struct {
	Red, Green, Blue Point
}

// CRTCInfo describes one CRTC as reported by the daemon.
type CRTCInfo struct {
	Name        string
	Supported   Support
	Cooperative bool
	Depth       Depth
	RedSize     int
	GreenSize   int
	BlueSize    int
	Colourspace Colourspace
	Gamut       *Gamut
}

// Filter is a filter record: a ramp plus the metadata that the
// daemon uses to order and identify it.
type Filter struct {
	CRTCName string
	Class    string
	Priority int64
	Lifespan Lifespan
	Rule     string
	Ramps    *Ramps
}
