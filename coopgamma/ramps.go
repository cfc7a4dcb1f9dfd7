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

// Channel specifies a primary additive color channel.
type Channel int

const (
	Red Channel = iota
	Green
	Blue
	channelCardinality
)

// Ramps is a ramp triple: one lookup table per channel, all sampled at
// depth Depth. Red, Green and Blue are stored as float64 regardless of
// Depth -- stops are nominally in [0, Depth.Max()] (or [0,1] for float
// depths), though intermediate values may leave that range until a
// Clip -- and the protocol client sends them as float64 values too.
// Channel lengths may differ from one another.
type Ramps struct {
	Depth Depth
	Red   []float64
	Green []float64
	Blue  []float64
}

// NewRamps allocates a Ramps triple of the given sizes at depth d. The
// stops are left at zero; callers typically follow with StartOver.
func NewRamps(d Depth, redSize, greenSize, blueSize int) *Ramps {
	return &Ramps{
		Depth: d,
		Red:   make([]float64, redSize),
		Green: make([]float64, greenSize),
		Blue:  make([]float64, blueSize),
	}
}

// Sizes returns the per-channel stop counts.
func (r *Ramps) Sizes() (red, green, blue int) {
	return len(r.Red), len(r.Green), len(r.Blue)
}

// Channel returns the mutable slice backing ch.
func (r *Ramps) Channel(ch Channel) []float64 {
	switch ch {
	case Red:
		return r.Red
	case Green:
		return r.Green
	case Blue:
		return r.Blue
	default:
		panic("coopgamma: invalid channel")
	}
}

// Clone returns a deep copy of r.
func (r *Ramps) Clone() *Ramps {
	out := &Ramps{Depth: r.Depth}
	out.Red = append([]float64(nil), r.Red...)
	out.Green = append([]float64(nil), r.Green...)
	out.Blue = append([]float64(nil), r.Blue...)
	return out
}

// SameGeometry reports whether r and o share depth and per-channel
// sizes, the key the CRTC coalescer groups on (§4.E).
func (r *Ramps) SameGeometry(o *Ramps) bool {
	if r.Depth != o.Depth {
		return false
	}
	rr, rg, rb := r.Sizes()
	or, og, ob := o.Sizes()
	return rr == or && rg == og && rb == ob
}
