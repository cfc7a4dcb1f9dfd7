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

package icc

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/stretchr/testify/require"
)

func put32(b []byte, v uint32) { binary.BigEndian.PutUint32(b, v) }
func put16(b []byte, v uint16) { binary.BigEndian.PutUint16(b, v) }

func withHeaderAndTagTable(tagBody []byte, tagName uint32) []byte {
	header := make([]byte, 128)
	out := append([]byte{}, header...)
	countAndTable := make([]byte, 4+12)
	put32(countAndTable[0:4], 1)
	tagOffset := uint32(len(out) + len(countAndTable))
	put32(countAndTable[4:8], tagName)
	put32(countAndTable[8:12], tagOffset)
	put32(countAndTable[12:16], uint32(len(tagBody)))
	out = append(out, countAndTable...)
	out = append(out, tagBody...)
	return out
}

func TestParseMLUT(t *testing.T) {
	body := make([]byte, 3*256*2)
	for i := 0; i < 256; i++ {
		put16(body[i*2:], uint16(i*257))
	}
	for i := 0; i < 256; i++ {
		put16(body[(256+i)*2:], uint16(i*200))
	}
	for i := 0; i < 256; i++ {
		put16(body[(512+i)*2:], uint16(i*100))
	}
	buf := withHeaderAndTagTable(body, mlutTag)
	r, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, coopgamma.U16, r.Depth)
	require.Equal(t, float64(257), r.Red[1])
}

// Scenario 3: ICC vcgt gamma-only profile (rg=1,rmin=0,rmax=1,...) decodes to
// identity, and translating to U16 produces round(i/255*65535).
func TestParseVCGTGammaOnlyIdentity(t *testing.T) {
	body := make([]byte, 4+4+4+9*4)
	put32(body[0:4], vcgtTag)
	// 4 skipped bytes at [4:8]
	put32(body[8:12], 1) // gamma type 1
	vals := []float64{1, 0, 1, 1, 0, 1, 1, 0, 1}
	ptr := 12
	for _, v := range vals {
		put32(body[ptr:], uint32(math.Round(v*65536)))
		ptr += 4
	}
	buf := withHeaderAndTagTable(body, vcgtTag)
	r, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, coopgamma.F64, r.Depth)

	for i := 0; i < 256; i++ {
		want := float64(i) / 255
		require.InDelta(t, want, r.Red[i], 1e-9)
	}

	dst := make([]float64, 256)
	lut.Translate(dst, coopgamma.U16.Max(), r.Red, 1)
	for i := range dst {
		want := math.Round(float64(i) / 255 * 65535)
		require.InDelta(t, want, dst[i], 1)
	}
}

func TestParseNoUsableDataSentinel(t *testing.T) {
	buf := make([]byte, 128+4)
	_, err := Parse(buf)
	require.ErrorIs(t, err, ErrNoUsableData)
}

func TestICCDoubleMatchesByteOverByteAtWidth1(t *testing.T) {
	for _, b := range []byte{0, 1, 128, 255} {
		require.InDelta(t, float64(b)/255, iccDouble([]byte{b}, 1), 1e-12)
	}
}

func TestICCDoubleStaysWithinUnitRangeAtWiderWidths(t *testing.T) {
	v := iccDouble([]byte{0xFF, 0xFF}, 2)
	require.LessOrEqual(t, v, 1.0)
	require.InDelta(t, 1.0, v, 1e-12)
}

func TestParseVCGTLutOverridesTagSize1584(t *testing.T) {
	body := make([]byte, 1584)
	put32(body[0:4], vcgtTag)
	put32(body[8:12], 0)
	// n_channels/n_entries/entry_size fields present but ignored due to tagSize override
	ptr := 12 + 6
	for ch := 0; ch < 3; ch++ {
		for i := 0; i < 256; i++ {
			put16(body[ptr:], uint16(i))
			ptr += 2
		}
	}
	buf := withHeaderAndTagTable(body, vcgtTag)
	r, err := Parse(buf)
	require.NoError(t, err)
	require.Equal(t, coopgamma.U16, r.Depth)
	require.Equal(t, 256, len(r.Red))
}
