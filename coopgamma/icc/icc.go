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

// Package icc decodes the subset of the ICC profile format cg-icc
// needs: the "mLUT" and "vcgt" tags, each yielding a device ramp and
// the depth it is encoded at.
package icc

import (
	"encoding/binary"
	"errors"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
)

// ErrNoUsableData is returned when the profile contains no mLUT or
// vcgt tag this parser understands; §7 reports this as
// "unusable ICC profile: <path>".
var ErrNoUsableData = errors.New("icc: no usable data in profile")

const (
	mlutTag = 0x6D4C5554
	vcgtTag = 0x76636774
)

// Parse decodes an ICC profile buffer, returning the first usable
// mLUT or vcgt tag as a Ramps and its depth. Tags are scanned in
// file order; the first tag (mLUT or vcgt) that parses successfully
// wins. Under-flow of any bounds check aborts that tag -- not the
// whole parse -- and scanning continues with the next tag.
func Parse(content []byte) (*coopgamma.Ramps, error) {
	n := len(content)
	ptr := 0
	if n-ptr < 128 {
		return nil, ErrNoUsableData
	}
	ptr += 128
	if n-ptr < 4 {
		return nil, ErrNoUsableData
	}
	nTags := int(be32(content[ptr:]))
	ptr += 4

	for i := 0; i < nTags; i++ {
		if n-ptr < 12 {
			return nil, ErrNoUsableData
		}
		tagName := be32(content[ptr:])
		tagOffset := be32(content[ptr+4:])
		tagSize := be32(content[ptr+8:])
		ptr += 12

		if uint64(tagOffset)+uint64(tagSize) > uint64(n) {
			continue
		}
		body := content[tagOffset : tagOffset+tagSize]

		switch tagName {
		case mlutTag:
			if r, ok := parseMLUT(body); ok {
				return r, nil
			}
		case vcgtTag:
			if r, ok := parseVCGT(body, int(tagSize)); ok {
				return r, nil
			}
		}
	}
	return nil, ErrNoUsableData
}

// parseMLUT decodes a dual-byte-precision lookup table: three
// consecutive 256-entry big-endian 16-bit tables, red then green then
// blue, at depth U16.
func parseMLUT(body []byte) (*coopgamma.Ramps, bool) {
	const n = 256
	if len(body) < 3*n*2 {
		return nil, false
	}
	r := coopgamma.NewRamps(coopgamma.U16, n, n, n)
	ptr := 0
	for i := 0; i < n; i++ {
		r.Red[i] = float64(be16(body[ptr:]))
		ptr += 2
	}
	for i := 0; i < n; i++ {
		r.Green[i] = float64(be16(body[ptr:]))
		ptr += 2
	}
	for i := 0; i < n; i++ {
		r.Blue[i] = float64(be16(body[ptr:]))
		ptr += 2
	}
	return r, true
}

// parseVCGT decodes a vcgt tag body. The body repeats the vcgt magic,
// then four skipped bytes, then a 32-bit gamma-type selector.
func parseVCGT(body []byte, tagSize int) (*coopgamma.Ramps, bool) {
	ptr := 0
	if len(body)-ptr < 4 {
		return nil, false
	}
	if be32(body[ptr:]) != vcgtTag {
		return nil, false
	}
	ptr += 4
	if len(body)-ptr < 4 {
		return nil, false
	}
	ptr += 4 // skipped
	if len(body)-ptr < 4 {
		return nil, false
	}
	gammaType := be32(body[ptr:])
	ptr += 4

	switch gammaType {
	case 0:
		return parseVCGTLut(body, ptr, tagSize)
	case 1:
		return parseVCGTGamma(body, ptr)
	default:
		return nil, false
	}
}

func parseVCGTLut(body []byte, ptr int, tagSize int) (*coopgamma.Ramps, bool) {
	if len(body)-ptr < 6 {
		return nil, false
	}
	nChannels := int(be16(body[ptr:]))
	nEntries := int(be16(body[ptr+2:]))
	entrySize := int(be16(body[ptr+4:]))
	ptr += 6

	if tagSize == 1584 {
		nChannels, nEntries, entrySize = 3, 256, 2
	}
	if nChannels != 3 {
		return nil, false
	}
	need := nChannels * nEntries * entrySize
	if len(body)-ptr < need {
		return nil, false
	}

	var depth coopgamma.Depth
	switch entrySize {
	case 1:
		depth = coopgamma.U8
	case 2:
		depth = coopgamma.U16
	case 4:
		depth = coopgamma.U32
	case 8:
		depth = coopgamma.U64
	default:
		depth = coopgamma.F64
	}

	r := coopgamma.NewRamps(depth, nEntries, nEntries, nEntries)
	readEntry := func() float64 {
		var v float64
		switch entrySize {
		case 1:
			v = float64(body[ptr])
		case 2:
			v = float64(be16(body[ptr:]))
		case 4:
			v = float64(be32(body[ptr:]))
		case 8:
			v = float64(be64(body[ptr:]))
		default:
			v = iccDouble(body[ptr:ptr+entrySize], entrySize)
		}
		ptr += entrySize
		return v
	}
	for i := 0; i < nEntries; i++ {
		r.Red[i] = readEntry()
	}
	for i := 0; i < nEntries; i++ {
		r.Green[i] = readEntry()
	}
	for i := 0; i < nEntries; i++ {
		r.Blue[i] = readEntry()
	}
	return r, true
}

func parseVCGTGamma(body []byte, ptr int) (*coopgamma.Ramps, bool) {
	if len(body)-ptr < 9*4 {
		return nil, false
	}
	fixed := func() float64 {
		v := float64(be32(body[ptr:])) / 65536
		ptr += 4
		return v
	}
	rg, rmin, rmax := fixed(), fixed(), fixed()
	gg, gmin, gmax := fixed(), fixed(), fixed()
	bg, bmin, bmax := fixed(), fixed(), fixed()

	r := coopgamma.NewRamps(coopgamma.F64, 256, 256, 256)
	lut.StartOver(r, true, true, true)
	lut.Gamma(r, rg, gg, bg)
	lut.RGBLimits(r, rmin, rmax, gmin, gmax, bmin, bmax)
	return r, true
}

// iccDouble interprets width big-endian bytes as a value in [0,1]:
// the big-endian unsigned integer formed from bytes, divided by
// 256^width - 1. This matches the byte/255 reading at width=1 exactly
// and, unlike a constant /255 divisor, stays within [0,1] at every
// width.
func iccDouble(bytes []byte, width int) float64 {
	var v uint64
	for _, b := range bytes[:width] {
		v = v<<8 | uint64(b)
	}
	denom := uint64(1)
	for i := 0; i < width; i++ {
		denom *= 256
	}
	denom--
	return float64(v) / float64(denom)
}

func be16(b []byte) uint16 { return binary.BigEndian.Uint16(b) }
func be32(b []byte) uint32 { return binary.BigEndian.Uint32(b) }
func be64(b []byte) uint64 { return binary.BigEndian.Uint64(b) }
