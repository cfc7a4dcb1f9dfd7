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

/*
Package coopgamma provides the hardware-independent ramp value model
shared by the cg-tools clients: the cooperative gamma daemon's CRTC
lookup tables, expressed as a Ramps triple tagged with a Depth.

The six depths (U8, U16, U32, U64, F32, F64) mirror the daemon's wire
tags. Samples are kept as float64 in memory; Depth.Saturate performs
the single saturating cast described by the protocol -- clamping
out-of-range floats into an integer depth's representable range, or
optionally clipping a float depth to its nominal [0,1] range.

Sub-packages build on this model: coopgamma/lut implements the
transform primitives (gamma, brightness, limits, ...), coopgamma/icc
decodes ICC profile tags into a Ramps, coopgamma/proto speaks the
daemon's asynchronous protocol, coopgamma/coalesce groups CRTCs that
can share one computed Ramps, and coopgamma/filter drives the
install/update/remove lifecycle of a filter built from the above.
*/
package coopgamma
