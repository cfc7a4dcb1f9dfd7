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
Package lut implements the colour-transform primitives every cg-tools
client composes to build a filter's ramp.

Each primitive mutates a coopgamma.Ramps in place and carries no state
of its own between calls, so tools compose them freely in whatever
documented order their transform requires -- e.g. darkroom's
Negative; RGBBrightness; CIEBrightness; Clip.
*/
package lut
