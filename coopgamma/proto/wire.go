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

package proto

import "github.com/branen/cg-tools/coopgamma"

// This module implements the operations the daemon protocol exposes
// (§6: "the client must implement the operations, not redefine the
// wire"), using a newline-delimited JSON framing of its own choosing
// for the request/response envelope, since the byte-level encoding is
// explicitly the daemon's to define and out of this module's scope.

// request is one outstanding call, identified by Token on the wire.
type request struct {
	Token  Token       `json:"id"`
	Op     string      `json:"op"`
	CRTC   string      `json:"crtc,omitempty"`
	Class  string      `json:"class,omitempty"`
	Filter *wireFilter `json:"filter,omitempty"`
}

// response is a decoded reply frame.
type response struct {
	Token    Token      `json:"id"`
	Err      *wireError `json:"error,omitempty"`
	Methods  []string   `json:"methods,omitempty"`
	CRTCs    []string   `json:"crtcs,omitempty"`
	CRTCInfo *wireCRTC  `json:"crtc_info,omitempty"`
	Ramps    *wireRamps `json:"ramps,omitempty"`
}

// wireError mirrors §4.D's error taxonomy: server- or client-side,
// optionally custom with a number and description, or the
// unrecoverable sentinel.
type wireError struct {
	ServerSide      bool   `json:"server_side"`
	Number          int    `json:"number,omitempty"`
	Description     string `json:"description,omitempty"`
	Unrecoverable   bool   `json:"unrecoverable,omitempty"`
}

type wireCRTC struct {
	Name        string        `json:"name"`
	Supported   int           `json:"supported"`
	Cooperative bool          `json:"cooperative"`
	Depth       int           `json:"depth"`
	RedSize     int           `json:"red_size"`
	GreenSize   int           `json:"green_size"`
	BlueSize    int           `json:"blue_size"`
	Colourspace int           `json:"colourspace"`
	Gamut       *wireGamut    `json:"gamut,omitempty"`
}

type wireGamut struct {
	RedX, RedY, GreenX, GreenY, BlueX, BlueY uint16
}

type wireFilter struct {
	CRTCName string    `json:"crtc"`
	Class    string    `json:"class"`
	Priority int64     `json:"priority"`
	Lifespan int       `json:"lifespan"`
	Rule     string    `json:"rule,omitempty"`
	Depth    int       `json:"depth"`
	Red      []float64 `json:"red,omitempty"`
	Green    []float64 `json:"green,omitempty"`
	Blue     []float64 `json:"blue,omitempty"`
}

// wireRamps carries a get_gamma response: the ramp the daemon is
// applying for the requested (crtc, class) pair, or, for class "*",
// its coalesced composition of every filter installed on that CRTC.
type wireRamps struct {
	Depth int       `json:"depth"`
	Red   []float64 `json:"red"`
	Green []float64 `json:"green"`
	Blue  []float64 `json:"blue"`
}

func toWireRamps(r *coopgamma.Ramps) *wireRamps {
	return &wireRamps{
		Depth: int(r.Depth),
		Red:   r.Red,
		Green: r.Green,
		Blue:  r.Blue,
	}
}

func fromWireRamps(w *wireRamps) *coopgamma.Ramps {
	return &coopgamma.Ramps{
		Depth: coopgamma.Depth(w.Depth),
		Red:   w.Red,
		Green: w.Green,
		Blue:  w.Blue,
	}
}

func toWireFilter(f coopgamma.Filter) *wireFilter {
	wf := &wireFilter{
		CRTCName: f.CRTCName,
		Class:    f.Class,
		Priority: f.Priority,
		Lifespan: int(f.Lifespan),
	}
	if f.Ramps != nil {
		wf.Depth = int(f.Ramps.Depth)
		wf.Red = f.Ramps.Red
		wf.Green = f.Ramps.Green
		wf.Blue = f.Ramps.Blue
	}
	return wf
}

func fromWireCRTC(w *wireCRTC) coopgamma.CRTCInfo {
	info := coopgamma.CRTCInfo{
		Name:        w.Name,
		Supported:   coopgamma.Support(w.Supported),
		Cooperative: w.Cooperative,
		Depth:       coopgamma.Depth(w.Depth),
		RedSize:     w.RedSize,
		GreenSize:   w.GreenSize,
		BlueSize:    w.BlueSize,
		Colourspace: coopgamma.Colourspace(w.Colourspace),
	}
	if w.Gamut != nil {
		info.Gamut = &coopgamma.Gamut{
			Red:   coopgamma.Point{X: w.Gamut.RedX, Y: w.Gamut.RedY},
			Green: coopgamma.Point{X: w.Gamut.GreenX, Y: w.Gamut.GreenY},
			Blue:  coopgamma.Point{X: w.Gamut.BlueX, Y: w.Gamut.BlueY},
		}
	}
	return info
}
