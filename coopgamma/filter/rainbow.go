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
	"errors"
	"math"
	"time"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/coopgamma/proto"
)

// RainbowPalette computes the three-channel luminosity at elapsed
// time t for a cycle running freqHz full red-green-blue-red revolutions
// per second, per §4.F's rainbow formula: every channel starts at the
// baseline lightness l, the channel the cycle is leaving gets 1-f
// added and the channel it's rotating into gets f added (f being the
// fraction of the current third of a revolution), each clamped to 1.
func RainbowPalette(t time.Duration, freqHz float64, l float64) (r, g, b float64) {
	phase := t.Seconds() * 3 * freqHz
	whole, frac := math.Modf(phase)
	k := int(math.Mod(whole, 3))
	if k < 0 {
		k += 3
	}
	pal := [3]float64{l, l, l}
	pal[k] += 1 - frac
	pal[(k+1)%3] += frac
	for i := range pal {
		if pal[i] > 1 {
			pal[i] = 1
		}
	}
	return pal[0], pal[1], pal[2]
}

// RunRainbowMulti drives every filter in filters through the rainbow
// animation in lock-step, the way RunFadeMulti ticks a whole group
// together, until stop fires.
func (o *Orchestrator) RunRainbowMulti(filters []*coopgamma.Filter, freqHz, lightness float64, start time.Time, stop <-chan struct{}) error {
	if err := o.daemon.SetNonblocking(true); err != nil {
		return err
	}
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		elapsed := time.Since(start)
		r, g, b := RainbowPalette(elapsed, freqHz, lightness)
		tokens := make([]proto.Token, len(filters))
		for i, f := range filters {
			lut.StartOver(f.Ramps, true, true, true)
			lut.RGBBrightness(f.Ramps, r, g, b)
			lut.Clip(f.Ramps, true, true, true)
			for {
				tok, err := o.daemon.SetGammaSend(*f)
				if err == nil {
					tokens[i] = tok
					break
				}
				if !errors.Is(err, proto.ErrWouldBlock) {
					return err
				}
				if err := o.wait.Wait(true, false); err != nil {
					return err
				}
			}
		}

		remaining := append([]proto.Token(nil), tokens...)
		for len(remaining) > 0 {
			idx, err := o.daemon.Synchronise(remaining)
			if err != nil {
				if errors.Is(err, proto.ErrWouldBlock) {
					if err := o.wait.Wait(false, false); err != nil {
						return err
					}
					continue
				}
				return err
			}
			tok := remaining[idx]
			if err := o.daemon.SetGammaRecv(tok); err != nil {
				return err
			}
			remaining = append(remaining[:idx], remaining[idx+1:]...)
		}
	}
}

// RunRainbow drives f through the rainbow animation indefinitely,
// sending an updated filter on every tick and yielding cooperatively
// on the Waiter, until stop fires.
func (o *Orchestrator) RunRainbow(f *coopgamma.Filter, freqHz, lightness float64, start time.Time, stop <-chan struct{}) error {
	if err := o.daemon.SetNonblocking(true); err != nil {
		return err
	}
	for {
		select {
		case <-stop:
			return nil
		default:
		}

		elapsed := time.Since(start)
		r, g, b := RainbowPalette(elapsed, freqHz, lightness)
		lut.StartOver(f.Ramps, true, true, true)
		lut.RGBBrightness(f.Ramps, r, g, b)
		lut.Clip(f.Ramps, true, true, true)

		var tok proto.Token
		for {
			var err error
			tok, err = o.daemon.SetGammaSend(*f)
			if err == nil {
				break
			}
			if !errors.Is(err, proto.ErrWouldBlock) {
				return err
			}
			if err := o.wait.Wait(true, false); err != nil {
				return err
			}
		}

		for {
			if _, err := o.daemon.Synchronise([]proto.Token{tok}); err != nil {
				if errors.Is(err, proto.ErrWouldBlock) {
					if err := o.wait.Wait(false, false); err != nil {
						return err
					}
					continue
				}
				return err
			}
			break
		}
		if err := o.daemon.SetGammaRecv(tok); err != nil {
			return err
		}
	}
}
