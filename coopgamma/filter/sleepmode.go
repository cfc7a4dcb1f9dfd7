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
	"time"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/coopgamma/proto"
)

// FadePhase distinguishes the sleep-mode tool's two animation phases.
type FadePhase int

const (
	// FadeOut dims from full brightness (1) down to the configured
	// luminosity over the configured duration, per channel.
	FadeOut FadePhase = iota
	// FadeIn brightens from the current luminosity back to full (1)
	// over the same duration, symmetric to FadeOut.
	FadeIn
)

// ChannelFade holds one channel's target luminosity and fade
// duration, as set by the sleepmode tool's "red green blue" and
// "-r -g -b" arguments.
type ChannelFade struct {
	Target   float64
	Duration time.Duration
}

// Value returns the luminance y in [0,1] for this channel at elapsed
// time t in phase, clamped and linear as required by §4.F, with
// Duration==0 treated as already complete.
func (c ChannelFade) Value(t time.Duration, phase FadePhase) float64 {
	frac := 1.0
	if c.Duration > 0 {
		frac = float64(t) / float64(c.Duration)
		if frac < 0 {
			frac = 0
		}
		if frac > 1 {
			frac = 1
		}
	}
	switch phase {
	case FadeOut:
		return 1 + (c.Target-1)*frac
	case FadeIn:
		return c.Target + (1-c.Target)*frac
	default:
		panic("filter: invalid fade phase")
	}
}

// Done reports whether elapsed t has reached this channel's deadline.
func (c ChannelFade) Done(t time.Duration) bool {
	return t >= c.Duration
}

// FillFade overwrites ramps with start_over; rgb_brightness(y_r,y_g,y_b)
// for elapsed time t in phase, per the channel fades in rgb.
func FillFade(ramps *coopgamma.Ramps, rgb [3]ChannelFade, t time.Duration, phase FadePhase) {
	lut.StartOver(ramps, true, true, true)
	lut.RGBBrightness(ramps,
		rgb[0].Value(t, phase),
		rgb[1].Value(t, phase),
		rgb[2].Value(t, phase))
	lut.Clip(ramps, true, true, true)
}

// AllDone reports whether every channel has reached its deadline at
// elapsed time t -- the animation loop's exit condition for a phase.
func AllDone(rgb [3]ChannelFade, t time.Duration) bool {
	for _, c := range rgb {
		if !c.Done(t) {
			return false
		}
	}
	return true
}

// RunFadeMulti drives every filter in filters through one fade phase
// in lock-step, ticking all of them together the way Install sends a
// coalesced group, until every channel has reached its deadline.
func (o *Orchestrator) RunFadeMulti(filters []*coopgamma.Filter, rgb [3]ChannelFade, phase FadePhase, start time.Time) error {
	if err := o.daemon.SetNonblocking(true); err != nil {
		return err
	}
	for {
		elapsed := time.Since(start)
		tokens := make([]proto.Token, len(filters))
		for i, f := range filters {
			FillFade(f.Ramps, rgb, elapsed, phase)
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

		if AllDone(rgb, elapsed) {
			return nil
		}
	}
}

// RunFade drives f through one fade phase, sending an updated filter
// to the daemon on every tick and yielding cooperatively on the
// orchestrator's Waiter between sends, until every channel has
// reached its deadline. f.Ramps is reused for every tick; the caller
// owns its geometry.
func (o *Orchestrator) RunFade(f *coopgamma.Filter, rgb [3]ChannelFade, phase FadePhase, start time.Time) error {
	if err := o.daemon.SetNonblocking(true); err != nil {
		return err
	}
	for {
		elapsed := time.Since(start)
		FillFade(f.Ramps, rgb, elapsed, phase)

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

		if AllDone(rgb, elapsed) {
			return nil
		}
	}
}
