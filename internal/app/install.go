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
	"errors"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/coalesce"
	"github.com/branen/cg-tools/coopgamma/filter"
	"github.com/branen/cg-tools/coopgamma/proto"
	"github.com/branen/cg-tools/internal/cli"
)

// DefaultPriority is the filter priority BuildFilters uses absent -p.
// cg-rainbow and cg-sleepmode build their filters themselves, with
// their own defaults.
const DefaultPriority = 0

// Lifespan resolves §4.F step 1: Remove for -x, UntilDeath for -d,
// UntilRemoval otherwise.
func Lifespan(opt *cli.Options) coopgamma.Lifespan {
	switch {
	case opt.Remove:
		return coopgamma.Remove
	case opt.KeepAlive:
		return coopgamma.UntilDeath
	default:
		return coopgamma.UntilRemoval
	}
}

// Priority resolves -p against DefaultPriority.
func Priority(opt *cli.Options) int64 {
	if opt.HasPriority {
		return opt.Priority
	}
	return DefaultPriority
}

// BuildFilters constructs one Filter per CRTC in sess, via build
// (nil when removing: §4.F step 1 doesn't compute a ramp to remove a
// filter).
func BuildFilters(sess *Session, class, rule string, opt *cli.Options, build func(coopgamma.CRTCInfo) *coopgamma.Ramps) []*coopgamma.Filter {
	lifespan := Lifespan(opt)
	priority := Priority(opt)
	filters := make([]*coopgamma.Filter, 0, len(sess.CRTCs))
	for _, info := range sess.CRTCs {
		var ramps *coopgamma.Ramps
		if build != nil {
			ramps = build(info)
		}
		filters = append(filters, &coopgamma.Filter{
			CRTCName: info.Name,
			Class:    class,
			Priority: priority,
			Lifespan: lifespan,
			Rule:     rule,
			Ramps:    ramps,
		})
	}
	return filters
}

// Supported looks a CRTC's reported support level up by name, among
// the CRTCs this session already fetched get_gamma_info for.
func (s *Session) Supported(name string) coopgamma.Support {
	for _, info := range s.CRTCs {
		if info.Name == name {
			return info.Supported
		}
	}
	return coopgamma.No
}

// Run performs the full install/keep-alive workflow of §4.F: coalesce,
// install, and (if opt.KeepAlive) keep-alive until stop fires.
func Run(sess *Session, filters []*coopgamma.Filter, opt *cli.Options, stop <-chan struct{}) error {
	waiter, err := filter.NewWaiter(sess.Client.Conn())
	if err != nil {
		return err
	}
	defer waiter.Close()

	orch := filter.New(sess.Client, waiter)
	slots := buildSlots(filters)
	if err := orch.Install(slots, sess.Supported); err != nil {
		if errors.Is(err, proto.ErrUnrecoverable) {
			Park()
		}
		return err
	}
	if !opt.KeepAlive {
		return nil
	}
	if err := orch.KeepAlive(stop); err != nil {
		if errors.Is(err, proto.ErrUnrecoverable) {
			Park()
		}
		return err
	}
	return nil
}

// buildSlots applies the CRTC coalescer of §4.E only to filters that
// carry a ramp to share; a Remove filter has no Ramps (§4.F step 1)
// and is sent as its own ungrouped Master instead of being keyed into
// the coalescer, which only groups by ramp geometry (§4.F step 2: "if
// not removing, call the CRTC coalescer").
func buildSlots(filters []*coopgamma.Filter) []*coalesce.Slot {
	var ramped, removed []*coopgamma.Filter
	for _, f := range filters {
		if f.Lifespan == coopgamma.Remove {
			removed = append(removed, f)
		} else {
			ramped = append(ramped, f)
		}
	}
	slots := coalesce.Coalesce(ramped)
	for _, f := range removed {
		slots = append(slots, &coalesce.Slot{Filter: f, Role: coalesce.Master})
	}
	return slots
}
