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

// Package coalesce groups CRTCs that share identical ramp geometry
// and depth so that one computed Ramps can be shared by every CRTC in
// the group (§4.E), designating a Master that owns the storage and
// Slaves that alias it.
package coalesce

import (
	"sort"

	"github.com/branen/cg-tools/coopgamma"
)

// Role identifies a slot's position within its coalescing group.
type Role int

const (
	// Master owns its ramp storage independently.
	Master Role = iota
	// Slave aliases the Master's ramp storage; its own storage has
	// been released.
	Slave
)

// Slot is one CRTC's position in a coalesced filter set.
type Slot struct {
	Filter        *coopgamma.Filter
	PendingError  error
	Synced        bool
	Failed        bool
	Role          Role
	MasterIndex   int // valid when Role == Slave
	SlaveIndices  []int // valid when Role == Master
}

type key struct {
	depth              coopgamma.Depth
	red, green, blue   int
}

// noRampsDepth is the key's depth field for a filter carrying no
// ramp (a Remove filter, §4.F step 1): such filters have nothing to
// coalesce and are grouped apart from every ramp-bearing depth.
const noRampsDepth coopgamma.Depth = -1

func keyOf(f *coopgamma.Filter) key {
	if f.Ramps == nil {
		return key{depth: noRampsDepth}
	}
	r, g, b := f.Ramps.Sizes()
	return key{depth: f.Ramps.Depth, red: r, green: g, blue: b}
}

// Coalesce groups filters (one per selected CRTC) by
// (depth, red_size, green_size, blue_size). Within a group of equal
// keys, the first index of the run (by the deterministic sort order
// below) becomes the Master; the rest become Slaves whose storage is
// released and whose Filter.Ramps is repointed at the Master's Ramps.
// Sorting is stable and tie-broken by original index, so the result
// is deterministic for a given input order (§4.E).
func Coalesce(filters []*coopgamma.Filter) []*Slot {
	n := len(filters)
	slots := make([]*Slot, n)
	for i, f := range filters {
		slots[i] = &Slot{Filter: f}
	}

	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		ka, kb := keyOf(filters[order[a]]), keyOf(filters[order[b]])
		if ka != kb {
			return less(ka, kb)
		}
		return order[a] < order[b]
	})

	i := 0
	for i < n {
		masterIdx := order[i]
		masterKey := keyOf(filters[masterIdx])
		slots[masterIdx].Role = Master
		j := i + 1
		for j < n && keyOf(filters[order[j]]) == masterKey {
			slaveIdx := order[j]
			slots[slaveIdx].Role = Slave
			slots[slaveIdx].MasterIndex = masterIdx
			slots[slaveIdx].Filter.Ramps = slots[masterIdx].Filter.Ramps
			slots[masterIdx].SlaveIndices = append(slots[masterIdx].SlaveIndices, slaveIdx)
			j++
		}
		i = j
	}
	return slots
}

func less(a, b key) bool {
	if a.depth != b.depth {
		return a.depth < b.depth
	}
	if a.red != b.red {
		return a.red < b.red
	}
	if a.green != b.green {
		return a.green < b.green
	}
	return a.blue < b.blue
}

// Destroy releases a slot's ramp storage. Slaves must have their
// Filter.Ramps pointer cleared before this generic destroy routine
// runs on the Master, to prevent the Master's storage from being
// freed twice (§4.E teardown invariant). Since Go ramp storage is
// garbage collected rather than explicitly freed, Destroy's job is
// simply to break the alias so the Slave no longer reaches the
// Master's buffer.
func Destroy(s *Slot) {
	if s.Role == Slave {
		s.Filter.Ramps = nil
	}
}
