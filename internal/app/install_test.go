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
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/coalesce"
)

// §8 scenario 6: cg-remove builds Remove-lifespan filters directly,
// each with a nil Ramps, across several CRTCs and classes; buildSlots
// must not panic and must hand every filter to Install as its own
// Master.
func TestBuildSlotsHandlesRemoveFiltersWithoutRamps(t *testing.T) {
	filters := []*coopgamma.Filter{
		{CRTCName: "C0", Class: "X", Lifespan: coopgamma.Remove},
		{CRTCName: "C0", Class: "Y", Lifespan: coopgamma.Remove},
		{CRTCName: "C1", Class: "X", Lifespan: coopgamma.Remove},
		{CRTCName: "C1", Class: "Y", Lifespan: coopgamma.Remove},
	}
	var slots []*coalesce.Slot
	require.NotPanics(t, func() {
		slots = buildSlots(filters)
	})
	require.Len(t, slots, 4)
	for _, s := range slots {
		require.Equal(t, coalesce.Role(coalesce.Master), s.Role)
	}
}

// A mix of an installed ramp and a removal must still coalesce the
// ramped filters among themselves while leaving the removal alone.
func TestBuildSlotsCoalescesOnlyRampedFilters(t *testing.T) {
	ramps := coopgamma.NewRamps(coopgamma.U8, 4, 4, 4)
	filters := []*coopgamma.Filter{
		{CRTCName: "C0", Class: "standard", Lifespan: coopgamma.UntilRemoval, Ramps: ramps},
		{CRTCName: "C1", Class: "old", Lifespan: coopgamma.Remove},
	}
	slots := buildSlots(filters)
	require.Len(t, slots, 2)
	require.Equal(t, coalesce.Role(coalesce.Master), slots[0].Role)
	require.Equal(t, coalesce.Role(coalesce.Master), slots[1].Role)
}
