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

// Package filter drives a filter's lifecycle against the cooperative
// gamma daemon: install/refresh/remove, keep-alive (removing the
// filter on process death), and the sleep-mode and rainbow animation
// extensions (§4.F).
package filter

import (
	"errors"
	"fmt"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/coalesce"
	"github.com/branen/cg-tools/coopgamma/proto"
)

// Daemon is the subset of proto.Client the orchestrator needs,
// narrowed for testability.
type Daemon interface {
	SetNonblocking(bool) error
	SetGammaSend(coopgamma.Filter) (proto.Token, error)
	SetGammaRecv(proto.Token) error
	Synchronise([]proto.Token) (int, error)
	Flush() error
	Unrecoverable() bool
}

// Orchestrator runs the install/update/remove workflow of §4.F
// against a Daemon connection, driven by a Waiter for its event loop.
type Orchestrator struct {
	daemon Daemon
	wait   Waiter
}

func New(daemon Daemon, wait Waiter) *Orchestrator {
	return &Orchestrator{daemon: daemon, wait: wait}
}

// Install sends set_gamma for every Master whose CRTC is supported,
// and for every Slave in that Master's group (§4.F steps 2-4): a
// Slave shares ramp storage with its Master but still carries its own
// class, priority, rule and CRTC, and is submitted independently.
func (o *Orchestrator) Install(slots []*coalesce.Slot, supported func(crtcName string) coopgamma.Support) error {
	if err := o.daemon.SetNonblocking(true); err != nil {
		return fmt.Errorf("filter: set_nonblocking: %w", err)
	}

	var tokens []proto.Token
	indexByToken := map[proto.Token]int{}
	flushPending := false

	trySend := func(slotIdx int) error {
		slot := slots[slotIdx]
		tok, err := o.daemon.SetGammaSend(*slot.Filter)
		if err != nil {
			if errors.Is(err, proto.ErrWouldBlock) {
				flushPending = true
			} else {
				return err
			}
		}
		tokens = append(tokens, tok)
		indexByToken[tok] = slotIdx
		return nil
	}

	for i, slot := range slots {
		if slot.Role != coalesce.Master {
			continue
		}
		if supported(slot.Filter.CRTCName) == coopgamma.No {
			continue
		}
		if err := trySend(i); err != nil {
			return err
		}
		for _, si := range slot.SlaveIndices {
			if err := trySend(si); err != nil {
				return err
			}
		}
	}

	for flushPending {
		if err := o.daemon.Flush(); err != nil {
			if errors.Is(err, proto.ErrWouldBlock) {
				if err := o.wait.Wait(true, false); err != nil {
					return err
				}
				continue
			}
			return err
		}
		flushPending = false
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
			// ErrUnrecoverable or a transport error both end the
			// install phase (§4.F step 4).
			return err
		}
		tok := remaining[idx]
		if serr := o.daemon.SetGammaRecv(tok); serr != nil {
			slots[indexByToken[tok]].PendingError = serr
			slots[indexByToken[tok]].Failed = true
		} else {
			slots[indexByToken[tok]].Synced = true
		}
		remaining = append(remaining[:idx], remaining[idx+1:]...)
	}
	return nil
}
