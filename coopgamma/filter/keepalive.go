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

	"github.com/branen/cg-tools/coopgamma/proto"
)

// KeepAlive implements §4.F step 6: switch the connection to blocking
// mode and wait for the daemon to notify or the connection to drop.
// Filters are owned by the connection and released by the daemon when
// this process exits, so KeepAlive has nothing further to do on a
// clean return. It returns nil once stop is closed, which it checks
// before each Synchronise call, and otherwise returns only when
// Synchronise reports an error other than ErrWouldBlock.
//
// On ErrUnrecoverable, the caller must park on a signal-wait forever
// rather than calling KeepAlive again (§4.F, §9): this function
// returns that error unchanged so the caller can make that decision.
func (o *Orchestrator) KeepAlive(stop <-chan struct{}) error {
	if err := o.daemon.SetNonblocking(false); err != nil {
		return err
	}
	for {
		select {
		case <-stop:
			return nil
		default:
		}
		_, err := o.daemon.Synchronise(nil)
		if err == nil {
			continue
		}
		if errors.Is(err, proto.ErrWouldBlock) {
			continue
		}
		return err
	}
}
