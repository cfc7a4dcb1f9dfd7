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

import (
	"errors"
	"fmt"
	"net"
	"os"
)

// ErrWouldBlock is returned by send/Synchronise when no work could be
// completed without blocking the caller; §4.D requires the caller
// retry via Flush (for sends) or return to the event-loop wait (for
// Synchronise).
var ErrWouldBlock = errors.New("proto: operation would block")

// ErrUnrecoverable corresponds to the daemon reporting ENOTRECOVERABLE
// (§4.D, §7): the orchestrator must cease sending and park.
var ErrUnrecoverable = errors.New("proto: server reported an unrecoverable error")

// ProtocolError is a structured cg.error: either server- or
// client-side, and optionally carrying a custom number and
// description (§4.D, §7).
type ProtocolError struct {
	ServerSide  bool
	Number      int
	Description string
}

func (e *ProtocolError) Error() string {
	side := "client"
	if e.ServerSide {
		side = "server"
	}
	msg := fmt.Sprintf("%s-side error", side)
	if e.Number != 0 {
		msg += fmt.Sprintf(" number %d", e.Number)
	}
	if e.Description != "" {
		msg += ": " + e.Description
	}
	return msg
}

// isWouldBlock reports whether err represents a transient EAGAIN,
// EWOULDBLOCK or EINTR condition -- a deadline-exceeded error on a
// connection toggled into non-blocking mode plays that role here,
// since plain net.Conn has no EAGAIN of its own.
func isWouldBlock(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, os.ErrDeadlineExceeded) {
		return true
	}
	var ne net.Error
	if errors.As(err, &ne) && ne.Timeout() {
		return true
	}
	return false
}
