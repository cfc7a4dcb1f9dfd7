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
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Waiter blocks a single-threaded cooperative loop until the daemon
// connection has something to report: readable, writable or an
// error/hangup (§5 suspension points).
type Waiter interface {
	// Wait blocks until the connection is readable or in error, or,
	// when watchWrite is set (while a flush is pending), writable.
	// Unless infinite is true the wait is bounded by a timeout, so a
	// caller's loop runs again even when nothing happened.
	Wait(watchWrite bool, infinite bool) error
	Close() error
}

// epollWaiter drives the wait with Linux epoll, registering the event
// classes §5 names: readable, error/hangup, and urgent/priority data,
// always; writable only while a flush is pending, since a daemon
// socket is writable almost all the time and leaving EPOLLOUT armed
// permanently would turn every wait into a busy spin.
type epollWaiter struct {
	epfd       int
	fd         int
	writeArmed bool
}

const epollBaseEvents = unix.EPOLLIN | unix.EPOLLERR | unix.EPOLLHUP | unix.EPOLLPRI

// NewWaiter builds a Waiter for conn. conn must expose its raw file
// descriptor via syscall.Conn (true of *net.UnixConn and *net.TCPConn,
// the two transports a daemon socket realistically uses); other
// implementations (e.g. net.Pipe, used by this package's own tests)
// fall back to a short cooperative poll instead of true readiness
// notification.
func NewWaiter(conn net.Conn) (Waiter, error) {
	sc, ok := conn.(syscall.Conn)
	if !ok {
		return &pollWaiter{conn: conn}, nil
	}
	raw, err := sc.SyscallConn()
	if err != nil {
		return nil, fmt.Errorf("filter: syscall conn: %w", err)
	}
	epfd, err := unix.EpollCreate1(0)
	if err != nil {
		return nil, fmt.Errorf("filter: epoll_create1: %w", err)
	}
	w := &epollWaiter{epfd: epfd}
	ctrlErr := raw.Control(func(fd uintptr) {
		w.fd = int(fd)
		ctrlErr := unix.EpollCtl(epfd, unix.EPOLL_CTL_ADD, w.fd, &unix.EpollEvent{
			Events: epollBaseEvents,
			Fd:     int32(w.fd),
		})
		_ = ctrlErr
	})
	if ctrlErr != nil {
		unix.Close(epfd)
		return nil, fmt.Errorf("filter: syscall conn control: %w", ctrlErr)
	}
	return w, nil
}

func (w *epollWaiter) Wait(watchWrite bool, infinite bool) error {
	if watchWrite != w.writeArmed {
		events := uint32(epollBaseEvents)
		if watchWrite {
			events |= unix.EPOLLOUT
		}
		if err := unix.EpollCtl(w.epfd, unix.EPOLL_CTL_MOD, w.fd, &unix.EpollEvent{
			Events: events,
			Fd:     int32(w.fd),
		}); err != nil {
			return fmt.Errorf("filter: epoll_ctl: %w", err)
		}
		w.writeArmed = watchWrite
	}

	timeout := -1
	if !infinite {
		timeout = 1000
	}
	var events [4]unix.EpollEvent
	_, err := unix.EpollWait(w.epfd, events[:], timeout)
	if err != nil {
		if err == unix.EINTR {
			return nil
		}
		return fmt.Errorf("filter: epoll_wait: %w", err)
	}
	return nil
}

func (w *epollWaiter) Close() error {
	return unix.Close(w.epfd)
}

// pollWaiter is the portable fallback for connections that don't
// expose a raw descriptor (notably in-memory pipes used by tests): it
// sleeps briefly rather than spinning, since there is no readiness
// primitive to block on.
type pollWaiter struct {
	conn net.Conn
}

func (p *pollWaiter) Wait(watchWrite bool, infinite bool) error {
	if infinite {
		// There is no readiness primitive to block on here either;
		// an infinite wait sleeps a little longer than a bounded one
		// and returns, so the caller's loop runs again.
		time.Sleep(50 * time.Millisecond)
		return nil
	}
	time.Sleep(time.Millisecond)
	return nil
}

func (p *pollWaiter) Close() error { return nil }
