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
	"net"
	"testing"

	"github.com/stretchr/testify/require"
)

// net.Pipe doesn't implement syscall.Conn, so NewWaiter falls back to
// pollWaiter; a real TCP loopback pair is needed to exercise
// epollWaiter itself.
func dialLoopback(t *testing.T) (client, server net.Conn) {
	t.Helper()
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		c, _ := ln.Accept()
		accepted <- c
	}()
	client, err = net.Dial("tcp", ln.Addr().String())
	require.NoError(t, err)
	server = <-accepted
	t.Cleanup(func() { client.Close(); server.Close() })
	return client, server
}

// Regression test: EPOLLOUT must only be armed while watchWrite is
// true, or a connection that is writable almost all the time turns
// every wait into a spin.
func TestEpollWaiterArmsAndDisarmsWriteInterest(t *testing.T) {
	client, _ := dialLoopback(t)

	w, err := NewWaiter(client)
	require.NoError(t, err)
	defer w.Close()

	ew, ok := w.(*epollWaiter)
	require.True(t, ok, "loopback TCP connections should use epollWaiter")

	require.NoError(t, w.Wait(false, false))
	require.False(t, ew.writeArmed)

	require.NoError(t, w.Wait(true, false))
	require.True(t, ew.writeArmed)

	require.NoError(t, w.Wait(false, false))
	require.False(t, ew.writeArmed)
}
