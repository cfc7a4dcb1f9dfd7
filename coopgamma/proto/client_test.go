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
	"bufio"
	"encoding/json"
	"net"
	"testing"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/stretchr/testify/require"
)

// fakeDaemon reads requests off one end of a net.Pipe and lets the
// test script decide how and when (and how many times) to answer.
type fakeDaemon struct {
	conn   net.Conn
	reader *bufio.Reader
}

func newFakeDaemon(conn net.Conn) *fakeDaemon {
	return &fakeDaemon{conn: conn, reader: bufio.NewReader(conn)}
}

func (f *fakeDaemon) recv() request {
	line, err := f.reader.ReadString('\n')
	if err != nil {
		panic(err)
	}
	var req request
	if err := json.Unmarshal([]byte(line), &req); err != nil {
		panic(err)
	}
	return req
}

func (f *fakeDaemon) reply(resp response) {
	buf, err := json.Marshal(resp)
	if err != nil {
		panic(err)
	}
	buf = append(buf, '\n')
	if _, err := f.conn.Write(buf); err != nil {
		panic(err)
	}
}

// Testable property 6: every token is completed exactly once;
// duplicate completions are swallowed; responses may arrive
// out-of-order.
func TestSynchroniseOutOfOrderAndDuplicates(t *testing.T) {
	clientSide, daemonSide := net.Pipe()
	defer clientSide.Close()
	defer daemonSide.Close()

	cl := New(clientSide)
	daemon := newFakeDaemon(daemonSide)

	done := make(chan struct{})
	go func() {
		defer close(done)
		r1 := daemon.recv()
		r2 := daemon.recv()
		r3 := daemon.recv()
		// Reply out of order: 3, then 1 (twice -- a duplicate from a
		// retried request), then 2.
		daemon.reply(response{Token: r3.Token})
		daemon.reply(response{Token: r1.Token})
		daemon.reply(response{Token: r1.Token}) // duplicate
		daemon.reply(response{Token: r2.Token})
	}()

	f := coopgamma.Filter{CRTCName: "C0", Class: "t", Ramps: coopgamma.NewRamps(coopgamma.U8, 2, 2, 2)}
	t1, err := cl.SetGammaSend(f)
	require.NoError(t, err)
	t2, err := cl.SetGammaSend(f)
	require.NoError(t, err)
	t3, err := cl.SetGammaSend(f)
	require.NoError(t, err)

	tokens := []Token{t1, t2, t3}
	seen := map[Token]bool{}
	for len(seen) < 3 {
		idx, err := cl.Synchronise(tokens)
		require.NoError(t, err)
		tok := tokens[idx]
		require.False(t, seen[tok], "token %d completed twice", tok)
		seen[tok] = true
		require.NoError(t, cl.SetGammaRecv(tok))
	}
	<-done
	require.Equal(t, 0, cl.outstandingCount())
}

func TestFlushRetriesPartialWrites(t *testing.T) {
	clientSide, daemonSide := net.Pipe()
	defer clientSide.Close()
	defer daemonSide.Close()

	cl := New(clientSide)
	require.NoError(t, cl.SetNonblocking(true))

	f := coopgamma.Filter{CRTCName: "C0", Class: "t", Ramps: coopgamma.NewRamps(coopgamma.U8, 2, 2, 2)}
	_, err := cl.SetGammaSend(f)
	// net.Pipe has no internal buffer, so a non-blocking write with
	// nobody reading will report would-block and the bytes stay queued.
	if err != nil {
		require.ErrorIs(t, err, ErrWouldBlock)
	}

	daemon := newFakeDaemon(daemonSide)
	gotReq := make(chan request, 1)
	go func() { gotReq <- daemon.recv() }()

	require.NoError(t, cl.SetNonblocking(false))
	require.NoError(t, cl.Flush())
	req := <-gotReq
	require.Equal(t, "set_gamma", req.Op)
}

func TestProtocolErrorReporting(t *testing.T) {
	clientSide, daemonSide := net.Pipe()
	defer clientSide.Close()
	defer daemonSide.Close()
	cl := New(clientSide)
	daemon := newFakeDaemon(daemonSide)

	go func() {
		r := daemon.recv()
		daemon.reply(response{Token: r.Token, Err: &wireError{ServerSide: true, Number: 7, Description: "boom"}})
	}()

	_, err := cl.GetMethods()
	require.Error(t, err)
	var perr *ProtocolError
	require.ErrorAs(t, err, &perr)
	require.True(t, perr.ServerSide)
	require.Equal(t, 7, perr.Number)
}

func TestGetGammaDecodesRamps(t *testing.T) {
	clientSide, daemonSide := net.Pipe()
	defer clientSide.Close()
	defer daemonSide.Close()
	cl := New(clientSide)
	daemon := newFakeDaemon(daemonSide)

	want := coopgamma.NewRamps(coopgamma.U8, 4, 4, 4)
	for i := range want.Red {
		want.Red[i], want.Green[i], want.Blue[i] = float64(i), float64(i)*2, 0
	}

	go func() {
		r := daemon.recv()
		require.Equal(t, "get_gamma", r.Op)
		require.Equal(t, "C0", r.CRTC)
		require.Equal(t, "*", r.Class)
		daemon.reply(response{Token: r.Token, Ramps: toWireRamps(want)})
	}()

	got, err := cl.GetGamma("C0", "*")
	require.NoError(t, err)
	require.Equal(t, want, got)
}

func TestUnrecoverableError(t *testing.T) {
	clientSide, daemonSide := net.Pipe()
	defer clientSide.Close()
	defer daemonSide.Close()
	cl := New(clientSide)
	daemon := newFakeDaemon(daemonSide)

	go func() {
		r := daemon.recv()
		daemon.reply(response{Token: r.Token, Err: &wireError{Unrecoverable: true}})
	}()

	_, err := cl.GetCRTCs()
	require.ErrorIs(t, err, ErrUnrecoverable)
	require.True(t, cl.Unrecoverable())
}
