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

// Package proto implements the cooperative gamma daemon's client-side
// protocol engine (§4.D): a single duplex connection carrying
// asynchronous, multiplexed request/response traffic, with explicit
// flush, a non-blocking mode switch, partial-send recovery and
// per-request correlation tokens.
package proto

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"time"

	"github.com/branen/cg-tools/coopgamma"
)

// Token is the correlation handle returned by an asynchronous send
// and consumed by the matching recv or by Synchronise.
type Token int64

// Client owns the single connection to the daemon. It is not
// thread-safe; cg-tools is single-threaded cooperative (§5), and one
// Client is used from one goroutine at a time.
type Client struct {
	conn        net.Conn
	reader      *bufio.Reader
	nonblocking bool

	nextToken Token

	// outbox holds sends not yet fully written to the wire, in the
	// order they were issued; sends are written strictly in order,
	// one partial write at a time.
	outbox []*outboxEntry

	// outstanding maps a send's token to the op so a completing
	// response can be decoded and reported correctly.
	outstanding map[Token]string

	// completed holds decoded responses whose token hasn't yet been
	// claimed by Synchronise/recv.
	completed map[Token]*response

	// synced marks tokens whose response has already been delivered
	// to the caller once; later frames bearing the same token are
	// duplicates from a retried request and must be swallowed.
	synced map[Token]bool

	unrecoverable bool
}

type outboxEntry struct {
	token Token
	buf   []byte
	sent  int
}

// New wraps conn as a daemon connection. conn is typically a Unix
// domain socket dialed by the caller using method- and site-specific
// addressing that this package does not define (§6).
func New(conn net.Conn) *Client {
	return &Client{
		conn:        conn,
		reader:      bufio.NewReader(conn),
		outstanding: map[Token]string{},
		completed:   map[Token]*response{},
		synced:      map[Token]bool{},
	}
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	return c.conn.Close()
}

// Conn returns the underlying connection, for constructing a Waiter
// (coopgamma/filter) around the same socket this Client reads and
// writes.
func (c *Client) Conn() net.Conn {
	return c.conn
}

// SetNonblocking toggles the connection's blocking mode. In
// non-blocking mode, reads and writes that cannot complete
// immediately return ErrWouldBlock instead of blocking the caller;
// in blocking mode (the mode a new Client starts in, and the one the
// keep-alive loop switches back to, §4.F step 6) they block
// indefinitely.
func (c *Client) SetNonblocking(b bool) error {
	c.nonblocking = b
	if b {
		return nil
	}
	return c.conn.SetDeadline(time.Time{})
}

func (c *Client) armDeadline() {
	if c.nonblocking {
		c.conn.SetDeadline(time.Now())
	}
}

// Flush retries writing any queued-but-unsent bytes in outbox order.
// It stops at the first partial write and returns ErrWouldBlock if
// the peer is still back-pressuring; callers must call Flush again
// once the connection reports writable.
func (c *Client) Flush() error {
	for len(c.outbox) > 0 {
		entry := c.outbox[0]
		c.armDeadline()
		n, err := c.conn.Write(entry.buf[entry.sent:])
		entry.sent += n
		if err != nil {
			if isWouldBlock(err) {
				return ErrWouldBlock
			}
			return fmt.Errorf("proto: write: %w", err)
		}
		if entry.sent < len(entry.buf) {
			return ErrWouldBlock
		}
		c.outbox = c.outbox[1:]
	}
	return nil
}

// enqueue frames req, attempts an immediate write, and queues
// whatever wasn't written for a later Flush. It always returns the
// token; the caller only needs to check the returned error to learn
// whether a Flush is required.
func (c *Client) enqueue(req request) (Token, error) {
	buf, err := json.Marshal(req)
	if err != nil {
		return 0, fmt.Errorf("proto: encode request: %w", err)
	}
	buf = append(buf, '\n')
	entry := &outboxEntry{token: req.Token, buf: buf}
	c.outbox = append(c.outbox, entry)
	c.outstanding[req.Token] = req.Op
	if err := c.Flush(); err != nil {
		return req.Token, err
	}
	return req.Token, nil
}

func (c *Client) newToken() Token {
	c.nextToken++
	return c.nextToken
}

// GetMethods is a synchronous RPC used only at startup.
func (c *Client) GetMethods() ([]string, error) {
	resp, err := c.roundTrip(request{Op: "get_methods"})
	if err != nil {
		return nil, err
	}
	return resp.Methods, nil
}

// GetCRTCs is a synchronous RPC used only at startup.
func (c *Client) GetCRTCs() ([]string, error) {
	resp, err := c.roundTrip(request{Op: "get_crtcs"})
	if err != nil {
		return nil, err
	}
	return resp.CRTCs, nil
}

// GetGammaInfo is a synchronous RPC used only at startup.
func (c *Client) GetGammaInfo(crtc string) (coopgamma.CRTCInfo, error) {
	resp, err := c.roundTrip(request{Op: "get_gamma_info", CRTC: crtc})
	if err != nil {
		return coopgamma.CRTCInfo{}, err
	}
	if resp.CRTCInfo == nil {
		return coopgamma.CRTCInfo{}, fmt.Errorf("proto: get_gamma_info: empty response")
	}
	return fromWireCRTC(resp.CRTCInfo), nil
}

// GetGamma is a synchronous RPC reading back the ramp the daemon is
// applying to crtc for class. class "*" asks for the coalesced
// composition of every filter installed on that CRTC rather than one
// class's own ramp (§6's query tool table).
func (c *Client) GetGamma(crtc, class string) (*coopgamma.Ramps, error) {
	resp, err := c.roundTrip(request{Op: "get_gamma", CRTC: crtc, Class: class})
	if err != nil {
		return nil, err
	}
	if resp.Ramps == nil {
		return nil, fmt.Errorf("proto: get_gamma: empty response")
	}
	return fromWireRamps(resp.Ramps), nil
}

// roundTrip is used only for the four synchronous startup/query RPCs,
// where exactly one request is outstanding at a time.
func (c *Client) roundTrip(req request) (*response, error) {
	req.Token = c.newToken()
	wasNonblocking := c.nonblocking
	c.nonblocking = false
	defer func() { c.nonblocking = wasNonblocking }()
	if _, err := c.enqueue(req); err != nil {
		return nil, err
	}
	for {
		resp, err := c.readFrame()
		if err != nil {
			return nil, err
		}
		if resp.Token == req.Token {
			delete(c.outstanding, req.Token)
			return c.checkError(resp)
		}
		// Not ours (shouldn't happen during a synchronous call); drop it.
	}
}

func (c *Client) checkError(resp *response) (*response, error) {
	if resp.Err == nil {
		return resp, nil
	}
	if resp.Err.Unrecoverable {
		c.unrecoverable = true
		return nil, ErrUnrecoverable
	}
	return nil, &ProtocolError{
		ServerSide:  resp.Err.ServerSide,
		Number:      resp.Err.Number,
		Description: resp.Err.Description,
	}
}

// readFrame blocks (subject to the current non-blocking mode) for
// exactly one newline-delimited response frame.
func (c *Client) readFrame() (*response, error) {
	c.armDeadline()
	line, err := c.reader.ReadString('\n')
	if err != nil {
		if isWouldBlock(err) {
			return nil, ErrWouldBlock
		}
		if err == io.EOF {
			return nil, fmt.Errorf("proto: connection closed: %w", io.ErrClosedPipe)
		}
		return nil, fmt.Errorf("proto: read: %w", err)
	}
	var resp response
	if err := json.Unmarshal([]byte(line), &resp); err != nil {
		return nil, fmt.Errorf("proto: decode response: %w", err)
	}
	return &resp, nil
}

// GetGammaInfoSend issues an asynchronous get_gamma_info request and
// returns its correlation token. If the connection back-pressures,
// the caller must call Flush once the connection is writable.
func (c *Client) GetGammaInfoSend(crtc string) (Token, error) {
	return c.enqueue(request{Token: c.newToken(), Op: "get_gamma_info", CRTC: crtc})
}

// GetGammaInfoRecv consumes the response for token, previously
// returned by GetGammaInfoSend, once Synchronise has reported it
// ready.
func (c *Client) GetGammaInfoRecv(token Token) (coopgamma.CRTCInfo, error) {
	resp, ok := c.take(token)
	if !ok {
		return coopgamma.CRTCInfo{}, fmt.Errorf("proto: token %d not completed", token)
	}
	if _, err := c.checkError(resp); err != nil {
		return coopgamma.CRTCInfo{}, err
	}
	if resp.CRTCInfo == nil {
		return coopgamma.CRTCInfo{}, fmt.Errorf("proto: get_gamma_info: empty response")
	}
	return fromWireCRTC(resp.CRTCInfo), nil
}

// SetGammaSend issues an asynchronous set_gamma request and returns
// its correlation token.
func (c *Client) SetGammaSend(f coopgamma.Filter) (Token, error) {
	return c.enqueue(request{Token: c.newToken(), Op: "set_gamma", Filter: toWireFilter(f)})
}

// SetGammaRecv consumes the response for token, previously returned
// by SetGammaSend.
func (c *Client) SetGammaRecv(token Token) error {
	resp, ok := c.take(token)
	if !ok {
		return fmt.Errorf("proto: token %d not completed", token)
	}
	_, err := c.checkError(resp)
	return err
}

func (c *Client) take(token Token) (*response, bool) {
	resp, ok := c.completed[token]
	if !ok {
		return nil, false
	}
	delete(c.completed, token)
	return resp, true
}

// Synchronise drains the connection for completed responses among
// tokens and returns the index of the first one that is ready. Each
// token is completed exactly once (testable property 6): a duplicate
// completion for an already-synced token -- which can occur if the
// daemon replies to a retried request -- is discarded and draining
// continues. If nothing is ready without blocking, Synchronise
// returns (-1, ErrWouldBlock); the caller's event loop should return
// to its readiness wait.
func (c *Client) Synchronise(tokens []Token) (int, error) {
	if idx := c.firstReady(tokens); idx >= 0 {
		return idx, nil
	}
	for {
		resp, err := c.readFrame()
		if err != nil {
			return -1, err
		}
		if resp.Err != nil && resp.Err.Unrecoverable {
			c.unrecoverable = true
			return -1, ErrUnrecoverable
		}
		if c.synced[resp.Token] {
			// Duplicate completion for an already-delivered token:
			// swallow it and keep draining.
			continue
		}
		c.synced[resp.Token] = true
		delete(c.outstanding, resp.Token)
		c.completed[resp.Token] = resp
		if idx := indexOf(tokens, resp.Token); idx >= 0 {
			return idx, nil
		}
		// A response for a token the caller isn't watching this
		// round; it stays in completed for a later Synchronise/recv.
	}
}

func (c *Client) firstReady(tokens []Token) int {
	for i, t := range tokens {
		if _, ok := c.completed[t]; ok {
			return i
		}
	}
	return -1
}

func indexOf(tokens []Token, t Token) int {
	for i, x := range tokens {
		if x == t {
			return i
		}
	}
	return -1
}

// Unrecoverable reports whether the daemon has reported
// ENOTRECOVERABLE on this connection.
func (c *Client) Unrecoverable() bool {
	return c.unrecoverable
}

// outstandingCount reports how many sends have not yet completed,
// for tests asserting every send eventually completes exactly once.
func (c *Client) outstandingCount() int {
	return len(c.outstanding)
}
