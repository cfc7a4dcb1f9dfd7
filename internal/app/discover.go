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
	"fmt"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/proto"
)

// Session bundles the daemon connection with the CRTC set a tool will
// operate on, resolved from -c (or every CRTC, if none were named).
type Session struct {
	Client *proto.Client
	CRTCs  []coopgamma.CRTCInfo
}

// Open connects to the daemon, lists its CRTCs and fetches each one's
// gamma info, and narrows the set to only, if non-empty, so only the
// ones requested via -c.
func Open(method, site string, only []string) (*Session, error) {
	conn, err := Dial(method, site)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	client := proto.New(conn)

	names, err := client.GetCRTCs()
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("get_crtcs: %w", err)
	}
	if len(only) > 0 {
		names = intersect(names, only)
	}

	var infos []coopgamma.CRTCInfo
	for _, name := range names {
		info, err := client.GetGammaInfo(name)
		if err != nil {
			client.Close()
			return nil, fmt.Errorf("get_gamma_info(%s): %w", name, err)
		}
		infos = append(infos, info)
	}
	return &Session{Client: client, CRTCs: infos}, nil
}

// Close releases the connection.
func (s *Session) Close() error {
	return s.Client.Close()
}

func intersect(all, wanted []string) []string {
	set := map[string]bool{}
	for _, w := range wanted {
		set[w] = true
	}
	var out []string
	for _, n := range all {
		if set[n] {
			out = append(out, n)
		}
	}
	return out
}
