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

// Package app wires the pieces every cg-tool binary shares: daemon
// dialing, structured logging, and the error-category reporter of §7.
package app

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"golang.org/x/sys/unix"

	"github.com/branen/cg-tools/coopgamma/proto"
	"github.com/branen/cg-tools/internal/cli"
)

// Logger is the process-wide structured logger: leveled, without
// timestamps, at warn level unless CG_TOOLS_DEBUG is set (then debug).
func Logger(program string) *log.Logger {
	l := log.NewWithOptions(os.Stderr, log.Options{
		Prefix:          program,
		ReportTimestamp: false,
	})
	if os.Getenv("CG_TOOLS_DEBUG") != "" {
		l.SetLevel(log.DebugLevel)
	} else {
		l.SetLevel(log.WarnLevel)
	}
	return l
}

// Dial opens the connection to the cooperative gamma daemon for
// method and site. The wire protocol (proto.Client) treats the
// connection opaquely; addressing is this package's own convention,
// a Unix socket under $XDG_RUNTIME_DIR, since the daemon's actual
// addressing scheme is external to this client (§6).
func Dial(method, site string) (net.Conn, error) {
	if method == "" {
		method = "x-randr"
	}
	dir := os.Getenv("XDG_RUNTIME_DIR")
	if dir == "" {
		dir = filepath.Join(os.TempDir(), fmt.Sprintf("cg-tools-%d", os.Getuid()))
	}
	name := method
	if site != "" {
		name = method + "@" + site
	}
	sock := filepath.Join(dir, "cg-coopgammad", name)
	return net.Dial("unix", sock)
}

// Reporter funnels every error category of §7 to its uniform
// message and exit code.
type Reporter struct {
	Program string
}

// Report prints err in the category-appropriate form to standard
// error and returns the process exit code. An ErrUnrecoverable parks
// the process (see Park) instead of exiting; it is only printed if
// Park returns.
func (r Reporter) Report(err error) int {
	if err == nil {
		return 0
	}
	if errors.Is(err, proto.ErrUnrecoverable) {
		Park()
	}

	var uerr *cli.UsageError
	if errors.As(err, &uerr) {
		fmt.Fprintf(os.Stderr, "usage: %v\n", err)
		return 1
	}

	var perr *proto.ProtocolError
	if errors.As(err, &perr) {
		fmt.Fprintf(os.Stderr, "%s: %v\n", r.Program, perr)
		return 1
	}

	fmt.Fprintf(os.Stderr, "%s: %v\n", r.Program, err)
	return 1
}

// Park blocks forever, used after ErrUnrecoverable: the daemon will
// release this process's filters when the connection drops, and
// there is nothing left for the process to do but wait to be signalled
// (§7, §4.F step 6). It suspends the goroutine on pause(2) rather than
// an empty select, which the runtime would otherwise flag as a
// deadlock the moment no other goroutine remains runnable.
func Park() {
	for {
		if err := unix.Pause(); err != unix.EINTR {
			return
		}
	}
}
