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

// Package cli parses the common front-end (§4.G) that every cg-tool
// shares: -M method, -S site, -c crtc (repeatable), -R rule, -p
// priority, and the install/remove/keep-alive switches -x/-d, leaving
// whatever remains for the tool's own handler.
package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// UsageError marks a front-end parse failure (§7): unrecognised
// option, missing argument, invalid numeric string, or conflicting
// flags. The common main() wrapper prints a one-line banner for these
// and exits 1.
type UsageError struct {
	msg string
}

func (e *UsageError) Error() string { return e.msg }

func usageErrorf(format string, args ...interface{}) error {
	return &UsageError{msg: fmt.Sprintf(format, args...)}
}

// NewUsageError builds a UsageError, for tool handlers that need to
// report a usage problem in their own tool-specific argument grammar.
func NewUsageError(format string, args ...interface{}) error {
	return usageErrorf(format, args...)
}

// Options holds the parsed common front-end, shared by every tool.
type Options struct {
	Method string
	Site   string

	CRTCs     []string
	ListCRTCs bool

	Rule      string
	ListRules int // 0: not requested, 1: "?", 2: "??"

	Priority     int64
	HasPriority  bool
	ListPriority bool

	Remove    bool // -x
	KeepAlive bool // -d

	// Args is whatever remains after the common flags are consumed,
	// for the tool's own handler to parse.
	Args []string
}

// Parse parses argv (excluding argv[0]) against the common front-end
// grammar, then returns whatever args remain for the caller's own
// flag set. "-p ?" sets ListPriority; Parse itself prints nothing.
func Parse(toolName string, argv []string) (*Options, error) {
	if err := rejectDuplicates(argv, "-M", "--M", "-S", "--S", "-R", "--R", "-p", "--p"); err != nil {
		return nil, err
	}

	fs := pflag.NewFlagSet(toolName, pflag.ContinueOnError)
	fs.Usage = func() {}
	fs.SetOutput(discard{})
	// Each tool layers its own flags (-r/-g/-b, -l/-s, -f/-l/-h, ...) on
	// top of this common front-end; let those pass through to Args()
	// instead of failing here as unrecognised.
	fs.ParseErrorsWhitelist.UnknownFlags = true

	var method, site, rule, priority string
	var crtcs []string
	var remove, keepAlive bool
	fs.StringVarP(&method, "method", "M", "", "cooperative gamma method")
	fs.StringVarP(&site, "site", "S", "", "site to connect to")
	fs.StringArrayVarP(&crtcs, "crtc", "c", nil, "CRTC to apply to (repeatable)")
	fs.StringVarP(&rule, "rule", "R", "", "filter rule")
	fs.StringVarP(&priority, "priority", "p", "", "filter priority")
	fs.BoolVarP(&remove, "remove", "x", false, "remove the filter instead of installing it")
	fs.BoolVarP(&keepAlive, "keep-alive", "d", false, "keep the filter alive until this process exits")

	if err := fs.Parse(argv); err != nil {
		return nil, usageErrorf("%s: %v", toolName, err)
	}

	opt := &Options{
		Method:    method,
		Site:      site,
		Rule:      rule,
		Remove:    remove,
		KeepAlive: keepAlive,
		Args:      fs.Args(),
	}

	for _, c := range crtcs {
		if c == "?" {
			opt.ListCRTCs = true
			continue
		}
		opt.CRTCs = append(opt.CRTCs, c)
	}

	switch rule {
	case "?":
		opt.ListRules = 1
	case "??":
		opt.ListRules = 2
	}

	if priority != "" {
		if priority == "?" {
			opt.ListPriority = true
		} else {
			p, err := strconv.ParseInt(priority, 10, 64)
			if err != nil {
				return nil, usageErrorf("%s: invalid priority: %q", toolName, priority)
			}
			opt.Priority = p
			opt.HasPriority = true
		}
	}

	listing := opt.ListCRTCs || opt.ListRules != 0 || opt.ListPriority
	if opt.Remove {
		if opt.KeepAlive {
			return nil, usageErrorf("%s: -x cannot be combined with -d", toolName)
		}
		if len(opt.Args) > 0 {
			return nil, usageErrorf("%s: -x cannot be combined with positional arguments", toolName)
		}
		if opt.HasPriority {
			return nil, usageErrorf("%s: -x cannot be combined with -p", toolName)
		}
	}
	if listing && (opt.Remove || opt.KeepAlive || len(opt.Args) > 0) {
		return nil, usageErrorf("%s: a listing request (\"?\") must be the only request made", toolName)
	}

	return opt, nil
}

// rejectDuplicates reports a usage error if any of names appears more
// than once in argv, either as a bare token ("-p", "x") or as an
// "=value" form ("-p=x"); pflag itself silently accepts the repeat and
// keeps only the last value, but §7/testable property 7 require this
// to be a usage error.
func rejectDuplicates(argv []string, names ...string) error {
	counts := map[string]int{}
	for _, arg := range argv {
		name := arg
		if eq := strings.IndexByte(arg, '='); eq >= 0 {
			name = arg[:eq]
		}
		for _, n := range names {
			if name == n {
				counts[n]++
			}
		}
	}
	for _, n := range names {
		if counts[n] > 1 {
			return usageErrorf("option %s specified more than once", n)
		}
	}
	return nil
}

type discard struct{}

func (discard) Write(p []byte) (int, error) { return len(p), nil }
