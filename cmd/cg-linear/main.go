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

// Command cg-linear installs a pair of filters: one linearising the
// sRGB signal (at the start priority of the "start:stop" first
// positional argument, class suffix ":start") and one re-encoding it
// back (at the stop priority, class suffix ":stop"), so other filters
// between them operate in linear light. The common -p option is not
// accepted. +r/+g/+b exempt a channel from both.
package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

const classBase = "cg-tools::cg-linear::standard"

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-linear"}
	opt, err := cli.Parse("cg-linear", os.Args[1:])
	if err != nil {
		return reporter.Report(err)
	}

	sess, err := app.Open(opt.Method, opt.Site, opt.CRTCs)
	if err != nil {
		return reporter.Report(err)
	}
	defer sess.Close()

	if opt.ListCRTCs {
		for _, c := range sess.CRTCs {
			fmt.Println(c.Name)
		}
		return 0
	}

	if opt.Remove {
		filters := app.BuildFilters(sess, classBase+":start", opt.Rule, opt, nil)
		filters = append(filters, app.BuildFilters(sess, classBase+":stop", opt.Rule, opt, nil)...)
		if err := run2(sess, filters, opt); err != nil {
			return reporter.Report(err)
		}
		return 0
	}

	startPriority, stopPriority, args, err := parseLinearArgs(opt)
	if err != nil {
		return reporter.Report(err)
	}
	red, green, blue := true, true, true
	for _, a := range args {
		switch a {
		case "+r":
			red = false
		case "+g":
			green = false
		case "+b":
			blue = false
		default:
			return reporter.Report(cli.NewUsageError("cg-linear: unrecognised argument %q", a))
		}
	}

	startFilters := make([]*coopgamma.Filter, 0, len(sess.CRTCs))
	stopFilters := make([]*coopgamma.Filter, 0, len(sess.CRTCs))
	for _, info := range sess.CRTCs {
		startRamp := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
		lut.StartOver(startRamp, true, true, true)
		lut.Linearise(startRamp, red, green, blue)
		lut.Clip(startRamp, true, true, true)
		startFilters = append(startFilters, &coopgamma.Filter{
			CRTCName: info.Name, Class: classBase + ":start", Priority: startPriority,
			Lifespan: app.Lifespan(opt), Rule: opt.Rule, Ramps: startRamp,
		})

		stopRamp := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
		lut.StartOver(stopRamp, true, true, true)
		lut.Standardise(stopRamp, red, green, blue)
		lut.Clip(stopRamp, true, true, true)
		stopFilters = append(stopFilters, &coopgamma.Filter{
			CRTCName: info.Name, Class: classBase + ":stop", Priority: stopPriority,
			Lifespan: app.Lifespan(opt), Rule: opt.Rule, Ramps: stopRamp,
		})
	}

	filters := append(startFilters, stopFilters...)
	if err := run2(sess, filters, opt); err != nil {
		return reporter.Report(err)
	}
	return 0
}

func run2(sess *app.Session, filters []*coopgamma.Filter, opt *cli.Options) error {
	return app.Run(sess, filters, opt, nil)
}

func parseLinearArgs(opt *cli.Options) (start, stop int64, rest []string, err error) {
	if opt.HasPriority {
		return 0, 0, nil, cli.NewUsageError("cg-linear: use \"start:stop\" as the first positional argument instead of -p")
	}
	// The common front-end's -p only carries a single int64, but
	// cg-linear installs two filters (":start" and ":stop") at two
	// different priorities, so the pair is read from its own first
	// positional argument instead.
	if len(opt.Args) == 0 {
		return 0, 0, nil, cli.NewUsageError("cg-linear: expected \"start:stop\" as the first positional argument")
	}
	parts := strings.SplitN(opt.Args[0], ":", 2)
	if len(parts) != 2 {
		return 0, 0, nil, cli.NewUsageError("cg-linear: invalid start:stop priority %q", opt.Args[0])
	}
	s, e1 := strconv.ParseInt(parts[0], 10, 64)
	p, e2 := strconv.ParseInt(parts[1], 10, 64)
	if e1 != nil || e2 != nil {
		return 0, 0, nil, cli.NewUsageError("cg-linear: invalid start:stop priority %q", opt.Args[0])
	}
	return s, p, opt.Args[1:], nil
}
