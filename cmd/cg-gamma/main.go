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

// Command cg-gamma applies a per-channel power-law gamma correction,
// uniformly or per-CRTC from a configuration file.
package main

import (
	"fmt"
	"os"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

const class = "cg-tools::cg-gamma::standard"

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-gamma"}
	opt, err := cli.Parse("cg-gamma", os.Args[1:])
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

	var args *app.TripleArgs
	if !opt.Remove {
		var warnings []error
		args, warnings, err = app.ParseTripleArgs("cg-gamma", "gamma", opt.Args)
		if err != nil {
			return reporter.Report(err)
		}
		for _, w := range warnings {
			fmt.Fprintln(os.Stderr, w)
		}
	}

	var build func(coopgamma.CRTCInfo) *coopgamma.Ramps
	if !opt.Remove {
		build = func(info coopgamma.CRTCInfo) *coopgamma.Ramps {
			r := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
			lut.StartOver(r, true, true, true)
			rg, gg, bg, ok := args.TripleFor(info.Name)
			if !ok {
				rg, gg, bg = 1, 1, 1
			}
			lut.Gamma(r, rg, gg, bg)
			lut.Clip(r, true, true, true)
			return r
		}
	}
	filters := app.BuildFilters(sess, class, opt.Rule, opt, build)

	if err := app.Run(sess, filters, opt, nil); err != nil {
		return reporter.Report(err)
	}
	return 0
}
