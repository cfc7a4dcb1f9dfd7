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

// Command cg-darkroom turns the screen into a red safelight: the red
// channel is negated and CIE-dimmed, green and blue are extinguished.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

const class = "cg-tools::cg-darkroom::standard"
const defaultBrightness = 0.25

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-darkroom"}
	opt, err := cli.Parse("cg-darkroom", os.Args[1:])
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

	var build func(coopgamma.CRTCInfo) *coopgamma.Ramps
	if !opt.Remove {
		value := defaultBrightness
		switch len(opt.Args) {
		case 0:
		case 1:
			v, perr := strconv.ParseFloat(opt.Args[0], 64)
			if perr != nil || v < 0 {
				return reporter.Report(cli.NewUsageError("cg-darkroom: invalid brightness: %q", opt.Args[0]))
			}
			value = v
		default:
			return reporter.Report(cli.NewUsageError("cg-darkroom: expected at most one positional argument"))
		}
		build = func(info coopgamma.CRTCInfo) *coopgamma.Ramps {
			r := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
			lut.StartOver(r, true, true, true)
			lut.Negative(r, true, false, false)
			lut.RGBBrightness(r, 1, 0, 0)
			lut.CIEBrightness(r, value, value, value)
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
