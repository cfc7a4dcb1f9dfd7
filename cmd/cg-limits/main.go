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

// Command cg-limits applies a per-channel brightness+contrast affine
// mapping, either uniformly, per-channel, or per-CRTC from a pair of
// configuration files.
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
	"github.com/branen/cg-tools/internal/config"
)

const class = "cg-tools::cg-limits::standard"

func main() {
	os.Exit(run())
}

type limits struct {
	rmin, rmax, gmin, gmax, bmin, bmax float64
}

func parsePair(s string) (float64, float64, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("expected min:max, got %q", s)
	}
	lo, err1 := strconv.ParseFloat(parts[0], 64)
	hi, err2 := strconv.ParseFloat(parts[1], 64)
	if err1 != nil || err2 != nil {
		return 0, 0, fmt.Errorf("invalid min:max pair %q", s)
	}
	return lo, hi, nil
}

func run() int {
	reporter := app.Reporter{Program: "cg-limits"}
	opt, err := cli.Parse("cg-limits", os.Args[1:])
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
		var uniform *limits
		var perCRTC []config.Triple // brightness (min) table
		var perCRTCContrast []config.Triple

		switch {
		case len(opt.Args) == 2 && opt.Args[0] == "-B":
			return reporter.Report(cli.NewUsageError("cg-limits: -B requires -C as well"))
		case len(opt.Args) == 4 && opt.Args[0] == "-B" && opt.Args[2] == "-C":
			bf, err := os.Open(opt.Args[1])
			if err != nil {
				return reporter.Report(err)
			}
			defer bf.Close()
			var warnings []config.Warning
			perCRTC, warnings = config.ReadTriples(bf, opt.Args[1])
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w)
			}
			cf, err := os.Open(opt.Args[3])
			if err != nil {
				return reporter.Report(err)
			}
			defer cf.Close()
			perCRTCContrast, warnings = config.ReadTriples(cf, opt.Args[3])
			for _, w := range warnings {
				fmt.Fprintln(os.Stderr, w)
			}
		case len(opt.Args) == 1:
			lo, hi, perr := parsePair(opt.Args[0])
			if perr != nil {
				return reporter.Report(cli.NewUsageError("cg-limits: %v", perr))
			}
			uniform = &limits{rmin: lo, rmax: hi, gmin: lo, gmax: hi, bmin: lo, bmax: hi}
		case len(opt.Args) == 3:
			rlo, rhi, e1 := parsePair(opt.Args[0])
			glo, ghi, e2 := parsePair(opt.Args[1])
			blo, bhi, e3 := parsePair(opt.Args[2])
			if e1 != nil || e2 != nil || e3 != nil {
				return reporter.Report(cli.NewUsageError("cg-limits: invalid brightness:contrast arguments"))
			}
			uniform = &limits{rmin: rlo, rmax: rhi, gmin: glo, gmax: ghi, bmin: blo, bmax: bhi}
		default:
			return reporter.Report(cli.NewUsageError("cg-limits: expected \"rb:rc [gb:gc bb:bc]\" or \"-B file -C file\""))
		}

		build = func(info coopgamma.CRTCInfo) *coopgamma.Ramps {
			r := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
			lut.StartOver(r, true, true, true)
			l := limits{rmax: 1, gmax: 1, bmax: 1}
			if uniform != nil {
				l = *uniform
			} else {
				if t, ok := config.Lookup(perCRTC, info.Name); ok {
					l.rmin, l.gmin, l.bmin = t.First, t.Second, t.Third
				}
				l.rmax, l.gmax, l.bmax = 1, 1, 1
				if t, ok := config.Lookup(perCRTCContrast, info.Name); ok {
					l.rmax, l.gmax, l.bmax = t.First, t.Second, t.Third
				}
			}
			lut.RGBLimits(r, l.rmin, l.rmax, l.gmin, l.gmax, l.bmin, l.bmax)
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
