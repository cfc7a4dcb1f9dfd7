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

// Command cg-icc installs a CRTC's gamma ramp from an ICC profile's
// mLUT or vcgt tag, either a single file applied to every selected
// CRTC or, absent a file argument, one profile per CRTC looked up in
// the icctab configuration file by the CRTC's gamut-derived key.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/icc"
	"github.com/branen/cg-tools/coopgamma/lut"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
	"github.com/branen/cg-tools/internal/config"
)

const class = "cg-tools::cg-icc::standard"

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-icc"}
	opt, err := cli.Parse("cg-icc", os.Args[1:])
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
		switch len(opt.Args) {
		case 0:
			table, _, err := loadICCTab()
			if err != nil {
				return reporter.Report(err)
			}
			build = func(info coopgamma.CRTCInfo) *coopgamma.Ramps {
				path, ok := config.LookupEDID(table, app.GamutKey(info))
				if !ok {
					return nil
				}
				r, err := loadProfile(path)
				if err != nil {
					fmt.Fprintln(os.Stderr, err)
					return nil
				}
				return translateTo(r, info)
			}
		case 1:
			path := opt.Args[0]
			r, err := loadProfile(path)
			if err != nil {
				return reporter.Report(err)
			}
			build = func(info coopgamma.CRTCInfo) *coopgamma.Ramps {
				return translateTo(r, info)
			}
		default:
			return reporter.Report(cli.NewUsageError("cg-icc: expected at most one positional argument"))
		}
	}

	filters := app.BuildFilters(sess, class, opt.Rule, opt, build)
	// Drop filters whose ramp could not be resolved (no icctab entry
	// for that CRTC's key): there's nothing to install for them.
	kept := filters[:0]
	for _, f := range filters {
		if opt.Remove || f.Ramps != nil {
			kept = append(kept, f)
		}
	}
	filters = kept

	if err := app.Run(sess, filters, opt, nil); err != nil {
		return reporter.Report(err)
	}
	return 0
}

func loadICCTab() ([]config.EDIDEntry, string, error) {
	f, path, err := config.Open("icctab")
	if err != nil {
		if os.IsNotExist(err) {
			return nil, "", nil
		}
		return nil, "", err
	}
	defer f.Close()
	entries, warnings := config.ReadEDIDTable(f, path)
	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}
	return entries, path, nil
}

func loadProfile(path string) (*coopgamma.Ramps, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("ENOENT: %s", path)
		}
		return nil, err
	}
	r, err := icc.Parse(content)
	if err != nil {
		if errors.Is(err, icc.ErrNoUsableData) {
			return nil, fmt.Errorf("unusable ICC profile: %s", path)
		}
		return nil, err
	}
	return r, nil
}

// translateTo resamples a profile's ramp (at whatever depth and size
// the ICC tag encoded) onto the CRTC's own depth and ramp sizes.
func translateTo(src *coopgamma.Ramps, info coopgamma.CRTCInfo) *coopgamma.Ramps {
	dst := coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize)
	srcMax := nominalMax(src)
	dstMax := info.Depth.Max()
	lut.Translate(dst.Red, dstMax, src.Red, srcMax)
	lut.Translate(dst.Green, dstMax, src.Green, srcMax)
	lut.Translate(dst.Blue, dstMax, src.Blue, srcMax)
	lut.Clip(dst, true, true, true)
	return dst
}

func nominalMax(r *coopgamma.Ramps) float64 {
	if r.Depth.Float() {
		return 1
	}
	return r.Depth.Max()
}
