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

// Command cg-query reports what the daemon knows about the selected
// CRTCs: support level, depth, ramp sizes, colourspace, gamut, and the
// installed filter ramp itself, one lower-case hexadecimal triple per
// stop. -f selects the class to read back ("*", the default, asks for
// the coalesced composition of every filter on the CRTC); -h/-l bound
// the stop range printed.
package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/proto"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-query"}
	opt, err := cli.Parse("cg-query", os.Args[1:])
	if err != nil {
		return reporter.Report(err)
	}

	class := "*"
	low, high := -1, -1
	rest := opt.Args[:0:0]
	for i := 0; i < len(opt.Args); i++ {
		switch opt.Args[i] {
		case "-f":
			i++
			if i >= len(opt.Args) {
				return reporter.Report(cli.NewUsageError("cg-query: -f requires a class"))
			}
			class = opt.Args[i]
		case "-l":
			i++
			if i >= len(opt.Args) {
				return reporter.Report(cli.NewUsageError("cg-query: -l requires a stop index"))
			}
			v, perr := strconv.Atoi(opt.Args[i])
			if perr != nil {
				return reporter.Report(cli.NewUsageError("cg-query: invalid -l %q", opt.Args[i]))
			}
			low = v
		case "-h":
			i++
			if i >= len(opt.Args) {
				return reporter.Report(cli.NewUsageError("cg-query: -h requires a stop index"))
			}
			v, perr := strconv.Atoi(opt.Args[i])
			if perr != nil {
				return reporter.Report(cli.NewUsageError("cg-query: invalid -h %q", opt.Args[i]))
			}
			high = v
		default:
			rest = append(rest, opt.Args[i])
		}
	}
	if len(rest) > 0 {
		return reporter.Report(cli.NewUsageError("cg-query: unexpected argument %q", rest[0]))
	}

	sess, err := app.Open(opt.Method, opt.Site, opt.CRTCs)
	if err != nil {
		return reporter.Report(err)
	}
	defer sess.Close()

	for _, info := range sess.CRTCs {
		printCRTC(info, class, low, high)
		if err := printRamps(sess.Client, info, class, low, high); err != nil {
			return reporter.Report(err)
		}
	}
	return 0
}

func printCRTC(info coopgamma.CRTCInfo, class string, low, high int) {
	fmt.Printf("%s:\n", info.Name)
	fmt.Printf("\tsupported: %s\n", info.Supported)
	fmt.Printf("\tcooperative: %t\n", info.Cooperative)
	fmt.Printf("\tdepth: %s\n", info.Depth)
	fmt.Printf("\tsizes: %d %d %d\n", info.RedSize, info.GreenSize, info.BlueSize)
	fmt.Printf("\tcolourspace: %d\n", info.Colourspace)
	if info.Gamut != nil {
		fmt.Printf("\tgamut: r(%d,%d) g(%d,%d) b(%d,%d)\n",
			info.Gamut.Red.X, info.Gamut.Red.Y,
			info.Gamut.Green.X, info.Gamut.Green.Y,
			info.Gamut.Blue.X, info.Gamut.Blue.Y)
	}
	fmt.Printf("\tclass: %s\n", class)
	if low >= 0 || high >= 0 {
		fmt.Printf("\trange: [%d,%d]\n", low, high)
	}
}

// printRamps reads back the ramp the daemon is applying to info for
// class and prints one line per stop in [low,high] (a bound left at
// -1 defaults to the first or last stop): a lower-case, zero-padded
// hexadecimal triple for the integer depths, matching the stop value
// the daemon actually holds (§6, §8 scenario 5).
func printRamps(client *proto.Client, info coopgamma.CRTCInfo, class string, low, high int) error {
	ramps, err := client.GetGamma(info.Name, class)
	if err != nil {
		return fmt.Errorf("get_gamma: %w", err)
	}
	n := len(ramps.Red)
	if len(ramps.Green) > n {
		n = len(ramps.Green)
	}
	if len(ramps.Blue) > n {
		n = len(ramps.Blue)
	}
	lo, hi := 0, n-1
	if low >= 0 {
		lo = low
	}
	if high >= 0 {
		hi = high
	}
	digits := hexDigits(ramps.Depth)
	for i := lo; i <= hi && i < n; i++ {
		r := ramps.Depth.Saturate(stopAt(ramps.Red, i), false)
		g := ramps.Depth.Saturate(stopAt(ramps.Green, i), false)
		b := ramps.Depth.Saturate(stopAt(ramps.Blue, i), false)
		if digits == 0 {
			fmt.Printf("%g %g %g\n", r, g, b)
			continue
		}
		fmt.Printf("%0*x %0*x %0*x\n", digits, uint64(r), digits, uint64(g), digits, uint64(b))
	}
	return nil
}

// hexDigits is the zero-padded hex width of one stop at depth d, or 0
// for the float depths, which print in decimal instead.
func hexDigits(d coopgamma.Depth) int {
	switch d {
	case coopgamma.U8:
		return 2
	case coopgamma.U16:
		return 4
	case coopgamma.U32:
		return 8
	case coopgamma.U64:
		return 16
	default:
		return 0
	}
}

// stopAt returns arr[i], clamped to the last stop when i runs past a
// channel shorter than the widest one (§4.A allows channels to differ
// in length).
func stopAt(arr []float64, i int) float64 {
	if len(arr) == 0 {
		return 0
	}
	if i >= len(arr) {
		i = len(arr) - 1
	}
	return arr[i]
}
