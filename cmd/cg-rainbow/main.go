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

// Command cg-rainbow cycles the selected CRTCs' gamma ramps through
// red, green and blue indefinitely, until the process is signalled
// or killed.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/coopgamma/coalesce"
	"github.com/branen/cg-tools/coopgamma/filter"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

const (
	class           = "cg-tools::cg-rainbow::standard"
	defaultPriority = int64(1) << 60
)

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-rainbow"}
	opt, err := cli.Parse("cg-rainbow", os.Args[1:])
	if err != nil {
		return reporter.Report(err)
	}
	if opt.Remove {
		return reporter.Report(cli.NewUsageError("cg-rainbow: -x is meaningless here"))
	}

	freqHz := 1.0 / 3
	lightness := 1.0 / 3

	for i := 0; i < len(opt.Args); i++ {
		switch opt.Args[i] {
		case "-s":
			i++
			if i >= len(opt.Args) {
				return reporter.Report(cli.NewUsageError("cg-rainbow: -s requires a frequency"))
			}
			v, perr := strconv.ParseFloat(opt.Args[i], 64)
			if perr != nil || v < 0 {
				return reporter.Report(cli.NewUsageError("cg-rainbow: invalid -s %q", opt.Args[i]))
			}
			freqHz = v
		case "-l":
			i++
			if i >= len(opt.Args) {
				return reporter.Report(cli.NewUsageError("cg-rainbow: -l requires a luminosity"))
			}
			v, perr := strconv.ParseFloat(opt.Args[i], 64)
			if perr != nil || v < 0 {
				return reporter.Report(cli.NewUsageError("cg-rainbow: invalid -l %q", opt.Args[i]))
			}
			lightness = v
		default:
			return reporter.Report(cli.NewUsageError("cg-rainbow: unexpected argument %q", opt.Args[i]))
		}
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

	priority := defaultPriority
	if opt.HasPriority {
		priority = opt.Priority
	}

	filters := make([]*coopgamma.Filter, 0, len(sess.CRTCs))
	for _, info := range sess.CRTCs {
		filters = append(filters, &coopgamma.Filter{
			CRTCName: info.Name,
			Class:    class,
			Priority: priority,
			Lifespan: coopgamma.UntilDeath,
			Rule:     opt.Rule,
			Ramps:    coopgamma.NewRamps(info.Depth, info.RedSize, info.GreenSize, info.BlueSize),
		})
	}

	waiter, err := filter.NewWaiter(sess.Client.Conn())
	if err != nil {
		return reporter.Report(err)
	}
	defer waiter.Close()
	orch := filter.New(sess.Client, waiter)

	slots := coalesce.Coalesce(filters)
	if err := orch.Install(slots, sess.Supported); err != nil {
		return reporter.Report(err)
	}
	masters := mastersOnly(slots, sess)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	stop := make(chan struct{})
	go func() {
		<-sig
		close(stop)
	}()

	if err := orch.RunRainbowMulti(masters, freqHz, lightness, time.Now(), stop); err != nil {
		return reporter.Report(err)
	}
	return 0
}

func mastersOnly(slots []*coalesce.Slot, sess *app.Session) []*coopgamma.Filter {
	var out []*coopgamma.Filter
	for _, s := range slots {
		if s.Role == coalesce.Master && sess.Supported(s.Filter.CRTCName) != coopgamma.No {
			out = append(out, s.Filter)
		}
	}
	return out
}
