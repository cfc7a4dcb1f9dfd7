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

// Command cg-sleepmode fades the selected CRTCs down to a dim,
// reddish luminosity, holds there until the process receives
// SIGINT, SIGTERM or SIGHUP, then fades back up to full brightness
// before exiting, so a screen locker or suspend hook can dim the
// display gradually instead of snapping it dark.
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
	class           = "cg-tools::cg-sleepmode::standard"
	defaultPriority = int64(3) << 59
)

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-sleepmode"}
	opt, err := cli.Parse("cg-sleepmode", os.Args[1:])
	if err != nil {
		return reporter.Report(err)
	}
	if opt.Remove {
		return reporter.Report(cli.NewUsageError("cg-sleepmode: -x is meaningless here"))
	}

	targets := [3]float64{0.5, 0, 0}
	durations := [3]time.Duration{3 * time.Second, 2 * time.Second, 1 * time.Second}

	var positional []string
	for i := 0; i < len(opt.Args); i++ {
		idx := -1
		switch opt.Args[i] {
		case "-r":
			idx = 0
		case "-g":
			idx = 1
		case "-b":
			idx = 2
		default:
			positional = append(positional, opt.Args[i])
			continue
		}
		i++
		if i >= len(opt.Args) {
			return reporter.Report(cli.NewUsageError("cg-sleepmode: %s requires a fade-out time", opt.Args[i-1]))
		}
		secs, perr := strconv.ParseFloat(opt.Args[i], 64)
		if perr != nil || secs < 0 {
			return reporter.Report(cli.NewUsageError("cg-sleepmode: invalid fade-out time %q", opt.Args[i]))
		}
		durations[idx] = time.Duration(secs * float64(time.Second))
	}
	if len(positional) > 3 {
		return reporter.Report(cli.NewUsageError("cg-sleepmode: expected at most 3 positional arguments"))
	}
	for i, a := range positional {
		v, perr := strconv.ParseFloat(a, 64)
		if perr != nil || v < 0 {
			return reporter.Report(cli.NewUsageError("cg-sleepmode: invalid luminosity %q", a))
		}
		targets[i] = v
	}
	// A target of 1 or more means that channel is already at its
	// resting brightness: there is nothing to fade.
	for i := range targets {
		if targets[i] >= 1 {
			durations[i] = 0
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

	rgb := [3]filter.ChannelFade{
		{Target: targets[0], Duration: durations[0]},
		{Target: targets[1], Duration: durations[1]},
		{Target: targets[2], Duration: durations[2]},
	}

	if err := orch.RunFadeMulti(masters, rgb, filter.FadeOut, time.Now()); err != nil {
		return reporter.Report(err)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)

	stop := make(chan struct{})
	go func() {
		<-sig
		close(stop)
	}()
	if err := orch.KeepAlive(stop); err != nil {
		return reporter.Report(err)
	}

	// Fade in symmetric to the fade out: each channel returns to full
	// brightness over its own fade-out duration.
	if err := orch.RunFadeMulti(masters, rgb, filter.FadeIn, time.Now()); err != nil {
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
