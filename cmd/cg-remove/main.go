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

// Command cg-remove deletes one or more filters, named by class, from
// every selected CRTC.
package main

import (
	"fmt"
	"os"

	"github.com/branen/cg-tools/coopgamma"
	"github.com/branen/cg-tools/internal/app"
	"github.com/branen/cg-tools/internal/cli"
)

func main() {
	os.Exit(run())
}

func run() int {
	reporter := app.Reporter{Program: "cg-remove"}
	opt, err := cli.Parse("cg-remove", os.Args[1:])
	if err != nil {
		return reporter.Report(err)
	}
	if opt.Remove || opt.KeepAlive {
		return reporter.Report(cli.NewUsageError("cg-remove: -x and -d are meaningless here; list classes instead"))
	}
	if len(opt.Args) == 0 {
		return reporter.Report(cli.NewUsageError("cg-remove: expected at least one class"))
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

	var filters []*coopgamma.Filter
	for _, info := range sess.CRTCs {
		for _, class := range opt.Args {
			filters = append(filters, &coopgamma.Filter{
				CRTCName: info.Name,
				Class:    class,
				Lifespan: coopgamma.Remove,
				Rule:     opt.Rule,
			})
		}
	}

	if err := app.Run(sess, filters, opt, nil); err != nil {
		return reporter.Report(err)
	}
	return 0
}
