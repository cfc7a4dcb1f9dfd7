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

package app

import (
	"os"
	"strconv"

	"github.com/branen/cg-tools/internal/cli"
	"github.com/branen/cg-tools/internal/config"
)

// TripleArgs is the "all | r g b | -f file" positional grammar shared
// by gamma, brilliance and shallow: either one uniform triple applied
// to every CRTC, or a per-CRTC table read from a configuration file
// (the tool's own, or one named explicitly with -f).
type TripleArgs struct {
	Uniform    *[3]float64
	PerCRTC    []config.Triple
	PerCRTCSrc string
}

// ParseTripleArgs parses args against that grammar. confName is the
// configuration file basename ("gamma", "brilliance", "shallow") used
// when the positional argument is the literal "all".
func ParseTripleArgs(toolName, confName string, args []string) (*TripleArgs, []error, error) {
	if len(args) == 1 && args[0] == "all" {
		f, path, err := config.Open(confName)
		if err != nil {
			if os.IsNotExist(err) {
				return &TripleArgs{}, nil, nil
			}
			return nil, nil, err
		}
		defer f.Close()
		triples, warnings := config.ReadTriples(f, path)
		return &TripleArgs{PerCRTC: triples, PerCRTCSrc: path}, warningErrors(warnings), nil
	}
	if len(args) == 2 && args[0] == "-f" {
		f, err := os.Open(args[1])
		if err != nil {
			return nil, nil, err
		}
		defer f.Close()
		triples, warnings := config.ReadTriples(f, args[1])
		return &TripleArgs{PerCRTC: triples, PerCRTCSrc: args[1]}, warningErrors(warnings), nil
	}
	if len(args) == 3 {
		r, err1 := strconv.ParseFloat(args[0], 64)
		g, err2 := strconv.ParseFloat(args[1], 64)
		b, err3 := strconv.ParseFloat(args[2], 64)
		if err1 != nil || err2 != nil || err3 != nil {
			return nil, nil, cli.NewUsageError("%s: invalid gamma triple", toolName)
		}
		return &TripleArgs{Uniform: &[3]float64{r, g, b}}, nil, nil
	}
	if len(args) == 1 {
		v, err := strconv.ParseFloat(args[0], 64)
		if err != nil {
			return nil, nil, cli.NewUsageError("%s: invalid gamma triple", toolName)
		}
		return &TripleArgs{Uniform: &[3]float64{v, v, v}}, nil, nil
	}
	return nil, nil, cli.NewUsageError("%s: expected \"all\", \"-f file\", \"value\", or \"r g b\"", toolName)
}

// TripleFor resolves this argument set's triple for a given CRTC name.
func (a *TripleArgs) TripleFor(crtc string) (r, g, b float64, ok bool) {
	if a.Uniform != nil {
		return a.Uniform[0], a.Uniform[1], a.Uniform[2], true
	}
	t, found := config.Lookup(a.PerCRTC, crtc)
	if !found {
		return 0, 0, 0, false
	}
	return t.First, t.Second, t.Third, true
}

func warningErrors(warnings []config.Warning) []error {
	if len(warnings) == 0 {
		return nil
	}
	errs := make([]error, len(warnings))
	for i, w := range warnings {
		errs[i] = w
	}
	return errs
}
