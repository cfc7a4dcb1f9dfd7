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
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTripleArgsUniformTriple(t *testing.T) {
	args, warnings, err := ParseTripleArgs("cg-gamma", "gamma", []string{"1", "0.8", "1.2"})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.NotNil(t, args.Uniform)
	r, g, b, ok := args.TripleFor("anything")
	require.True(t, ok)
	require.Equal(t, [3]float64{1, 0.8, 1.2}, [3]float64{r, g, b})
}

func TestParseTripleArgsSingleValueBroadcastsToAllChannels(t *testing.T) {
	args, warnings, err := ParseTripleArgs("cg-gamma", "gamma", []string{"1.0"})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.NotNil(t, args.Uniform)
	r, g, b, ok := args.TripleFor("anything")
	require.True(t, ok)
	require.Equal(t, [3]float64{1.0, 1.0, 1.0}, [3]float64{r, g, b})
}

func TestParseTripleArgsRejectsNonNumericTriple(t *testing.T) {
	_, _, err := ParseTripleArgs("cg-gamma", "gamma", []string{"1", "x", "1"})
	require.Error(t, err)
}

func TestParseTripleArgsRejectsWrongArity(t *testing.T) {
	_, _, err := ParseTripleArgs("cg-gamma", "gamma", []string{"1", "2"})
	require.Error(t, err)
}

func TestParseTripleArgsDashFFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "table")
	require.NoError(t, os.WriteFile(path, []byte("eDP-1 1 1 1\nHDMI-1 0.9 0.9 0.9\n"), 0o644))

	args, warnings, err := ParseTripleArgs("cg-gamma", "gamma", []string{"-f", path})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Nil(t, args.Uniform)
	r, g, b, ok := args.TripleFor("HDMI-1")
	require.True(t, ok)
	require.Equal(t, [3]float64{0.9, 0.9, 0.9}, [3]float64{r, g, b})
	_, _, _, ok = args.TripleFor("nonexistent")
	require.False(t, ok)
}

func TestParseTripleArgsAllWithoutConfigFileIsEmptyNotError(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	args, warnings, err := ParseTripleArgs("cg-gamma", "gamma-does-not-exist", []string{"all"})
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Nil(t, args.Uniform)
	require.Empty(t, args.PerCRTC)
}
