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

package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReadTriplesSkipsCommentsAndBlankLines(t *testing.T) {
	src := "# comment\n\neDP-1 1.0 1.0 1.0\nHDMI-1 0.9 1.0 1.1  # trailing\n"
	triples, warnings := ReadTriples(strings.NewReader(src), "gamma")
	require.Empty(t, warnings)
	require.Len(t, triples, 2)
	require.Equal(t, "eDP-1", triples[0].Name)
	require.Equal(t, 0.9, triples[1].First)
}

func TestReadTriplesReportsMalformedLineAsWarningNotFatal(t *testing.T) {
	src := "eDP-1 1.0 1.0\nHDMI-1 0.9 1.0 1.1\n"
	triples, warnings := ReadTriples(strings.NewReader(src), "gamma")
	require.Len(t, triples, 1)
	require.Len(t, warnings, 1)
	require.Equal(t, 2, warnings[0].Line)
	require.Contains(t, warnings[0].Error(), "ignoring malformatted line in gamma: 2")
}

func TestReadEDIDTableParsesHexKey(t *testing.T) {
	src := "00ffffffffffff00 /usr/share/cg-tools/icc/panel.icc\n"
	entries, warnings := ReadEDIDTable(strings.NewReader(src), "icctab")
	require.Empty(t, warnings)
	require.Len(t, entries, 1)
	require.Equal(t, "/usr/share/cg-tools/icc/panel.icc", entries[0].Path)
}

func TestReadEDIDTableRejectsNonHexKey(t *testing.T) {
	src := "not-hex /usr/share/cg-tools/icc/panel.icc\n"
	_, warnings := ReadEDIDTable(strings.NewReader(src), "icctab")
	require.Len(t, warnings, 1)
}

func TestLookupIsCaseInsensitiveForEDID(t *testing.T) {
	entries := []EDIDEntry{{EDID: "00ff", Path: "a.icc"}}
	path, ok := LookupEDID(entries, "00FF")
	require.True(t, ok)
	require.Equal(t, "a.icc", path)
}
