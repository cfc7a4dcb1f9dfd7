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
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/branen/cg-tools/coopgamma/proto"
	"github.com/branen/cg-tools/internal/cli"
)

func TestReportNilIsSuccess(t *testing.T) {
	require.Equal(t, 0, Reporter{Program: "cg-gamma"}.Report(nil))
}

func TestReportUsageErrorExitsOne(t *testing.T) {
	require.Equal(t, 1, Reporter{Program: "cg-gamma"}.Report(cli.NewUsageError("bad flag")))
}

func TestReportProtocolErrorExitsOne(t *testing.T) {
	err := &proto.ProtocolError{ServerSide: true, Number: 7, Description: "no such CRTC"}
	require.Equal(t, 1, Reporter{Program: "cg-gamma"}.Report(err))
}

func TestReportWrappedErrorStillRecognisesCategory(t *testing.T) {
	inner := &proto.ProtocolError{ServerSide: true, Number: 1}
	wrapped := fmt.Errorf("set_gamma: %w", inner)
	require.Equal(t, 1, Reporter{Program: "cg-gamma"}.Report(wrapped))
}
