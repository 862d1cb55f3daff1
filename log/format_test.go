// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package log

import (
	"bytes"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAppendAmounts(t *testing.T) {
	tests := []struct {
		n    int64
		want string
	}{
		{0, "0"},
		{99999, "99999"},
		{100000, "100,000"},
		{50000000, "50,000,000"},
		{-123456, "-123,456"},
		{math.MaxInt64, "9,223,372,036,854,775,807"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, string(appendInt64(nil, tt.n)))
	}
	assert.Equal(t, "18,446,744,073,709,551,615", string(appendUint64(nil, math.MaxUint64, false)))
}

func TestTerminalFormatsStake(t *testing.T) {
	var buf bytes.Buffer
	h := NewTerminalHandler(&buf, false)

	r := slog.NewRecord(time.Now(), slog.LevelInfo, "staked", 0)
	r.AddAttrs(slog.String("challenge", "alpha beta"), slog.Uint64("total", 50000000))
	assert.NoError(t, h.Handle(t.Context(), r))

	out := buf.String()
	assert.Contains(t, out, "staked")
	assert.Contains(t, out, `challenge="alpha beta"`)
	assert.Contains(t, out, "total=50,000,000")
}
