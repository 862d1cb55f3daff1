// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"math"
	"time"

	"github.com/vechain/challenge-registry/metrics"
)

var (
	metricOpCount    = metrics.LazyLoadCounterVec("registry_op_count", []string{"op", "result"})
	metricOpDuration = metrics.LazyLoadHistogramVec("registry_op_duration_ms", []string{"op"}, metrics.BucketHTTPReqs)
	metricStaked     = metrics.LazyLoadCounter("registry_staked_amount")
)

func observeOp(op string, start time.Time, err error) {
	result := "ok"
	if err != nil {
		if result = CodeOf(err); result == "" {
			result = "error"
		}
	}
	metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
	metricOpDuration().ObserveWithLabels(time.Since(start).Milliseconds(), map[string]string{"op": op})
}

func observeStaked(amount uint64) {
	if amount <= math.MaxInt64 {
		metricStaked().Add(int64(amount))
	}
}
