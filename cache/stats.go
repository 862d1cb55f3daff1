// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package cache

import (
	"strconv"
	"sync/atomic"
)

// Stats counts lookups of a cache.
type Stats struct {
	hit, miss atomic.Int64
	permille  atomic.Int32
}

func (cs *Stats) Hit() int64  { return cs.hit.Add(1) }
func (cs *Stats) Miss() int64 { return cs.miss.Add(1) }

// Stats returns the number of hits and misses, and whether the hit rate moved
// by at least 0.1% since the previous call.
func (cs *Stats) Stats() (changed bool, hit, miss int64) {
	hit, miss = cs.hit.Load(), cs.miss.Load()
	permille := int32(hitRate(hit, miss) * 1000)
	return cs.permille.Swap(permille) != permille, hit, miss
}

// HitRate formats the hit rate of the given counts, "n/a" without lookups.
func HitRate(hit, miss int64) string {
	if hit+miss == 0 {
		return "n/a"
	}
	return strconv.FormatFloat(hitRate(hit, miss), 'f', 3, 64)
}

func hitRate(hit, miss int64) float64 {
	if lookups := hit + miss; lookups > 0 {
		return float64(hit) / float64(lookups)
	}
	return 0
}
