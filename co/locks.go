// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"encoding/binary"
	"slices"
	"sync"
)

// DefaultShards is the number of mutex shards of KeyedLocks.
const DefaultShards = 256

// KeyedLocks serializes work per 32-byte key using a fixed set of mutex shards.
// Keys mapped to different shards never block each other.
type KeyedLocks struct {
	shards []sync.Mutex
}

// NewKeyedLocks creates keyed locks with n shards. n <= 0 selects DefaultShards.
func NewKeyedLocks(n int) *KeyedLocks {
	if n <= 0 {
		n = DefaultShards
	}
	return &KeyedLocks{shards: make([]sync.Mutex, n)}
}

func (l *KeyedLocks) shard(key [32]byte) int {
	// keys are hash outputs, so the leading bytes are uniform
	return int(binary.BigEndian.Uint64(key[:8]) % uint64(len(l.shards)))
}

// Lock acquires the shards of all keys and returns the function releasing them.
// Shards are taken in ascending order so concurrent callers cannot deadlock.
func (l *KeyedLocks) Lock(keys ...[32]byte) (unlock func()) {
	idx := make([]int, 0, len(keys))
	for _, k := range keys {
		idx = append(idx, l.shard(k))
	}
	slices.Sort(idx)
	idx = slices.Compact(idx)

	for _, i := range idx {
		l.shards[i].Lock()
	}
	var once sync.Once
	return func() {
		once.Do(func() {
			for j := len(idx) - 1; j >= 0; j-- {
				l.shards[idx[j]].Unlock()
			}
		})
	}
}
