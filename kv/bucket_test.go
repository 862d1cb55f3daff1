// Copyright (c) 2021 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package kv_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/challenge-registry/kv"
	"github.com/vechain/challenge-registry/lvldb"
)

func newStore(t *testing.T) kv.Store {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func TestBucketGetPut(t *testing.T) {
	src := newStore(t)
	c := kv.Bucket("c").NewStore(src)
	p := kv.Bucket("p").NewStore(src)

	require.NoError(t, c.Put([]byte("k"), []byte("challenge")))
	require.NoError(t, p.Put([]byte("k"), []byte("player")))

	v, err := c.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, []byte("challenge"), v)

	v, err = src.Get([]byte("pk"))
	require.NoError(t, err)
	assert.Equal(t, []byte("player"), v)

	_, err = c.Get([]byte("missing"))
	assert.True(t, c.IsNotFound(err))

	has, err := p.Has([]byte("k"))
	require.NoError(t, err)
	assert.True(t, has)

	require.NoError(t, p.Delete([]byte("k")))
	has, err = p.Has([]byte("k"))
	require.NoError(t, err)
	assert.False(t, has)
}

func TestBucketIterateStripsPrefix(t *testing.T) {
	src := newStore(t)
	for _, k := range []string{"a1", "a2", "b1", "b2", "c1"} {
		require.NoError(t, src.Put([]byte(k), []byte(k)))
	}

	var keys, vals []string
	err := kv.Bucket("b").NewStore(src).Iterate(kv.Range{}, func(p kv.Pair) bool {
		keys = append(keys, string(p.Key()))
		vals = append(vals, string(p.Value()))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2"}, keys)
	assert.Equal(t, []string{"b1", "b2"}, vals)

	keys = nil
	err = kv.Bucket("a").NewStore(src).Iterate(kv.Range{Start: []byte("2")}, func(p kv.Pair) bool {
		keys = append(keys, string(p.Key()))
		return true
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"2"}, keys)
}

func TestBucketBatch(t *testing.T) {
	src := newStore(t)
	b := kv.Bucket("x").NewStore(src)

	err := b.Batch(func(p kv.Putter) error {
		p.Put([]byte("1"), []byte("one"))
		return errors.New("abort")
	})
	assert.Error(t, err)
	has, err := src.Has([]byte("x1"))
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, b.Batch(func(p kv.Putter) error {
		return p.Put([]byte("1"), []byte("one"))
	}))
	require.NoError(t, b.Snapshot(func(g kv.Getter) error {
		v, err := g.Get([]byte("1"))
		require.NoError(t, err)
		assert.Equal(t, []byte("one"), v)
		return nil
	}))
}
