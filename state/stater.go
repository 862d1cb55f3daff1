// Copyright (c) 2019 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"sync/atomic"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
	"github.com/syndtr/goleveldb/leveldb/util"

	"github.com/vechain/challenge-registry/cache"
	"github.com/vechain/challenge-registry/kv"
	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/log"
	"github.com/vechain/challenge-registry/metrics"
)

var (
	logger = log.WithContext("pkg", "state")

	metricCacheHitMiss = metrics.LazyLoadGaugeVec("record_cache_hit_miss_count", []string{"type", "event"})
)

const cacheStatsInterval = 20 * time.Second

const (
	challengeBucket = kv.Bucket("c")
	playerBucket    = kv.Bucket("p")
	stakerBucket    = kv.Bucket("s") // challenge address || player record address
)

// DefaultCacheSize is the number of decoded records kept in memory.
const DefaultCacheSize = 4096

// Stater is the record store. It creates State instances for operations.
type Stater struct {
	store      kv.Store
	programID  solana.PublicKey
	challenges kv.Store
	players    kv.Store
	stakers    kv.Store

	challengeCache *cache.LRU[solana.PublicKey, *ledger.Challenge]
	playerCache    *cache.LRU[solana.PublicKey, *ledger.Player]
	lastLogTime    atomic.Int64
}

// NewStater create a new stater.
func NewStater(store kv.Store, programID solana.PublicKey, cacheSize int) (*Stater, error) {
	if cacheSize <= 0 {
		cacheSize = DefaultCacheSize
	}
	challengeCache, err := cache.NewLRU[solana.PublicKey, *ledger.Challenge](cacheSize)
	if err != nil {
		return nil, err
	}
	playerCache, err := cache.NewLRU[solana.PublicKey, *ledger.Player](cacheSize)
	if err != nil {
		return nil, err
	}
	s := &Stater{
		store:          store,
		programID:      programID,
		challenges:     challengeBucket.NewStore(store),
		players:        playerBucket.NewStore(store),
		stakers:        stakerBucket.NewStore(store),
		challengeCache: challengeCache,
		playerCache:    playerCache,
	}
	s.lastLogTime.Store(time.Now().UnixNano())
	return s, nil
}

// ProgramID returns the program id addresses are derived under.
func (s *Stater) ProgramID() solana.PublicKey {
	return s.programID
}

// NewState create a writable state.
// Records it loads are cached, so the caller must hold the locks of every record it loads.
func (s *Stater) NewState() *State {
	return newState(s, false)
}

// NewView create a read-only state. Views never populate the cache and need no locks.
func (s *Stater) NewView() *State {
	return newState(s, true)
}

// Challenges iterates committed challenge records in address order until fn returns false.
func (s *Stater) Challenges(fn func(addr solana.PublicKey, c *ledger.Challenge) bool) error {
	var decodeErr error
	err := s.challenges.Iterate(kv.Range{}, func(pair kv.Pair) bool {
		c, err := ledger.DecodeChallenge(pair.Value())
		if err != nil {
			decodeErr = errors.Wrap(err, "decode challenge")
			return false
		}
		return fn(solana.PublicKeyFromBytes(pair.Key()), c)
	})
	if err != nil {
		return err
	}
	return decodeErr
}

func (s *Stater) loadChallenge(addr solana.PublicKey, fill bool) (*ledger.Challenge, error) {
	defer s.logCacheStats()
	return s.challengeCache.GetOrLoad(addr, func(addr solana.PublicKey) (*ledger.Challenge, error) {
		data, err := s.challenges.Get(addr.Bytes())
		if err != nil {
			if s.challenges.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "get challenge")
		}
		c, err := ledger.DecodeChallenge(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode challenge")
		}
		return c, nil
	}, fill)
}

func (s *Stater) loadPlayer(addr solana.PublicKey, fill bool) (*ledger.Player, error) {
	defer s.logCacheStats()
	return s.playerCache.GetOrLoad(addr, func(addr solana.PublicKey) (*ledger.Player, error) {
		data, err := s.players.Get(addr.Bytes())
		if err != nil {
			if s.players.IsNotFound(err) {
				return nil, nil
			}
			return nil, errors.Wrap(err, "get player")
		}
		p, err := ledger.DecodePlayer(data)
		if err != nil {
			return nil, errors.Wrap(err, "decode player")
		}
		return p, nil
	}, fill)
}

// logCacheStats reports the record cache hit rates at most once per cacheStatsInterval.
func (s *Stater) logCacheStats() {
	now := time.Now().UnixNano()
	last := s.lastLogTime.Swap(now)
	if now-last <= int64(cacheStatsInterval) {
		s.lastLogTime.CompareAndSwap(now, last)
		return
	}

	changedChallenge, hitChallenge, missChallenge := s.challengeCache.Stats().Stats()
	changedPlayer, hitPlayer, missPlayer := s.playerCache.Stats().Stats()

	// log both only when one of the hit rates moved since the last report
	if changedChallenge || changedPlayer {
		logStats("challenge cache stats", hitChallenge, missChallenge)
		logStats("player cache stats", hitPlayer, missPlayer)
	}

	metricCacheHitMiss().SetWithLabel(hitChallenge, map[string]string{"type": "challenge", "event": "hit"})
	metricCacheHitMiss().SetWithLabel(missChallenge, map[string]string{"type": "challenge", "event": "miss"})
	metricCacheHitMiss().SetWithLabel(hitPlayer, map[string]string{"type": "player", "event": "hit"})
	metricCacheHitMiss().SetWithLabel(missPlayer, map[string]string{"type": "player", "event": "miss"})
}

func logStats(msg string, hit, miss int64) {
	logger.Info(msg, "lookups", hit+miss, "hitrate", cache.HitRate(hit, miss))
}

func stakerIndexKey(challenge, player solana.PublicKey) []byte {
	return append(challenge.Bytes(), player.Bytes()...)
}

func (s *Stater) hasStaker(challenge, player solana.PublicKey) (bool, error) {
	return s.stakers.Has(stakerIndexKey(challenge, player))
}

func (s *Stater) iterateStakers(challenge solana.PublicKey, fn func(player solana.PublicKey) bool) error {
	rng := kv.Range(*util.BytesPrefix(challenge.Bytes()))
	return s.stakers.Iterate(rng, func(pair kv.Pair) bool {
		key := pair.Key()
		if len(key) != 2*solana.PublicKeyLength {
			return true
		}
		return fn(solana.PublicKeyFromBytes(key[solana.PublicKeyLength:]))
	})
}

// write persists the final values of changed keys in one batch, then refreshes the cache.
func (s *Stater) write(order []any, changes map[any]any) error {
	err := s.store.Batch(func(putter kv.Putter) error {
		challenges := challengeBucket.NewPutter(putter)
		players := playerBucket.NewPutter(putter)
		stakers := stakerBucket.NewPutter(putter)

		for _, key := range order {
			switch k := key.(type) {
			case challengeKey:
				data, err := ledger.EncodeChallenge(changes[key].(*ledger.Challenge))
				if err != nil {
					return errors.Wrap(err, "encode challenge")
				}
				if err := challenges.Put(k[:], data); err != nil {
					return err
				}
			case playerKey:
				data, err := ledger.EncodePlayer(changes[key].(*ledger.Player))
				if err != nil {
					return errors.Wrap(err, "encode player")
				}
				if err := players.Put(k[:], data); err != nil {
					return err
				}
			case stakerKey:
				if err := stakers.Put(stakerIndexKey(k.challenge, k.player), nil); err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		return errors.Wrap(err, "write batch")
	}

	for _, key := range order {
		switch k := key.(type) {
		case challengeKey:
			s.challengeCache.Add(solana.PublicKey(k), changes[key].(*ledger.Challenge))
		case playerKey:
			s.playerCache.Add(solana.PublicKey(k), changes[key].(*ledger.Player))
		}
	}
	return nil
}
