// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registry implements the challenge registry: creating challenges,
// staking against them and claiming them.
//
// Every mutating operation runs as one transaction: it locks the records it
// writes, stages changes on a fresh state and commits them in one batch. A
// failed operation commits nothing.
package registry

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/vechain/challenge-registry/co"
	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/log"
	"github.com/vechain/challenge-registry/reward"
	"github.com/vechain/challenge-registry/state"
)

var logger = log.WithContext("pkg", "registry")

// Options configures a Registry.
type Options struct {
	ClaimPolicy ClaimPolicy
	// Treasury escrows stakes and pays the pool to the claimant. Optional.
	Treasury reward.Treasury
	// LockShards is the number of record lock shards, co.DefaultShards if zero.
	LockShards int
	// ExternalTimeout bounds the issuer and treasury calls of a claim,
	// DefaultExternalTimeout if zero.
	ExternalTimeout time.Duration
}

// DefaultExternalTimeout bounds the external calls of a claim.
const DefaultExternalTimeout = 2 * time.Minute

// Registry is the challenge registry.
type Registry struct {
	stater   *state.Stater
	issuer   reward.Issuer
	treasury reward.Treasury
	policy   ClaimPolicy
	locks    *co.KeyedLocks

	externalTimeout time.Duration
}

// New creates a registry over stater. The issuer issues claim rewards.
func New(stater *state.Stater, issuer reward.Issuer, opts Options) *Registry {
	externalTimeout := opts.ExternalTimeout
	if externalTimeout <= 0 {
		externalTimeout = DefaultExternalTimeout
	}
	return &Registry{
		stater:   stater,
		issuer:   issuer,
		treasury: opts.Treasury,
		policy:   opts.ClaimPolicy,
		locks:    co.NewKeyedLocks(opts.LockShards),

		externalTimeout: externalTimeout,
	}
}

type opMarker struct{}

// enter marks ctx as running a registry operation.
// A marked ctx reaching the registry again is a reentrant call from a collaborator.
func enter(ctx context.Context) (context.Context, error) {
	if ctx.Value(opMarker{}) != nil {
		return nil, ErrReentrantCall
	}
	return context.WithValue(ctx, opMarker{}, struct{}{}), nil
}

// ClaimPolicy returns the configured claim policy.
func (r *Registry) ClaimPolicy() ClaimPolicy {
	return r.policy
}

// ChallengeAddress derives the record address of challenge name.
func (r *Registry) ChallengeAddress(name string) (ledger.Address, error) {
	if err := ledger.ValidateName(name); err != nil {
		return ledger.Address{}, ErrInvalidName.wrap(err)
	}
	return ledger.ChallengeAddress(r.stater.ProgramID(), name)
}

// PlayerAddress derives the stake record address of player in challenge name.
func (r *Registry) PlayerAddress(player solana.PublicKey, name string) (ledger.Address, error) {
	if err := ledger.ValidateName(name); err != nil {
		return ledger.Address{}, ErrInvalidName.wrap(err)
	}
	return ledger.PlayerAddress(r.stater.ProgramID(), player, name)
}

//
// Getters - read committed records without locking
//

// Challenge returns the committed record of challenge name.
func (r *Registry) Challenge(name string) (*ledger.Challenge, error) {
	addr, err := r.ChallengeAddress(name)
	if err != nil {
		return nil, err
	}
	return loadChallenge(r.stater.NewView(), addr.Key)
}

// Player returns the committed stake record of player in challenge name.
func (r *Registry) Player(player solana.PublicKey, name string) (*ledger.Player, error) {
	addr, err := r.PlayerAddress(player, name)
	if err != nil {
		return nil, err
	}
	p, err := r.stater.NewView().LoadPlayer(addr.Key)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil, ErrPlayerNotFound
		}
		return nil, err
	}
	return p, nil
}

// Challenges returns all committed challenges in address order.
func (r *Registry) Challenges() ([]*ledger.Challenge, error) {
	var list []*ledger.Challenge
	if err := r.stater.Challenges(func(_ solana.PublicKey, c *ledger.Challenge) bool {
		list = append(list, c)
		return true
	}); err != nil {
		return nil, err
	}
	return list, nil
}

// Stakers returns the stake records of challenge name in address order.
func (r *Registry) Stakers(name string) ([]*ledger.Player, error) {
	addr, err := r.ChallengeAddress(name)
	if err != nil {
		return nil, err
	}
	view := r.stater.NewView()
	if _, err := loadChallenge(view, addr.Key); err != nil {
		return nil, err
	}
	return view.Stakers(addr.Key)
}

func loadChallenge(st *state.State, addr solana.PublicKey) (*ledger.Challenge, error) {
	c, err := st.LoadChallenge(addr)
	if err != nil {
		if errors.Is(err, state.ErrNotFound) {
			return nil, ErrChallengeNotFound
		}
		return nil, err
	}
	return c, nil
}
