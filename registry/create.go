// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"context"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/state"
)

// CreateChallenge registers an active challenge with an empty pool.
// ErrAlreadyExists is returned if name is taken, whatever its state.
func (r *Registry) CreateChallenge(
	ctx context.Context,
	authority solana.PublicKey,
	name string,
	uri string,
	rewardToken solana.PublicKey,
	requiredStake uint64,
) (c *ledger.Challenge, err error) {
	defer func(start time.Time) { observeOp("create", start, err) }(time.Now())

	ctx, err = enter(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := r.ChallengeAddress(name)
	if err != nil {
		return nil, err
	}
	if err := ledger.ValidateURI(uri); err != nil {
		return nil, ErrInvalidURI.wrap(err)
	}
	logger.Debug("creating challenge", "name", name, "address", addr, "requiredStake", requiredStake)

	unlock := r.locks.Lock(addr.Key)
	defer unlock()

	st := r.stater.NewState()
	record := &ledger.Challenge{
		Name:          name,
		URI:           uri,
		RewardToken:   rewardToken,
		Authority:     authority,
		RequiredStake: requiredStake,
		IsActive:      true,
	}
	if err := st.AllocateChallenge(addr, record); err != nil {
		if errors.Is(err, state.ErrAlreadyExists) {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	if err := st.Commit(); err != nil {
		return nil, errors.WithMessage(err, "commit challenge")
	}

	logger.Info("challenge created", "name", name, "address", addr, "authority", authority)
	return st.LoadChallenge(addr.Key)
}
