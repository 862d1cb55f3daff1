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
	"github.com/vechain/challenge-registry/reward"
)

// ClaimChallenge finalizes challenge name: one unit of its reward token is issued
// to destination, the pool is paid to claimant when a treasury is configured,
// and the challenge is deactivated with an empty pool.
//
// The issuer and treasury run before the record is committed, detached from the
// cancellation of ctx and bounded by Options.ExternalTimeout, so a caller giving up
// does not abandon a transfer half way. Their effects are never undone:
//   - an issuer error matching reward.ErrOutcomeUnknown means the reward may have
//     been issued while the challenge stays active. It is logged at error level with
//     the challenge address and left to the operator, as a retry could issue twice.
//   - if the commit fails after both succeeded, the challenge stays active. This is
//     logged the same way.
func (r *Registry) ClaimChallenge(
	ctx context.Context,
	claimant solana.PublicKey,
	name string,
	destination solana.PublicKey,
) (c *ledger.Challenge, err error) {
	defer func(start time.Time) { observeOp("claim", start, err) }(time.Now())

	ctx, err = enter(ctx)
	if err != nil {
		return nil, err
	}
	addr, err := r.ChallengeAddress(name)
	if err != nil {
		return nil, err
	}

	unlock := r.locks.Lock(addr.Key)
	defer unlock()

	st := r.stater.NewState()
	c, err = loadChallenge(st, addr.Key)
	if err != nil {
		return nil, err
	}
	if !c.IsActive {
		return nil, ErrChallengeInactive
	}
	if !c.Funded() {
		if r.policy == ThresholdEnforced {
			return nil, ErrInsufficientStake
		}
		logger.Warn("claiming unfunded challenge", "name", name, "total", c.TotalStaked, "required", c.RequiredStake)
	}

	// values of ctx, including the operation marker, are kept
	extCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), r.externalTimeout)
	defer cancel()

	if err := r.issuer.Issue(extCtx, c.RewardToken, destination); err != nil {
		if errors.Is(err, reward.ErrOutcomeUnknown) {
			logger.Error("reward issuance outcome unknown",
				"challenge", addr, "name", name, "token", c.RewardToken, "destination", destination, "err", err)
		} else {
			logger.Debug("reward issuance failed", "name", name, "token", c.RewardToken, "err", err)
		}
		return nil, ErrRewardIssuanceFailed.wrap(err)
	}

	pool := c.TotalStaked
	cp := st.NewCheckpoint()
	c.IsActive = false
	c.TotalStaked = 0
	if err := st.SetChallenge(addr.Key, c); err != nil {
		return nil, err
	}

	if r.treasury != nil && pool > 0 {
		if err := r.treasury.Release(extCtx, addr.Key, claimant, pool); err != nil {
			st.RevertTo(cp)
			logger.Error("reward issued but pool not released", "challenge", addr, "destination", destination, "err", err)
			return nil, ErrTransferFailed.wrap(err)
		}
	}

	if err := st.Commit(); err != nil {
		logger.Error("claim effects applied but challenge not deactivated",
			"challenge", addr, "name", name, "destination", destination, "pool", pool, "err", err)
		return nil, errors.WithMessage(err, "commit claim")
	}

	logger.Info("challenge claimed", "name", name, "claimant", claimant, "destination", destination, "pool", pool)
	return c, nil
}
