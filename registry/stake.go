// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry

import (
	"context"
	"time"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/vechain/challenge-registry/ledger"
)

// StakeChallenge adds amount to the stake of player and to the pool of challenge name.
// The stake record of player is created on first stake.
func (r *Registry) StakeChallenge(
	ctx context.Context,
	player solana.PublicKey,
	name string,
	amount uint64,
) (c *ledger.Challenge, p *ledger.Player, err error) {
	defer func(start time.Time) { observeOp("stake", start, err) }(time.Now())

	ctx, err = enter(ctx)
	if err != nil {
		return nil, nil, err
	}
	if amount == 0 {
		return nil, nil, ErrInvalidAmount
	}
	challengeAddr, err := r.ChallengeAddress(name)
	if err != nil {
		return nil, nil, err
	}
	playerAddr, err := r.PlayerAddress(player, name)
	if err != nil {
		return nil, nil, err
	}

	unlock := r.locks.Lock(challengeAddr.Key, playerAddr.Key)
	defer unlock()

	st := r.stater.NewState()
	c, err = loadChallenge(st, challengeAddr.Key)
	if err != nil {
		return nil, nil, err
	}
	if !c.IsActive {
		return nil, nil, ErrChallengeInactive
	}

	p, created, err := st.LoadOrCreatePlayer(playerAddr, player, name)
	if err != nil {
		return nil, nil, err
	}

	stake, overflow := math.SafeAdd(p.StakeAmount, amount)
	if overflow {
		return nil, nil, ErrArithmeticOverflow
	}
	total, overflow := math.SafeAdd(c.TotalStaked, amount)
	if overflow {
		return nil, nil, ErrArithmeticOverflow
	}
	p.StakeAmount = stake
	c.TotalStaked = total

	cp := st.NewCheckpoint()
	if err := st.SetChallenge(challengeAddr.Key, c); err != nil {
		return nil, nil, err
	}
	if err := st.SetPlayer(playerAddr.Key, p); err != nil {
		return nil, nil, err
	}

	if r.treasury != nil {
		if err := r.treasury.Deposit(ctx, player, challengeAddr.Key, amount); err != nil {
			st.RevertTo(cp)
			return nil, nil, ErrTransferFailed.wrap(err)
		}
	}

	if err := st.Commit(); err != nil {
		if r.treasury != nil {
			logger.Error("stake deposited but not recorded", "challenge", challengeAddr, "player", player, "amount", amount, "err", err)
		}
		return nil, nil, errors.WithMessage(err, "commit stake")
	}
	observeStaked(amount)

	logger.Debug("staked", "challenge", name, "player", player, "amount", amount, "new", created, "total", total)
	return c, p, nil
}
