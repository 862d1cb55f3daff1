// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"context"
	"sync"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// MemTreasury is an in-process escrow.
// Deposits are not debited from the depositor; only vault balances are checked.
type MemTreasury struct {
	mu       sync.Mutex
	balances map[solana.PublicKey]uint64
}

// NewMemTreasury creates an empty treasury.
func NewMemTreasury() *MemTreasury {
	return &MemTreasury{balances: make(map[solana.PublicKey]uint64)}
}

// Deposit implements Treasury.
func (t *MemTreasury) Deposit(_ context.Context, _, vault solana.PublicKey, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	sum, overflow := math.SafeAdd(t.balances[vault], amount)
	if overflow {
		return errors.New("vault balance overflow")
	}
	t.balances[vault] = sum
	return nil
}

// Release implements Treasury.
func (t *MemTreasury) Release(_ context.Context, vault, to solana.PublicKey, amount uint64) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.balances[vault] < amount {
		return errors.WithMessagef(ErrInsufficientFunds, "vault %v", vault)
	}
	sum, overflow := math.SafeAdd(t.balances[to], amount)
	if overflow {
		return errors.New("balance overflow")
	}
	t.balances[vault] -= amount
	t.balances[to] = sum
	return nil
}

// Balance returns the balance of account.
func (t *MemTreasury) Balance(account solana.PublicKey) uint64 {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.balances[account]
}
