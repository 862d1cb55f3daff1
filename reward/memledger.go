// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"context"
	"sync"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

var (
	ErrUnknownMint       = errors.New("unknown mint")
	ErrUnknownHolding    = errors.New("unknown holding")
	ErrHoldingMismatch   = errors.New("holding belongs to another mint")
	ErrSupplyExhausted   = errors.New("mint supply exhausted")
	ErrInsufficientFunds = errors.New("insufficient funds")
)

type mintInfo struct {
	maxSupply uint64 // 0 means unlimited
	supply    uint64
}

type holding struct {
	owner   solana.PublicKey
	mint    solana.PublicKey
	balance uint64
}

// MemLedger is an in-process token ledger. It implements Minter.
// Holdings are addressed like associated token accounts.
type MemLedger struct {
	mu       sync.Mutex
	mints    map[solana.PublicKey]*mintInfo
	holdings map[solana.PublicKey]*holding

	autoMint   bool
	autoSupply uint64
}

// NewMemLedger creates an empty ledger.
func NewMemLedger() *MemLedger {
	return &MemLedger{
		mints:    make(map[solana.PublicKey]*mintInfo),
		holdings: make(map[solana.PublicKey]*holding),
	}
}

// CreateMint registers a new mint capped at maxSupply units. Zero is unlimited.
func (l *MemLedger) CreateMint(maxSupply uint64) solana.PublicKey {
	mint := solana.NewWallet().PublicKey()
	l.AddMint(mint, maxSupply)
	return mint
}

// AddMint registers mint under a caller chosen address.
func (l *MemLedger) AddMint(mint solana.PublicKey, maxSupply uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.mints[mint]; !ok {
		l.mints[mint] = &mintInfo{maxSupply: maxSupply}
	}
}

// EnableAutoMint makes unknown mints register on first use, capped at maxSupply.
// Used by nodes running without a real token ledger.
func (l *MemLedger) EnableAutoMint(maxSupply uint64) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.autoMint = true
	l.autoSupply = maxSupply
}

// CreateHolding implements Minter.
func (l *MemLedger) CreateHolding(_ context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "derive holding")
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if _, ok := l.mints[mint]; !ok {
		if !l.autoMint {
			return solana.PublicKey{}, errors.WithMessagef(ErrUnknownMint, "mint %v", mint)
		}
		l.mints[mint] = &mintInfo{maxSupply: l.autoSupply}
	}
	if _, ok := l.holdings[addr]; !ok {
		l.holdings[addr] = &holding{owner: owner, mint: mint}
	}
	return addr, nil
}

// IssueOne implements Minter.
func (l *MemLedger) IssueOne(_ context.Context, mint, holdingAddr solana.PublicKey) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	info, ok := l.mints[mint]
	if !ok {
		return errors.WithMessagef(ErrUnknownMint, "mint %v", mint)
	}
	h, ok := l.holdings[holdingAddr]
	if !ok {
		return errors.WithMessagef(ErrUnknownHolding, "holding %v", holdingAddr)
	}
	if h.mint != mint {
		return ErrHoldingMismatch
	}
	if info.maxSupply > 0 && info.supply >= info.maxSupply {
		return ErrSupplyExhausted
	}
	info.supply++
	h.balance++
	return nil
}

// Supply returns the issued units of mint.
func (l *MemLedger) Supply(mint solana.PublicKey) uint64 {
	l.mu.Lock()
	defer l.mu.Unlock()

	if info, ok := l.mints[mint]; ok {
		return info.supply
	}
	return 0
}

// Balance returns the units of mint held by owner.
func (l *MemLedger) Balance(owner, mint solana.PublicKey) uint64 {
	addr, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return 0
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if h, ok := l.holdings[addr]; ok {
		return h.balance
	}
	return 0
}
