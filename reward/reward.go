// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package reward moves value outside the registry's records: it issues one
// unit of a reward token to a claim destination, and optionally escrows the
// staked value of challenges.
package reward

//go:generate mockgen -destination=mocks/mocks.go -package=mocks github.com/vechain/challenge-registry/reward Issuer,Treasury

import (
	"context"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// ErrOutcomeUnknown is matched by issuer errors raised after a transfer was
// submitted but before it was confirmed. The transfer may still land.
var ErrOutcomeUnknown = errors.New("transfer submitted but not confirmed")

// Issuer issues exactly one unit of token to destination.
// Implementations are not assumed idempotent, and callers never retry.
type Issuer interface {
	Issue(ctx context.Context, token, destination solana.PublicKey) error
}

// IssuerFunc adapts a function to Issuer.
type IssuerFunc func(ctx context.Context, token, destination solana.PublicKey) error

// Issue implements Issuer.
func (f IssuerFunc) Issue(ctx context.Context, token, destination solana.PublicKey) error {
	return f(ctx, token, destination)
}

// Minter is the token primitive an Issuer is built on.
type Minter interface {
	// CreateHolding returns the holding account of owner for mint, creating it when absent.
	CreateHolding(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error)
	// IssueOne mints one unit of mint into holding.
	IssueOne(ctx context.Context, mint, holding solana.PublicKey) error
}

// Treasury escrows staked value.
// Deposit moves amount from a player into the vault of a challenge; Release
// pays amount out of a vault.
type Treasury interface {
	Deposit(ctx context.Context, from, vault solana.PublicKey, amount uint64) error
	Release(ctx context.Context, vault, to solana.PublicKey, amount uint64) error
}

type mintIssuer struct {
	minter Minter
}

// NewMintIssuer creates an Issuer which ensures a holding for the destination
// and mints one unit into it.
func NewMintIssuer(minter Minter) Issuer {
	return &mintIssuer{minter}
}

func (m *mintIssuer) Issue(ctx context.Context, token, destination solana.PublicKey) error {
	holding, err := m.minter.CreateHolding(ctx, destination, token)
	if err != nil {
		return errors.WithMessage(err, "create holding")
	}
	if err := m.minter.IssueOne(ctx, token, holding); err != nil {
		return errors.WithMessage(err, "issue")
	}
	return nil
}
