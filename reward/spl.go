// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package reward

import (
	"context"
	"encoding/binary"
	"fmt"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/rpc"
	"github.com/pkg/errors"
	"github.com/vechain/challenge-registry/log"
)

var logger = log.WithContext("pkg", "reward")

const (
	// instruction index of MintTo in the SPL token program
	tokenInstructionMintTo = 7
	// instruction index of CreateIdempotent in the associated token account program
	ataInstructionCreateIdempotent = 1

	defaultConfirmPoll = 500 * time.Millisecond
)

// RPCClient is the subset of the Solana JSON-RPC client used by SPLMinter.
type RPCClient interface {
	GetLatestBlockhash(ctx context.Context, commitment rpc.CommitmentType) (*rpc.GetLatestBlockhashResult, error)
	SendTransactionWithOpts(ctx context.Context, tx *solana.Transaction, opts rpc.TransactionOpts) (solana.Signature, error)
	GetSignatureStatuses(ctx context.Context, searchTransactionHistory bool, sigs ...solana.Signature) (*rpc.GetSignatureStatusesResult, error)
}

// SPLMinter mints SPL tokens through a Solana RPC endpoint.
// The authority key pays the fees and must be the mint authority of every
// mint it issues.
type SPLMinter struct {
	client      RPCClient
	authority   solana.PrivateKey
	commitment  rpc.CommitmentType
	confirmPoll time.Duration
}

// NewSPLMinter creates a minter that signs with authority.
func NewSPLMinter(client RPCClient, authority solana.PrivateKey) *SPLMinter {
	return &SPLMinter{
		client:      client,
		authority:   authority,
		commitment:  rpc.CommitmentConfirmed,
		confirmPoll: defaultConfirmPoll,
	}
}

// CreateHolding implements Minter. It sends an idempotent associated token
// account creation, so an existing account is not an error.
func (m *SPLMinter) CreateHolding(ctx context.Context, owner, mint solana.PublicKey) (solana.PublicKey, error) {
	ata, _, err := solana.FindAssociatedTokenAddress(owner, mint)
	if err != nil {
		return solana.PublicKey{}, errors.Wrap(err, "derive associated token account")
	}

	payer := m.authority.PublicKey()
	inst := solana.NewInstruction(
		solana.SPLAssociatedTokenAccountProgramID,
		[]*solana.AccountMeta{
			{PublicKey: payer, IsWritable: true, IsSigner: true},
			{PublicKey: ata, IsWritable: true, IsSigner: false},
			{PublicKey: owner, IsWritable: false, IsSigner: false},
			{PublicKey: mint, IsWritable: false, IsSigner: false},
			{PublicKey: solana.SystemProgramID, IsWritable: false, IsSigner: false},
			{PublicKey: solana.TokenProgramID, IsWritable: false, IsSigner: false},
		},
		[]byte{ataInstructionCreateIdempotent},
	)
	if _, err := m.send(ctx, inst); err != nil {
		return solana.PublicKey{}, errors.WithMessage(err, "create associated token account")
	}
	return ata, nil
}

// IssueOne implements Minter.
func (m *SPLMinter) IssueOne(ctx context.Context, mint, holding solana.PublicKey) error {
	data := make([]byte, 9)
	data[0] = tokenInstructionMintTo
	binary.LittleEndian.PutUint64(data[1:], 1)

	inst := solana.NewInstruction(
		solana.TokenProgramID,
		[]*solana.AccountMeta{
			{PublicKey: mint, IsWritable: true, IsSigner: false},
			{PublicKey: holding, IsWritable: true, IsSigner: false},
			{PublicKey: m.authority.PublicKey(), IsWritable: false, IsSigner: true},
		},
		data,
	)
	sig, err := m.send(ctx, inst)
	if err != nil {
		return errors.WithMessage(err, "mint to")
	}
	logger.Debug("minted reward", "mint", mint, "holding", holding, "sig", sig)
	return nil
}

func (m *SPLMinter) send(ctx context.Context, inst solana.Instruction) (solana.Signature, error) {
	latest, err := m.client.GetLatestBlockhash(ctx, rpc.CommitmentFinalized)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "get latest blockhash")
	}
	if latest == nil || latest.Value == nil {
		return solana.Signature{}, errors.New("empty blockhash result")
	}

	payer := m.authority.PublicKey()
	tx, err := solana.NewTransaction(
		[]solana.Instruction{inst},
		latest.Value.Blockhash,
		solana.TransactionPayer(payer),
	)
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "build transaction")
	}
	if _, err := tx.Sign(func(key solana.PublicKey) *solana.PrivateKey {
		if key.Equals(payer) {
			return &m.authority
		}
		return nil
	}); err != nil {
		return solana.Signature{}, errors.Wrap(err, "sign transaction")
	}

	sig, err := m.client.SendTransactionWithOpts(ctx, tx, rpc.TransactionOpts{
		SkipPreflight:       false,
		PreflightCommitment: m.commitment,
	})
	if err != nil {
		return solana.Signature{}, errors.Wrap(err, "send transaction")
	}
	return sig, m.waitConfirmed(ctx, sig)
}

func (m *SPLMinter) waitConfirmed(ctx context.Context, sig solana.Signature) error {
	ticker := time.NewTicker(m.confirmPoll)
	defer ticker.Stop()

	for {
		statuses, err := m.client.GetSignatureStatuses(ctx, false, sig)
		if err != nil {
			logger.Debug("error checking transaction status", "sig", sig, "err", err)
		} else if statuses != nil && len(statuses.Value) > 0 && statuses.Value[0] != nil {
			status := statuses.Value[0]
			if status.Err != nil {
				return errors.Errorf("transaction %v failed: %v", sig, status.Err)
			}
			switch status.ConfirmationStatus {
			case rpc.ConfirmationStatusConfirmed, rpc.ConfirmationStatusFinalized:
				return nil
			}
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: transaction %v: %w", ErrOutcomeUnknown, sig, ctx.Err())
		case <-ticker.C:
		}
	}
}
