// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"
)

// Seed tags of the two record kinds.
const (
	TagChallenge = "challenge"
	TagPlayer    = "player"
)

// DefaultProgramID is the id of the deployed challenge registry program.
// Derived addresses are only meaningful relative to a program id.
var DefaultProgramID = solana.MustPublicKeyFromBase58("419iiBDHAiLmbqJFk9H3iaEBk6E3hoHGyamX8k9G2aFd")

// Address is a derived record address together with its bump seed.
type Address struct {
	Key  solana.PublicKey
	Bump uint8
}

// String implements the stringer interface.
func (a Address) String() string {
	return a.Key.String()
}

// Bytes returns byte slice form of the address key.
func (a Address) Bytes() []byte {
	return a.Key.Bytes()
}

// Derive computes the program derived address for a tag and its key parts.
// It is pure: the same inputs always produce the same address.
func Derive(programID solana.PublicKey, tag string, parts ...[]byte) (Address, error) {
	seeds := make([][]byte, 0, len(parts)+1)
	seeds = append(seeds, []byte(tag))
	for _, p := range parts {
		if len(p) > MaxSeedLength {
			return Address{}, errors.Errorf("seed too long: %d > %d", len(p), MaxSeedLength)
		}
		seeds = append(seeds, p)
	}
	key, bump, err := solana.FindProgramAddress(seeds, programID)
	if err != nil {
		return Address{}, errors.Wrapf(err, "derive %s address", tag)
	}
	return Address{Key: key, Bump: bump}, nil
}

// ChallengeAddress derives the address of the challenge record for name.
func ChallengeAddress(programID solana.PublicKey, name string) (Address, error) {
	if err := ValidateName(name); err != nil {
		return Address{}, err
	}
	return Derive(programID, TagChallenge, []byte(name))
}

// PlayerAddress derives the address of the stake record of player in challenge name.
func PlayerAddress(programID solana.PublicKey, player solana.PublicKey, name string) (Address, error) {
	if err := ValidateName(name); err != nil {
		return Address{}, err
	}
	return Derive(programID, TagPlayer, player.Bytes(), []byte(name))
}
