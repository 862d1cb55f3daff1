// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package ledger

import (
	"github.com/ethereum/go-ethereum/rlp"
	"github.com/gagliardetto/solana-go"
)

// Challenge is the record of a registered challenge.
type Challenge struct {
	Name          string
	URI           string
	RewardToken   solana.PublicKey
	Authority     solana.PublicKey
	RequiredStake uint64
	TotalStaked   uint64
	IsActive      bool
	Bump          uint8
}

// Copy returns a deep copy. Records are copied before mutation so cached
// values are never changed in place.
func (c *Challenge) Copy() *Challenge {
	cpy := *c
	return &cpy
}

// Funded returns whether the pool reached the required stake.
func (c *Challenge) Funded() bool {
	return c.TotalStaked >= c.RequiredStake
}

// Player is the stake record of one player in one challenge.
type Player struct {
	Player      solana.PublicKey
	Challenge   string
	StakeAmount uint64
	Bump        uint8
}

// Copy returns a deep copy.
func (p *Player) Copy() *Player {
	cpy := *p
	return &cpy
}

// EncodeChallenge encodes the record into its stored form.
func EncodeChallenge(c *Challenge) ([]byte, error) {
	return rlp.EncodeToBytes(c)
}

// DecodeChallenge decodes a stored challenge record.
func DecodeChallenge(data []byte) (*Challenge, error) {
	var c Challenge
	if err := rlp.DecodeBytes(data, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// EncodePlayer encodes the record into its stored form.
func EncodePlayer(p *Player) ([]byte, error) {
	return rlp.EncodeToBytes(p)
}

// DecodePlayer decodes a stored player record.
func DecodePlayer(data []byte) (*Player, error) {
	var p Player
	if err := rlp.DecodeBytes(data, &p); err != nil {
		return nil, err
	}
	return &p, nil
}
