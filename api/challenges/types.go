// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"

	"github.com/vechain/challenge-registry/ledger"
)

// Challenge for marshal challenge record
type Challenge struct {
	Address       solana.PublicKey    `json:"address"`
	Name          string              `json:"name"`
	URI           string              `json:"uri"`
	RewardToken   solana.PublicKey    `json:"rewardToken"`
	Authority     solana.PublicKey    `json:"authority"`
	RequiredStake math.HexOrDecimal64 `json:"requiredStake"`
	TotalStaked   math.HexOrDecimal64 `json:"totalStaked"`
	IsActive      bool                `json:"isActive"`
	Bump          uint8               `json:"bump"`
}

// Player for marshal stake record
type Player struct {
	Address     solana.PublicKey    `json:"address"`
	Player      solana.PublicKey    `json:"player"`
	Challenge   string              `json:"challenge"`
	StakeAmount math.HexOrDecimal64 `json:"stakeAmount"`
	Bump        uint8               `json:"bump"`
}

// CreateChallenge represents create-challenge body
type CreateChallenge struct {
	Authority     solana.PublicKey    `json:"authority"`
	Name          string              `json:"name"`
	URI           string              `json:"uri"`
	RewardToken   solana.PublicKey    `json:"rewardToken"`
	RequiredStake math.HexOrDecimal64 `json:"requiredStake"`
}

// Stake represents stake body
type Stake struct {
	Player solana.PublicKey    `json:"player"`
	Amount math.HexOrDecimal64 `json:"amount"`
}

// StakeResult is the outcome of a stake.
type StakeResult struct {
	Challenge *Challenge `json:"challenge"`
	Player    *Player    `json:"player"`
}

// Claim represents claim body
type Claim struct {
	Claimant    solana.PublicKey `json:"claimant"`
	Destination solana.PublicKey `json:"destination"`
}

func convertChallenge(addr solana.PublicKey, c *ledger.Challenge) *Challenge {
	return &Challenge{
		Address:       addr,
		Name:          c.Name,
		URI:           c.URI,
		RewardToken:   c.RewardToken,
		Authority:     c.Authority,
		RequiredStake: math.HexOrDecimal64(c.RequiredStake),
		TotalStaked:   math.HexOrDecimal64(c.TotalStaked),
		IsActive:      c.IsActive,
		Bump:          c.Bump,
	}
}

func convertPlayer(addr solana.PublicKey, p *ledger.Player) *Player {
	return &Player{
		Address:     addr,
		Player:      p.Player,
		Challenge:   p.Challenge,
		StakeAmount: math.HexOrDecimal64(p.StakeAmount),
		Bump:        p.Bump,
	}
}
