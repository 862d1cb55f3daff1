// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/gagliardetto/solana-go"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/vechain/challenge-registry/registry"
)

type stakeOp struct {
	Player uint8
	Amount uint32
}

func sumStakes(t *testing.T, r *registry.Registry, name string) uint64 {
	stakers, err := r.Stakers(name)
	require.NoError(t, err)
	var sum uint64
	for _, p := range stakers {
		sum += p.StakeAmount
	}
	return sum
}

func TestStakeConservation(t *testing.T) {
	for seed := range int64(10) {
		t.Run(fmt.Sprintf("seed-%d", seed), func(t *testing.T) {
			ctx := context.Background()
			r := newRegistry(t, noIssuer(t), registry.Options{})
			createTestChallenge(t, r, 1)

			var ops []stakeOp
			fuzz.NewWithSeed(seed).NilChance(0).NumElements(1, 64).Fuzz(&ops)

			var (
				total     uint64
				perPlayer = make(map[solana.PublicKey]uint64)
			)
			for _, op := range ops {
				key := solana.PublicKey{op.Player % 8, 0xaa}
				c, p, err := r.StakeChallenge(ctx, key, testName, uint64(op.Amount))
				if op.Amount == 0 {
					assert.ErrorIs(t, err, registry.ErrInvalidAmount)
					continue
				}
				require.NoError(t, err)

				// monotonic
				assert.Equal(t, total+uint64(op.Amount), c.TotalStaked)
				assert.Equal(t, perPlayer[key]+uint64(op.Amount), p.StakeAmount)
				total = c.TotalStaked
				perPlayer[key] = p.StakeAmount
			}

			c, err := r.Challenge(testName)
			require.NoError(t, err)
			assert.Equal(t, total, c.TotalStaked)
			assert.Equal(t, total, sumStakes(t, r, testName))

			stakers, err := r.Stakers(testName)
			require.NoError(t, err)
			assert.Len(t, stakers, len(perPlayer))
		})
	}
}

func TestConcurrentStakes(t *testing.T) {
	const (
		players = 8
		rounds  = 50
	)
	ctx := context.Background()
	r := newRegistry(t, noIssuer(t), registry.Options{LockShards: 4})
	names := []string{"first", "second", "third"}
	for _, name := range names {
		_, err := r.CreateChallenge(ctx, authority, name, testURI, token, 1)
		require.NoError(t, err)
	}

	var g errgroup.Group
	for i := range players {
		key := solana.PublicKey{byte(i + 1), 0xbb}
		for _, name := range names {
			g.Go(func() error {
				for j := range rounds {
					if _, _, err := r.StakeChallenge(ctx, key, name, uint64(j+1)); err != nil {
						return err
					}
				}
				return nil
			})
		}
	}
	require.NoError(t, g.Wait())

	perPlayer := uint64(rounds * (rounds + 1) / 2)
	for _, name := range names {
		c, err := r.Challenge(name)
		require.NoError(t, err)
		assert.Equal(t, perPlayer*players, c.TotalStaked, name)
		assert.Equal(t, c.TotalStaked, sumStakes(t, r, name), name)
	}
}

func TestConcurrentClaimOnce(t *testing.T) {
	ctx := context.Background()
	var issued int
	r := newRegistry(t, issuerCounting(&issued), registry.Options{ClaimPolicy: registry.ThresholdAdvisory})
	createTestChallenge(t, r, 1)

	var g errgroup.Group
	results := make([]error, 16)
	for i := range results {
		g.Go(func() error {
			_, results[i] = r.ClaimChallenge(ctx, player, testName, destination)
			return nil
		})
	}
	require.NoError(t, g.Wait())

	var ok int
	for _, err := range results {
		if err == nil {
			ok++
		} else {
			assert.ErrorIs(t, err, registry.ErrChallengeInactive)
		}
	}
	assert.Equal(t, 1, ok)
	assert.Equal(t, 1, issued)
}
