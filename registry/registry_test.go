// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package registry_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/gagliardetto/solana-go"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/lvldb"
	"github.com/vechain/challenge-registry/registry"
	"github.com/vechain/challenge-registry/reward"
	"github.com/vechain/challenge-registry/reward/mocks"
	"github.com/vechain/challenge-registry/state"
)

const (
	testName = "Test Challenge"
	testURI  = "https://x/meta.json"
)

var (
	authority   = solana.PublicKey{1}
	player      = solana.PublicKey{2}
	other       = solana.PublicKey{3}
	destination = solana.PublicKey{4}
	token       = solana.PublicKey{5}
)

func newStater(t *testing.T) *state.Stater {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	st, err := state.NewStater(db, ledger.DefaultProgramID, 0)
	require.NoError(t, err)
	return st
}

func newRegistry(t *testing.T, issuer reward.Issuer, opts registry.Options) *registry.Registry {
	return registry.New(newStater(t), issuer, opts)
}

func noIssuer(t *testing.T) reward.Issuer {
	return reward.IssuerFunc(func(context.Context, solana.PublicKey, solana.PublicKey) error {
		t.Fatal("unexpected reward issuance")
		return nil
	})
}

func createTestChallenge(t *testing.T, r *registry.Registry, requiredStake uint64) *ledger.Challenge {
	c, err := r.CreateChallenge(context.Background(), authority, testName, testURI, token, requiredStake)
	require.NoError(t, err)
	return c
}

func TestCreateStakeClaimFlow(t *testing.T) {
	ctx := context.Background()
	mem := reward.NewMemLedger()
	mint := mem.CreateMint(1)
	r := newRegistry(t, reward.NewMintIssuer(mem), registry.Options{ClaimPolicy: registry.ThresholdAdvisory})

	// create
	_, err := r.CreateChallenge(ctx, authority, testName, testURI, mint, 500000000)
	require.NoError(t, err)

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	addr, err := r.ChallengeAddress(testName)
	require.NoError(t, err)
	assert.Equal(t, testName, c.Name)
	assert.Equal(t, testURI, c.URI)
	assert.Equal(t, mint, c.RewardToken)
	assert.Equal(t, authority, c.Authority)
	assert.Equal(t, uint64(500000000), c.RequiredStake)
	assert.Equal(t, uint64(0), c.TotalStaked)
	assert.True(t, c.IsActive)
	assert.Equal(t, addr.Bump, c.Bump)

	// stake
	c, p, err := r.StakeChallenge(ctx, player, testName, 50000000)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000000), c.TotalStaked)
	assert.Equal(t, uint64(50000000), p.StakeAmount)

	p, err = r.Player(player, testName)
	require.NoError(t, err)
	assert.Equal(t, uint64(50000000), p.StakeAmount)
	assert.Equal(t, player, p.Player)
	assert.Equal(t, testName, p.Challenge)

	// claim
	c, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
	assert.False(t, c.IsActive)
	assert.Equal(t, uint64(0), c.TotalStaked)
	assert.Equal(t, uint64(1), mem.Balance(destination, mint))

	c, err = r.Challenge(testName)
	require.NoError(t, err)
	assert.False(t, c.IsActive)
	assert.Equal(t, uint64(0), c.TotalStaked)

	// re-claim
	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrChallengeInactive)
	assert.Equal(t, registry.CategoryConflict, registry.CategoryOf(err))
	assert.Equal(t, uint64(1), mem.Supply(mint))

	// stake after claim
	_, _, err = r.StakeChallenge(ctx, player, testName, 1)
	assert.ErrorIs(t, err, registry.ErrChallengeInactive)
}

func TestClaimIssuesExactlyOnce(t *testing.T) {
	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockIssuer(ctrl)
	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(nil).Times(1)

	r := newRegistry(t, issuer, registry.Options{})
	createTestChallenge(t, r, 100)
	_, _, err := r.StakeChallenge(context.Background(), player, testName, 100)
	require.NoError(t, err)

	_, err = r.ClaimChallenge(context.Background(), player, testName, destination)
	require.NoError(t, err)
	_, err = r.ClaimChallenge(context.Background(), player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrChallengeInactive)
}

func TestClaimThresholdEnforced(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockIssuer(ctrl)
	r := newRegistry(t, issuer, registry.Options{})
	assert.Equal(t, registry.ThresholdEnforced, r.ClaimPolicy())

	createTestChallenge(t, r, 500000000)
	_, _, err := r.StakeChallenge(ctx, player, testName, 50000000)
	require.NoError(t, err)

	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrInsufficientStake)
	assert.Equal(t, registry.CategoryConflict, registry.CategoryOf(err))

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, uint64(50000000), c.TotalStaked)

	_, _, err = r.StakeChallenge(ctx, other, testName, 450000000)
	require.NoError(t, err)

	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(nil).Times(1)
	c, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
	assert.False(t, c.IsActive)
}

func TestClaimThresholdAdvisory(t *testing.T) {
	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockIssuer(ctrl)
	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(nil)

	r := newRegistry(t, issuer, registry.Options{ClaimPolicy: registry.ThresholdAdvisory})
	createTestChallenge(t, r, 500000000)

	c, err := r.ClaimChallenge(context.Background(), player, testName, destination)
	require.NoError(t, err)
	assert.False(t, c.IsActive)
}

func TestCreateUniqueness(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, reward.IssuerFunc(func(context.Context, solana.PublicKey, solana.PublicKey) error { return nil }),
		registry.Options{ClaimPolicy: registry.ThresholdAdvisory})
	createTestChallenge(t, r, 10)

	_, err := r.CreateChallenge(ctx, other, testName, "https://other", token, 99)
	assert.ErrorIs(t, err, registry.ErrAlreadyExists)
	assert.Equal(t, registry.CategoryConflict, registry.CategoryOf(err))

	// claimed challenges still hold their name
	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
	_, err = r.CreateChallenge(ctx, other, testName, testURI, token, 10)
	assert.ErrorIs(t, err, registry.ErrAlreadyExists)

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.Equal(t, authority, c.Authority)
	assert.Equal(t, uint64(10), c.RequiredStake)
}

func TestCreateValidation(t *testing.T) {
	r := newRegistry(t, noIssuer(t), registry.Options{})

	tests := []struct {
		name    string
		cName   string
		uri     string
		wantErr error
	}{
		{"empty name", "", testURI, registry.ErrInvalidName},
		{"name too long", strings.Repeat("n", ledger.MaxNameLength+1), testURI, registry.ErrInvalidName},
		{"invalid utf8", "\xff\xfe", testURI, registry.ErrInvalidName},
		{"uri too long", testName, strings.Repeat("u", ledger.MaxURILength+1), registry.ErrInvalidURI},
		{"longest name", strings.Repeat("n", ledger.MaxNameLength), testURI, nil},
		{"empty uri", "no uri", "", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := r.CreateChallenge(context.Background(), authority, tt.cName, tt.uri, token, 1)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
			assert.Equal(t, registry.CategoryValidation, registry.CategoryOf(err))
		})
	}
}

func TestStakeValidation(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, noIssuer(t), registry.Options{})

	_, _, err := r.StakeChallenge(ctx, player, "missing", 10)
	assert.ErrorIs(t, err, registry.ErrChallengeNotFound)
	assert.Equal(t, registry.CategoryValidation, registry.CategoryOf(err))

	createTestChallenge(t, r, 10)
	_, _, err = r.StakeChallenge(ctx, player, testName, 0)
	assert.ErrorIs(t, err, registry.ErrInvalidAmount)
	assert.Equal(t, registry.CategoryValidation, registry.CategoryOf(err))

	// a rejected stake creates no record
	_, err = r.Player(player, testName)
	assert.ErrorIs(t, err, registry.ErrPlayerNotFound)
	stakers, err := r.Stakers(testName)
	require.NoError(t, err)
	assert.Empty(t, stakers)

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), c.TotalStaked)
}

func TestStakeOverflow(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, noIssuer(t), registry.Options{})
	createTestChallenge(t, r, 10)

	const maxUint64 = ^uint64(0)
	_, _, err := r.StakeChallenge(ctx, player, testName, maxUint64)
	require.NoError(t, err)

	// player counter overflows
	_, _, err = r.StakeChallenge(ctx, player, testName, 1)
	assert.ErrorIs(t, err, registry.ErrArithmeticOverflow)
	assert.Equal(t, registry.CategoryArithmetic, registry.CategoryOf(err))

	// pool counter overflows, the new player is not recorded
	_, _, err = r.StakeChallenge(ctx, other, testName, 1)
	assert.ErrorIs(t, err, registry.ErrArithmeticOverflow)
	_, err = r.Player(other, testName)
	assert.ErrorIs(t, err, registry.ErrPlayerNotFound)

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.Equal(t, maxUint64, c.TotalStaked)
	p, err := r.Player(player, testName)
	require.NoError(t, err)
	assert.Equal(t, maxUint64, p.StakeAmount)
}

func TestIssuerFailureLeavesChallengeIntact(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("mint authority revoked")

	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockIssuer(ctrl)
	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(cause)

	r := newRegistry(t, issuer, registry.Options{})
	createTestChallenge(t, r, 10)
	_, _, err := r.StakeChallenge(ctx, player, testName, 25)
	require.NoError(t, err)

	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrRewardIssuanceFailed)
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), cause.Error())
	assert.Equal(t, registry.CategoryExternal, registry.CategoryOf(err))

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, uint64(25), c.TotalStaked)

	// the claim can be attempted again
	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(nil)
	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
}

func TestClaimUnknownChallenge(t *testing.T) {
	r := newRegistry(t, noIssuer(t), registry.Options{})

	_, err := r.ClaimChallenge(context.Background(), player, "missing", destination)
	assert.ErrorIs(t, err, registry.ErrChallengeNotFound)
	assert.Equal(t, registry.CategoryValidation, registry.CategoryOf(err))
}

func TestClaimOutlivesCaller(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	issued := 0
	issuer := reward.IssuerFunc(func(ctx context.Context, _, _ solana.PublicKey) error {
		// the caller goes away while the transfer is in flight
		cancel()
		select {
		case <-ctx.Done():
			return fmt.Errorf("%w: %w", reward.ErrOutcomeUnknown, ctx.Err())
		case <-time.After(20 * time.Millisecond):
		}
		issued++
		return nil
	})
	r := newRegistry(t, issuer, registry.Options{})
	createTestChallenge(t, r, 10)
	_, _, err := r.StakeChallenge(ctx, player, testName, 10)
	require.NoError(t, err)

	c, err := r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
	assert.False(t, c.IsActive)
	assert.Equal(t, 1, issued)

	stored, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.False(t, stored.IsActive)
}

func TestClaimIssuanceOutcomeUnknown(t *testing.T) {
	ctx := context.Background()
	issuer := reward.IssuerFunc(func(ctx context.Context, _, _ solana.PublicKey) error {
		<-ctx.Done()
		return fmt.Errorf("%w: %w", reward.ErrOutcomeUnknown, ctx.Err())
	})
	r := newRegistry(t, issuer, registry.Options{ExternalTimeout: 10 * time.Millisecond})
	createTestChallenge(t, r, 10)
	_, _, err := r.StakeChallenge(ctx, player, testName, 10)
	require.NoError(t, err)

	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrRewardIssuanceFailed)
	assert.ErrorIs(t, err, reward.ErrOutcomeUnknown)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, registry.CategoryExternal, registry.CategoryOf(err))

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, uint64(10), c.TotalStaked)
}

func TestTreasury(t *testing.T) {
	ctx := context.Background()
	treasury := reward.NewMemTreasury()
	mem := reward.NewMemLedger()
	mint := mem.CreateMint(0)
	r := newRegistry(t, reward.NewMintIssuer(mem), registry.Options{Treasury: treasury})

	_, err := r.CreateChallenge(ctx, authority, testName, testURI, mint, 30)
	require.NoError(t, err)
	addr, err := r.ChallengeAddress(testName)
	require.NoError(t, err)

	_, _, err = r.StakeChallenge(ctx, player, testName, 20)
	require.NoError(t, err)
	_, _, err = r.StakeChallenge(ctx, other, testName, 15)
	require.NoError(t, err)
	assert.Equal(t, uint64(35), treasury.Balance(addr.Key))

	before := treasury.Balance(player)
	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)
	assert.Greater(t, treasury.Balance(player), before)
	assert.Equal(t, uint64(35), treasury.Balance(player))
	assert.Equal(t, uint64(0), treasury.Balance(addr.Key))
}

func TestTreasuryFailures(t *testing.T) {
	ctx := context.Background()
	cause := errors.New("insufficient lamports")

	ctrl := gomock.NewController(t)
	issuer := mocks.NewMockIssuer(ctrl)
	treasury := mocks.NewMockTreasury(ctrl)
	r := newRegistry(t, issuer, registry.Options{Treasury: treasury})
	createTestChallenge(t, r, 10)
	addr, err := r.ChallengeAddress(testName)
	require.NoError(t, err)

	// deposit fails, nothing recorded
	treasury.EXPECT().Deposit(gomock.Any(), player, addr.Key, uint64(10)).Return(cause)
	_, _, err = r.StakeChallenge(ctx, player, testName, 10)
	assert.ErrorIs(t, err, registry.ErrTransferFailed)
	assert.ErrorIs(t, err, cause)
	_, err = r.Player(player, testName)
	assert.ErrorIs(t, err, registry.ErrPlayerNotFound)

	treasury.EXPECT().Deposit(gomock.Any(), player, addr.Key, uint64(10)).Return(nil)
	_, _, err = r.StakeChallenge(ctx, player, testName, 10)
	require.NoError(t, err)

	// release fails after issuance, challenge stays active
	issuer.EXPECT().Issue(gomock.Any(), token, destination).Return(nil)
	treasury.EXPECT().Release(gomock.Any(), addr.Key, player, uint64(10)).Return(cause)
	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	assert.ErrorIs(t, err, registry.ErrTransferFailed)

	c, err := r.Challenge(testName)
	require.NoError(t, err)
	assert.True(t, c.IsActive)
	assert.Equal(t, uint64(10), c.TotalStaked)
}

func TestReentrantIssuer(t *testing.T) {
	ctx := context.Background()
	var (
		r          *registry.Registry
		reentrant  error
		recreate   error
		observed   *ledger.Challenge
		observeErr error
	)
	issuer := reward.IssuerFunc(func(ctx context.Context, _, _ solana.PublicKey) error {
		_, _, reentrant = r.StakeChallenge(ctx, other, testName, 1)
		_, recreate = r.CreateChallenge(ctx, authority, "nested", testURI, token, 1)
		observed, observeErr = r.Challenge(testName)
		return nil
	})
	r = newRegistry(t, issuer, registry.Options{})
	createTestChallenge(t, r, 10)
	_, _, err := r.StakeChallenge(ctx, player, testName, 10)
	require.NoError(t, err)

	_, err = r.ClaimChallenge(ctx, player, testName, destination)
	require.NoError(t, err)

	assert.ErrorIs(t, reentrant, registry.ErrReentrantCall)
	assert.ErrorIs(t, recreate, registry.ErrReentrantCall)
	_, err = r.Challenge("nested")
	assert.ErrorIs(t, err, registry.ErrChallengeNotFound)
	require.NoError(t, observeErr)
	assert.True(t, observed.IsActive, "reads see the committed record")

	_, err = r.Player(other, testName)
	assert.ErrorIs(t, err, registry.ErrPlayerNotFound)
}

func TestListings(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, noIssuer(t), registry.Options{})

	for _, name := range []string{"alpha", "beta", "gamma"} {
		_, err := r.CreateChallenge(ctx, authority, name, testURI, token, 1)
		require.NoError(t, err)
	}
	list, err := r.Challenges()
	require.NoError(t, err)
	require.Len(t, list, 3)
	names := make([]string, 0, len(list))
	for _, c := range list {
		names = append(names, c.Name)
	}
	assert.ElementsMatch(t, []string{"alpha", "beta", "gamma"}, names)

	_, _, err = r.StakeChallenge(ctx, player, "beta", 3)
	require.NoError(t, err)
	_, _, err = r.StakeChallenge(ctx, other, "beta", 4)
	require.NoError(t, err)
	_, _, err = r.StakeChallenge(ctx, other, "beta", 5)
	require.NoError(t, err)

	stakers, err := r.Stakers("beta")
	require.NoError(t, err)
	require.Len(t, stakers, 2)
	amounts := map[solana.PublicKey]uint64{}
	for _, p := range stakers {
		amounts[p.Player] = p.StakeAmount
	}
	assert.Equal(t, map[solana.PublicKey]uint64{player: 3, other: 9}, amounts)

	stakers, err = r.Stakers("alpha")
	require.NoError(t, err)
	assert.Empty(t, stakers)

	_, err = r.Stakers("missing")
	assert.ErrorIs(t, err, registry.ErrChallengeNotFound)
}

func TestErrorHelpers(t *testing.T) {
	assert.Equal(t, registry.CategoryNone, registry.CategoryOf(errors.New("disk full")))
	assert.Equal(t, "", registry.CodeOf(nil))
	assert.Equal(t, "InvalidAmount", registry.CodeOf(registry.ErrInvalidAmount))
	assert.Equal(t, "external", registry.CategoryExternal.String())

	p, err := registry.ParseClaimPolicy("advisory")
	require.NoError(t, err)
	assert.Equal(t, registry.ThresholdAdvisory, p)
	assert.Equal(t, "advisory", p.String())
	_, err = registry.ParseClaimPolicy("sometimes")
	assert.Error(t, err)
}

// issuerCounting counts issuances; claims of one challenge are serialized by the registry.
func issuerCounting(n *int) reward.Issuer {
	return reward.IssuerFunc(func(context.Context, solana.PublicKey, solana.PublicKey) error {
		*n++
		return nil
	})
}
