// Copyright (c) 2024 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package registryclient provides an HTTP client for the challenge registry API.
package registryclient

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gagliardetto/solana-go"

	"github.com/vechain/challenge-registry/api/challenges"
)

// Client talks to a registry API server.
type Client struct {
	url string
	c   *http.Client
}

// New creates a new Client with the provided URL.
func New(url string) *Client {
	return NewWithHTTP(url, http.DefaultClient)
}

func NewWithHTTP(url string, c *http.Client) *Client {
	return &Client{
		url: url,
		c:   c,
	}
}

func (c *Client) challengeURL(name string) string {
	return c.url + "/challenges/" + url.PathEscape(name)
}

// CreateChallenge registers a new challenge.
func (c *Client) CreateChallenge(
	ctx context.Context,
	authority solana.PublicKey,
	name, uri string,
	rewardToken solana.PublicKey,
	requiredStake uint64,
) (*challenges.Challenge, error) {
	body, err := c.httpPOST(ctx, c.url+"/challenges", &challenges.CreateChallenge{
		Authority:     authority,
		Name:          name,
		URI:           uri,
		RewardToken:   rewardToken,
		RequiredStake: math.HexOrDecimal64(requiredStake),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to create challenge - %w", err)
	}

	var ch challenges.Challenge
	if err = json.Unmarshal(body, &ch); err != nil {
		return nil, fmt.Errorf("unable to unmarshal challenge - %w", err)
	}
	return &ch, nil
}

// Challenge retrieves a challenge by name.
func (c *Client) Challenge(ctx context.Context, name string) (*challenges.Challenge, error) {
	body, err := c.httpGET(ctx, c.challengeURL(name))
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve challenge - %w", err)
	}

	var ch challenges.Challenge
	if err = json.Unmarshal(body, &ch); err != nil {
		return nil, fmt.Errorf("unable to unmarshal challenge - %w", err)
	}
	return &ch, nil
}

// Challenges lists all challenges.
func (c *Client) Challenges(ctx context.Context) ([]*challenges.Challenge, error) {
	body, err := c.httpGET(ctx, c.url+"/challenges")
	if err != nil {
		return nil, fmt.Errorf("unable to list challenges - %w", err)
	}

	var list []*challenges.Challenge
	if err = json.Unmarshal(body, &list); err != nil {
		return nil, fmt.Errorf("unable to unmarshal challenges - %w", err)
	}
	return list, nil
}

// StakeChallenge stakes amount on the named challenge for player.
func (c *Client) StakeChallenge(ctx context.Context, player solana.PublicKey, name string, amount uint64) (*challenges.StakeResult, error) {
	body, err := c.httpPOST(ctx, c.challengeURL(name)+"/stakes", &challenges.Stake{
		Player: player,
		Amount: math.HexOrDecimal64(amount),
	})
	if err != nil {
		return nil, fmt.Errorf("unable to stake - %w", err)
	}

	var res challenges.StakeResult
	if err = json.Unmarshal(body, &res); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stake result - %w", err)
	}
	return &res, nil
}

// Player retrieves the stake record of player in the named challenge.
func (c *Client) Player(ctx context.Context, player solana.PublicKey, name string) (*challenges.Player, error) {
	body, err := c.httpGET(ctx, c.challengeURL(name)+"/players/"+player.String())
	if err != nil {
		return nil, fmt.Errorf("unable to retrieve player - %w", err)
	}

	var p challenges.Player
	if err = json.Unmarshal(body, &p); err != nil {
		return nil, fmt.Errorf("unable to unmarshal player - %w", err)
	}
	return &p, nil
}

// Stakers lists the stake records of the named challenge.
func (c *Client) Stakers(ctx context.Context, name string) ([]*challenges.Player, error) {
	body, err := c.httpGET(ctx, c.challengeURL(name)+"/stakers")
	if err != nil {
		return nil, fmt.Errorf("unable to list stakers - %w", err)
	}

	var players []*challenges.Player
	if err = json.Unmarshal(body, &players); err != nil {
		return nil, fmt.Errorf("unable to unmarshal stakers - %w", err)
	}
	return players, nil
}

// ClaimChallenge claims the named challenge, issuing its reward to destination.
func (c *Client) ClaimChallenge(ctx context.Context, claimant solana.PublicKey, name string, destination solana.PublicKey) (*challenges.Challenge, error) {
	body, err := c.httpPOST(ctx, c.challengeURL(name)+"/claim", &challenges.Claim{
		Claimant:    claimant,
		Destination: destination,
	})
	if err != nil {
		return nil, fmt.Errorf("unable to claim challenge - %w", err)
	}

	var ch challenges.Challenge
	if err = json.Unmarshal(body, &ch); err != nil {
		return nil, fmt.Errorf("unable to unmarshal challenge - %w", err)
	}
	return &ch, nil
}
