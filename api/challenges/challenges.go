// Copyright (c) 2026 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package challenges

import (
	"net/http"

	"github.com/gagliardetto/solana-go"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/challenge-registry/api/utils"
	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/registry"
)

type Challenges struct {
	reg *registry.Registry
}

func New(reg *registry.Registry) *Challenges {
	return &Challenges{reg}
}

func requireKey(key solana.PublicKey, field string) error {
	if key.IsZero() {
		return utils.BadRequest(errors.New(field + ": required"))
	}
	return nil
}

func (c *Challenges) convertChallenge(ch *ledger.Challenge) (*Challenge, error) {
	addr, err := c.reg.ChallengeAddress(ch.Name)
	if err != nil {
		return nil, err
	}
	return convertChallenge(addr.Key, ch), nil
}

func (c *Challenges) convertPlayer(p *ledger.Player) (*Player, error) {
	addr, err := c.reg.PlayerAddress(p.Player, p.Challenge)
	if err != nil {
		return nil, err
	}
	return convertPlayer(addr.Key, p), nil
}

func (c *Challenges) handleCreate(w http.ResponseWriter, req *http.Request) error {
	var body CreateChallenge
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := requireKey(body.Authority, "authority"); err != nil {
		return err
	}
	if err := requireKey(body.RewardToken, "rewardToken"); err != nil {
		return err
	}

	ch, err := c.reg.CreateChallenge(req.Context(), body.Authority, body.Name, body.URI, body.RewardToken, uint64(body.RequiredStake))
	if err != nil {
		return err
	}
	out, err := c.convertChallenge(ch)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) handleList(w http.ResponseWriter, _ *http.Request) error {
	list, err := c.reg.Challenges()
	if err != nil {
		return err
	}
	out := make([]*Challenge, 0, len(list))
	for _, ch := range list {
		conv, err := c.convertChallenge(ch)
		if err != nil {
			return err
		}
		out = append(out, conv)
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) handleGet(w http.ResponseWriter, req *http.Request) error {
	ch, err := c.reg.Challenge(mux.Vars(req)["name"])
	if err != nil {
		return err
	}
	out, err := c.convertChallenge(ch)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body Stake
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := requireKey(body.Player, "player"); err != nil {
		return err
	}

	ch, p, err := c.reg.StakeChallenge(req.Context(), body.Player, mux.Vars(req)["name"], uint64(body.Amount))
	if err != nil {
		return err
	}
	var res StakeResult
	if res.Challenge, err = c.convertChallenge(ch); err != nil {
		return err
	}
	if res.Player, err = c.convertPlayer(p); err != nil {
		return err
	}
	return utils.WriteJSON(w, &res)
}

func (c *Challenges) handleGetPlayer(w http.ResponseWriter, req *http.Request) error {
	player, err := solana.PublicKeyFromBase58(mux.Vars(req)["player"])
	if err != nil {
		return utils.BadRequest(errors.WithMessage(err, "player"))
	}
	p, err := c.reg.Player(player, mux.Vars(req)["name"])
	if err != nil {
		return err
	}
	out, err := c.convertPlayer(p)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) handleStakers(w http.ResponseWriter, req *http.Request) error {
	players, err := c.reg.Stakers(mux.Vars(req)["name"])
	if err != nil {
		return err
	}
	out := make([]*Player, 0, len(players))
	for _, p := range players {
		conv, err := c.convertPlayer(p)
		if err != nil {
			return err
		}
		out = append(out, conv)
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) handleClaim(w http.ResponseWriter, req *http.Request) error {
	var body Claim
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := requireKey(body.Claimant, "claimant"); err != nil {
		return err
	}
	if err := requireKey(body.Destination, "destination"); err != nil {
		return err
	}

	ch, err := c.reg.ClaimChallenge(req.Context(), body.Claimant, mux.Vars(req)["name"], body.Destination)
	if err != nil {
		return err
	}
	out, err := c.convertChallenge(ch)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Challenges) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").Methods(http.MethodPost).Name("POST /challenges").HandlerFunc(utils.WrapHandlerFunc(c.handleCreate))
	sub.Path("").Methods(http.MethodGet).Name("GET /challenges").HandlerFunc(utils.WrapHandlerFunc(c.handleList))
	sub.Path("/{name}").Methods(http.MethodGet).Name("GET /challenges/{name}").HandlerFunc(utils.WrapHandlerFunc(c.handleGet))
	sub.Path("/{name}/stakes").Methods(http.MethodPost).Name("POST /challenges/{name}/stakes").HandlerFunc(utils.WrapHandlerFunc(c.handleStake))
	sub.Path("/{name}/stakers").Methods(http.MethodGet).Name("GET /challenges/{name}/stakers").HandlerFunc(utils.WrapHandlerFunc(c.handleStakers))
	sub.Path("/{name}/players/{player}").Methods(http.MethodGet).Name("GET /challenges/{name}/players/{player}").HandlerFunc(utils.WrapHandlerFunc(c.handleGetPlayer))
	sub.Path("/{name}/claim").Methods(http.MethodPost).Name("POST /challenges/{name}/claim").HandlerFunc(utils.WrapHandlerFunc(c.handleClaim))
}
