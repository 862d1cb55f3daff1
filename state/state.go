// Copyright (c) 2018 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/pkg/errors"

	"github.com/vechain/challenge-registry/ledger"
	"github.com/vechain/challenge-registry/stackedmap"
)

var (
	// ErrNotFound is returned when loading a record from an unallocated address.
	ErrNotFound = errors.New("record not found")
	// ErrAlreadyExists is returned when allocating an address twice.
	ErrAlreadyExists = errors.New("record already exists")
	// ErrReadOnly is returned when writing through a view.
	ErrReadOnly = errors.New("read-only state")
)

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type (
	challengeKey solana.PublicKey
	playerKey    solana.PublicKey
	stakerKey    struct {
		challenge solana.PublicKey
		player    solana.PublicKey
	}
)

// State is a staging area of record changes made by one operation.
// Changes are invisible to others until Commit. A State is not safe for concurrent use.
type State struct {
	stater   *Stater
	sm       *stackedmap.StackedMap[any, any]
	readOnly bool
}

func newState(stater *Stater, readOnly bool) *State {
	s := &State{
		stater:   stater,
		readOnly: readOnly,
	}
	s.sm = stackedmap.New(func(key any) (any, bool, error) {
		return s.cacheGetter(key)
	})
	s.sm.Push()
	return s
}

// cacheGetter implements stackedmap.MapGetter.
// A nil record value means the address is unallocated.
func (s *State) cacheGetter(key any) (value any, exist bool, err error) {
	fill := !s.readOnly
	switch k := key.(type) {
	case challengeKey:
		c, err := s.stater.loadChallenge(solana.PublicKey(k), fill)
		if err != nil {
			return nil, false, &Error{err}
		}
		return c, true, nil
	case playerKey:
		p, err := s.stater.loadPlayer(solana.PublicKey(k), fill)
		if err != nil {
			return nil, false, &Error{err}
		}
		return p, true, nil
	case stakerKey:
		has, err := s.stater.hasStaker(k.challenge, k.player)
		if err != nil {
			return nil, false, &Error{err}
		}
		return has, true, nil
	}
	panic(fmt.Errorf("unexpected key type %+v", key))
}

// ProgramID returns the program id addresses are derived under.
func (s *State) ProgramID() solana.PublicKey {
	return s.stater.programID
}

// ChallengeAddress derives the challenge record address for name.
func (s *State) ChallengeAddress(name string) (ledger.Address, error) {
	return ledger.ChallengeAddress(s.stater.programID, name)
}

// PlayerAddress derives the stake record address of player in challenge name.
func (s *State) PlayerAddress(player solana.PublicKey, name string) (ledger.Address, error) {
	return ledger.PlayerAddress(s.stater.programID, player, name)
}

func (s *State) getChallenge(addr solana.PublicKey) (*ledger.Challenge, error) {
	v, _, err := s.sm.Get(challengeKey(addr))
	if err != nil {
		return nil, err
	}
	return v.(*ledger.Challenge), nil
}

func (s *State) getPlayer(addr solana.PublicKey) (*ledger.Player, error) {
	v, _, err := s.sm.Get(playerKey(addr))
	if err != nil {
		return nil, err
	}
	return v.(*ledger.Player), nil
}

// ChallengeExists returns whether addr holds a challenge record.
func (s *State) ChallengeExists(addr solana.PublicKey) (bool, error) {
	c, err := s.getChallenge(addr)
	if err != nil {
		return false, err
	}
	return c != nil, nil
}

// LoadChallenge loads the challenge record at addr.
// ErrNotFound is returned if addr is unallocated.
func (s *State) LoadChallenge(addr solana.PublicKey) (*ledger.Challenge, error) {
	c, err := s.getChallenge(addr)
	if err != nil {
		return nil, err
	}
	if c == nil {
		return nil, ErrNotFound
	}
	return c.Copy(), nil
}

// AllocateChallenge stores a new challenge record at addr.
// ErrAlreadyExists is returned if addr is allocated.
func (s *State) AllocateChallenge(addr ledger.Address, c *ledger.Challenge) error {
	if s.readOnly {
		return ErrReadOnly
	}
	exists, err := s.ChallengeExists(addr.Key)
	if err != nil {
		return err
	}
	if exists {
		return ErrAlreadyExists
	}
	cpy := c.Copy()
	cpy.Bump = addr.Bump
	s.sm.Put(challengeKey(addr.Key), cpy)
	return nil
}

// SetChallenge updates the challenge record at addr.
// ErrNotFound is returned if addr is unallocated; use AllocateChallenge to create.
func (s *State) SetChallenge(addr solana.PublicKey, c *ledger.Challenge) error {
	if s.readOnly {
		return ErrReadOnly
	}
	exists, err := s.ChallengeExists(addr)
	if err != nil {
		return err
	}
	if !exists {
		return ErrNotFound
	}
	s.sm.Put(challengeKey(addr), c.Copy())
	return nil
}

// LoadPlayer loads the stake record at addr.
// ErrNotFound is returned if addr is unallocated.
func (s *State) LoadPlayer(addr solana.PublicKey) (*ledger.Player, error) {
	p, err := s.getPlayer(addr)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, ErrNotFound
	}
	return p.Copy(), nil
}

// LoadOrCreatePlayer loads the stake record at addr, or returns a zero stake record
// for player in challenge if addr is unallocated. The second return value reports
// whether the record is new. Nothing is staged until SetPlayer.
func (s *State) LoadOrCreatePlayer(addr ledger.Address, player solana.PublicKey, challenge string) (*ledger.Player, bool, error) {
	p, err := s.getPlayer(addr.Key)
	if err != nil {
		return nil, false, err
	}
	if p != nil {
		return p.Copy(), false, nil
	}
	return &ledger.Player{
		Player:    player,
		Challenge: challenge,
		Bump:      addr.Bump,
	}, true, nil
}

// SetPlayer stores the stake record at addr and indexes it under its challenge.
func (s *State) SetPlayer(addr solana.PublicKey, p *ledger.Player) error {
	if s.readOnly {
		return ErrReadOnly
	}
	challenge, err := s.ChallengeAddress(p.Challenge)
	if err != nil {
		return err
	}
	s.sm.Put(playerKey(addr), p.Copy())

	sk := stakerKey{challenge.Key, addr}
	indexed, _, err := s.sm.Get(sk)
	if err != nil {
		return err
	}
	if !indexed.(bool) {
		s.sm.Put(sk, true)
	}
	return nil
}

// Stakers returns committed stake records of the challenge at addr, in address order.
func (s *State) Stakers(addr solana.PublicKey) ([]*ledger.Player, error) {
	var (
		players []*ledger.Player
		keys    []solana.PublicKey
	)
	if err := s.stater.iterateStakers(addr, func(player solana.PublicKey) bool {
		keys = append(keys, player)
		return true
	}); err != nil {
		return nil, &Error{err}
	}
	for _, key := range keys {
		p, err := s.LoadPlayer(key)
		if err != nil {
			return nil, errors.Wrapf(err, "load staker %v", key)
		}
		players = append(players, p)
	}
	return players, nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	if revision > s.sm.Depth() || revision < 1 {
		panic(fmt.Errorf("invalid revision %v", revision))
	}
	s.sm.PopTo(revision)
}

// Changed returns whether any record is staged.
func (s *State) Changed() (changed bool) {
	s.sm.Journal(func(any, any) bool {
		changed = true
		return false
	})
	return
}

// Commit writes all staged changes in one atomic batch.
// On error nothing is written and the state should be discarded.
func (s *State) Commit() error {
	if s.readOnly {
		return ErrReadOnly
	}
	if !s.Changed() {
		return nil
	}
	changes := make(map[any]any)
	var order []any
	s.sm.Journal(func(key, value any) bool {
		if _, ok := changes[key]; !ok {
			order = append(order, key)
		}
		changes[key] = value
		return true
	})
	if err := s.stater.write(order, changes); err != nil {
		return &Error{err}
	}
	// start over from the committed state
	s.sm.PopTo(0)
	s.sm.Push()
	return nil
}
