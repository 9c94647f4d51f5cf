// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package gate freezes the height that reward accrues on.
package gate

import (
	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/staking/accrual"
	"github.com/vechain/stakeledger/staking/reverts"
	"github.com/vechain/stakeledger/state"
)

// Key is the storage key of the pause record.
const Key = "gate"

// Gate is the persisted pause state.
type Gate struct {
	Paused       bool
	PauseAtBlock uint64 // effective height frozen by the pause
	PausedAtLive uint64 // live height at the pause
	FrozenBlocks uint64 // live blocks spent paused by previous pauses
}

// Resolve returns the effective height at the given live height.
// Live blocks spent paused never count, even after a resume.
func (g *Gate) Resolve(liveHeight uint64) (uint64, error) {
	if liveHeight < g.FrozenBlocks || (g.Paused && liveHeight < g.PausedAtLive) {
		return 0, reverts.ErrClockRegression
	}
	return accrual.EffectiveHeight(g.Paused, g.PauseAtBlock, liveHeight-g.FrozenBlocks), nil
}

// Service administers the pause state. Only the owner may pause or resume.
type Service struct {
	gate  *state.Record[*Gate]
	owner string
}

func NewService(st *state.State, owner string) *Service {
	return &Service{
		gate:  state.NewRecord[*Gate](st, Key),
		owner: owner,
	}
}

// Get returns the pause state. A missing record reads as running.
func (s *Service) Get() (*Gate, error) {
	g, found, err := s.gate.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get gate")
	}
	if !found {
		return &Gate{}, nil
	}
	return g, nil
}

// IsPaused reports whether accrual is frozen.
func (s *Service) IsPaused() (bool, error) {
	g, err := s.Get()
	if err != nil {
		return false, err
	}
	return g.Paused, nil
}

// Resolve returns the effective height at the given live height.
func (s *Service) Resolve(liveHeight uint64) (uint64, error) {
	g, err := s.Get()
	if err != nil {
		return 0, err
	}
	return g.Resolve(liveHeight)
}

// Pause freezes the effective height at its current value.
func (s *Service) Pause(caller string, liveHeight uint64) (*Gate, error) {
	if caller != s.owner {
		return nil, reverts.ErrUnauthorizedCaller
	}
	g, err := s.Get()
	if err != nil {
		return nil, err
	}
	if g.Paused {
		return nil, reverts.ErrContractPaused
	}
	height, err := g.Resolve(liveHeight)
	if err != nil {
		return nil, err
	}

	g.Paused = true
	g.PauseAtBlock = height
	g.PausedAtLive = liveHeight
	if err := s.set(g); err != nil {
		return nil, err
	}
	return g, nil
}

// Resume unfreezes the effective height. It continues from the frozen value.
func (s *Service) Resume(caller string, liveHeight uint64) (*Gate, error) {
	if caller != s.owner {
		return nil, reverts.ErrUnauthorizedCaller
	}
	g, err := s.Get()
	if err != nil {
		return nil, err
	}
	if !g.Paused {
		return nil, reverts.ErrNotPaused
	}
	if liveHeight < g.PausedAtLive {
		return nil, reverts.ErrClockRegression
	}
	frozen := g.FrozenBlocks + (liveHeight - g.PausedAtLive)
	if frozen < g.FrozenBlocks {
		return nil, reverts.ErrArithmeticOverflow
	}

	g.Paused = false
	g.FrozenBlocks = frozen
	g.PausedAtLive = 0
	if err := s.set(g); err != nil {
		return nil, err
	}
	return g, nil
}

func (s *Service) set(g *Gate) error {
	if err := s.gate.Set(g); err != nil {
		return errors.Wrap(err, "failed to set gate")
	}
	return nil
}
