// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/holiman/uint256"

	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/staking/account"
	"github.com/vechain/stakeledger/staking/pool"
)

// AccountInfo is an account snapshot with its reward computed at the effective height.
type AccountInfo struct {
	ID              string
	Account         *account.Account
	Reward          *uint256.Int // PreReward plus the part not folded yet
	EffectiveHeight uint64
	CanWithdraw     bool
}

// PoolInfo is the pool snapshot with its reward computed at the effective height.
type PoolInfo struct {
	Pool            *pool.Pool
	Reward          *uint256.Int // pool PreReward plus the part not folded yet
	EffectiveHeight uint64
	Paused          bool
}

//
// Getters - no state change
//

// Config returns the ledger config.
func (s *Staker) Config() Config {
	return s.cfg
}

// Owner returns the principal allowed to pause and resume.
func (s *Staker) Owner() string {
	return s.cfg.Owner
}

// TransferChannel returns the principal allowed to deposit.
func (s *Staker) TransferChannel() string {
	return s.cfg.TransferChannel
}

// IsRegistered reports whether id has an account.
func (s *Staker) IsRegistered(id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accountService.Has(id)
}

// StorageBalanceOf returns 1 for a registered id and 0 otherwise.
func (s *Staker) StorageBalanceOf(id string) (uint64, error) {
	registered, err := s.IsRegistered(id)
	if err != nil || !registered {
		return 0, err
	}
	return 1, nil
}

// IsPaused reports whether accrual is frozen.
func (s *Staker) IsPaused() (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.gateService.IsPaused()
}

// GetAccount returns a snapshot of the account of id, or ErrAccountNotFound.
func (s *Staker) GetAccount(id string) (*account.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.accountService.MustGet(id)
}

// AccountInfo returns the account of id with its reward up to the current effective height.
func (s *Staker) AccountInfo(id string) (*AccountInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	acc, err := s.accountService.MustGet(id)
	if err != nil {
		return nil, err
	}
	now := clock.Take(s.clock)
	height, err := s.gateService.Resolve(now.Height)
	if err != nil {
		return nil, err
	}
	reward, err := acc.TotalReward(height, s.cfg.Rate())
	if err != nil {
		return nil, err
	}
	return &AccountInfo{
		ID:              id,
		Account:         acc,
		Reward:          reward,
		EffectiveHeight: height,
		CanWithdraw:     acc.CanWithdraw(now.Epoch),
	}, nil
}

// PoolInfo returns the pool totals with the pool reward up to the current effective height.
func (s *Staker) PoolInfo() (*PoolInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, err := s.poolService.Get()
	if err != nil {
		return nil, err
	}
	g, err := s.gateService.Get()
	if err != nil {
		return nil, err
	}
	height, err := g.Resolve(s.clock.Height())
	if err != nil {
		return nil, err
	}
	reward, err := p.TotalReward(height, s.cfg.Rate())
	if err != nil {
		return nil, err
	}
	return &PoolInfo{
		Pool:            p,
		Reward:          reward,
		EffectiveHeight: height,
		Paused:          g.Paused,
	}, nil
}
