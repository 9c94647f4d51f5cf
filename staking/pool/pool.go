// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import (
	"github.com/holiman/uint256"
	"github.com/vechain/stakeledger/staking/accrual"
	"github.com/vechain/stakeledger/staking/reverts"
)

// Pool is the contract-wide mirror of the account records.
// Its reward is informational, individual payouts come from account records.
type Pool struct {
	TotalStakeBalance      *uint256.Int
	PreReward              *uint256.Int
	TotalPaidRewardBalance *uint256.Int
	TotalStakers           *uint256.Int
	LastBlockBalanceChange uint64
}

// New returns an empty pool anchored at height.
func New(height uint64) *Pool {
	return &Pool{
		TotalStakeBalance:      new(uint256.Int),
		PreReward:              new(uint256.Int),
		TotalPaidRewardBalance: new(uint256.Int),
		TotalStakers:           new(uint256.Int),
		LastBlockBalanceChange: height,
	}
}

// Copy returns a deep copy.
func (p *Pool) Copy() *Pool {
	return &Pool{
		TotalStakeBalance:      p.TotalStakeBalance.Clone(),
		PreReward:              p.PreReward.Clone(),
		TotalPaidRewardBalance: p.TotalPaidRewardBalance.Clone(),
		TotalStakers:           p.TotalStakers.Clone(),
		LastBlockBalanceChange: p.LastBlockBalanceChange,
	}
}

// PendingReward returns the pool reward earned since the last balance change.
func (p *Pool) PendingReward(height uint64, rate accrual.Rate) (*uint256.Int, error) {
	return rate.Accrue(p.TotalStakeBalance, p.LastBlockBalanceChange, height)
}

// TotalReward returns PreReward plus the pending pool reward at height.
func (p *Pool) TotalReward(height uint64, rate accrual.Rate) (*uint256.Int, error) {
	pending, err := p.PendingReward(height, rate)
	if err != nil {
		return nil, err
	}
	return accrual.Add(p.PreReward, pending)
}

// Fold moves the pending pool reward into PreReward and re-anchors the pool at height.
func (p *Pool) Fold(height uint64, rate accrual.Rate) error {
	total, err := p.TotalReward(height, rate)
	if err != nil {
		return err
	}
	p.PreReward = total
	p.LastBlockBalanceChange = height
	return nil
}

// AddStake folds, then adds amount to the total stake.
func (p *Pool) AddStake(amount *uint256.Int, height uint64, rate accrual.Rate) error {
	total, err := accrual.Add(p.TotalStakeBalance, amount)
	if err != nil {
		return err
	}
	if err := p.Fold(height, rate); err != nil {
		return err
	}
	p.TotalStakeBalance = total
	return nil
}

// SubStake folds, then removes amount from the total stake.
func (p *Pool) SubStake(amount *uint256.Int, height uint64, rate accrual.Rate) error {
	total, err := accrual.Sub(p.TotalStakeBalance, amount)
	if err != nil {
		return err
	}
	if err := p.Fold(height, rate); err != nil {
		return err
	}
	p.TotalStakeBalance = total
	return nil
}

// UpdateStakers adjusts the staker count for an account whose stake moved from
// wasStaking to isStaking.
func (p *Pool) UpdateStakers(wasStaking, isStaking bool) error {
	switch {
	case !wasStaking && isStaking:
		total, err := accrual.Add(p.TotalStakers, uint256.NewInt(1))
		if err != nil {
			return err
		}
		p.TotalStakers = total
	case wasStaking && !isStaking:
		if p.TotalStakers.IsZero() {
			return reverts.ErrArithmeticOverflow
		}
		p.TotalStakers = new(uint256.Int).SubUint64(p.TotalStakers, 1)
	}
	return nil
}
