// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package account

import (
	"github.com/holiman/uint256"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/staking/accrual"
	"github.com/vechain/stakeledger/staking/reverts"
)

// DefaultPaidReward is the paid reward assigned to records written before it was tracked.
var DefaultPaidReward = uint256.NewInt(0)

// Account is the current shape of a staker's record.
type Account struct {
	StakeBalance          *uint256.Int
	PreReward             *uint256.Int
	LastUpdateHeight      uint64
	UnstakeBalance        *uint256.Int
	UnstakeStartTimestamp uint64
	UnstakeAvailableEpoch uint64
	PaidReward            *uint256.Int
}

// New returns a zeroed account anchored at the given effective height.
func New(height uint64) *Account {
	return &Account{
		StakeBalance:     new(uint256.Int),
		PreReward:        new(uint256.Int),
		LastUpdateHeight: height,
		UnstakeBalance:   new(uint256.Int),
		PaidReward:       new(uint256.Int),
	}
}

func (a *Account) Version() Version { return CurrentVersion }

// Copy returns a deep copy.
func (a *Account) Copy() *Account {
	return &Account{
		StakeBalance:          a.StakeBalance.Clone(),
		PreReward:             a.PreReward.Clone(),
		LastUpdateHeight:      a.LastUpdateHeight,
		UnstakeBalance:        a.UnstakeBalance.Clone(),
		UnstakeStartTimestamp: a.UnstakeStartTimestamp,
		UnstakeAvailableEpoch: a.UnstakeAvailableEpoch,
		PaidReward:            a.PaidReward.Clone(),
	}
}

// IsStaking reports whether the account earns reward.
func (a *Account) IsStaking() bool {
	return !a.StakeBalance.IsZero()
}

// PendingReward returns the reward earned since the last fold, without folding it.
func (a *Account) PendingReward(height uint64, rate accrual.Rate) (*uint256.Int, error) {
	return rate.Accrue(a.StakeBalance, a.LastUpdateHeight, height)
}

// TotalReward returns PreReward plus the pending reward at height.
func (a *Account) TotalReward(height uint64, rate accrual.Rate) (*uint256.Int, error) {
	pending, err := a.PendingReward(height, rate)
	if err != nil {
		return nil, err
	}
	return accrual.Add(a.PreReward, pending)
}

// Fold moves the pending reward into PreReward and re-anchors the account at height.
func (a *Account) Fold(height uint64, rate accrual.Rate) error {
	total, err := a.TotalReward(height, rate)
	if err != nil {
		return err
	}
	a.PreReward = total
	a.LastUpdateHeight = height
	return nil
}

// Stake folds, then adds amount to the stake balance.
func (a *Account) Stake(amount *uint256.Int, height uint64, rate accrual.Rate) error {
	stake, err := accrual.Add(a.StakeBalance, amount)
	if err != nil {
		return err
	}
	if err := a.Fold(height, rate); err != nil {
		return err
	}
	a.StakeBalance = stake
	return nil
}

// Unstake folds, then moves amount from stake to the pending unstake balance.
// The lock-up restarts for the whole unstake balance.
func (a *Account) Unstake(amount *uint256.Int, height uint64, rate accrual.Rate, now clock.Snapshot, unlockEpochs uint64) error {
	if amount.Gt(a.StakeBalance) {
		return reverts.ErrInsufficientStake
	}
	unstake, err := accrual.Add(a.UnstakeBalance, amount)
	if err != nil {
		return err
	}
	availableEpoch := now.Epoch + unlockEpochs
	if availableEpoch < now.Epoch {
		return reverts.ErrArithmeticOverflow
	}
	if err := a.Fold(height, rate); err != nil {
		return err
	}

	a.StakeBalance = new(uint256.Int).Sub(a.StakeBalance, amount)
	a.UnstakeBalance = unstake
	a.UnstakeStartTimestamp = now.Timestamp
	a.UnstakeAvailableEpoch = availableEpoch
	return nil
}

// CanWithdraw reports whether a withdraw at epoch would succeed.
func (a *Account) CanWithdraw(epoch uint64) bool {
	return !a.UnstakeBalance.IsZero() && epoch >= a.UnstakeAvailableEpoch
}

// Withdraw releases the unstake balance once the lock-up elapsed, folding the
// pending reward like every other mutation. It returns the record as it was
// before the withdraw.
func (a *Account) Withdraw(epoch, height uint64, rate accrual.Rate) (*Account, error) {
	if a.UnstakeBalance.IsZero() {
		return nil, reverts.ErrNothingToWithdraw
	}
	if epoch < a.UnstakeAvailableEpoch {
		return nil, reverts.ErrLockupNotElapsed
	}

	snapshot := a.Copy()
	if err := a.Fold(height, rate); err != nil {
		return nil, err
	}
	a.UnstakeBalance = new(uint256.Int)
	a.UnstakeStartTimestamp = 0
	a.UnstakeAvailableEpoch = 0
	return snapshot, nil
}
