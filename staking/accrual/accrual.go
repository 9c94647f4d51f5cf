// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package accrual computes the reward owed for staked balances.
package accrual

import (
	"github.com/holiman/uint256"
	"github.com/vechain/stakeledger/staking/reverts"
)

// Accrue returns the reward earned by balance between lastHeight and effectiveHeight
// at a rate of numerator/denominator per unit of balance per block.
// The product is computed on 256 bits and floored by the division.
func Accrue(balance *uint256.Int, lastHeight, effectiveHeight uint64, numerator, denominator uint32) (*uint256.Int, error) {
	if effectiveHeight < lastHeight {
		return nil, reverts.ErrClockRegression
	}
	if denominator == 0 {
		return nil, reverts.ErrInvalidRewardConfig
	}
	if balance.Gt(MaxAmount) {
		return nil, reverts.ErrArithmeticOverflow
	}

	elapsed := effectiveHeight - lastHeight
	if elapsed == 0 || balance.IsZero() || numerator == 0 {
		return new(uint256.Int), nil
	}

	x, overflow := new(uint256.Int).MulOverflow(balance, uint256.NewInt(uint64(numerator)))
	if overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	if _, overflow = x.MulOverflow(x, uint256.NewInt(elapsed)); overflow {
		return nil, reverts.ErrArithmeticOverflow
	}
	x.Div(x, uint256.NewInt(uint64(denominator)))

	if x.Gt(MaxAmount) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return x, nil
}

// EffectiveHeight returns the height accrual runs at: the frozen pause height while paused,
// otherwise the live height.
func EffectiveHeight(paused bool, pauseAtBlock, liveHeight uint64) uint64 {
	if paused {
		return pauseAtBlock
	}
	return liveHeight
}
