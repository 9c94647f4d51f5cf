// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import (
	"github.com/holiman/uint256"
	"github.com/vechain/stakeledger/staking/reverts"
)

// MaxAmount is the largest amount the ledger stores, 2^128 - 1.
var MaxAmount = new(uint256.Int).Sub(new(uint256.Int).Lsh(uint256.NewInt(1), 128), uint256.NewInt(1))

// Add returns a+b, failing when the sum leaves the amount range.
func Add(a, b *uint256.Int) (*uint256.Int, error) {
	sum, overflow := new(uint256.Int).AddOverflow(a, b)
	if overflow || sum.Gt(MaxAmount) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return sum, nil
}

// Sub returns a-b, failing when b exceeds a.
func Sub(a, b *uint256.Int) (*uint256.Int, error) {
	if b.Gt(a) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return new(uint256.Int).Sub(a, b), nil
}

// Zero returns a new zero amount.
func Zero() *uint256.Int {
	return new(uint256.Int)
}

// ParseAmount parses a decimal amount, rejecting values out of the amount range.
func ParseAmount(s string) (*uint256.Int, error) {
	v, err := uint256.FromDecimal(s)
	if err != nil {
		return nil, err
	}
	if v.Gt(MaxAmount) {
		return nil, reverts.ErrArithmeticOverflow
	}
	return v, nil
}
