// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accrual

import "github.com/holiman/uint256"

// Rate is the reward per unit of balance per block, Numerator/Denominator.
type Rate struct {
	Numerator   uint32
	Denominator uint32
}

// Accrue is Accrue at this rate.
func (r Rate) Accrue(balance *uint256.Int, lastHeight, effectiveHeight uint64) (*uint256.Int, error) {
	return Accrue(balance, lastHeight, effectiveHeight, r.Numerator, r.Denominator)
}
