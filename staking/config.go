// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staking

import (
	"github.com/pkg/errors"
	"github.com/vechain/stakeledger/staking/accrual"
	"github.com/vechain/stakeledger/staking/reverts"
)

// Defaults of the reward rate and lock-up.
const (
	DefaultRewardNumerator   = 715
	DefaultRewardDenominator = 1_000_000_000
	DefaultUnlockEpochs      = 1
)

// Config is fixed for the lifetime of a ledger.
type Config struct {
	Owner             string // may pause and resume
	TransferChannel   string // the only caller allowed to deposit
	RewardNumerator   uint32
	RewardDenominator uint32
	UnlockEpochs      uint64
}

// DefaultConfig returns the default rate and lock-up for the given principals.
func DefaultConfig(owner, transferChannel string) Config {
	return Config{
		Owner:             owner,
		TransferChannel:   transferChannel,
		RewardNumerator:   DefaultRewardNumerator,
		RewardDenominator: DefaultRewardDenominator,
		UnlockEpochs:      DefaultUnlockEpochs,
	}
}

// Validate checks the config can run a ledger.
func (c Config) Validate() error {
	if c.RewardDenominator == 0 {
		return reverts.ErrInvalidRewardConfig
	}
	if c.Owner == "" {
		return errors.New("owner is empty")
	}
	if c.TransferChannel == "" {
		return errors.New("transfer channel is empty")
	}
	return nil
}

// Rate returns the reward rate.
func (c Config) Rate() accrual.Rate {
	return accrual.Rate{Numerator: c.RewardNumerator, Denominator: c.RewardDenominator}
}
