// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"github.com/vechain/stakeledger/staking"
	"github.com/vechain/stakeledger/staking/account"
)

// Account is the JSON form of an account record. Amounts are decimal strings.
type Account struct {
	StakeBalance          string `json:"stakeBalance"`
	PreReward             string `json:"preReward"`
	LastUpdateHeight      uint64 `json:"lastUpdateHeight"`
	UnstakeBalance        string `json:"unstakeBalance"`
	UnstakeStartTimestamp uint64 `json:"unstakeStartTimestamp"`
	UnstakeAvailableEpoch uint64 `json:"unstakeAvailableEpoch"`
	PaidReward            string `json:"paidReward"`
}

func convertAccount(acc *account.Account) *Account {
	return &Account{
		StakeBalance:          acc.StakeBalance.Dec(),
		PreReward:             acc.PreReward.Dec(),
		LastUpdateHeight:      acc.LastUpdateHeight,
		UnstakeBalance:        acc.UnstakeBalance.Dec(),
		UnstakeStartTimestamp: acc.UnstakeStartTimestamp,
		UnstakeAvailableEpoch: acc.UnstakeAvailableEpoch,
		PaidReward:            acc.PaidReward.Dec(),
	}
}

type AccountInfo struct {
	ID string `json:"id"`
	Account
	Reward          string `json:"reward"`
	EffectiveHeight uint64 `json:"effectiveHeight"`
	CanWithdraw     bool   `json:"canWithdraw"`
}

func convertAccountInfo(info *staking.AccountInfo) *AccountInfo {
	return &AccountInfo{
		ID:              info.ID,
		Account:         *convertAccount(info.Account),
		Reward:          info.Reward.Dec(),
		EffectiveHeight: info.EffectiveHeight,
		CanWithdraw:     info.CanWithdraw,
	}
}

type StorageBalance struct {
	ID      string `json:"id"`
	Balance uint64 `json:"balance"`
}

type StakeRequest struct {
	Amount string `json:"amount"`
}

type UnstakeRequest struct {
	Amount string `json:"amount"`
}
