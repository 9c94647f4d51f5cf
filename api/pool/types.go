// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package pool

import "github.com/vechain/stakeledger/staking"

type PoolInfo struct {
	TotalStakeBalance      string `json:"totalStakeBalance"`
	PreReward              string `json:"preReward"`
	TotalPaidRewardBalance string `json:"totalPaidRewardBalance"`
	TotalStakers           string `json:"totalStakers"`
	LastBlockBalanceChange uint64 `json:"lastBlockBalanceChange"`
	Reward                 string `json:"reward"`
	EffectiveHeight        uint64 `json:"effectiveHeight"`
	Paused                 bool   `json:"paused"`
}

func convertPoolInfo(info *staking.PoolInfo) *PoolInfo {
	return &PoolInfo{
		TotalStakeBalance:      info.Pool.TotalStakeBalance.Dec(),
		PreReward:              info.Pool.PreReward.Dec(),
		TotalPaidRewardBalance: info.Pool.TotalPaidRewardBalance.Dec(),
		TotalStakers:           info.Pool.TotalStakers.Dec(),
		LastBlockBalanceChange: info.Pool.LastBlockBalanceChange,
		Reward:                 info.Reward.Dec(),
		EffectiveHeight:        info.EffectiveHeight,
		Paused:                 info.Paused,
	}
}

type Status struct {
	Paused bool `json:"paused"`
}

type Config struct {
	Owner             string `json:"owner"`
	TransferChannel   string `json:"transferChannel"`
	RewardNumerator   uint32 `json:"rewardNumerator"`
	RewardDenominator uint32 `json:"rewardDenominator"`
	UnlockEpochs      uint64 `json:"unlockEpochs"`
}

func convertConfig(cfg staking.Config) *Config {
	return &Config{
		Owner:             cfg.Owner,
		TransferChannel:   cfg.TransferChannel,
		RewardNumerator:   cfg.RewardNumerator,
		RewardDenominator: cfg.RewardDenominator,
		UnlockEpochs:      cfg.UnlockEpochs,
	}
}
