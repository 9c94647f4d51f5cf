// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"maps"
	"math"
	"os"
	"strings"
	"time"

	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"
	"gopkg.in/yaml.v3"

	"github.com/vechain/stakeledger/api/utils"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/staking"
)

const defaultGenesisTime = "2025-01-01T00:00:00Z"

// instanceConfig is the YAML form of the ledger parameters.
type instanceConfig struct {
	Owner             string        `yaml:"owner"`
	TransferChannel   string        `yaml:"transferChannel"`
	RewardNumerator   *uint64       `yaml:"rewardNumerator"`
	RewardDenominator *uint64       `yaml:"rewardDenominator"`
	UnlockEpochs      *uint64       `yaml:"unlockEpochs"`
	BlockInterval     time.Duration `yaml:"blockInterval"`
	EpochLength       uint64        `yaml:"epochLength"`
	GenesisTime       *time.Time    `yaml:"genesisTime"`

	// Tokens maps principals to the bearer token that authenticates them.
	Tokens map[string]string `yaml:"tokens"`
}

type nodeConfig struct {
	Staking       staking.Config
	BlockInterval time.Duration
	EpochLength   uint64
	GenesisTime   time.Time
	Credentials   utils.Credentials
}

func loadInstanceConfig(path string) (*instanceConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var cfg instanceConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, errors.Wrapf(err, "decode %v", path)
	}
	return &cfg, nil
}

// makeNodeConfig resolves the parameters from defaults, then the config file,
// then the flags explicitly set on the command line.
func makeNodeConfig(ctx *cli.Context) (*nodeConfig, error) {
	genesis, err := time.Parse(time.RFC3339, defaultGenesisTime)
	if err != nil {
		return nil, err
	}
	cfg := &nodeConfig{
		Staking:       staking.DefaultConfig("", ""),
		BlockInterval: clock.DefaultBlockInterval,
		EpochLength:   clock.DefaultEpochLength,
		GenesisTime:   genesis,
	}
	tokens := make(map[string]string)

	if path := ctx.String(configFlag.Name); path != "" {
		file, err := loadInstanceConfig(path)
		if err != nil {
			return nil, errors.WithMessage(err, "load config")
		}
		if err := file.apply(cfg); err != nil {
			return nil, err
		}
		maps.Copy(tokens, file.Tokens)
	}

	if ctx.IsSet(ownerFlag.Name) {
		cfg.Staking.Owner = ctx.String(ownerFlag.Name)
	}
	if ctx.IsSet(transferChannelFlag.Name) {
		cfg.Staking.TransferChannel = ctx.String(transferChannelFlag.Name)
	}
	if ctx.IsSet(rewardNumeratorFlag.Name) {
		if cfg.Staking.RewardNumerator, err = toUint32(rewardNumeratorFlag.Name, uint64(ctx.Uint(rewardNumeratorFlag.Name))); err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(rewardDenominatorFlag.Name) {
		if cfg.Staking.RewardDenominator, err = toUint32(rewardDenominatorFlag.Name, uint64(ctx.Uint(rewardDenominatorFlag.Name))); err != nil {
			return nil, err
		}
	}
	if ctx.IsSet(unlockEpochsFlag.Name) {
		cfg.Staking.UnlockEpochs = ctx.Uint64(unlockEpochsFlag.Name)
	}
	if ctx.IsSet(blockIntervalFlag.Name) {
		cfg.BlockInterval = ctx.Duration(blockIntervalFlag.Name)
	}
	if ctx.IsSet(epochLengthFlag.Name) {
		cfg.EpochLength = ctx.Uint64(epochLengthFlag.Name)
	}
	if ctx.IsSet(genesisTimeFlag.Name) {
		t, err := time.Parse(time.RFC3339, ctx.String(genesisTimeFlag.Name))
		if err != nil {
			return nil, errors.Wrapf(err, "invalid %v", genesisTimeFlag.Name)
		}
		cfg.GenesisTime = t
	}

	for _, entry := range ctx.StringSlice(accountTokenFlag.Name) {
		id, token, ok := strings.Cut(entry, "=")
		if !ok || id == "" {
			return nil, errors.Errorf("invalid %v: want <id>=<token>", accountTokenFlag.Name)
		}
		tokens[id] = token
	}
	if ctx.IsSet(ownerTokenFlag.Name) {
		tokens[cfg.Staking.Owner] = ctx.String(ownerTokenFlag.Name)
	}
	if ctx.IsSet(channelTokenFlag.Name) {
		tokens[cfg.Staking.TransferChannel] = ctx.String(channelTokenFlag.Name)
	}
	if cfg.Credentials, err = makeCredentials(tokens); err != nil {
		return nil, err
	}

	if cfg.BlockInterval <= 0 {
		return nil, errors.New("block interval must be positive")
	}
	if cfg.EpochLength == 0 {
		return nil, errors.New("epoch length must be positive")
	}
	if err := cfg.Staking.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (f *instanceConfig) apply(cfg *nodeConfig) (err error) {
	if f.Owner != "" {
		cfg.Staking.Owner = f.Owner
	}
	if f.TransferChannel != "" {
		cfg.Staking.TransferChannel = f.TransferChannel
	}
	if f.RewardNumerator != nil {
		if cfg.Staking.RewardNumerator, err = toUint32("rewardNumerator", *f.RewardNumerator); err != nil {
			return
		}
	}
	if f.RewardDenominator != nil {
		if cfg.Staking.RewardDenominator, err = toUint32("rewardDenominator", *f.RewardDenominator); err != nil {
			return
		}
	}
	if f.UnlockEpochs != nil {
		cfg.Staking.UnlockEpochs = *f.UnlockEpochs
	}
	if f.BlockInterval != 0 {
		cfg.BlockInterval = f.BlockInterval
	}
	if f.EpochLength != 0 {
		cfg.EpochLength = f.EpochLength
	}
	if f.GenesisTime != nil {
		cfg.GenesisTime = *f.GenesisTime
	}
	return nil
}

// makeCredentials inverts principal tokens into the lookup the API authenticates with.
// Every token must be non-empty and name a single principal.
func makeCredentials(tokens map[string]string) (utils.Credentials, error) {
	creds := make(utils.Credentials, len(tokens))
	for principal, token := range tokens {
		if token == "" {
			return nil, errors.Errorf("empty token for %v", principal)
		}
		if other, ok := creds[token]; ok {
			return nil, errors.Errorf("%v and %v share a token", other, principal)
		}
		creds[token] = principal
	}
	return creds, nil
}

func toUint32(name string, v uint64) (uint32, error) {
	if v > math.MaxUint32 {
		return 0, errors.Errorf("%v out of range: %v", name, v)
	}
	return uint32(v), nil
}
