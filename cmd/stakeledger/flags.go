// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/staking"
)

var (
	dataDirFlag = cli.StringFlag{
		Name:  "data-dir",
		Value: defaultDataDir(),
		Usage: "directory for ledger databases",
	}
	persistFlag = cli.BoolFlag{
		Name:  "persist",
		Usage: "keep the ledger in data-dir, otherwise it lives in memory",
	}
	configFlag = cli.StringFlag{
		Name:  "config",
		Usage: "path to a YAML instance config, flags override its values",
	}
	apiAddrFlag = cli.StringFlag{
		Name:  "api-addr",
		Value: "localhost:8669",
		Usage: "API service listening address",
	}
	apiCorsFlag = cli.StringFlag{
		Name:  "api-cors",
		Value: "",
		Usage: "comma separated list of domains from which to accept cross origin requests to API",
	}
	apiEventsLimitFlag = cli.Uint64Flag{
		Name:  "api-events-limit",
		Value: 1000,
		Usage: "limit the number of events returned by /events API",
	}
	enableAPILogsFlag = cli.BoolFlag{
		Name:  "enable-api-logs",
		Usage: "enables API requests logging",
	}
	verbosityFlag = cli.IntFlag{
		Name:  "verbosity",
		Value: 3,
		Usage: "log verbosity (0-5)",
	}
	jsonLogsFlag = cli.BoolFlag{
		Name:  "json-logs",
		Usage: "output logs in JSON format",
	}
	ownerFlag = cli.StringFlag{
		Name:  "owner",
		Usage: "principal allowed to pause and resume",
	}
	transferChannelFlag = cli.StringFlag{
		Name:  "transfer-channel",
		Usage: "principal allowed to deposit",
	}
	ownerTokenFlag = cli.StringFlag{
		Name:   "owner-token",
		Usage:  "bearer token authenticating the owner",
		EnvVar: "STAKELEDGER_OWNER_TOKEN",
	}
	channelTokenFlag = cli.StringFlag{
		Name:   "channel-token",
		Usage:  "bearer token authenticating the transfer channel",
		EnvVar: "STAKELEDGER_CHANNEL_TOKEN",
	}
	accountTokenFlag = cli.StringSliceFlag{
		Name:  "account-token",
		Usage: "bearer token of an account as <id>=<token>, repeatable",
	}
	rewardNumeratorFlag = cli.UintFlag{
		Name:  "reward-numerator",
		Value: staking.DefaultRewardNumerator,
		Usage: "reward rate numerator per block",
	}
	rewardDenominatorFlag = cli.UintFlag{
		Name:  "reward-denominator",
		Value: staking.DefaultRewardDenominator,
		Usage: "reward rate denominator per block",
	}
	unlockEpochsFlag = cli.Uint64Flag{
		Name:  "unlock-epochs",
		Value: staking.DefaultUnlockEpochs,
		Usage: "epochs an unstaked balance stays locked",
	}
	genesisTimeFlag = cli.StringFlag{
		Name:  "genesis-time",
		Value: defaultGenesisTime,
		Usage: "RFC3339 time of height 0",
	}
	blockIntervalFlag = cli.DurationFlag{
		Name:  "block-interval",
		Value: clock.DefaultBlockInterval,
		Usage: "time between two heights",
	}
	epochLengthFlag = cli.Uint64Flag{
		Name:  "epoch-length",
		Value: clock.DefaultEpochLength,
		Usage: "heights per epoch",
	}
	cacheFlag = cli.IntFlag{
		Name:  "cache",
		Value: 256,
		Usage: "megabytes of ram allocated to the ledger database cache",
	}
	enableMetricsFlag = cli.BoolFlag{
		Name:  "enable-metrics",
		Usage: "enables metrics collection",
	}
	metricsAddrFlag = cli.StringFlag{
		Name:  "metrics-addr",
		Value: "localhost:2112",
		Usage: "metrics service listening address",
	}
	checkNTPFlag = cli.BoolFlag{
		Name:  "check-ntp",
		Usage: "periodically compare the local clock with an NTP server",
	}
	ntpServerFlag = cli.StringFlag{
		Name:  "ntp-server",
		Value: "pool.ntp.org",
		Usage: "NTP server used by --check-ntp",
	}

	// query subcommands
	nodeURLFlag = cli.StringFlag{
		Name:  "node",
		Value: "http://localhost:8669",
		Usage: "URL of a running node",
	}
)
