// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"

	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/api"
	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/eventdb"
	"github.com/vechain/stakeledger/kv"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/metrics"
	"github.com/vechain/stakeledger/staking"
)

var (
	version   string
	gitCommit string
	gitTag    string

	logger = log.WithContext("pkg", "main")
)

func fullVersion() string {
	versionMeta := "release"
	if gitTag == "" {
		versionMeta = "dev"
	}
	return fmt.Sprintf("%s-%s-%s", version, gitCommit, versionMeta)
}

func main() {
	app := cli.App{
		Version:   fullVersion(),
		Name:      "Stakeledger",
		Usage:     "Staking ledger with per-block rewards and a pause switch",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			dataDirFlag,
			persistFlag,
			configFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			ownerFlag,
			transferChannelFlag,
			ownerTokenFlag,
			channelTokenFlag,
			accountTokenFlag,
			rewardNumeratorFlag,
			rewardDenominatorFlag,
			unlockEpochsFlag,
			genesisTimeFlag,
			blockIntervalFlag,
			epochLengthFlag,
			cacheFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			checkNTPFlag,
			ntpServerFlag,
		},
		Action: defaultAction,
		Commands: []cli.Command{
			{
				Name:      "account",
				Usage:     "print an account of a running node",
				ArgsUsage: "<id>",
				Flags:     []cli.Flag{nodeURLFlag},
				Action:    accountAction,
			},
			{
				Name:   "pool",
				Usage:  "print the pool of a running node",
				Flags:  []cli.Flag{nodeURLFlag},
				Action: poolAction,
			},
			{
				Name:      "events",
				Usage:     "print the events of a running node",
				ArgsUsage: "[id]",
				Flags:     []cli.Flag{nodeURLFlag, eventsKindFlag, eventsLimitFlag},
				Action:    eventsAction,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func defaultAction(ctx *cli.Context) error {
	exitSignal, cancel := handleExitSignal()
	defer cancel()

	defer func() { logger.Info("exited") }()

	initLogger(ctx)

	cfg, err := makeNodeConfig(ctx)
	if err != nil {
		return err
	}

	if ctx.Bool(enableMetricsFlag.Name) {
		metrics.InitializePrometheusMetrics()
	}

	cacheMB := normalizeCacheSize(ctx.Int(cacheFlag.Name))
	logger.Debug("cache size(MB)", "size", cacheMB)

	var (
		mainDB  kv.Store
		eventDB *eventdb.EventDB
		dataDir string
	)
	if ctx.Bool(persistFlag.Name) {
		dataDir = makeDataDir(ctx)
		db := openMainDB(dataDir, cacheMB)
		mainDB = db
		defer func() { logger.Info("closing main database..."); db.Close() }()
		eventDB = openEventDB(dataDir)
	} else {
		db := openMemMainDB()
		mainDB = db
		defer func() { logger.Info("closing main database..."); db.Close() }()
		eventDB = openMemEventDB()
	}
	defer func() { logger.Info("closing event database..."); eventDB.Close() }()

	clk := clock.NewWall(cfg.GenesisTime, cfg.BlockInterval, cfg.EpochLength)
	staker, err := staking.New(mainDB, clk, cfg.Staking, eventDB, stateCacheEntries(cacheMB))
	if err != nil {
		return err
	}

	handler := api.New(staker, eventDB, api.Options{
		AllowedOrigins:  parseCORS(ctx.String(apiCorsFlag.Name)),
		Credentials:     cfg.Credentials,
		EnableReqLogger: ctx.Bool(enableAPILogsFlag.Name),
		EnableMetrics:   ctx.Bool(enableMetricsFlag.Name),
		EventsLimit:     ctx.Uint64(apiEventsLimitFlag.Name),
	})

	group, groupCtx := errgroup.WithContext(exitSignal)

	apiListener := listen("API", ctx.String(apiAddrFlag.Name))
	apiURL := "http://" + apiListener.Addr().String()
	group.Go(func() error {
		return serve(groupCtx, "API", newAPIServer(handler), apiListener)
	})

	var metricsURL string
	if ctx.Bool(enableMetricsFlag.Name) {
		metricsListener := listen("metrics", ctx.String(metricsAddrFlag.Name))
		metricsURL = "http://" + metricsListener.Addr().String() + "/metrics"
		group.Go(func() error {
			return serve(groupCtx, "metrics", newMetricsServer(), metricsListener)
		})
	}

	if ctx.Bool(checkNTPFlag.Name) {
		server := ctx.String(ntpServerFlag.Name)
		group.Go(func() error {
			return checkClockOffset(groupCtx, server, clk.Interval())
		})
	}

	warnMissingCredentials(cfg)
	printStartupMessage(os.Stdout, cfg, eventDB, dataDir, apiURL, metricsURL)

	return group.Wait()
}
