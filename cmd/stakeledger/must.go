// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"strings"
	"syscall"
	"time"

	"github.com/elastic/gosigar"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/stakeledger/clock"
	"github.com/vechain/stakeledger/eventdb"
	"github.com/vechain/stakeledger/log"
	"github.com/vechain/stakeledger/lvldb"
	"github.com/vechain/stakeledger/metrics"
)

const (
	minCacheMB    = 128
	avgRecordSize = 256 // bytes per cached state entry
)

func fatal(args ...any) {
	var w io.Writer
	if runtime.GOOS == "windows" {
		// The SameFile check below doesn't work on Windows.
		// stdout is unlikely to get redirected though, so just print there.
		w = os.Stdout
	} else {
		outf, _ := os.Stdout.Stat()
		errf, _ := os.Stderr.Stat()
		if outf != nil && errf != nil && os.SameFile(outf, errf) {
			w = os.Stderr
		} else {
			w = io.MultiWriter(os.Stdout, os.Stderr)
		}
	}
	fmt.Fprint(w, "Fatal: ")
	fmt.Fprintln(w, args...)
	os.Exit(1)
}

func initLogger(ctx *cli.Context) *slog.LevelVar {
	lvl := log.FromLegacyLevel(ctx.Int(verbosityFlag.Name))

	var level slog.LevelVar
	level.Set(lvl)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(os.Stderr, &level)
	} else {
		useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"
		handler = log.NewTerminalHandlerWithLevel(os.Stderr, &level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return &level
}

func homeDir() string {
	if home := os.Getenv("HOME"); home != "" {
		return home
	}
	if usr, err := user.Current(); err == nil {
		return usr.HomeDir
	}
	return ""
}

func defaultDataDir() string {
	if home := homeDir(); home != "" {
		return filepath.Join(home, ".stakeledger")
	}
	return ""
}

func makeDataDir(ctx *cli.Context) string {
	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		fatal(fmt.Sprintf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name))
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		fatal(fmt.Sprintf("create data dir [%v]: %v", dataDir, err))
	}
	return dataDir
}

// normalizeCacheSize keeps the cache at least minCacheMB and at most half of the total memory.
func normalizeCacheSize(sizeMB int) int {
	if sizeMB < minCacheMB {
		sizeMB = minCacheMB
	}

	var mem gosigar.Mem
	if err := mem.Get(); err != nil {
		logger.Warn("failed to get total mem", "err", err)
	} else {
		total := int(mem.Total / 1024 / 1024)
		half := total / 2

		// limit to not less than total/2 and up to total-2GB
		limitMB := max(total-2048, half)

		if sizeMB > limitMB {
			sizeMB = limitMB
			logger.Warn("cache size(MB) limited", "limit", limitMB)
		}
	}
	return sizeMB
}

// stateCacheEntries spends a quarter of the cache budget on decoded records.
func stateCacheEntries(cacheMB int) int {
	return cacheMB / 4 * 1024 * 1024 / avgRecordSize
}

func openMainDB(dataDir string, cacheMB int) *lvldb.LevelDB {
	path := filepath.Join(dataDir, "main.db")
	db, err := lvldb.New(path, lvldb.Options{
		CacheSize:              cacheMB / 2,
		OpenFilesCacheCapacity: 64,
	})
	if err != nil {
		fatal(fmt.Sprintf("open main database [%v]: %v", path, err))
	}
	return db
}

func openMemMainDB() *lvldb.LevelDB {
	db, err := lvldb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open main database: %v", err))
	}
	return db
}

func openEventDB(dataDir string) *eventdb.EventDB {
	path := filepath.Join(dataDir, "events.db")
	db, err := eventdb.New(path)
	if err != nil {
		fatal(fmt.Sprintf("open event database [%v]: %v", path, err))
	}
	return db
}

func openMemEventDB() *eventdb.EventDB {
	db, err := eventdb.NewMem()
	if err != nil {
		fatal(fmt.Sprintf("open event database: %v", err))
	}
	return db
}

// parseCORS splits the comma separated origins of the cors flag.
func parseCORS(value string) []string {
	var origins []string
	for origin := range strings.SplitSeq(value, ",") {
		if origin = strings.ToLower(strings.TrimSpace(origin)); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}

// serve runs srv on listener until ctx is done.
func serve(ctx context.Context, name string, srv *http.Server, listener net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("%v server: %w", name, err)
	case <-ctx.Done():
		logger.Info(fmt.Sprintf("stopping %v server...", name))
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}

func listen(name, addr string) net.Listener {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		fatal(fmt.Sprintf("listen %v addr [%v]: %v", name, addr, err))
	}
	return listener
}

func newAPIServer(handler http.Handler) *http.Server {
	return &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: time.Second,
		ReadTimeout:       5 * time.Second,
	}
}

func newMetricsServer() *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.HTTPHandler())
	return &http.Server{Handler: mux, ReadHeaderTimeout: time.Second}
}

// checkClockOffset warns when the local clock drifts more than half a block interval.
func checkClockOffset(ctx context.Context, server string, interval time.Duration) error {
	ticker := time.NewTicker(time.Minute)
	defer ticker.Stop()

	for {
		offset, err := clock.CheckOffset(server)
		if err != nil {
			logger.Debug("failed to access NTP", "err", err)
		} else if offset.Abs() > interval/2 {
			logger.Warn("clock offset detected", "offset", offset.String())
		} else {
			logger.Trace("clock offset", "offset", offset.String())
		}

		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		}
	}
}

func handleExitSignal() (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(exitSignalCh)

		select {
		case sig := <-exitSignalCh:
			logger.Info("exit signal received", "signal", sig)
			cancel()
		case <-ctx.Done():
		}
	}()
	return ctx, cancel
}

func printStartupMessage(w io.Writer, cfg *nodeConfig, eventDB *eventdb.EventDB, dataDir, apiURL, metricsURL string) {
	if dataDir == "" {
		dataDir = "Memory"
	}
	if metricsURL == "" {
		metricsURL = "Disabled"
	}
	fmt.Fprintf(w, `Starting %v
    Owner            [ %v ]
    Transfer channel [ %v ]
    Credentials      [ %v principals ]
    Reward rate      [ %v/%v per block ]
    Lock-up          [ %v epochs ]
    Clock            [ %v per block, %v blocks per epoch, genesis %v ]
    Data dir         [ %v ]
    Event DB         [ %v | sqlite %v ]
    API portal       [ %v ]
    Metrics          [ %v ]
`,
		fullVersion(),
		cfg.Staking.Owner,
		cfg.Staking.TransferChannel,
		len(cfg.Credentials),
		cfg.Staking.RewardNumerator, cfg.Staking.RewardDenominator,
		cfg.Staking.UnlockEpochs,
		cfg.BlockInterval, cfg.EpochLength, cfg.GenesisTime.Format(time.RFC3339),
		dataDir,
		eventDB.Path(), eventDB.DriverVersion(),
		apiURL,
		metricsURL,
	)
}

// warnMissingCredentials reports the privileged principals no token authenticates.
func warnMissingCredentials(cfg *nodeConfig) {
	known := make(map[string]bool, len(cfg.Credentials))
	for _, principal := range cfg.Credentials {
		known[principal] = true
	}
	if !known[cfg.Staking.Owner] {
		logger.Warn("no token for the owner, pause and resume are unavailable", "owner", cfg.Staking.Owner)
	}
	if !known[cfg.Staking.TransferChannel] {
		logger.Warn("no token for the transfer channel, deposits are unavailable", "channel", cfg.Staking.TransferChannel)
	}
}
