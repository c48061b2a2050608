// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"fmt"
	"os"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vault/api"
	"github.com/vechain/vault/clock"
	"github.com/vechain/vault/health"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
	vaultrt "github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
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

func newApp() *cli.App {
	return &cli.App{
		Version:   fullVersion(),
		Name:      "Vault",
		Usage:     "Time-locked custodial staking ledger for collectibles",
		Copyright: "2025 VeChain Foundation <https://vechain.org/>",
		Flags: []cli.Flag{
			configFlag,
			dataDirFlag,
			memoryFlag,
			cacheFlag,
			administratorFlag,
			blockIntervalFlag,
			apiAddrFlag,
			apiCorsFlag,
			apiEventsLimitFlag,
			apiSlowQueriesThresholdFlag,
			enableAPILogsFlag,
			verbosityFlag,
			jsonLogsFlag,
			enableMetricsFlag,
			metricsAddrFlag,
			enableAdminFlag,
			adminAddrFlag,
		},
		Action: action,
	}
}

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func action(ctx *cli.Context) error {
	exitSignal := handleExitSignal()
	defer func() { logger.Info("exited") }()

	logLevel := initLogger(ctx)

	// must be done before any meter is loaded
	metricsEnabled := ctx.Bool(enableMetricsFlag.Name)
	if metricsEnabled {
		metrics.InitializePrometheusMetrics()
	}

	cfg, err := loadConfig(ctx.String(configFlag.Name))
	if err != nil {
		return err
	}
	var admin *vault.Address
	if s := ctx.String(administratorFlag.Name); s != "" {
		addr, err := vault.ParseAddress(s)
		if err != nil {
			return errors.WithMessage(err, administratorFlag.Name)
		}
		admin = &addr
	}

	dbs, err := openDatabases(ctx)
	if err != nil {
		return err
	}
	defer dbs.Close()

	blockInterval := cfg.Interval(ctx.Duration(blockIntervalFlag.Name))
	ticker, err := clock.NewTicker(dbs.main, blockInterval)
	if err != nil {
		return err
	}
	// one cache entry per 16KB of the cache budget
	rt, err := vaultrt.New(dbs.main, dbs.events, ticker, max(ctx.Int(cacheFlag.Name), 16)*64)
	if err != nil {
		return err
	}
	if err := initLedger(rt, cfg, admin); err != nil {
		return errors.WithMessage(err, "initialize ledger")
	}
	healthStatus := health.New()
	healthStatus.LedgerInitialized(true)

	apiLogs := &atomic.Bool{}
	apiLogs.Store(ctx.Bool(enableAPILogsFlag.Name))

	if metricsEnabled {
		url, closeFn, err := startMetricsServer(ctx.String(metricsAddrFlag.Name))
		if err != nil {
			return err
		}
		defer closeFn()
		logger.Info("metrics server started", "url", url)
	}

	if ctx.Bool(enableAdminFlag.Name) {
		url, closeFn, err := api.StartAdminServer(ctx.String(adminAddrFlag.Name), logLevel, apiLogs, healthStatus, blockInterval)
		if err != nil {
			return err
		}
		defer closeFn()
		logger.Info("admin server started", "url", url)
	}

	handler, closeSubs := api.New(rt, api.Options{
		AllowedOrigins:       ctx.String(apiCorsFlag.Name),
		EnableMetrics:        metricsEnabled,
		EnableReqLogger:      apiLogs,
		SlowQueriesThreshold: time.Duration(ctx.Uint64(apiSlowQueriesThresholdFlag.Name)) * time.Millisecond,
		EventsLimit:          ctx.Uint64(apiEventsLimitFlag.Name),
	})
	apiURL, closeAPI, err := startServer(ctx.String(apiAddrFlag.Name), handler, "API")
	if err != nil {
		closeSubs()
		return err
	}
	// hijacked websocket conns are not tracked by the server
	defer closeAPI()
	defer closeSubs()

	printStartupMessage(dbs, ticker, apiURL)

	g, gctx := errgroup.WithContext(exitSignal)
	g.Go(func() error {
		healthStatus.Run(gctx, ticker)
		return nil
	})
	g.Go(func() error {
		return ticker.Run(gctx)
	})
	return g.Wait()
}

func printStartupMessage(dbs *databases, ticker *clock.Ticker, apiURL string) {
	fmt.Printf(`Starting %v
    Head block      [ #%v ]
    Data dir        [ %v ]
    Event db        [ sqlite %v ]
    API portal      [ %v ]
`,
		"Vault/"+fullVersion(),
		ticker.Current(),
		dbs.dir,
		dbs.events.DriverVersion(),
		apiURL)
}
