// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package main

import (
	"context"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/signal"
	"os/user"
	"path/filepath"
	"runtime"
	"syscall"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/mattn/go-isatty"
	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"
	cli "gopkg.in/urfave/cli.v1"

	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/metrics"
	vaultrt "github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

func initLogger(ctx *cli.Context) *slog.LevelVar {
	logLevel := log.FromLegacyLevel(int(ctx.Uint64(verbosityFlag.Name)))
	output := io.Writer(os.Stderr)
	useColor := (isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd())) && os.Getenv("TERM") != "dumb"

	level := new(slog.LevelVar)
	level.Set(logLevel)

	var handler slog.Handler
	if ctx.Bool(jsonLogsFlag.Name) {
		handler = log.JSONHandlerWithLevel(output, level)
	} else {
		handler = log.NewTerminalHandlerWithLevel(output, level, useColor)
	}
	log.SetDefault(log.NewLogger(handler))
	return level
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
	home := homeDir()
	if home == "" {
		return ""
	}
	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "org.vechain.vault")
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "org.vechain.vault")
	default:
		return filepath.Join(home, ".org.vechain.vault")
	}
}

type databases struct {
	main   *lvldb.LevelDB
	events *eventdb.EventDB
	dir    string
}

func (d *databases) Close() {
	logger.Info("closing event database...")
	if err := d.events.Close(); err != nil {
		logger.Warn("failed to close event database", "err", err)
	}
	logger.Info("closing main database...")
	if err := d.main.Close(); err != nil {
		logger.Warn("failed to close main database", "err", err)
	}
}

func openDatabases(ctx *cli.Context) (*databases, error) {
	if ctx.Bool(memoryFlag.Name) {
		main, err := lvldb.NewMem()
		if err != nil {
			return nil, err
		}
		events, err := eventdb.NewMem()
		if err != nil {
			main.Close()
			return nil, err
		}
		return &databases{main, events, "Memory"}, nil
	}

	dataDir := ctx.String(dataDirFlag.Name)
	if dataDir == "" {
		return nil, errors.Errorf("unable to infer default data dir, use -%s to specify", dataDirFlag.Name)
	}
	if err := os.MkdirAll(dataDir, 0o700); err != nil {
		return nil, errors.Wrapf(err, "create data dir [%v]", dataDir)
	}

	cacheMB := max(ctx.Int(cacheFlag.Name), 16)
	main, err := lvldb.New(filepath.Join(dataDir, "main.db"), lvldb.Options{
		CacheSize:              cacheMB,
		OpenFilesCacheCapacity: 500,
	})
	if err != nil {
		return nil, errors.Wrap(err, "open main database")
	}
	events, err := eventdb.New(filepath.Join(dataDir, "events.db"))
	if err != nil {
		main.Close()
		return nil, errors.Wrap(err, "open event database")
	}
	return &databases{main, events, dataDir}, nil
}

// initLedger writes the config and mints the initial collectibles on first start.
func initLedger(rt *vaultrt.Runtime, cfg *Config, admin *vault.Address) error {
	stakerCfg, err := cfg.StakerConfig(admin)
	if err != nil {
		return err
	}
	ids, err := cfg.TokenIDs()
	if err != nil {
		return err
	}
	return rt.Exec("initialize", func(env *vaultrt.Env) error {
		initialized, err := env.Staker.IsInitialized()
		if err != nil || initialized {
			return err
		}
		if err := env.Staker.Initialize(stakerCfg); err != nil {
			return err
		}
		// no minter is set yet, owners mint their own tokens
		for i, id := range ids {
			owner := cfg.Mints[i].Owner
			if err := env.Collectible.Mint(owner, owner, id); err != nil {
				return errors.WithMessagef(err, "mint token %v", id)
			}
		}
		// minting stays open to anyone when no minter is configured
		if cfg.Minter != nil {
			if err := env.Collectible.SetMinter(*cfg.Minter); err != nil {
				return err
			}
		}
		logger.Info("ledger initialized",
			"administrator", stakerCfg.Administrator,
			"rewardPerBlock", stakerCfg.RewardPerBlock,
			"delay", stakerCfg.DelayPeriod,
			"unbonding", stakerCfg.UnbondingPeriod,
			"mints", len(ids))
		return nil
	})
}

func startServer(addr string, handler http.Handler, name string) (string, func(), error) {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return "", nil, errors.Wrapf(err, "listen %v addr [%v]", name, addr)
	}
	srv := &http.Server{Handler: handler, ReadHeaderTimeout: time.Second, ReadTimeout: 5 * time.Second}
	var g errgroup.Group
	g.Go(func() error {
		if err := srv.Serve(listener); err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	return "http://" + listener.Addr().String(), func() {
		logger.Info("stopping " + name + " server...")
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.Close()
		}
		if err := g.Wait(); err != nil {
			logger.Warn(name+" server stopped", "err", err)
		}
	}, nil
}

func startMetricsServer(addr string) (string, func(), error) {
	router := mux.NewRouter()
	router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
	url, closeFn, err := startServer(addr, handlers.CompressHandler(router), "metrics")
	if err != nil {
		return "", nil, err
	}
	return url + "/metrics", closeFn, nil
}

func handleExitSignal() context.Context {
	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		exitSignalCh := make(chan os.Signal, 1)
		signal.Notify(exitSignalCh, os.Interrupt, syscall.SIGTERM)

		sig := <-exitSignalCh
		logger.Info("exit signal received", "signal", sig)
		cancel()
	}()
	return ctx
}
