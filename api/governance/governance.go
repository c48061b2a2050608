// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"math/big"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
)

// Governance serves the ledger configuration and the administrator controls.
type Governance struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Governance {
	return &Governance{rt}
}

func (g *Governance) config() (*Config, error) {
	var cfg *Config
	err := g.rt.View(func(env *runtime.Env) error {
		c, err := env.Staker.Config()
		if err != nil {
			return err
		}
		cfg = convertConfig(c, env.Block)
		return nil
	})
	return cfg, utils.RevertError(err)
}

func (g *Governance) handleGetConfig(w http.ResponseWriter, _ *http.Request) error {
	cfg, err := g.config()
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, cfg)
}

// respond runs op and writes the resulting config.
func (g *Governance) respond(w http.ResponseWriter, op func() error) error {
	if err := op(); err != nil {
		return utils.RevertError(err)
	}
	return g.handleGetConfig(w, nil)
}

func parse[T any](req *http.Request) (*T, error) {
	var body T
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return nil, utils.BadRequest(errors.WithMessage(err, "body"))
	}
	return &body, nil
}

func (g *Governance) handlePause(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[CallerRequest](req)
	if err != nil {
		return err
	}
	return g.respond(w, func() error { return g.rt.Pause(body.Caller) })
}

func (g *Governance) handleUnpause(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[CallerRequest](req)
	if err != nil {
		return err
	}
	return g.respond(w, func() error { return g.rt.Unpause(body.Caller) })
}

func (g *Governance) handleRewardRate(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[RewardRateRequest](req)
	if err != nil {
		return err
	}
	if body.RewardPerBlock == nil {
		return utils.BadRequest(errors.New("rewardPerBlock: required"))
	}
	return g.respond(w, func() error {
		return g.rt.SetRewardRate(body.Caller, (*big.Int)(body.RewardPerBlock))
	})
}

func (g *Governance) handleDelayPeriod(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[PeriodRequest](req)
	if err != nil {
		return err
	}
	return g.respond(w, func() error { return g.rt.SetDelayPeriod(body.Caller, body.Blocks) })
}

func (g *Governance) handleUnbondingPeriod(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[PeriodRequest](req)
	if err != nil {
		return err
	}
	return g.respond(w, func() error { return g.rt.SetUnbondingPeriod(body.Caller, body.Blocks) })
}

func (g *Governance) handleAdministrator(w http.ResponseWriter, req *http.Request) error {
	body, err := parse[AdministratorRequest](req)
	if err != nil {
		return err
	}
	return g.respond(w, func() error { return g.rt.TransferAdministrator(body.Caller, body.Administrator) })
}

// Mount serves the config at configPath and the controls under adminPrefix.
func (g *Governance) Mount(root *mux.Router, configPath, adminPrefix string) {
	root.Path(configPath).
		Methods(http.MethodGet).
		Name("GET /config").
		HandlerFunc(utils.WrapHandlerFunc(g.handleGetConfig))

	sub := root.PathPrefix(adminPrefix).Subrouter()
	for path, handler := range map[string]utils.HandlerFunc{
		"/pause":            g.handlePause,
		"/unpause":          g.handleUnpause,
		"/reward-rate":      g.handleRewardRate,
		"/delay-period":     g.handleDelayPeriod,
		"/unbonding-period": g.handleUnbondingPeriod,
		"/administrator":    g.handleAdministrator,
	} {
		sub.Path(path).
			Methods(http.MethodPost).
			Name("POST " + adminPrefix + path).
			HandlerFunc(utils.WrapHandlerFunc(handler))
	}
}

