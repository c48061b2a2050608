// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package accounts

import (
	"math/big"
	"net/http"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/stakes"
	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

type Count struct {
	Count uint64 `json:"count"`
}

type Balance struct {
	Balance *math.HexOrDecimal256 `json:"balance"`
	// collectibles held directly, excluding the ones in custody
	Collectibles uint64 `json:"collectibles"`
}

type Accounts struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Accounts {
	return &Accounts{rt}
}

func parseAddress(req *http.Request) (vault.Address, error) {
	addr, err := vault.ParseAddress(mux.Vars(req)["address"])
	if err != nil {
		return vault.Address{}, utils.BadRequest(errors.WithMessage(err, "address"))
	}
	return addr, nil
}

func (a *Accounts) handleGetStakes(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	infos := make([]*stakes.StakeInfo, 0)
	err = a.rt.View(func(env *runtime.Env) error {
		records, err := env.Staker.StakesOf(addr)
		if err != nil {
			return err
		}
		for _, rec := range records {
			infos = append(infos, stakes.ConvertRecord(rec))
		}
		return nil
	})
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, infos)
}

func (a *Accounts) handleGetCount(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var count uint64
	err = a.rt.View(func(env *runtime.Env) (err error) {
		count, err = env.Staker.ActiveStakeCount(addr)
		return err
	})
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, Count{count})
}

func (a *Accounts) handleGetRewards(w http.ResponseWriter, req *http.Request) error {
	addr, err := parseAddress(req)
	if err != nil {
		return err
	}
	var (
		balance *big.Int
		held    uint64
	)
	err = a.rt.View(func(env *runtime.Env) (err error) {
		if balance, err = env.Rewards.BalanceOf(addr); err != nil {
			return err
		}
		held, err = env.Collectible.BalanceOf(addr)
		return err
	})
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, Balance{
		Balance:      (*math.HexOrDecimal256)(balance),
		Collectibles: held,
	})
}

func (a *Accounts) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{address}/stakes").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/stakes").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetStakes))
	sub.Path("/{address}/count").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/count").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetCount))
	sub.Path("/{address}/rewards").
		Methods(http.MethodGet).
		Name("GET /accounts/{address}/rewards").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetRewards))
}
