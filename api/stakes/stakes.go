// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

type Stakes struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Stakes {
	return &Stakes{rt}
}

// ParseTokenID reads the {tokenId} path variable.
func ParseTokenID(req *http.Request) (vault.TokenID, error) {
	id, err := vault.ParseTokenID(mux.Vars(req)["tokenId"])
	if err != nil {
		return vault.TokenID{}, utils.BadRequest(errors.WithMessage(err, "tokenId"))
	}
	return id, nil
}

func (s *Stakes) stakeInfo(tokenID vault.TokenID) (*StakeInfo, error) {
	var info *StakeInfo
	err := s.rt.View(func(env *runtime.Env) error {
		rec, err := env.Staker.GetStakeInfo(tokenID)
		if err != nil {
			return err
		}
		info = ConvertRecord(rec)
		return nil
	})
	return info, utils.RevertError(err)
}

func (s *Stakes) handleGetStake(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := ParseTokenID(req)
	if err != nil {
		return err
	}
	info, err := s.stakeInfo(tokenID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (s *Stakes) handleGetReward(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := ParseTokenID(req)
	if err != nil {
		return err
	}
	var reward *Reward
	err = s.rt.View(func(env *runtime.Env) error {
		amount, err := env.Staker.PendingReward(tokenID, env.Block)
		if err != nil {
			return err
		}
		reward = newReward(tokenID, env.Block, amount)
		return nil
	})
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, reward)
}

func (s *Stakes) handleStake(w http.ResponseWriter, req *http.Request) error {
	var body StakeRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.Stake(body.Caller, body.TokenID); err != nil {
		return utils.RevertError(err)
	}
	info, err := s.stakeInfo(body.TokenID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (s *Stakes) handleUnbond(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := ParseTokenID(req)
	if err != nil {
		return err
	}
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := s.rt.BeginUnbonding(body.Caller, tokenID); err != nil {
		return utils.RevertError(err)
	}
	info, err := s.stakeInfo(tokenID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, info)
}

func (s *Stakes) handleWithdraw(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := ParseTokenID(req)
	if err != nil {
		return err
	}
	var body CallerRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	amount, block, err := s.rt.Withdraw(body.Caller, tokenID)
	if err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, newReward(tokenID, block, amount))
}

func (s *Stakes) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /stakes").
		HandlerFunc(utils.WrapHandlerFunc(s.handleStake))
	sub.Path("/{tokenId}").
		Methods(http.MethodGet).
		Name("GET /stakes/{tokenId}").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetStake))
	sub.Path("/{tokenId}/reward").
		Methods(http.MethodGet).
		Name("GET /stakes/{tokenId}/reward").
		HandlerFunc(utils.WrapHandlerFunc(s.handleGetReward))
	sub.Path("/{tokenId}/unbond").
		Methods(http.MethodPost).
		Name("POST /stakes/{tokenId}/unbond").
		HandlerFunc(utils.WrapHandlerFunc(s.handleUnbond))
	sub.Path("/{tokenId}/withdraw").
		Methods(http.MethodPost).
		Name("POST /stakes/{tokenId}/withdraw").
		HandlerFunc(utils.WrapHandlerFunc(s.handleWithdraw))
}
