// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collectibles

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/stakes"
	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

type Collectible struct {
	TokenID   vault.TokenID `json:"tokenId"`
	Owner     vault.Address `json:"owner"`
	Approved  vault.Address `json:"approved"`
	InCustody bool          `json:"inCustody"`
}

type TransferRequest struct {
	Caller vault.Address `json:"caller"`
	To     vault.Address `json:"to"`
}

type ApprovalForAllRequest struct {
	Caller   vault.Address `json:"caller"`
	Operator vault.Address `json:"operator"`
	Approved bool          `json:"approved"`
}

type Collectibles struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Collectibles {
	return &Collectibles{rt}
}

func (c *Collectibles) collectible(tokenID vault.TokenID) (*Collectible, error) {
	var out *Collectible
	err := c.rt.View(func(env *runtime.Env) error {
		owner, err := env.Collectible.OwnerOf(tokenID)
		if err != nil {
			return err
		}
		approved, err := env.Collectible.GetApproved(tokenID)
		if err != nil {
			return err
		}
		out = &Collectible{
			TokenID:   tokenID,
			Owner:     owner,
			Approved:  approved,
			InCustody: owner == env.Staker.Address(),
		}
		return nil
	})
	return out, utils.RevertError(err)
}

func (c *Collectibles) handleGet(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := stakes.ParseTokenID(req)
	if err != nil {
		return err
	}
	out, err := c.collectible(tokenID)
	if err != nil {
		return err
	}
	return utils.WriteJSON(w, out)
}

func (c *Collectibles) handleMint(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := stakes.ParseTokenID(req)
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.rt.Mint(body.Caller, body.To, tokenID); err != nil {
		return utils.RevertError(err)
	}
	return c.handleGet(w, req)
}

func (c *Collectibles) handleApprove(w http.ResponseWriter, req *http.Request) error {
	tokenID, err := stakes.ParseTokenID(req)
	if err != nil {
		return err
	}
	var body TransferRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.rt.Approve(body.Caller, body.To, tokenID); err != nil {
		return utils.RevertError(err)
	}
	return c.handleGet(w, req)
}

func (c *Collectibles) handleApprovalForAll(w http.ResponseWriter, req *http.Request) error {
	var body ApprovalForAllRequest
	if err := utils.ParseJSON(req.Body, &body); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	if err := c.rt.SetApprovalForAll(body.Caller, body.Operator, body.Approved); err != nil {
		return utils.RevertError(err)
	}
	return utils.WriteJSON(w, body)
}

func (c *Collectibles) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/approval-for-all").
		Methods(http.MethodPost).
		Name("POST /collectibles/approval-for-all").
		HandlerFunc(utils.WrapHandlerFunc(c.handleApprovalForAll))
	sub.Path("/{tokenId}").
		Methods(http.MethodGet).
		Name("GET /collectibles/{tokenId}").
		HandlerFunc(utils.WrapHandlerFunc(c.handleGet))
	sub.Path("/{tokenId}/mint").
		Methods(http.MethodPost).
		Name("POST /collectibles/{tokenId}/mint").
		HandlerFunc(utils.WrapHandlerFunc(c.handleMint))
	sub.Path("/{tokenId}/approve").
		Methods(http.MethodPost).
		Name("POST /collectibles/{tokenId}/approve").
		HandlerFunc(utils.WrapHandlerFunc(c.handleApprove))
}
