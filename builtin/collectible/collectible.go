// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package collectible is an in-state registry of unique tokens with ERC-721 style
// ownership and approvals.
package collectible

import (
	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

var logger = log.WithContext("pkg", "collectible")

var (
	ErrTokenExists         = reverts.New("collectible: token already minted")
	ErrTokenNotFound       = reverts.New("collectible: token not found")
	ErrNotMinter           = reverts.New("collectible: caller is not the minter")
	ErrNotOwnerNorApproved = reverts.New("collectible: caller is not token owner nor approved")
	ErrWrongFrom           = reverts.New("collectible: transfer from incorrect owner")
	ErrZeroAddress         = reverts.New("collectible: zero address")
	ErrSelfApproval        = reverts.New("collectible: approval to current owner")
)

var (
	slotMinter    = solidity.Slot("collectible-minter")
	slotOwners    = solidity.Slot("collectible-owners")
	slotApprovals = solidity.Slot("collectible-approvals")
	slotOperators = solidity.Slot("collectible-operators")
	slotBalances  = solidity.Slot("collectible-balances")
)

// operatorKey is the (owner, operator) pair of an approval for all.
type operatorKey struct {
	owner    vault.Address
	operator vault.Address
}

func (k operatorKey) Bytes() []byte {
	return append(k.owner.Bytes(), k.operator.Bytes()...)
}

// Collectible binder of the `Collectible` contract.
type Collectible struct {
	minter    *solidity.Address
	owners    *solidity.Mapping[vault.TokenID, vault.Address]
	approvals *solidity.Mapping[vault.TokenID, vault.Address]
	operators *solidity.Mapping[operatorKey, bool]
	balances  *solidity.Mapping[vault.Address, uint64]
}

func New(addr vault.Address, state *state.State) *Collectible {
	sctx := solidity.NewContext(addr, state)
	return &Collectible{
		minter:    solidity.NewAddress(sctx, slotMinter),
		owners:    solidity.NewMapping[vault.TokenID, vault.Address](sctx, slotOwners),
		approvals: solidity.NewMapping[vault.TokenID, vault.Address](sctx, slotApprovals),
		operators: solidity.NewMapping[operatorKey, bool](sctx, slotOperators),
		balances:  solidity.NewMapping[vault.Address, uint64](sctx, slotBalances),
	}
}

func (c *Collectible) Minter() (vault.Address, error) {
	return c.minter.Get()
}

// SetMinter sets the account allowed to mint. An unset minter lets anyone mint.
func (c *Collectible) SetMinter(minter vault.Address) error {
	return c.minter.Set(&minter)
}

// OwnerOf returns the owner of tokenID.
func (c *Collectible) OwnerOf(tokenID vault.TokenID) (vault.Address, error) {
	owner, err := c.owners.Get(tokenID)
	if err != nil {
		return vault.Address{}, errors.Wrap(err, "failed to get owner")
	}
	if owner.IsZero() {
		return vault.Address{}, ErrTokenNotFound
	}
	return owner, nil
}

func (c *Collectible) BalanceOf(owner vault.Address) (uint64, error) {
	return c.balances.Get(owner)
}

func (c *Collectible) GetApproved(tokenID vault.TokenID) (vault.Address, error) {
	if _, err := c.OwnerOf(tokenID); err != nil {
		return vault.Address{}, err
	}
	return c.approvals.Get(tokenID)
}

func (c *Collectible) IsApprovedForAll(owner, operator vault.Address) (bool, error) {
	return c.operators.Get(operatorKey{owner, operator})
}

// Mint creates tokenID owned by to.
func (c *Collectible) Mint(caller, to vault.Address, tokenID vault.TokenID) error {
	minter, err := c.minter.Get()
	if err != nil {
		return err
	}
	if !minter.IsZero() && caller != minter {
		return ErrNotMinter
	}
	if to.IsZero() {
		return ErrZeroAddress
	}
	exists, err := c.owners.Exists(tokenID)
	if err != nil {
		return err
	}
	if exists {
		return ErrTokenExists
	}
	if err := c.owners.Set(tokenID, to); err != nil {
		return err
	}
	if err := c.addBalance(to, 1); err != nil {
		return err
	}
	logger.Debug("minted", "tokenID", tokenID, "to", to)
	return nil
}

// Approve lets to transfer tokenID on behalf of its owner.
func (c *Collectible) Approve(caller, to vault.Address, tokenID vault.TokenID) error {
	owner, err := c.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	if to == owner {
		return ErrSelfApproval
	}
	if caller != owner {
		approvedForAll, err := c.IsApprovedForAll(owner, caller)
		if err != nil {
			return err
		}
		if !approvedForAll {
			return ErrNotOwnerNorApproved
		}
	}
	return c.approvals.Set(tokenID, to)
}

// SetApprovalForAll lets operator transfer every token of caller.
func (c *Collectible) SetApprovalForAll(caller, operator vault.Address, approved bool) error {
	if caller == operator {
		return ErrSelfApproval
	}
	key := operatorKey{caller, operator}
	if !approved {
		c.operators.Delete(key)
		return nil
	}
	return c.operators.Set(key, true)
}

func (c *Collectible) isApprovedOrOwner(caller, owner vault.Address, tokenID vault.TokenID) (bool, error) {
	if caller == owner {
		return true, nil
	}
	approved, err := c.approvals.Get(tokenID)
	if err != nil {
		return false, err
	}
	if approved == caller {
		return true, nil
	}
	return c.IsApprovedForAll(owner, caller)
}

// TransferFrom moves tokenID from its owner to another account. The single token
// approval is cleared.
func (c *Collectible) TransferFrom(caller, from, to vault.Address, tokenID vault.TokenID) error {
	owner, err := c.OwnerOf(tokenID)
	if err != nil {
		return err
	}
	ok, err := c.isApprovedOrOwner(caller, owner, tokenID)
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotOwnerNorApproved
	}
	if owner != from {
		return ErrWrongFrom
	}
	if to.IsZero() {
		return ErrZeroAddress
	}

	c.approvals.Delete(tokenID)
	if err := c.addBalance(from, -1); err != nil {
		return err
	}
	if err := c.addBalance(to, 1); err != nil {
		return err
	}
	if err := c.owners.Set(tokenID, to); err != nil {
		return err
	}
	logger.Debug("transferred", "tokenID", tokenID, "from", from, "to", to)
	return nil
}

func (c *Collectible) addBalance(owner vault.Address, delta int64) error {
	balance, err := c.balances.Get(owner)
	if err != nil {
		return err
	}
	return c.balances.Set(owner, uint64(int64(balance)+delta))
}
