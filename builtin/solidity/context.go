// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

// Context binds storage primitives to the storage of one built-in contract.
type Context struct {
	address vault.Address
	state   *state.State
}

func NewContext(address vault.Address, state *state.State) *Context {
	return &Context{
		address: address,
		state:   state,
	}
}

func (c *Context) Address() vault.Address {
	return c.address
}

func (c *Context) State() *state.State {
	return c.state
}
