// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vault/vault"
)

// Address is a wrapper for storage and retrieval of an address. Similar to storing an address in a smart contract.
type Address struct {
	value *Value[vault.Address]
}

func NewAddress(context *Context, pos vault.Bytes32) *Address {
	return &Address{value: NewValue[vault.Address](context, pos)}
}

func (a *Address) Get() (vault.Address, error) {
	return a.value.Get()
}

// Set stores addr, or clears the slot if addr is nil.
func (a *Address) Set(addr *vault.Address) error {
	if addr == nil {
		a.value.Clear()
		return nil
	}
	return a.value.Set(*addr)
}
