// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package custody moves collectibles in and out of the vault.
package custody

import (
	"github.com/vechain/vault/vault"
)

// Adapter performs the ownership transfer of a collectible. A transfer either
// fully succeeds or returns an error and leaves ownership unchanged.
type Adapter interface {
	// TransferIn moves tokenID from its owner into custody.
	TransferIn(from vault.Address, tokenID vault.TokenID) error
	// TransferOut releases tokenID from custody to the given account.
	TransferOut(to vault.Address, tokenID vault.TokenID) error
}
