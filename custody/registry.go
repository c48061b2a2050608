// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package custody

import (
	"github.com/pkg/errors"

	"github.com/vechain/vault/vault"
)

// Registry is the part of a collectible registry used to move tokens.
type Registry interface {
	TransferFrom(caller, from, to vault.Address, tokenID vault.TokenID) error
}

// registryAdapter moves tokens through a Registry, acting as the approved operator
// for the vault account.
type registryAdapter struct {
	registry Registry
	vault    vault.Address
}

// NewRegistryAdapter creates an Adapter holding custody at the vault address.
// Owners must approve the vault address before staking.
func NewRegistryAdapter(registry Registry, vaultAddr vault.Address) Adapter {
	return &registryAdapter{registry: registry, vault: vaultAddr}
}

func (r *registryAdapter) TransferIn(from vault.Address, tokenID vault.TokenID) error {
	if err := r.registry.TransferFrom(r.vault, from, r.vault, tokenID); err != nil {
		return errors.WithMessage(err, "transfer in")
	}
	return nil
}

func (r *registryAdapter) TransferOut(to vault.Address, tokenID vault.TokenID) error {
	if err := r.registry.TransferFrom(r.vault, r.vault, to, tokenID); err != nil {
		return errors.WithMessage(err, "transfer out")
	}
	return nil
}
