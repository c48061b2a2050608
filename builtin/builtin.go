// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package builtin

import (
	"github.com/vechain/vault/builtin/collectible"
	"github.com/vechain/vault/builtin/rewards"
	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/custody"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

// Builtin contracts binding.
var (
	Staker      = &stakerContract{contract{vault.StakerAddress}}
	Collectible = &collectibleContract{contract{vault.CollectibleAddress}}
	Rewards     = &rewardsContract{contract{vault.RewardsAddress}}
)

type contract struct {
	Address vault.Address
}

type (
	stakerContract      struct{ contract }
	collectibleContract struct{ contract }
	rewardsContract     struct{ contract }
)

// WithState binds the staker to state. Custody goes through the Collectible
// registry and rewards are credited to the Rewards ledger.
func (s *stakerContract) WithState(state *state.State, emitter staker.Emitter) *staker.Staker {
	registry := Collectible.WithState(state)
	return staker.New(
		s.Address,
		state,
		custody.NewRegistryAdapter(registry, s.Address),
		Rewards.WithState(state),
		emitter,
	)
}

func (c *collectibleContract) WithState(state *state.State) *collectible.Collectible {
	return collectible.New(c.Address, state)
}

func (r *rewardsContract) WithState(state *state.State) *rewards.Rewards {
	return rewards.New(r.Address, state)
}
