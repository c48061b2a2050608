// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"

	"github.com/vechain/vault/vault"
)

type EventKind = string

const (
	EventStaked                 EventKind = "Staked"
	EventUnbondingStarted       EventKind = "UnbondingStarted"
	EventWithdrawn              EventKind = "Withdrawn"
	EventPaused                 EventKind = "Paused"
	EventUnpaused               EventKind = "Unpaused"
	EventRewardRateChanged      EventKind = "RewardRateChanged"
	EventDelayPeriodChanged     EventKind = "DelayPeriodChanged"
	EventUnbondingPeriodChanged EventKind = "UnbondingPeriodChanged"
	EventAdministratorChanged   EventKind = "AdministratorChanged"
)

// Event is emitted by a successful state change.
// Account is the record owner for stake events and the acting administrator otherwise.
type Event struct {
	Kind    EventKind
	Account vault.Address
	TokenID *vault.TokenID
	Amount  *big.Int
}

// Emitter receives the events of an operation. Events of a reverted operation
// must be discarded by the receiver.
type Emitter func(ev *Event)

func (s *Staker) emit(kind EventKind, account vault.Address, tokenID *vault.TokenID, amount *big.Int) {
	if s.emitter == nil {
		return
	}
	s.emitter(&Event{
		Kind:    kind,
		Account: account,
		TokenID: tokenID,
		Amount:  amount,
	})
}
