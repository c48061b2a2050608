// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/vault"
)

type FilteredEvent struct {
	Block   uint32                `json:"block"`
	Index   uint32                `json:"index"`
	Kind    string                `json:"kind"`
	Account vault.Address         `json:"account"`
	TokenID *vault.TokenID        `json:"tokenId,omitempty"`
	Amount  *math.HexOrDecimal256 `json:"amount,omitempty"`
}

func ConvertEvent(ev *eventdb.Event) *FilteredEvent {
	return &FilteredEvent{
		Block:   ev.BlockNumber,
		Index:   ev.Index,
		Kind:    ev.Kind,
		Account: ev.Account,
		TokenID: ev.TokenID,
		Amount:  (*math.HexOrDecimal256)(ev.Amount),
	}
}

type Range struct {
	From *uint32 `json:"from,omitempty"`
	To   *uint32 `json:"to,omitempty"`
}

type Options struct {
	Offset uint64  `json:"offset"`
	Limit  *uint64 `json:"limit,omitempty"`
}

type EventFilter struct {
	Range   *Range         `json:"range,omitempty"`
	Account *vault.Address `json:"account,omitempty"`
	TokenID *vault.TokenID `json:"tokenId,omitempty"`
	Kinds   []string       `json:"kinds,omitempty"`
	Order   eventdb.Order  `json:"order,omitempty"`
	Options *Options       `json:"options,omitempty"`
}
