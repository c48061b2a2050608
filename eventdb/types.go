// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math/big"

	"github.com/vechain/vault/vault"
)

type Order string

const (
	ASC  Order = "asc"
	DESC Order = "desc"
)

// Event is a persisted ledger event.
type Event struct {
	BlockNumber uint32
	Index       uint32 // position within the block
	Kind        string
	Account     vault.Address
	TokenID     *vault.TokenID
	Amount      *big.Int
}

// Range is an inclusive block range.
type Range struct {
	From uint32 `json:"from"`
	To   uint32 `json:"to"`
}

type Options struct {
	Offset uint64 `json:"offset"`
	Limit  uint64 `json:"limit"`
}

// Filter selects events. Nil fields match everything.
type Filter struct {
	Range   *Range
	Account *vault.Address
	TokenID *vault.TokenID
	Kinds   []string
	Order   Order // default asc
	Options *Options
}
