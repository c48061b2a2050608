// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common/math"

	"github.com/vechain/vault/builtin/staker/stakes"
	"github.com/vechain/vault/vault"
)

// StakeInfo is the JSON form of a stake record.
type StakeInfo struct {
	TokenID        vault.TokenID         `json:"tokenId"`
	Owner          vault.Address         `json:"owner"`
	Status         string                `json:"status"`
	StakeBlock     uint32                `json:"stakeBlock"`
	UnbondingStart uint32                `json:"unbondingStart"`
	AccruedReward  *math.HexOrDecimal256 `json:"accruedReward"`
	WithdrawBlock  uint32                `json:"withdrawBlock,omitempty"`
	Index          uint64                `json:"index"`
}

var statusNames = map[stakes.Status]string{
	stakes.StatusUnknown:   "unknown",
	stakes.StatusStaked:    "staked",
	stakes.StatusUnbonding: "unbonding",
	stakes.StatusWithdrawn: "withdrawn",
}

// StatusName returns the JSON name of a record status.
func StatusName(status stakes.Status) string {
	if name, ok := statusNames[status]; ok {
		return name
	}
	return "unknown"
}

func ConvertRecord(rec *stakes.Record) *StakeInfo {
	return &StakeInfo{
		TokenID:        rec.TokenID,
		Owner:          rec.Owner,
		Status:         StatusName(rec.Status),
		StakeBlock:     rec.StakeBlock,
		UnbondingStart: rec.UnbondingStart,
		AccruedReward:  (*math.HexOrDecimal256)(rec.Reward()),
		WithdrawBlock:  rec.WithdrawBlock,
		Index:          rec.Index,
	}
}

type StakeRequest struct {
	Caller  vault.Address `json:"caller"`
	TokenID vault.TokenID `json:"tokenId"`
}

type CallerRequest struct {
	Caller vault.Address `json:"caller"`
}

type Reward struct {
	TokenID vault.TokenID         `json:"tokenId"`
	Block   uint32                `json:"block"`
	Amount  *math.HexOrDecimal256 `json:"amount"`
}

func newReward(tokenID vault.TokenID, block uint32, amount *big.Int) *Reward {
	return &Reward{TokenID: tokenID, Block: block, Amount: (*math.HexOrDecimal256)(amount)}
}
