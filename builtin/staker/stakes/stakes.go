// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package stakes

import (
	"errors"
	"math/big"

	"github.com/holiman/uint256"

	"github.com/vechain/vault/vault"
)

type Status = uint8

const (
	StatusUnknown   = Status(iota) // 0 -> default value
	StatusStaked                   // custody held, reward accruing
	StatusUnbonding                // custody held, reward frozen
	StatusWithdrawn                // custody released, reward paid
)

var (
	ErrOverflow       = errors.New("reward exceeds 256 bits")
	ErrEndBeforeStart = errors.New("reward end block before stake block")
)

// Record is the lifecycle of one collectible staked by one account.
type Record struct {
	TokenID        vault.TokenID
	Owner          vault.Address
	Status         Status
	StakeBlock     uint32   // block at which custody was accepted
	UnbondingStart uint32   // block at which unbonding began, 0 while staked
	AccruedReward  *big.Int // frozen when unbonding begins

	WithdrawBlock uint32 `rlp:"optional"` // block at which custody was released
	Index         uint64 `rlp:"optional"` // position in the owner's stake history
}

func (r *Record) IsEmpty() bool {
	return r.Status == StatusUnknown
}

// IsActive reports whether the collectible is still in custody.
func (r *Record) IsActive() bool {
	return r.Status == StatusStaked || r.Status == StatusUnbonding
}

// PendingReward returns the reward of a staked record as if unbonding began at
// currentBlock, or the frozen reward once unbonding began.
func (r *Record) PendingReward(rewardPerBlock *big.Int, currentBlock uint32) (*big.Int, error) {
	if r.Status != StatusStaked {
		return r.Reward(), nil
	}
	return Accrue(rewardPerBlock, r.StakeBlock, currentBlock)
}

// Reward returns a copy of the frozen reward.
func (r *Record) Reward() *big.Int {
	if r.AccruedReward == nil {
		return new(big.Int)
	}
	return new(big.Int).Set(r.AccruedReward)
}

// Accrue computes rewardPerBlock * (endBlock - stakeBlock) with 256 bits checked arithmetic.
func Accrue(rewardPerBlock *big.Int, stakeBlock, endBlock uint32) (*big.Int, error) {
	if endBlock < stakeBlock {
		return nil, ErrEndBeforeStart
	}
	if rewardPerBlock.Sign() < 0 {
		return nil, ErrOverflow
	}
	rate, overflow := uint256.FromBig(rewardPerBlock)
	if overflow {
		return nil, ErrOverflow
	}
	blocks := uint256.NewInt(uint64(endBlock - stakeBlock))
	reward, overflow := new(uint256.Int).MulOverflow(rate, blocks)
	if overflow {
		return nil, ErrOverflow
	}
	return reward.ToBig(), nil
}
