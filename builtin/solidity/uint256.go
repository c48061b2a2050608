// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"

	"github.com/vechain/vault/vault"
)

var (
	ErrUint256Overflow  = errors.New("uint256 overflow")
	ErrUint256Underflow = errors.New("uint256 underflow")
)

// Uint256 is a wrapper for storage and retrieval of an uint256. Similar to storing an uint256 in a smart contract.
type Uint256 struct {
	value *Value[*big.Int]
}

func NewUint256(context *Context, pos vault.Bytes32) *Uint256 {
	return &Uint256{value: NewValue[*big.Int](context, pos)}
}

func (u *Uint256) Get() (*big.Int, error) {
	return u.value.Get()
}

func (u *Uint256) Set(value *big.Int) error {
	if _, overflow := uint256.FromBig(value); overflow || value.Sign() < 0 {
		return ErrUint256Overflow
	}
	return u.value.Set(value)
}

func (u *Uint256) Add(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	a, _ := uint256.FromBig(cur)
	b, overflow := uint256.FromBig(value)
	if overflow {
		return ErrUint256Overflow
	}
	if _, overflow := a.AddOverflow(a, b); overflow {
		return ErrUint256Overflow
	}
	return u.value.Set(a.ToBig())
}

func (u *Uint256) Sub(value *big.Int) error {
	cur, err := u.Get()
	if err != nil {
		return err
	}
	if cur.Cmp(value) < 0 {
		return ErrUint256Underflow
	}
	return u.value.Set(cur.Sub(cur, value))
}
