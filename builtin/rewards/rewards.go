// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package rewards keeps the reward balances credited by withdrawals.
package rewards

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/solidity"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

var (
	slotBalances  = solidity.Slot("reward-balances")
	slotTotalPaid = solidity.Slot("reward-total-paid")
)

// Rewards binder of the `Rewards` contract.
type Rewards struct {
	balances  *solidity.Mapping[vault.Address, *big.Int]
	totalPaid *solidity.Value[*big.Int]
}

func New(addr vault.Address, state *state.State) *Rewards {
	sctx := solidity.NewContext(addr, state)
	return &Rewards{
		balances:  solidity.NewMapping[vault.Address, *big.Int](sctx, slotBalances),
		totalPaid: solidity.NewValue[*big.Int](sctx, slotTotalPaid),
	}
}

// BalanceOf returns the rewards credited to account.
func (r *Rewards) BalanceOf(account vault.Address) (*big.Int, error) {
	balance, err := r.balances.Get(account)
	if err != nil {
		return nil, errors.Wrap(err, "failed to get reward balance")
	}
	return balance, nil
}

// TotalPaid returns the sum of all payouts. Like the balances it is unbounded,
// so a payout can never be refused for the sake of the aggregate.
func (r *Rewards) TotalPaid() (*big.Int, error) {
	total, err := r.totalPaid.Get()
	if err != nil {
		return nil, errors.Wrap(err, "failed to get total paid")
	}
	return total, nil
}

// Pay credits amount to account.
func (r *Rewards) Pay(to vault.Address, amount *big.Int) error {
	if amount.Sign() < 0 {
		return errors.New("negative reward")
	}
	total, err := r.TotalPaid()
	if err != nil {
		return err
	}
	if err := r.totalPaid.Set(total.Add(total, amount)); err != nil {
		return errors.Wrap(err, "failed to set total paid")
	}
	balance, err := r.BalanceOf(to)
	if err != nil {
		return err
	}
	if err := r.balances.Set(to, balance.Add(balance, amount)); err != nil {
		return errors.Wrap(err, "failed to set reward balance")
	}
	return nil
}
