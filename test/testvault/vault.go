// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package testvault builds an in-memory ledger for tests.
package testvault

import (
	"math/big"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/clock"
	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/vault"
)

// Vault is a runtime over memory stores with a manual clock.
type Vault struct {
	rt     *runtime.Runtime
	db     *lvldb.LevelDB
	events *eventdb.EventDB
	clock  *clock.Manual
	admin  vault.Address
}

// New creates an initialized ledger with rewardPerBlock=1, delay=10 and unbonding=20.
// opts are applied to the config before initialization.
func New(opts ...func(*staker.Config)) (*Vault, error) {
	db, err := lvldb.NewMem()
	if err != nil {
		return nil, err
	}
	events, err := eventdb.NewMem()
	if err != nil {
		db.Close()
		return nil, err
	}

	clk := clock.NewManual(0)
	rt, err := runtime.New(db, events, clk, 256)
	if err != nil {
		db.Close()
		events.Close()
		return nil, err
	}

	admin := datagen.RandAddress()
	cfg := staker.DefaultConfig(admin)
	cfg.RewardPerBlock = big.NewInt(1)
	for _, opt := range opts {
		opt(cfg)
	}
	if _, err := rt.Initialize(cfg); err != nil {
		db.Close()
		events.Close()
		return nil, errors.Wrap(err, "initialize")
	}

	return &Vault{
		rt:     rt,
		db:     db,
		events: events,
		clock:  clk,
		admin:  admin,
	}, nil
}

func (v *Vault) Runtime() *runtime.Runtime { return v.rt }
func (v *Vault) Clock() *clock.Manual { return v.clock }
func (v *Vault) Events() *eventdb.EventDB { return v.events }
func (v *Vault) Admin() vault.Address { return v.admin }

// MintTo mints tokenID to owner and approves the staker to take it into custody.
func (v *Vault) MintTo(owner vault.Address, tokenID vault.TokenID) error {
	if err := v.rt.Mint(owner, owner, tokenID); err != nil {
		return err
	}
	return v.rt.Approve(owner, vault.StakerAddress, tokenID)
}

func (v *Vault) Close() error {
	v.events.Close()
	return v.db.Close()
}
