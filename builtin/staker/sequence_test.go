// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"math/big"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/builtin/collectible"
	"github.com/vechain/vault/builtin/rewards"
	"github.com/vechain/vault/builtin/staker/stakes"
	"github.com/vechain/vault/custody"
	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/vault"
)

// switchableCustody wraps an adapter and can be told to reject transfers.
type switchableCustody struct {
	custody.Adapter
	failIn, failOut bool
}

var errCustodyDown = collectible.ErrNotOwnerNorApproved

func (s *switchableCustody) TransferIn(from vault.Address, id vault.TokenID) error {
	if s.failIn {
		return errCustodyDown
	}
	return s.Adapter.TransferIn(from, id)
}

func (s *switchableCustody) TransferOut(to vault.Address, id vault.TokenID) error {
	if s.failOut {
		return errCustodyDown
	}
	return s.Adapter.TransferOut(to, id)
}

type StakerTest struct {
	*Staker
	t        *testing.T
	db       *lvldb.LevelDB
	state    *state.State
	registry *collectible.Collectible
	rewards  *rewards.Rewards
	custody  *switchableCustody
	admin    vault.Address
	events   []*Event
	block    uint32
}

// newTest creates an initialized staker with rewardPerBlock=1, delay=10 and unbonding=20.
func newTest(t *testing.T, opts ...func(*Config)) *StakerTest {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ts := &StakerTest{t: t, db: db, admin: datagen.RandAddress()}
	ts.bind(state.New(db, 64))

	cfg := DefaultConfig(ts.admin)
	cfg.RewardPerBlock = big.NewInt(1)
	for _, opt := range opts {
		opt(cfg)
	}
	require.NoError(t, ts.Initialize(cfg))
	ts.events = nil
	return ts
}

func (ts *StakerTest) bind(st *state.State) {
	ts.state = st
	ts.registry = collectible.New(vault.CollectibleAddress, st)
	ts.rewards = rewards.New(vault.RewardsAddress, st)
	ts.custody = &switchableCustody{Adapter: custody.NewRegistryAdapter(ts.registry, vault.StakerAddress)}
	ts.Staker = New(vault.StakerAddress, st, ts.custody, ts.rewards, func(ev *Event) {
		ts.events = append(ts.events, ev)
	})
}

// commit persists the pending changes, like the runtime does after each operation.
func (ts *StakerTest) commit() {
	stage := ts.state.Stage()
	bulk := ts.db.Bulk()
	require.NoError(ts.t, stage.Commit(bulk))
	require.NoError(ts.t, bulk.Write())
	stage.Promote()
}

// reopen drops every in-memory structure and reads back from the db.
func (ts *StakerTest) reopen() *StakerTest {
	ts.commit()
	ts.bind(state.New(ts.db, 64))
	return ts
}

// exec runs fn in a checkpoint and reverts on error.
func (ts *StakerTest) exec(fn func() error) error {
	cp := ts.state.NewCheckpoint()
	mark := len(ts.events)
	if err := fn(); err != nil {
		ts.state.RevertTo(cp)
		ts.events = ts.events[:mark]
		return err
	}
	return nil
}

func (ts *StakerTest) At(block uint32) *StakerTest {
	ts.block = block
	return ts
}

// Mint gives id to owner and approves the vault for it.
func (ts *StakerTest) Mint(owner vault.Address, id vault.TokenID) *StakerTest {
	require.NoError(ts.t, ts.registry.Mint(owner, owner, id))
	require.NoError(ts.t, ts.registry.Approve(owner, vault.StakerAddress, id))
	return ts
}

func (ts *StakerTest) Stake(owner vault.Address, id vault.TokenID) error {
	return ts.exec(func() error { return ts.Staker.Stake(owner, id, ts.block) })
}

func (ts *StakerTest) BeginUnbonding(owner vault.Address, id vault.TokenID) error {
	return ts.exec(func() error { return ts.Staker.BeginUnbonding(owner, id, ts.block) })
}

func (ts *StakerTest) Withdraw(owner vault.Address, id vault.TokenID) (reward *big.Int, err error) {
	err = ts.exec(func() error {
		reward, err = ts.Staker.Withdraw(owner, id, ts.block)
		return err
	})
	return
}

func (ts *StakerTest) Pause(caller vault.Address) error {
	return ts.exec(func() error { return ts.Staker.Pause(caller) })
}

func (ts *StakerTest) Unpause(caller vault.Address) error {
	return ts.exec(func() error { return ts.Staker.Unpause(caller) })
}

func (ts *StakerTest) AssertStake(owner vault.Address, id vault.TokenID) *StakerTest {
	assert.NoError(ts.t, ts.Stake(owner, id), "stake %v at %d", id, ts.block)
	return ts
}

func (ts *StakerTest) AssertBeginUnbonding(owner vault.Address, id vault.TokenID) *StakerTest {
	assert.NoError(ts.t, ts.BeginUnbonding(owner, id), "begin unbonding %v at %d", id, ts.block)
	return ts
}

func (ts *StakerTest) AssertWithdraw(owner vault.Address, id vault.TokenID, expectedReward int64) *StakerTest {
	reward, err := ts.Withdraw(owner, id)
	if assert.NoError(ts.t, err, "withdraw %v at %d", id, ts.block) {
		assert.Zero(ts.t, big.NewInt(expectedReward).Cmp(reward), "payout mismatch, got %v", reward)
	}
	return ts
}

func (ts *StakerTest) AssertRecord(id vault.TokenID, status stakes.Status, stakeBlock, unbondingStart uint32, reward int64) *StakerTest {
	rec, err := ts.GetStakeInfo(id)
	if !assert.NoError(ts.t, err, "get stake info %v", id) {
		return ts
	}
	assert.Equal(ts.t, status, rec.Status, "status mismatch")
	assert.Equal(ts.t, stakeBlock, rec.StakeBlock, "stake block mismatch")
	assert.Equal(ts.t, unbondingStart, rec.UnbondingStart, "unbonding start mismatch")
	assert.Equal(ts.t, 0, big.NewInt(reward).Cmp(rec.Reward()), "accrued reward mismatch, got %v", rec.AccruedReward)
	return ts
}

func (ts *StakerTest) AssertNoRecord(id vault.TokenID) *StakerTest {
	_, err := ts.GetStakeInfo(id)
	assert.ErrorIs(ts.t, err, ErrRecordNotFound)
	return ts
}

func (ts *StakerTest) AssertActiveCount(account vault.Address, expected uint64) *StakerTest {
	count, err := ts.ActiveStakeCount(account)
	assert.NoError(ts.t, err)
	assert.Equal(ts.t, expected, count, "active stake count mismatch")
	return ts
}

func (ts *StakerTest) AssertOwner(id vault.TokenID, expected vault.Address) *StakerTest {
	owner, err := ts.registry.OwnerOf(id)
	assert.NoError(ts.t, err)
	assert.Equal(ts.t, expected, owner, "custody mismatch for %v", id)
	return ts
}

func (ts *StakerTest) AssertRewardBalance(account vault.Address, expected int64) *StakerTest {
	balance, err := ts.rewards.BalanceOf(account)
	assert.NoError(ts.t, err)
	assert.Equal(ts.t, 0, big.NewInt(expected).Cmp(balance), "reward balance mismatch, got %v", balance)
	return ts
}

func (ts *StakerTest) AssertPaused(expected bool) *StakerTest {
	paused, err := ts.IsPaused()
	assert.NoError(ts.t, err)
	assert.Equal(ts.t, expected, paused, "paused mismatch")
	return ts
}

func (ts *StakerTest) AssertEvents(kinds ...EventKind) *StakerTest {
	var got []EventKind
	for _, ev := range ts.events {
		got = append(got, ev.Kind)
	}
	assert.Equal(ts.t, kinds, got, "events mismatch")
	ts.events = nil
	return ts
}
