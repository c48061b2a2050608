// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package runtime executes ledger operations one at a time against the
// persistent state, commits them atomically and records their events.
package runtime

import (
	"context"
	"math/big"
	"sync"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin"
	"github.com/vechain/vault/builtin/collectible"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/rewards"
	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/clock"
	"github.com/vechain/vault/co"
	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/vault"
)

var logger = log.WithContext("pkg", "runtime")

// EventStore persists and queries ledger events.
type EventStore interface {
	Insert(events []*eventdb.Event) error
	Filter(ctx context.Context, filter *eventdb.Filter) ([]*eventdb.Event, error)
	NewestBlock() (uint32, error)
}

// Env is the view of the built-in contracts an operation runs against.
type Env struct {
	Block       uint32
	Staker      *staker.Staker
	Collectible *collectible.Collectible
	Rewards     *rewards.Rewards
}

// Runtime serializes every operation. Reads take the same lock so they never
// observe a partially applied operation.
type Runtime struct {
	mu     sync.Mutex
	db     kv.Store
	state  *state.State
	clock  clock.Source
	events EventStore
	signal co.Signal

	// position of the next event
	eventBlock uint32
	eventIndex uint32
}

// New creates a runtime over db. cacheSize is the number of storage slots kept in memory.
func New(db kv.Store, events EventStore, clk clock.Source, cacheSize int) (*Runtime, error) {
	rt := &Runtime{
		db:     db,
		state:  state.New(db, cacheSize),
		clock:  clk,
		events: events,
	}

	newest, err := events.NewestBlock()
	if err != nil {
		return nil, errors.Wrap(err, "load newest event")
	}
	last, err := events.Filter(context.Background(), &eventdb.Filter{
		Range:   &eventdb.Range{From: newest, To: newest},
		Order:   eventdb.DESC,
		Options: &eventdb.Options{Limit: 1},
	})
	if err != nil {
		return nil, errors.Wrap(err, "load newest event")
	}
	if len(last) > 0 {
		rt.eventBlock = last[0].BlockNumber
		rt.eventIndex = last[0].Index + 1
	}
	return rt, nil
}

func (rt *Runtime) Clock() clock.Source {
	return rt.clock
}

func (rt *Runtime) Events() EventStore {
	return rt.events
}

// NewEventWaiter returns a waiter fired after events are recorded.
func (rt *Runtime) NewEventWaiter() co.Waiter {
	return rt.signal.NewWaiter()
}

func (rt *Runtime) env(block uint32, emitter staker.Emitter) *Env {
	return &Env{
		Block:       block,
		Staker:      builtin.Staker.WithState(rt.state, emitter),
		Collectible: builtin.Collectible.WithState(rt.state),
		Rewards:     builtin.Rewards.WithState(rt.state),
	}
}

// View runs fn at the current block without changing state.
func (rt *Runtime) View(fn func(env *Env) error) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	cp := rt.state.NewCheckpoint()
	defer rt.state.RevertTo(cp)
	return fn(rt.env(rt.clock.Current(), nil))
}

// Exec runs fn at the current block. If fn fails the state is left untouched,
// otherwise its changes are committed and its events recorded.
func (rt *Runtime) Exec(op string, fn func(env *Env) error) (err error) {
	start := time.Now()
	defer func() {
		result := "success"
		if err != nil {
			if reverts.IsRevertErr(err) {
				result = "reverted"
			} else {
				result = "failed"
			}
		}
		metricOpCount().AddWithLabel(1, map[string]string{"op": op, "result": result})
		metricOpDuration().ObserveWithLabels(time.Since(start).Microseconds(), map[string]string{"op": op})
	}()

	rt.mu.Lock()
	defer rt.mu.Unlock()

	var (
		block     = rt.clock.Current()
		cp        = rt.state.NewCheckpoint()
		collected []*staker.Event
	)
	if err := fn(rt.env(block, func(ev *staker.Event) { collected = append(collected, ev) })); err != nil {
		rt.state.RevertTo(cp)
		return err
	}

	stage := rt.state.Stage()
	bulk := rt.db.Bulk()
	if err := stage.Commit(bulk); err != nil {
		rt.state.RevertTo(cp)
		return errors.Wrap(err, "commit state")
	}
	if err := bulk.Write(); err != nil {
		rt.state.RevertTo(cp)
		return errors.Wrap(err, "write state")
	}
	stage.Promote()
	metricStateChanges().Add(int64(stage.Len()))

	if len(collected) > 0 {
		// the ledger is already committed, an event db failure must not fail the operation
		if err := rt.events.Insert(rt.toEvents(block, collected)); err != nil {
			logger.Error("failed to record events", "op", op, "block", block, "err", err)
		}
		rt.signal.Broadcast()
	}
	return nil
}

func (rt *Runtime) toEvents(block uint32, evs []*staker.Event) []*eventdb.Event {
	if block != rt.eventBlock {
		rt.eventBlock = block
		rt.eventIndex = 0
	}
	out := make([]*eventdb.Event, 0, len(evs))
	for _, ev := range evs {
		out = append(out, &eventdb.Event{
			BlockNumber: block,
			Index:       rt.eventIndex,
			Kind:        string(ev.Kind),
			Account:     ev.Account,
			TokenID:     ev.TokenID,
			Amount:      ev.Amount,
		})
		rt.eventIndex++
	}
	return out
}

// Initialize writes cfg on first start and returns false if already initialized.
func (rt *Runtime) Initialize(cfg *staker.Config) (bool, error) {
	var done bool
	err := rt.Exec("initialize", func(env *Env) error {
		initialized, err := env.Staker.IsInitialized()
		if err != nil || initialized {
			return err
		}
		done = true
		return env.Staker.Initialize(cfg)
	})
	return done && err == nil, err
}

func (rt *Runtime) Stake(caller vault.Address, tokenID vault.TokenID) error {
	return rt.Exec("stake", func(env *Env) error {
		return env.Staker.Stake(caller, tokenID, env.Block)
	})
}

func (rt *Runtime) BeginUnbonding(caller vault.Address, tokenID vault.TokenID) error {
	return rt.Exec("begin_unbonding", func(env *Env) error {
		return env.Staker.BeginUnbonding(caller, tokenID, env.Block)
	})
}

// Withdraw returns the paid reward and the block it was paid at.
func (rt *Runtime) Withdraw(caller vault.Address, tokenID vault.TokenID) (reward *big.Int, block uint32, err error) {
	err = rt.Exec("withdraw", func(env *Env) (err error) {
		block = env.Block
		reward, err = env.Staker.Withdraw(caller, tokenID, env.Block)
		return err
	})
	if err != nil {
		return nil, 0, err
	}
	return reward, block, nil
}

func (rt *Runtime) Pause(caller vault.Address) error {
	return rt.Exec("pause", func(env *Env) error { return env.Staker.Pause(caller) })
}

func (rt *Runtime) Unpause(caller vault.Address) error {
	return rt.Exec("unpause", func(env *Env) error { return env.Staker.Unpause(caller) })
}

func (rt *Runtime) SetRewardRate(caller vault.Address, rate *big.Int) error {
	return rt.Exec("set_reward_rate", func(env *Env) error { return env.Staker.SetRewardRate(caller, rate) })
}

func (rt *Runtime) SetDelayPeriod(caller vault.Address, blocks uint32) error {
	return rt.Exec("set_delay_period", func(env *Env) error { return env.Staker.SetDelayPeriod(caller, blocks) })
}

func (rt *Runtime) SetUnbondingPeriod(caller vault.Address, blocks uint32) error {
	return rt.Exec("set_unbonding_period", func(env *Env) error { return env.Staker.SetUnbondingPeriod(caller, blocks) })
}

func (rt *Runtime) TransferAdministrator(caller, newAdmin vault.Address) error {
	return rt.Exec("transfer_administrator", func(env *Env) error {
		return env.Staker.TransferAdministrator(caller, newAdmin)
	})
}

func (rt *Runtime) Mint(caller, to vault.Address, tokenID vault.TokenID) error {
	return rt.Exec("mint", func(env *Env) error { return env.Collectible.Mint(caller, to, tokenID) })
}

func (rt *Runtime) Approve(caller, to vault.Address, tokenID vault.TokenID) error {
	return rt.Exec("approve", func(env *Env) error { return env.Collectible.Approve(caller, to, tokenID) })
}

func (rt *Runtime) SetApprovalForAll(caller, operator vault.Address, approved bool) error {
	return rt.Exec("set_approval_for_all", func(env *Env) error {
		return env.Collectible.SetApprovalForAll(caller, operator, approved)
	})
}
