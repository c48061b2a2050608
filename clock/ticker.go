// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package clock

import (
	"context"
	"encoding/binary"
	"sync/atomic"
	"time"

	"github.com/pkg/errors"

	"github.com/vechain/vault/co"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
)

var (
	logger = log.WithContext("pkg", "clock")

	metricBestBlock = metrics.LazyLoadGauge("best_block")
)

// HeadStore is where the ticker keeps its head.
const HeadStore = kv.Bucket("c.")

var headKey = []byte("head")

// Ticker produces a block every interval. The head is persisted so the block
// number survives restarts.
type Ticker struct {
	store    kv.Store
	interval time.Duration
	head     atomic.Uint32
	signal   co.Signal
}

// NewTicker loads the persisted head from store.
func NewTicker(store kv.Store, interval time.Duration) (*Ticker, error) {
	if interval <= 0 {
		return nil, errors.New("block interval must be positive")
	}
	t := &Ticker{
		store:    HeadStore.NewStore(store),
		interval: interval,
	}
	data, err := t.store.Get(headKey)
	if err != nil {
		if !t.store.IsNotFound(err) {
			return nil, errors.Wrap(err, "load head")
		}
	} else {
		if len(data) != 4 {
			return nil, errors.Errorf("corrupted head %x", data)
		}
		t.head.Store(binary.BigEndian.Uint32(data))
	}
	return t, nil
}

func (t *Ticker) Current() uint32 {
	return t.head.Load()
}

// NewWaiter returns a waiter fired on every new block.
func (t *Ticker) NewWaiter() co.Waiter {
	return t.signal.NewWaiter()
}

// Tick produces the next block.
func (t *Ticker) Tick() (uint32, error) {
	next := t.head.Load() + 1
	if next == 0 {
		return 0, errors.New("block number overflow")
	}
	var data [4]byte
	binary.BigEndian.PutUint32(data[:], next)
	if err := t.store.Put(headKey, data[:]); err != nil {
		return 0, errors.Wrap(err, "save head")
	}
	t.head.Store(next)
	metricBestBlock().Set(int64(next))
	t.signal.Broadcast()
	return next, nil
}

// Run produces blocks until ctx is done.
func (t *Ticker) Run(ctx context.Context) error {
	logger.Info("producing blocks", "interval", t.interval, "head", t.Current())

	ticker := time.NewTicker(t.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			logger.Info("stopping block ticker......")
			return nil
		case <-ticker.C:
			block, err := t.Tick()
			if err != nil {
				logger.Error("failed to produce block", "err", err)
				return err
			}
			logger.Trace("new block", "number", block)
		}
	}
}
