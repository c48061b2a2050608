// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"context"
	"sync"
	"time"

	"github.com/vechain/vault/co"
)

// BlockSource produces blocks and signals each new one.
type BlockSource interface {
	Current() uint32
	NewWaiter() co.Waiter
}

type BlockProduction struct {
	Number    uint32     `json:"number"`
	Timestamp *time.Time `json:"timestamp"`
}

type Status struct {
	Healthy           bool             `json:"healthy"`
	BlockProduction   *BlockProduction `json:"blockProduction"`
	LedgerInitialized bool             `json:"ledgerInitialized"`
}

type Health struct {
	lock         sync.RWMutex
	newBestBlock time.Time
	bestBlock    uint32
	initialized  bool
}

// New creates a Health, the start time counts as the latest block.
func New() *Health {
	return &Health{newBestBlock: time.Now()}
}

func (h *Health) NewBestBlock(number uint32) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.newBestBlock = time.Now()
	h.bestBlock = number
}

func (h *Health) LedgerInitialized(initialized bool) {
	h.lock.Lock()
	defer h.lock.Unlock()

	h.initialized = initialized
}

// Status reports healthy when the ledger is initialized and a block was
// produced within maxTimeBetweenBlocks.
func (h *Health) Status(maxTimeBetweenBlocks time.Duration) *Status {
	h.lock.RLock()
	defer h.lock.RUnlock()

	ts := h.newBestBlock
	healthy := time.Since(h.newBestBlock) <= maxTimeBetweenBlocks &&
		h.initialized

	return &Status{
		Healthy: healthy,
		BlockProduction: &BlockProduction{
			Number:    h.bestBlock,
			Timestamp: &ts,
		},
		LedgerInitialized: h.initialized,
	}
}

// Run follows the blocks of src until ctx is done.
func (h *Health) Run(ctx context.Context, src BlockSource) {
	waiter := src.NewWaiter()
	h.NewBestBlock(src.Current())
	for {
		select {
		case <-ctx.Done():
			return
		case <-waiter.C():
			h.NewBestBlock(src.Current())
		}
	}
}
