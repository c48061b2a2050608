// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package clock provides the block counter every time-locked operation is measured with.
package clock

import (
	"math"
	"sync"
)

// Source yields the current block number. It never goes backwards.
type Source interface {
	Current() uint32
}

// Manual is a Source moved by hand, used in tests and tooling.
type Manual struct {
	mu    sync.RWMutex
	block uint32
}

func NewManual(block uint32) *Manual {
	return &Manual{block: block}
}

func (m *Manual) Current() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.block
}

// Set moves the clock to block. Moving backwards is ignored.
func (m *Manual) Set(block uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if block > m.block {
		m.block = block
	}
}

// Advance moves the clock n blocks forward and returns the new block.
// It stops at math.MaxUint32.
func (m *Manual) Advance(n uint32) uint32 {
	m.mu.Lock()
	defer m.mu.Unlock()
	if n > math.MaxUint32-m.block {
		m.block = math.MaxUint32
	} else {
		m.block += n
	}
	return m.block
}
