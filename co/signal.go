// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package co

import (
	"sync"
)

// Waiter provides channel to wait for.
type Waiter interface {
	C() <-chan struct{}
}

// Signal is a channel based rendezvous point for goroutines waiting for an event.
// Unlike sync.Cond, waiters can select on it together with other channels.
type Signal struct {
	mu sync.Mutex
	ch chan struct{}
}

func (s *Signal) current() chan struct{} {
	if s.ch == nil {
		s.ch = make(chan struct{})
	}
	return s.ch
}

// Broadcast wakes all goroutines that are waiting on s.
func (s *Signal) Broadcast() {
	s.mu.Lock()
	close(s.current())
	s.ch = make(chan struct{})
	s.mu.Unlock()
}

// NewWaiter creates a Waiter. Each call to C returns the channel that is closed by
// the next Broadcast following the previous C call, so no broadcast is missed
// between two waits.
func (s *Signal) NewWaiter() Waiter {
	s.mu.Lock()
	ref := s.current()
	s.mu.Unlock()

	return waiterFunc(func() <-chan struct{} {
		ch := ref
		s.mu.Lock()
		ref = s.current()
		s.mu.Unlock()
		return ch
	})
}

type waiterFunc func() <-chan struct{}

func (w waiterFunc) C() <-chan struct{} {
	return w()
}
