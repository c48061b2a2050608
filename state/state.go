// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"fmt"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vault/cache"
	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/stackedmap"
	"github.com/vechain/vault/vault"
)

// StorageBucket is the kv bucket that holds committed storage slots.
const StorageBucket = kv.Bucket("s.")

// Error is the error caused by state access failure.
type Error struct {
	cause error
}

func (e *Error) Error() string {
	return fmt.Sprintf("state: %v", e.cause)
}

func (e *Error) Unwrap() error {
	return e.cause
}

type storageKey struct {
	addr vault.Address
	key  vault.Bytes32
}

func (k storageKey) bytes() []byte {
	b := make([]byte, 0, vault.AddressLength+32)
	b = append(b, k.addr[:]...)
	return append(b, k.key[:]...)
}

// State manages the contract storage.
type State struct {
	store kv.Store
	cache *cache.LRU[storageKey, rlp.RawValue]
	sm    *stackedmap.StackedMap[storageKey, rlp.RawValue]
}

// New create state object on top of the given store.
// cacheSize bounds the number of committed slots kept in memory, 0 disables the cache.
func New(store kv.Store, cacheSize int) *State {
	s := &State{store: StorageBucket.NewStore(store)}
	if cacheSize > 0 {
		s.cache, _ = cache.NewLRU[storageKey, rlp.RawValue](cacheSize)
	}
	s.sm = stackedmap.New(s.load)
	return s
}

func (s *State) load(key storageKey) (rlp.RawValue, bool, error) {
	if s.cache != nil {
		if v, ok := s.cache.Get(key); ok {
			return v, true, nil
		}
	}
	v, err := s.store.Get(key.bytes())
	if err != nil {
		if !s.store.IsNotFound(err) {
			return nil, false, err
		}
		v = nil
	}
	if s.cache != nil {
		s.cache.Add(key, v)
	}
	return v, true, nil
}

// GetRawStorage returns storage value in rlp raw for given address and key.
func (s *State) GetRawStorage(addr vault.Address, key vault.Bytes32) (rlp.RawValue, error) {
	v, _, err := s.sm.Get(storageKey{addr, key})
	if err != nil {
		return nil, &Error{err}
	}
	return v, nil
}

// SetRawStorage set storage value in rlp raw.
func (s *State) SetRawStorage(addr vault.Address, key vault.Bytes32, raw rlp.RawValue) {
	s.sm.Put(storageKey{addr, key}, raw)
}

// EncodeStorage set storage value encoded by given enc method.
// Error returned by end will be absorbed by State instance.
func (s *State) EncodeStorage(addr vault.Address, key vault.Bytes32, enc func() ([]byte, error)) error {
	raw, err := enc()
	if err != nil {
		return &Error{err}
	}
	s.SetRawStorage(addr, key, raw)
	return nil
}

// DecodeStorage get and decode storage value.
// Error returned by dec will be absorbed by State instance.
func (s *State) DecodeStorage(addr vault.Address, key vault.Bytes32, dec func([]byte) error) error {
	raw, err := s.GetRawStorage(addr, key)
	if err != nil {
		return err
	}
	if err := dec(raw); err != nil {
		return &Error{err}
	}
	return nil
}

// NewCheckpoint makes a checkpoint of current state.
// It returns revision of the checkpoint.
func (s *State) NewCheckpoint() int {
	return s.sm.Push()
}

// RevertTo revert to checkpoint specified by revision.
func (s *State) RevertTo(revision int) {
	s.sm.PopTo(revision)
	if s.sm.Depth() == 0 {
		s.sm.Push()
	}
}

// Stage collects the changes made since the state was created.
// Later writes to the same slot supersede earlier ones.
func (s *State) Stage() *Stage {
	changes := make(map[storageKey]rlp.RawValue)
	var order []storageKey
	s.sm.Journal(func(k storageKey, v rlp.RawValue) bool {
		if _, ok := changes[k]; !ok {
			order = append(order, k)
		}
		changes[k] = v
		return true
	})
	return &Stage{state: s, changes: changes, order: order}
}
