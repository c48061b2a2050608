// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"bytes"
	"io"
	"sort"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vault/kv"
	"github.com/vechain/vault/vault"
)

// Stage abstracts the pending changes of a State.
type Stage struct {
	state   *State
	changes map[storageKey]rlp.RawValue
	order   []storageKey
}

// Len returns the count of changed slots.
func (s *Stage) Len() int {
	return len(s.changes)
}

// Hash computes a digest over all changed slots, independent of write order.
func (s *Stage) Hash() vault.Bytes32 {
	keys := append([]storageKey(nil), s.order...)
	sort.Slice(keys, func(i, j int) bool {
		return bytes.Compare(keys[i].bytes(), keys[j].bytes()) < 0
	})

	return vault.Blake2bFn(func(w io.Writer) {
		for _, k := range keys {
			w.Write(k.bytes())
			w.Write(s.changes[k])
		}
	})
}

// Commit writes the changes into the given putter, typically a kv.Bulk shared with
// other writers so all of them land atomically.
func (s *Stage) Commit(putter kv.Putter) error {
	p := StorageBucket.NewPutter(putter)
	for _, k := range s.order {
		v := s.changes[k]
		var err error
		if len(v) == 0 {
			err = p.Delete(k.bytes())
		} else {
			err = p.Put(k.bytes(), v)
		}
		if err != nil {
			return &Error{err}
		}
	}
	return nil
}

// Promote marks the staged changes as persisted, so the state can be reused for
// the next round with an empty journal.
func (s *Stage) Promote() {
	st := s.state
	if st.cache != nil {
		for _, k := range s.order {
			st.cache.Add(k, s.changes[k])
		}
	}
	st.sm.PopTo(0)
	st.sm.Push()
}
