// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"github.com/vechain/vault/vault"
)

type Key interface {
	Bytes() []byte
}

// Mapping is a key/value storage abstraction for built-in contracts, similar to the mapping in Solidity.
// Each entry lives at blake2b(key, basePos).
type Mapping[K Key, V any] struct {
	context *Context
	basePos vault.Bytes32
}

func NewMapping[K Key, V any](context *Context, pos vault.Bytes32) *Mapping[K, V] {
	return &Mapping[K, V]{context: context, basePos: pos}
}

func (m *Mapping[K, V]) position(key K) vault.Bytes32 {
	return vault.Blake2b(key.Bytes(), m.basePos.Bytes())
}

func (m *Mapping[K, V]) Get(key K) (V, error) {
	return decode[V](m.context, m.position(key))
}

func (m *Mapping[K, V]) Set(key K, value V) error {
	return encode(m.context, m.position(key), value)
}

func (m *Mapping[K, V]) Exists(key K) (bool, error) {
	return exists(m.context, m.position(key))
}

func (m *Mapping[K, V]) Delete(key K) {
	m.context.state.SetRawStorage(m.context.address, m.position(key), nil)
}
