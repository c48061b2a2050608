// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"reflect"

	"github.com/ethereum/go-ethereum/rlp"

	"github.com/vechain/vault/vault"
)

// Slot derives the storage position of a named variable.
func Slot(name string) vault.Bytes32 {
	return vault.BytesToBytes32([]byte(name))
}

func decode[V any](ctx *Context, pos vault.Bytes32) (value V, err error) {
	err = ctx.state.DecodeStorage(ctx.address, pos, func(raw []byte) error {
		if reflect.ValueOf(value).Kind() == reflect.Ptr {
			value = reflect.New(reflect.TypeOf(value).Elem()).Interface().(V)
		}
		if len(raw) == 0 {
			return nil
		}
		return rlp.DecodeBytes(raw, &value)
	})
	return
}

func encode[V any](ctx *Context, pos vault.Bytes32, value V) error {
	return ctx.state.EncodeStorage(ctx.address, pos, func() ([]byte, error) {
		return rlp.EncodeToBytes(value)
	})
}

func exists(ctx *Context, pos vault.Bytes32) (bool, error) {
	raw, err := ctx.state.GetRawStorage(ctx.address, pos)
	if err != nil {
		return false, err
	}
	return len(raw) > 0, nil
}

// Value is a single rlp encoded variable, similar to a state variable in Solidity.
// Reading an unset Value yields the zero value, or a freshly allocated one for pointer types.
type Value[V any] struct {
	context *Context
	pos     vault.Bytes32
}

func NewValue[V any](context *Context, pos vault.Bytes32) *Value[V] {
	return &Value[V]{context: context, pos: pos}
}

func (v *Value[V]) Get() (V, error) {
	return decode[V](v.context, v.pos)
}

func (v *Value[V]) Set(value V) error {
	return encode(v.context, v.pos, value)
}

// Exists reports whether the variable was ever set and not cleared.
func (v *Value[V]) Exists() (bool, error) {
	return exists(v.context, v.pos)
}

func (v *Value[V]) Clear() {
	v.context.state.SetRawStorage(v.context.address, v.pos, nil)
}
