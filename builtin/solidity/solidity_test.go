// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package solidity

import (
	"math/big"
	"testing"

	"github.com/holiman/uint256"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/vault"
)

type TestStruct struct {
	Field1 uint64
	Field2 uint32
	Addr1  vault.Address
	Amount *big.Int
}

func newTestContext(t *testing.T) *Context {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewContext(vault.Address{1}, state.New(db, 0))
}

func TestMapping(t *testing.T) {
	ctx := newTestContext(t)
	m := NewMapping[vault.TokenID, *TestStruct](ctx, Slot("records"))

	key := datagen.RandTokenID()

	got, err := m.Get(key)
	require.NoError(t, err)
	assert.NotNil(t, got, "pointer values are allocated when unset")
	assert.Equal(t, uint64(0), got.Field1)

	exists, err := m.Exists(key)
	require.NoError(t, err)
	assert.False(t, exists)

	value := &TestStruct{Field1: 100, Field2: 7, Addr1: datagen.RandAddress(), Amount: big.NewInt(5)}
	require.NoError(t, m.Set(key, value))

	got, err = m.Get(key)
	require.NoError(t, err)
	assert.Equal(t, value, got)

	exists, _ = m.Exists(key)
	assert.True(t, exists)

	m.Delete(key)
	exists, _ = m.Exists(key)
	assert.False(t, exists)
}

func TestMapping_SeparateBases(t *testing.T) {
	ctx := newTestContext(t)
	a := NewMapping[vault.Address, uint64](ctx, Slot("a"))
	b := NewMapping[vault.Address, uint64](ctx, Slot("b"))

	key := datagen.RandAddress()
	require.NoError(t, a.Set(key, 1))

	v, err := b.Get(key)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), v)
}

func TestValue(t *testing.T) {
	ctx := newTestContext(t)
	v := NewValue[uint32](ctx, Slot("delay"))

	got, err := v.Get()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), got)

	require.NoError(t, v.Set(10))
	got, _ = v.Get()
	assert.Equal(t, uint32(10), got)

	exists, _ := v.Exists()
	assert.True(t, exists)

	v.Clear()
	exists, _ = v.Exists()
	assert.False(t, exists)
}

func TestValue_Revert(t *testing.T) {
	ctx := newTestContext(t)
	v := NewValue[bool](ctx, Slot("paused"))

	cp := ctx.State().NewCheckpoint()
	require.NoError(t, v.Set(true))
	ctx.State().RevertTo(cp)

	got, err := v.Get()
	require.NoError(t, err)
	assert.False(t, got)
}

func TestUint256(t *testing.T) {
	ctx := newTestContext(t)
	u := NewUint256(ctx, Slot("total"))

	got, err := u.Get()
	require.NoError(t, err)
	assert.Equal(t, 0, got.Sign())

	require.NoError(t, u.Add(big.NewInt(10)))
	require.NoError(t, u.Add(big.NewInt(5)))
	got, _ = u.Get()
	assert.Equal(t, big.NewInt(15), got)

	require.NoError(t, u.Sub(big.NewInt(15)))
	got, _ = u.Get()
	assert.Equal(t, 0, got.Sign())

	assert.ErrorIs(t, u.Sub(big.NewInt(1)), ErrUint256Underflow)

	maxU := new(uint256.Int).SetAllOne().ToBig()
	require.NoError(t, u.Set(maxU))
	assert.ErrorIs(t, u.Add(big.NewInt(1)), ErrUint256Overflow)
	assert.ErrorIs(t, u.Set(new(big.Int).Lsh(big.NewInt(1), 256)), ErrUint256Overflow)
}

func TestAddress(t *testing.T) {
	ctx := newTestContext(t)
	a := NewAddress(ctx, Slot("admin"))

	got, err := a.Get()
	require.NoError(t, err)
	assert.True(t, got.IsZero())

	addr := datagen.RandAddress()
	require.NoError(t, a.Set(&addr))
	got, _ = a.Get()
	assert.Equal(t, addr, got)

	require.NoError(t, a.Set(nil))
	got, _ = a.Get()
	assert.True(t, got.IsZero())
}
