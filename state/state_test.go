// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package state

import (
	"testing"

	"github.com/ethereum/go-ethereum/rlp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/vault"
)

func newTestState(t *testing.T) (*State, *lvldb.LevelDB) {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(db, 16), db
}

func TestStateReadWrite(t *testing.T) {
	st, _ := newTestState(t)

	addr := vault.BytesToAddress([]byte("addr"))
	key := vault.BytesToBytes32([]byte("key"))

	raw, err := st.GetRawStorage(addr, key)
	assert.Nil(t, err)
	assert.Empty(t, raw)

	assert.Nil(t, st.EncodeStorage(addr, key, func() ([]byte, error) {
		return rlp.EncodeToBytes(uint64(42))
	}))

	var v uint64
	assert.Nil(t, st.DecodeStorage(addr, key, func(b []byte) error {
		return rlp.DecodeBytes(b, &v)
	}))
	assert.Equal(t, uint64(42), v)

	other := vault.BytesToAddress([]byte("other"))
	raw, err = st.GetRawStorage(other, key)
	assert.Nil(t, err)
	assert.Empty(t, raw, "slots are scoped by address")
}

func TestStateCheckpoint(t *testing.T) {
	st, _ := newTestState(t)

	addr := vault.BytesToAddress([]byte("addr"))
	key := vault.BytesToBytes32([]byte("key"))

	st.SetRawStorage(addr, key, rlp.RawValue{0x01})
	cp := st.NewCheckpoint()
	st.SetRawStorage(addr, key, rlp.RawValue{0x02})

	raw, _ := st.GetRawStorage(addr, key)
	assert.Equal(t, rlp.RawValue{0x02}, raw)

	st.RevertTo(cp)
	raw, _ = st.GetRawStorage(addr, key)
	assert.Equal(t, rlp.RawValue{0x01}, raw)

	st.RevertTo(0)
	raw, _ = st.GetRawStorage(addr, key)
	assert.Empty(t, raw)

	// still writable after a full revert
	st.SetRawStorage(addr, key, rlp.RawValue{0x03})
	raw, _ = st.GetRawStorage(addr, key)
	assert.Equal(t, rlp.RawValue{0x03}, raw)
}

func TestStageCommit(t *testing.T) {
	st, db := newTestState(t)

	addr := vault.BytesToAddress([]byte("addr"))
	k1 := vault.BytesToBytes32([]byte("k1"))
	k2 := vault.BytesToBytes32([]byte("k2"))

	st.SetRawStorage(addr, k1, rlp.RawValue{0x01})
	st.SetRawStorage(addr, k1, rlp.RawValue{0x11})
	st.SetRawStorage(addr, k2, rlp.RawValue{0x02})

	stage := st.Stage()
	assert.Equal(t, 2, stage.Len())
	hash := stage.Hash()
	assert.False(t, hash.IsZero())

	bulk := db.Bulk()
	require.NoError(t, stage.Commit(bulk))
	require.NoError(t, bulk.Write())
	stage.Promote()
	assert.Equal(t, 0, st.Stage().Len())

	// a fresh state reads the committed slots back
	reopened := New(db, 0)
	raw, err := reopened.GetRawStorage(addr, k1)
	assert.Nil(t, err)
	assert.Equal(t, rlp.RawValue{0x11}, raw)

	// clearing a slot deletes it from the store
	reopened.SetRawStorage(addr, k2, nil)
	bulk = db.Bulk()
	require.NoError(t, reopened.Stage().Commit(bulk))
	require.NoError(t, bulk.Write())

	has, err := StorageBucket.NewGetter(db).Has(storageKey{addr, k2}.bytes())
	assert.Nil(t, err)
	assert.False(t, has)
}

func TestStageHashIndependentOfOrder(t *testing.T) {
	a, _ := newTestState(t)
	b, _ := newTestState(t)

	addr := vault.BytesToAddress([]byte("addr"))
	k1 := vault.BytesToBytes32([]byte("k1"))
	k2 := vault.BytesToBytes32([]byte("k2"))

	a.SetRawStorage(addr, k1, rlp.RawValue{0x01})
	a.SetRawStorage(addr, k2, rlp.RawValue{0x02})
	b.SetRawStorage(addr, k2, rlp.RawValue{0x02})
	b.SetRawStorage(addr, k1, rlp.RawValue{0x01})

	assert.Equal(t, a.Stage().Hash(), b.Stage().Hash())
}
