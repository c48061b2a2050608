// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package lvldb

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/kv"
)

func TestLevelDB(t *testing.T) {
	var (
		key        = []byte("123")
		value      = []byte("456")
		inValidKey = []byte("abc")
	)

	disk, err := New(filepath.Join(t.TempDir(), "db"), Options{16, 16})
	require.NoError(t, err)
	defer disk.Close()

	mem, err := NewMem()
	require.NoError(t, err)
	defer mem.Close()

	for _, db := range []*LevelDB{disk, mem} {
		assert.Nil(t, db.Put(key, value))

		got, err := db.Get(key)
		assert.Nil(t, err)
		assert.Equal(t, value, got)

		has, err := db.Has(key)
		assert.Nil(t, err)
		assert.True(t, has)

		has, err = db.Has(inValidKey)
		assert.Nil(t, err)
		assert.False(t, has)

		assert.Nil(t, db.Delete(key))
		_, err = db.Get(key)
		assert.True(t, db.IsNotFound(err))
	}
}

func TestLevelDB_BulkAndIterate(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	bulk := db.Bulk()
	assert.Nil(t, bulk.Put([]byte("a1"), []byte("1")))
	assert.Nil(t, bulk.Put([]byte("a2"), []byte("2")))
	assert.Nil(t, bulk.Put([]byte("b1"), []byte("3")))
	assert.Equal(t, 3, bulk.Len())

	has, _ := db.Has([]byte("a1"))
	assert.False(t, has)

	assert.Nil(t, bulk.Write())
	assert.Equal(t, 0, bulk.Len())

	store := kv.Bucket("a").NewStore(db)
	iter := store.Iterate(kv.Range{})
	defer iter.Release()

	var keys, vals []string
	for iter.Next() {
		keys = append(keys, string(iter.Key()))
		vals = append(vals, string(iter.Value()))
	}
	assert.Nil(t, iter.Error())
	assert.Equal(t, []string{"1", "2"}, keys)
	assert.Equal(t, []string{"1", "2"}, vals)
}

func TestLevelDB_Reopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "db")

	db, err := New(path, Options{})
	require.NoError(t, err)
	require.NoError(t, db.Put([]byte("k"), []byte("v")))
	require.NoError(t, db.Close())

	db, err = New(path, Options{})
	require.NoError(t, err)
	defer db.Close()

	got, err := db.Get([]byte("k"))
	assert.Nil(t, err)
	assert.Equal(t, []byte("v"), got)
}
