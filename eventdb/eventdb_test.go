// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"context"
	"math"
	"math/big"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/vault"
)

func newEvents(alice, bob vault.Address) []*Event {
	one, two := vault.NewTokenID(1), vault.NewTokenID(2)
	return []*Event{
		{BlockNumber: 1, Index: 0, Kind: "Staked", Account: alice, TokenID: &one},
		{BlockNumber: 1, Index: 1, Kind: "Staked", Account: bob, TokenID: &two},
		{BlockNumber: 5, Index: 0, Kind: "Paused", Account: bob},
		{BlockNumber: 11, Index: 0, Kind: "UnbondingStarted", Account: alice, TokenID: &one, Amount: big.NewInt(10)},
		{BlockNumber: 31, Index: 0, Kind: "Withdrawn", Account: alice, TokenID: &one, Amount: big.NewInt(10)},
	}
}

func TestEventDB_Filter(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()

	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	events := newEvents(alice, bob)
	require.NoError(t, db.Insert(events))

	one := vault.NewTokenID(1)
	tests := []struct {
		name   string
		filter *Filter
		want   []*Event
	}{
		{"all", nil, events},
		{"account", &Filter{Account: &alice}, []*Event{events[0], events[3], events[4]}},
		{"token", &Filter{TokenID: &one, Kinds: []string{"Withdrawn"}}, []*Event{events[4]}},
		{"kinds", &Filter{Kinds: []string{"Paused", "Staked"}}, events[:3]},
		{"range", &Filter{Range: &Range{From: 1, To: 5}}, events[:3]},
		{"single block", &Filter{Range: &Range{From: 11, To: 11}}, []*Event{events[3]}},
		{"empty range", &Filter{Range: &Range{From: 12, To: 30}}, nil},
		{"desc with limit", &Filter{Order: DESC, Options: &Options{Offset: 1, Limit: 2}}, []*Event{events[3], events[2]}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := db.Filter(context.Background(), tt.filter)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), len(got))
			for i := range got {
				assert.Equal(t, tt.want[i].BlockNumber, got[i].BlockNumber)
				assert.Equal(t, tt.want[i].Index, got[i].Index)
				assert.Equal(t, tt.want[i].Kind, got[i].Kind)
				assert.Equal(t, tt.want[i].Account, got[i].Account)
				assert.Equal(t, tt.want[i].TokenID, got[i].TokenID)
				if tt.want[i].Amount == nil {
					assert.Nil(t, got[i].Amount)
				} else {
					assert.Zero(t, tt.want[i].Amount.Cmp(got[i].Amount))
				}
			}
		})
	}
}

func TestEventDB_NewestBlock(t *testing.T) {
	db, err := New(filepath.Join(t.TempDir(), "events.db"))
	require.NoError(t, err)

	newest, err := db.NewestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint32(0), newest)

	require.NoError(t, db.Insert(newEvents(datagen.RandAddress(), datagen.RandAddress())))
	require.NoError(t, db.Close())

	db, err = New(db.Path())
	require.NoError(t, err)
	defer db.Close()

	newest, err = db.NewestBlock()
	require.NoError(t, err)
	assert.Equal(t, uint32(31), newest)
}

func TestEventDB_Cancelled(t *testing.T) {
	db, err := NewMem()
	require.NoError(t, err)
	defer db.Close()
	require.NoError(t, db.Insert(newEvents(datagen.RandAddress(), datagen.RandAddress())))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = db.Filter(ctx, &Filter{})
	assert.Error(t, err)
}

func TestSequence(t *testing.T) {
	tests := []struct {
		blockNum, index uint32
	}{
		{0, 0},
		{1, 2},
		{math.MaxUint32, 3},
		{5, math.MaxInt32},
		{math.MaxUint32, math.MaxInt32},
	}
	for _, tt := range tests {
		seq, err := newSequence(tt.blockNum, tt.index)
		require.NoError(t, err)
		assert.True(t, seq >= 0)
		assert.Equal(t, tt.blockNum, seq.BlockNumber())
		assert.Equal(t, tt.index, seq.Index())
	}

	_, err := newSequence(1, math.MaxInt32+1)
	assert.Error(t, err)

	a, _ := newSequence(2, 0)
	b, _ := newSequence(1, math.MaxInt32)
	assert.Greater(t, a, b)
}
