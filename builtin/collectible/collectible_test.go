// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package collectible

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/lvldb"
	"github.com/vechain/vault/state"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/vault"
)

func newCollectible(t *testing.T) *Collectible {
	db, err := lvldb.NewMem()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return New(vault.CollectibleAddress, state.New(db, 0))
}

func TestMint(t *testing.T) {
	c := newCollectible(t)
	minter, alice := datagen.RandAddress(), datagen.RandAddress()
	id := vault.NewTokenID(1)

	_, err := c.OwnerOf(id)
	assert.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, c.SetMinter(minter))
	assert.ErrorIs(t, c.Mint(alice, alice, id), ErrNotMinter)
	assert.ErrorIs(t, c.Mint(minter, vault.Address{}, id), ErrZeroAddress)

	require.NoError(t, c.Mint(minter, alice, id))
	assert.ErrorIs(t, c.Mint(minter, alice, id), ErrTokenExists)

	owner, err := c.OwnerOf(id)
	require.NoError(t, err)
	assert.Equal(t, alice, owner)

	balance, _ := c.BalanceOf(alice)
	assert.Equal(t, uint64(1), balance)
}

func TestTransferFrom(t *testing.T) {
	c := newCollectible(t)
	alice, bob, operator := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	id := vault.NewTokenID(7)
	require.NoError(t, c.Mint(alice, alice, id))

	tests := []struct {
		name    string
		caller  vault.Address
		from    vault.Address
		to      vault.Address
		wantErr error
	}{
		{"stranger", bob, alice, bob, ErrNotOwnerNorApproved},
		{"wrong from", alice, bob, bob, ErrWrongFrom},
		{"zero receiver", alice, alice, vault.Address{}, ErrZeroAddress},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, c.TransferFrom(tt.caller, tt.from, tt.to, id), tt.wantErr)
		})
	}

	// single token approval is consumed by the transfer
	require.NoError(t, c.Approve(alice, operator, id))
	approved, _ := c.GetApproved(id)
	assert.Equal(t, operator, approved)

	require.NoError(t, c.TransferFrom(operator, alice, bob, id))
	owner, _ := c.OwnerOf(id)
	assert.Equal(t, bob, owner)
	approved, _ = c.GetApproved(id)
	assert.True(t, approved.IsZero())

	aliceBalance, _ := c.BalanceOf(alice)
	bobBalance, _ := c.BalanceOf(bob)
	assert.Equal(t, uint64(0), aliceBalance)
	assert.Equal(t, uint64(1), bobBalance)

	assert.ErrorIs(t, c.TransferFrom(operator, bob, alice, id), ErrNotOwnerNorApproved)
}

func TestApprovalForAll(t *testing.T) {
	c := newCollectible(t)
	alice, bob, operator := datagen.RandAddress(), datagen.RandAddress(), datagen.RandAddress()
	id := vault.NewTokenID(9)
	require.NoError(t, c.Mint(alice, alice, id))

	assert.ErrorIs(t, c.SetApprovalForAll(alice, alice, true), ErrSelfApproval)
	assert.ErrorIs(t, c.Approve(alice, alice, id), ErrSelfApproval)
	assert.ErrorIs(t, c.Approve(operator, bob, id), ErrNotOwnerNorApproved)

	require.NoError(t, c.SetApprovalForAll(alice, operator, true))
	ok, _ := c.IsApprovedForAll(alice, operator)
	assert.True(t, ok)

	// an operator may approve on behalf of the owner
	require.NoError(t, c.Approve(operator, bob, id))

	require.NoError(t, c.SetApprovalForAll(alice, operator, false))
	ok, _ = c.IsApprovedForAll(alice, operator)
	assert.False(t, ok)

	require.NoError(t, c.TransferFrom(bob, alice, bob, id))
}
