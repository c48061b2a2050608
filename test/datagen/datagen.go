// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package datagen generates random values for tests.
package datagen

import (
	"crypto/rand"
	mathrand "math/rand/v2"

	"github.com/vechain/vault/vault"
)

func RandAddress() (addr vault.Address) {
	rand.Read(addr[:])
	return
}

func RandBytes32() (b vault.Bytes32) {
	rand.Read(b[:])
	return
}

func RandTokenID() vault.TokenID {
	return vault.NewTokenID(mathrand.Uint64()) //#nosec G404
}

func RandInt() int {
	return mathrand.Int() //#nosec G404
}

func RandIntN(n int) int {
	return mathrand.N(n) //#nosec G404
}

func RandUint32N(n uint32) uint32 {
	return mathrand.N(n) //#nosec G404
}
