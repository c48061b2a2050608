// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package vault

import (
	"encoding/json"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
	"github.com/pkg/errors"
)

// TokenID identifies a unique collectible. It is a 256-bit unsigned integer
// stored big-endian, so it is comparable and usable as a map key.
type TokenID [32]byte

var (
	_ json.Marshaler   = TokenID{}
	_ json.Unmarshaler = (*TokenID)(nil)
)

// NewTokenID creates a token id from a small integer.
func NewTokenID(n uint64) TokenID {
	return TokenID(uint256.NewInt(n).Bytes32())
}

// ParseTokenID parses a decimal or 0x-prefixed hex token id.
func ParseTokenID(s string) (TokenID, error) {
	var (
		v   *uint256.Int
		err error
	)
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		// FromHex refuses zero padding, which ids copied from 32-byte words carry
		digits := s[2:]
		if trimmed := strings.TrimLeft(digits, "0"); trimmed != "" {
			digits = trimmed
		} else if digits != "" {
			digits = "0"
		}
		v, err = uint256.FromHex("0x" + digits)
	} else {
		v, err = uint256.FromDecimal(s)
	}
	if err != nil {
		return TokenID{}, errors.Wrapf(err, "invalid token id %q", s)
	}
	return TokenID(v.Bytes32()), nil
}

// MustParseTokenID parses the token id, panic on error.
func MustParseTokenID(s string) TokenID {
	id, err := ParseTokenID(s)
	if err != nil {
		panic(err)
	}
	return id
}

// Uint256 returns the numeric value of the id.
func (t TokenID) Uint256() *uint256.Int {
	return new(uint256.Int).SetBytes32(t[:])
}

// Big returns the numeric value of the id as big.Int.
func (t TokenID) Big() *big.Int {
	return new(big.Int).SetBytes(t[:])
}

// Bytes returns byte slice form of the id, used as a storage key.
func (t TokenID) Bytes() []byte {
	return t[:]
}

// String returns the decimal presentation.
func (t TokenID) String() string {
	return t.Uint256().Dec()
}

// MarshalJSON implements json.Marshaler.
func (t TokenID) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON accepts a decimal/hex string or a plain JSON number.
func (t *TokenID) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	parsed, err := ParseTokenID(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}

// UnmarshalYAML implements yaml unmarshalling through a plain scalar.
func (t *TokenID) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	parsed, err := ParseTokenID(s)
	if err != nil {
		return err
	}
	*t = parsed
	return nil
}
