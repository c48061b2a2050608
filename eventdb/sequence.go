// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package eventdb

import (
	"math"

	"github.com/pkg/errors"
)

// sequence orders events by block number then index.
type sequence int64

func newSequence(blockNum uint32, index uint32) (sequence, error) {
	if (index & math.MaxInt32) != index {
		return 0, errors.New("index out of range")
	}
	return (sequence(blockNum) << 31) | sequence(index), nil
}

func (s sequence) BlockNumber() uint32 {
	return uint32(s >> 31)
}

func (s sequence) Index() uint32 {
	return uint32(s & math.MaxInt32)
}
