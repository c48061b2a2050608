// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package staker

import (
	"github.com/vechain/vault/builtin/reverts"
)

var (
	ErrPaused                = reverts.New("staker: paused")
	ErrNotPaused             = reverts.New("staker: not paused")
	ErrNotAuthorized         = reverts.New("staker: caller is not the administrator")
	ErrAlreadyStaked         = reverts.New("staker: token already staked")
	ErrRecordNotFound        = reverts.New("staker: stake record not found")
	ErrNotStaked             = reverts.New("staker: record is not staked")
	ErrNotUnbonding          = reverts.New("staker: record is not unbonding")
	ErrNotOwner              = reverts.New("staker: caller does not own the record")
	ErrDelayNotElapsed       = reverts.New("staker: delay period not elapsed")
	ErrUnbondingNotElapsed   = reverts.New("staker: unbonding period not elapsed")
	ErrCustodyTransferFailed = reverts.New("staker: custody transfer failed")
	ErrAlreadyInitialized    = reverts.New("staker: already initialized")
	ErrNotInitialized        = reverts.New("staker: not initialized")
	ErrRewardOverflow        = reverts.New("staker: reward overflow")
	ErrInvalidConfig         = reverts.New("staker: invalid config")
)

// custodyError reports a failed custody transfer. It matches both
// ErrCustodyTransferFailed and the adapter's own error.
type custodyError struct {
	cause error
}

func (e *custodyError) Error() string {
	return ErrCustodyTransferFailed.Error() + ": " + e.cause.Error()
}

func (e *custodyError) Unwrap() []error {
	return []error{ErrCustodyTransferFailed, e.cause}
}
