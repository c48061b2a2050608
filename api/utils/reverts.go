// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package utils

import (
	"net/http"

	"github.com/pkg/errors"

	"github.com/vechain/vault/builtin/collectible"
	"github.com/vechain/vault/builtin/reverts"
	"github.com/vechain/vault/builtin/staker"
)

var revertStatus = []struct {
	err    error
	status int
}{
	{staker.ErrNotAuthorized, http.StatusForbidden},
	{staker.ErrNotOwner, http.StatusForbidden},
	{collectible.ErrNotMinter, http.StatusForbidden},
	{collectible.ErrNotOwnerNorApproved, http.StatusForbidden},
	{collectible.ErrWrongFrom, http.StatusForbidden},
	{staker.ErrRecordNotFound, http.StatusNotFound},
	{collectible.ErrTokenNotFound, http.StatusNotFound},
	{staker.ErrPaused, http.StatusLocked},
	{staker.ErrNotInitialized, http.StatusServiceUnavailable},
	{staker.ErrInvalidConfig, http.StatusBadRequest},
	{collectible.ErrZeroAddress, http.StatusBadRequest},
	{collectible.ErrSelfApproval, http.StatusBadRequest},
}

// RevertError maps a ledger revert to the status it is responded with.
// Reverts not listed are conflicts with the current state. Other errors pass through.
func RevertError(err error) error {
	if !reverts.IsRevertErr(err) {
		return err
	}
	for _, rs := range revertStatus {
		if errors.Is(err, rs.err) {
			return HTTPError(err, rs.status)
		}
	}
	return HTTPError(err, http.StatusConflict)
}
