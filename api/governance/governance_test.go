// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package governance

import (
	"bytes"
	"encoding/json"
	"io"
	"math/big"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ethereum/go-ethereum/common/math"
	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/test/testvault"
)

func TestGovernance(t *testing.T) {
	tv, err := testvault.New()
	require.NoError(t, err)
	defer tv.Close()

	router := mux.NewRouter()
	New(tv.Runtime()).Mount(router, "/config", "/admin")
	ts := httptest.NewServer(router)
	defer ts.Close()

	call := func(method, path string, body any) (int, *Config) {
		var reader io.Reader
		if body != nil {
			data, err := json.Marshal(body)
			require.NoError(t, err)
			reader = bytes.NewReader(data)
		}
		req, err := http.NewRequest(method, ts.URL+path, reader)
		require.NoError(t, err)
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		defer res.Body.Close()
		if res.StatusCode != http.StatusOK {
			return res.StatusCode, nil
		}
		var cfg Config
		require.NoError(t, json.NewDecoder(res.Body).Decode(&cfg))
		return res.StatusCode, &cfg
	}

	admin, stranger, next := tv.Admin(), datagen.RandAddress(), datagen.RandAddress()

	code, cfg := call(http.MethodGet, "/config", nil)
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, admin, cfg.Administrator)
	assert.Equal(t, uint32(10), cfg.DelayPeriod)
	assert.Equal(t, uint32(20), cfg.UnbondingPeriod)
	assert.Equal(t, "untilWithdrawn", cfg.CountPolicy)
	assert.True(t, cfg.WithdrawGated)
	assert.False(t, cfg.Paused)

	code, _ = call(http.MethodPost, "/admin/pause", CallerRequest{stranger})
	assert.Equal(t, http.StatusForbidden, code)

	code, cfg = call(http.MethodPost, "/admin/pause", CallerRequest{admin})
	require.Equal(t, http.StatusOK, code)
	assert.True(t, cfg.Paused)

	code, _ = call(http.MethodPost, "/admin/pause", CallerRequest{admin})
	assert.Equal(t, http.StatusLocked, code, "already paused")

	code, cfg = call(http.MethodPost, "/admin/unpause", CallerRequest{admin})
	require.Equal(t, http.StatusOK, code)
	assert.False(t, cfg.Paused)

	code, _ = call(http.MethodPost, "/admin/unpause", CallerRequest{admin})
	assert.Equal(t, http.StatusConflict, code, "not paused")

	code, cfg = call(http.MethodPost, "/admin/reward-rate", RewardRateRequest{admin, (*math.HexOrDecimal256)(big.NewInt(42))})
	require.Equal(t, http.StatusOK, code)
	assert.Zero(t, big.NewInt(42).Cmp((*big.Int)(cfg.RewardPerBlock)))

	code, _ = call(http.MethodPost, "/admin/reward-rate", CallerRequest{admin})
	assert.Equal(t, http.StatusBadRequest, code)

	code, cfg = call(http.MethodPost, "/admin/delay-period", PeriodRequest{admin, 3})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint32(3), cfg.DelayPeriod)

	code, cfg = call(http.MethodPost, "/admin/unbonding-period", PeriodRequest{admin, 4})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, uint32(4), cfg.UnbondingPeriod)

	code, _ = call(http.MethodPost, "/admin/administrator", AdministratorRequest{Caller: admin})
	assert.Equal(t, http.StatusBadRequest, code, "zero administrator")

	code, cfg = call(http.MethodPost, "/admin/administrator", AdministratorRequest{admin, next})
	require.Equal(t, http.StatusOK, code)
	assert.Equal(t, next, cfg.Administrator)

	code, _ = call(http.MethodPost, "/admin/delay-period", PeriodRequest{admin, 1})
	assert.Equal(t, http.StatusForbidden, code, "old administrator")

	code, _ = call(http.MethodGet, "/admin/pause", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, code)
}
