// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"math/big"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/api/governance"
	"github.com/vechain/vault/api/stakes"
	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/health"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/test/testvault"
	"github.com/vechain/vault/vault"
)

func post(t *testing.T, url string, body any) (*http.Response, []byte) {
	data, err := json.Marshal(body)
	require.NoError(t, err)
	res, err := http.Post(url, "application/json", bytes.NewReader(data)) //#nosec G107
	require.NoError(t, err)
	defer res.Body.Close()
	var buf bytes.Buffer
	_, err = buf.ReadFrom(res.Body)
	require.NoError(t, err)
	return res, buf.Bytes()
}

func TestAPI(t *testing.T) {
	tv, err := testvault.New(func(cfg *staker.Config) {
		cfg.DelayPeriod = 10
		cfg.UnbondingPeriod = 20
	})
	require.NoError(t, err)
	defer tv.Close()

	handler, closeFn := New(tv.Runtime(), Options{
		AllowedOrigins: "https://example.org, *.local",
		EventsLimit:    100,
	})
	ts := httptest.NewServer(handler)
	defer ts.Close()
	defer closeFn()

	alice := datagen.RandAddress()
	id := vault.NewTokenID(42)
	require.NoError(t, tv.MintTo(alice, id))

	tv.Clock().Set(100)
	res, body := post(t, ts.URL+"/stakes", stakes.StakeRequest{Caller: alice, TokenID: id})
	require.Equal(t, http.StatusOK, res.StatusCode, string(body))
	var info stakes.StakeInfo
	require.NoError(t, json.Unmarshal(body, &info))
	assert.Equal(t, "staked", strings.ToLower(info.Status))
	assert.Equal(t, uint32(100), info.StakeBlock)

	tv.Clock().Set(109)
	res, _ = post(t, ts.URL+"/stakes/42/unbond", stakes.CallerRequest{Caller: alice})
	assert.Equal(t, http.StatusConflict, res.StatusCode)

	tv.Clock().Set(110)
	res, _ = post(t, ts.URL+"/stakes/42/unbond", stakes.CallerRequest{Caller: alice})
	require.Equal(t, http.StatusOK, res.StatusCode)

	tv.Clock().Set(130)
	res, body = post(t, ts.URL+"/stakes/42/withdraw", stakes.CallerRequest{Caller: alice})
	require.Equal(t, http.StatusOK, res.StatusCode)
	var reward stakes.Reward
	require.NoError(t, json.Unmarshal(body, &reward))
	assert.Equal(t, "10", (*big.Int)(reward.Amount).String())

	body, code := httpGet(t, ts.URL+"/config")
	require.Equal(t, http.StatusOK, code)
	var cfg governance.Config
	require.NoError(t, json.Unmarshal(body, &cfg))
	assert.Equal(t, uint32(130), cfg.Block)
	assert.Equal(t, uint32(10), cfg.DelayPeriod)

	body, code = httpGet(t, ts.URL+"/blocks/best")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"number":130}`, string(body))

	_, code = httpGet(t, ts.URL+"/metrics")
	assert.Equal(t, http.StatusNotFound, code)

	// CORS
	req, err := http.NewRequest(http.MethodGet, ts.URL+"/config", nil)
	require.NoError(t, err)
	req.Header.Set("Origin", "https://example.org")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Equal(t, "https://example.org", res.Header.Get("Access-Control-Allow-Origin"))

	req.Header.Set("Origin", "https://evil.com")
	res, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	res.Body.Close()
	assert.Empty(t, res.Header.Get("Access-Control-Allow-Origin"))
}

func TestAPI_Metrics(t *testing.T) {
	tv, err := testvault.New()
	require.NoError(t, err)
	defer tv.Close()

	handler, closeFn := New(tv.Runtime(), Options{AllowedOrigins: "*", EnableMetrics: true})
	ts := httptest.NewServer(handler)
	defer ts.Close()
	defer closeFn()

	_, code := httpGet(t, ts.URL+"/config")
	require.Equal(t, http.StatusOK, code)
	_, ok := scrape(t, ts.URL)["vault_api_request_count"]
	assert.True(t, ok)
}

func TestStartAdminServer(t *testing.T) {
	var level slog.LevelVar
	level.Set(slog.LevelInfo)
	var apiLogs atomic.Bool

	h := health.New()
	h.LedgerInitialized(true)
	url, closeFn, err := StartAdminServer("localhost:0", &level, &apiLogs, h, time.Minute)
	require.NoError(t, err)
	defer closeFn()

	body, code := httpGet(t, url+"/loglevel")
	require.Equal(t, http.StatusOK, code)
	assert.JSONEq(t, `{"currentLevel":"INFO"}`, string(body))

	res, _ := post(t, url+"/loglevel", map[string]string{"level": "debug"})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.Equal(t, slog.LevelDebug, level.Level())

	res, _ = post(t, url+"/apilogs", map[string]bool{"enabled": true})
	require.Equal(t, http.StatusOK, res.StatusCode)
	assert.True(t, apiLogs.Load())

	_, code = httpGet(t, url+"/health")
	assert.Equal(t, http.StatusOK, code)

	_, _, err = StartAdminServer("bad addr", &level, &apiLogs, nil, 0)
	assert.Error(t, err)
}
