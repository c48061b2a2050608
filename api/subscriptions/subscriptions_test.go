// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/test/datagen"
	"github.com/vechain/vault/test/testvault"
	"github.com/vechain/vault/vault"
)

func TestSubscribeEvents(t *testing.T) {
	tv, err := testvault.New()
	require.NoError(t, err)
	defer tv.Close()

	subs := New(tv.Runtime(), []string{"example.org"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer subs.Close()

	rt := tv.Runtime()
	alice, bob := datagen.RandAddress(), datagen.RandAddress()
	for i, owner := range []vault.Address{alice, bob, alice} {
		require.NoError(t, tv.MintTo(owner, vault.NewTokenID(uint64(i+1))))
	}
	tv.Clock().Set(5)
	require.NoError(t, rt.Stake(alice, vault.NewTokenID(1)))
	require.NoError(t, rt.Stake(bob, vault.NewTokenID(2)))

	u := url.URL{
		Scheme:   "ws",
		Host:     strings.TrimPrefix(ts.URL, "http://"),
		Path:     "/subscriptions/events",
		RawQuery: url.Values{"account": {alice.String()}, "kind": {"Staked"}}.Encode(),
	}
	conn, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	require.NoError(t, err)
	defer conn.Close()
	assert.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)

	read := func() *events.FilteredEvent {
		require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
		var ev events.FilteredEvent
		require.NoError(t, conn.ReadJSON(&ev))
		return &ev
	}

	// backlog
	ev := read()
	assert.Equal(t, "Staked", ev.Kind)
	assert.Equal(t, alice, ev.Account)
	assert.Equal(t, vault.NewTokenID(1), *ev.TokenID)
	assert.Equal(t, uint32(5), ev.Block)

	// live, bob's stake is filtered out
	tv.Clock().Set(7)
	require.Error(t, rt.Stake(bob, vault.NewTokenID(2)))
	require.NoError(t, rt.Stake(alice, vault.NewTokenID(3)))
	ev = read()
	assert.Equal(t, vault.NewTokenID(3), *ev.TokenID)
	assert.Equal(t, uint32(7), ev.Block)
}

func TestSubscribeEvents_Rejected(t *testing.T) {
	tv, err := testvault.New()
	require.NoError(t, err)
	defer tv.Close()

	subs := New(tv.Runtime(), []string{"example.org"})
	router := mux.NewRouter()
	subs.Mount(router, "/subscriptions")
	ts := httptest.NewServer(router)
	defer ts.Close()
	defer subs.Close()

	host := strings.TrimPrefix(ts.URL, "http://")

	u := url.URL{Scheme: "ws", Host: host, Path: "/subscriptions/events", RawQuery: "pos=abc"}
	_, resp, err := websocket.DefaultDialer.Dial(u.String(), nil)
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	u.RawQuery = ""
	_, resp, err = websocket.DefaultDialer.Dial(u.String(), http.Header{"Origin": {"http://evil.com"}})
	assert.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	conn, _, err := websocket.DefaultDialer.Dial(u.String(), http.Header{"Origin": {"https://example.org"}})
	require.NoError(t, err)
	conn.Close()
}
