// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/vechain/vault/health"
)

func TestAdminRoutes(t *testing.T) {
	var (
		level   slog.LevelVar
		enabled atomic.Bool
	)
	h := health.New()
	h.LedgerInitialized(true)
	handler := New(&level, &enabled, h, time.Minute)

	for path, want := range map[string]int{
		"/admin/loglevel": http.StatusOK,
		"/admin/apilogs":  http.StatusOK,
		"/admin/health":   http.StatusOK,
		"/admin/unknown":  http.StatusNotFound,
		"/loglevel":       http.StatusNotFound,
	} {
		rr := httptest.NewRecorder()
		handler(rr, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, want, rr.Code, path)
	}
}

func TestAdminRoutes_NoHealth(t *testing.T) {
	var (
		level   slog.LevelVar
		enabled atomic.Bool
	)
	rr := httptest.NewRecorder()
	New(&level, &enabled, nil, 0)(rr, httptest.NewRequest(http.MethodGet, "/admin/health", nil))
	assert.Equal(t, http.StatusNotFound, rr.Code)
}
