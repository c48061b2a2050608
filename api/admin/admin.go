// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package admin

import (
	"log/slog"
	"net/http"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/admin/apilogs"
	healthAPI "github.com/vechain/vault/api/admin/health"
	"github.com/vechain/vault/api/admin/loglevel"
	"github.com/vechain/vault/health"
)

// New returns the handler of the operator facing admin API. The health route
// is mounted only when h is given.
func New(logLevel *slog.LevelVar, apiLogsToggle *atomic.Bool, h *health.Health, blockInterval time.Duration) http.HandlerFunc {
	router := mux.NewRouter()
	sub := router.PathPrefix("/admin").Subrouter()

	loglevel.New(logLevel).Mount(sub, "/loglevel")
	apilogs.New(apiLogsToggle).Mount(sub, "/apilogs")
	if h != nil {
		healthAPI.NewAPI(h, blockInterval).Mount(sub, "/health")
	}

	handler := handlers.CompressHandler(router)

	return handler.ServeHTTP
}
