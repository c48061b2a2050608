// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package api

import (
	"net/http"
	"strings"
	"sync/atomic"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"

	"github.com/vechain/vault/api/accounts"
	"github.com/vechain/vault/api/blocks"
	"github.com/vechain/vault/api/collectibles"
	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/api/governance"
	"github.com/vechain/vault/api/middleware"
	"github.com/vechain/vault/api/stakes"
	"github.com/vechain/vault/api/subscriptions"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
	"github.com/vechain/vault/runtime"
)

var logger = log.WithContext("pkg", "api")

type Options struct {
	AllowedOrigins       string
	EnableMetrics        bool
	EnableReqLogger      *atomic.Bool
	SlowQueriesThreshold time.Duration
	EventsLimit          uint64
}

// New returns the api handler, and a func to close the websocket subscriptions.
func New(rt *runtime.Runtime, opts Options) (http.HandlerFunc, func()) {
	origins := strings.Split(strings.TrimSpace(opts.AllowedOrigins), ",")
	for i, o := range origins {
		origins[i] = strings.ToLower(strings.TrimSpace(o))
	}

	router := mux.NewRouter()

	stakes.New(rt).
		Mount(router, "/stakes")
	accounts.New(rt).
		Mount(router, "/accounts")
	governance.New(rt).
		Mount(router, "/config", "/admin")
	collectibles.New(rt).
		Mount(router, "/collectibles")
	events.New(rt.Events(), opts.EventsLimit).
		Mount(router, "/events")
	blocks.New(rt).
		Mount(router, "/blocks")
	subs := subscriptions.New(rt, origins)
	subs.Mount(router, "/subscriptions")

	if opts.EnableMetrics {
		router.PathPrefix("/metrics").Handler(metrics.HTTPHandler())
		router.Use(metricsMiddleware)
	}

	handler := handlers.CompressHandler(router)
	handler = handlers.CORS(
		handlers.AllowedOrigins(origins),
		handlers.AllowedHeaders([]string{"content-type"}),
	)(handler)

	enabled := opts.EnableReqLogger
	if enabled == nil {
		enabled = &atomic.Bool{}
	}
	handler = middleware.RequestLoggerMiddleware(logger, enabled, opts.SlowQueriesThreshold)(handler)

	return handler.ServeHTTP, subs.Close
}
