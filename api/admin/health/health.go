// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package health

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/health"
)

const delayBuffer = 5 * time.Second

type API struct {
	health        *health.Health
	blockInterval time.Duration
}

func NewAPI(h *health.Health, blockInterval time.Duration) *API {
	return &API{
		health:        h,
		blockInterval: blockInterval,
	}
}

func (a *API) handleGetHealth(w http.ResponseWriter, r *http.Request) error {
	maxTimeBetweenBlocks := a.blockInterval + delayBuffer
	if s := r.URL.Query().Get("maxTimeBetweenBlocks"); s != "" {
		parsed, err := time.ParseDuration(s)
		if err != nil {
			return utils.BadRequest(errors.WithMessage(err, "maxTimeBetweenBlocks"))
		}
		maxTimeBetweenBlocks = parsed
	}

	status := a.health.Status(maxTimeBetweenBlocks)
	w.Header().Set("Content-Type", utils.JSONContentType)
	if !status.Healthy {
		w.WriteHeader(http.StatusServiceUnavailable)
	} else {
		w.WriteHeader(http.StatusOK)
	}
	return utils.WriteJSON(w, status)
}

func (a *API) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodGet).
		Name("health").
		HandlerFunc(utils.WrapHandlerFunc(a.handleGetHealth))
}
