// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package events

import (
	"math"
	"net/http"
	"slices"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/builtin/staker"
	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/runtime"
)

var kinds = []string{
	string(staker.EventStaked),
	string(staker.EventUnbondingStarted),
	string(staker.EventWithdrawn),
	string(staker.EventPaused),
	string(staker.EventUnpaused),
	string(staker.EventRewardRateChanged),
	string(staker.EventDelayPeriodChanged),
	string(staker.EventUnbondingPeriodChanged),
	string(staker.EventAdministratorChanged),
}

type Events struct {
	store runtime.EventStore
	limit uint64
}

// New serves the event log. limit caps the number of events of one query.
func New(store runtime.EventStore, limit uint64) *Events {
	return &Events{store, limit}
}

func (e *Events) convertFilter(filter *EventFilter) (*eventdb.Filter, error) {
	f := &eventdb.Filter{
		Account: filter.Account,
		TokenID: filter.TokenID,
		Order:   filter.Order,
		Options: &eventdb.Options{Limit: e.limit},
	}
	switch filter.Order {
	case "", eventdb.ASC, eventdb.DESC:
	default:
		return nil, errors.Errorf("order: unknown %q", filter.Order)
	}
	for _, kind := range filter.Kinds {
		if !slices.Contains(kinds, kind) {
			return nil, errors.Errorf("kinds: unknown %q", kind)
		}
	}
	f.Kinds = filter.Kinds

	if filter.Range != nil {
		f.Range = &eventdb.Range{From: 0, To: math.MaxUint32}
		if filter.Range.From != nil {
			f.Range.From = *filter.Range.From
		}
		if filter.Range.To != nil {
			f.Range.To = *filter.Range.To
		}
		if f.Range.From > f.Range.To {
			return nil, errors.New("range: from is after to")
		}
	}
	if filter.Options != nil {
		f.Options.Offset = filter.Options.Offset
		if filter.Options.Limit != nil {
			if *filter.Options.Limit > e.limit {
				return nil, errors.Errorf("options.limit: exceeds the maximum of %d", e.limit)
			}
			f.Options.Limit = *filter.Options.Limit
		}
	}
	return f, nil
}

func (e *Events) handleFilter(w http.ResponseWriter, req *http.Request) error {
	var filter EventFilter
	if err := utils.ParseJSON(req.Body, &filter); err != nil {
		return utils.BadRequest(errors.WithMessage(err, "body"))
	}
	f, err := e.convertFilter(&filter)
	if err != nil {
		return utils.BadRequest(err)
	}
	evs, err := e.store.Filter(req.Context(), f)
	if err != nil {
		return err
	}
	out := make([]*FilteredEvent, 0, len(evs))
	for _, ev := range evs {
		out = append(out, ConvertEvent(ev))
	}
	return utils.WriteJSON(w, out)
}

func (e *Events) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("").
		Methods(http.MethodPost).
		Name("POST /events").
		HandlerFunc(utils.WrapHandlerFunc(e.handleFilter))
}
