// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"math"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

const readBatchSize = 256

// eventReader reads the events after its position, in order.
type eventReader struct {
	store   runtime.EventStore
	account *vault.Address
	tokenID *vault.TokenID
	kinds   []string

	// events of block already delivered
	block uint32
	skip  uint64
}

func newEventReader(store runtime.EventStore, pos uint32, filter *events.EventFilter) *eventReader {
	return &eventReader{
		store:   store,
		account: filter.Account,
		tokenID: filter.TokenID,
		kinds:   filter.Kinds,
		block:   pos,
	}
}

func (er *eventReader) Read(ctx context.Context) ([]*events.FilteredEvent, error) {
	evs, err := er.store.Filter(ctx, &eventdb.Filter{
		Range:   &eventdb.Range{From: er.block, To: math.MaxUint32},
		Account: er.account,
		TokenID: er.tokenID,
		Kinds:   er.kinds,
		Options: &eventdb.Options{Offset: er.skip, Limit: readBatchSize},
	})
	if err != nil {
		return nil, err
	}

	msgs := make([]*events.FilteredEvent, 0, len(evs))
	for _, ev := range evs {
		if ev.BlockNumber != er.block {
			er.block, er.skip = ev.BlockNumber, 0
		}
		er.skip++
		msgs = append(msgs, events.ConvertEvent(ev))
	}
	return msgs, nil
}
