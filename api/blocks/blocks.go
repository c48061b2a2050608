// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package blocks

import (
	"net/http"
	"strconv"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/eventdb"
	"github.com/vechain/vault/runtime"
)

type Block struct {
	Number uint32                  `json:"number"`
	Events []*events.FilteredEvent `json:"events,omitempty"`
}

type Blocks struct {
	rt *runtime.Runtime
}

func New(rt *runtime.Runtime) *Blocks {
	return &Blocks{rt}
}

// parseRevision accepts "best" or a block number not beyond the current block.
func (b *Blocks) parseRevision(s string) (uint32, error) {
	best := b.rt.Clock().Current()
	if s == "" || s == "best" {
		return best, nil
	}
	n, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, utils.BadRequest(errors.WithMessage(err, "revision"))
	}
	if uint32(n) > best {
		return 0, utils.NotFound(errors.New("block not reached"))
	}
	return uint32(n), nil
}

func (b *Blocks) handleGetBlock(w http.ResponseWriter, req *http.Request) error {
	num, err := b.parseRevision(mux.Vars(req)["revision"])
	if err != nil {
		return err
	}

	blk := &Block{Number: num}
	if req.URL.Query().Get("expanded") == "true" {
		evs, err := b.rt.Events().Filter(req.Context(), &eventdb.Filter{
			Range: &eventdb.Range{From: num, To: num},
		})
		if err != nil {
			return err
		}
		blk.Events = make([]*events.FilteredEvent, 0, len(evs))
		for _, ev := range evs {
			blk.Events = append(blk.Events, events.ConvertEvent(ev))
		}
	}
	return utils.WriteJSON(w, blk)
}

func (b *Blocks) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/{revision}").
		Methods(http.MethodGet).
		Name("GET /blocks/{revision}").
		HandlerFunc(utils.WrapHandlerFunc(b.handleGetBlock))
}
