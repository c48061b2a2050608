// Copyright (c) 2025 The VeChainThor developers
//
// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package subscriptions

import (
	"context"
	"net/http"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"
	"github.com/pkg/errors"

	"github.com/vechain/vault/api/events"
	"github.com/vechain/vault/api/utils"
	"github.com/vechain/vault/co"
	"github.com/vechain/vault/log"
	"github.com/vechain/vault/metrics"
	"github.com/vechain/vault/runtime"
	"github.com/vechain/vault/vault"
)

var (
	logger = log.WithContext("pkg", "subscriptions")

	metricActiveCount = metrics.LazyLoadGaugeVec("api_active_websocket_count", []string{"subject"})
)

const (
	// Time allowed to write a message to the peer.
	writeWait = 10 * time.Second
	// Time allowed to read the next pong message from the peer.
	pongWait = 60 * time.Second
	// Send pings to peer with this period. Must be less than pongWait.
	pingPeriod = (pongWait * 7) / 10
)

type Subscriptions struct {
	rt       *runtime.Runtime
	upgrader *websocket.Upgrader
	done     chan struct{}
	wg       sync.WaitGroup
}

// New creates the websocket subscriptions. allowedOrigins lists the origins of
// browser clients, "*" allows any.
func New(rt *runtime.Runtime, allowedOrigins []string) *Subscriptions {
	return &Subscriptions{
		rt: rt,
		upgrader: &websocket.Upgrader{
			EnableCompression: true,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				return slices.ContainsFunc(allowedOrigins, func(allowed string) bool {
					return allowed == "*" || strings.EqualFold(allowed, u.Host) || strings.EqualFold(allowed, origin)
				})
			},
		},
		done: make(chan struct{}),
	}
}

func parseFilter(query url.Values) (uint32, *events.EventFilter, error) {
	var (
		pos    uint32
		filter events.EventFilter
	)
	if s := query.Get("pos"); s != "" {
		n, err := strconv.ParseUint(s, 10, 32)
		if err != nil {
			return 0, nil, errors.WithMessage(err, "pos")
		}
		pos = uint32(n)
	}
	if s := query.Get("account"); s != "" {
		addr, err := vault.ParseAddress(s)
		if err != nil {
			return 0, nil, errors.WithMessage(err, "account")
		}
		filter.Account = &addr
	}
	if s := query.Get("tokenId"); s != "" {
		id, err := vault.ParseTokenID(s)
		if err != nil {
			return 0, nil, errors.WithMessage(err, "tokenId")
		}
		filter.TokenID = &id
	}
	filter.Kinds = query["kind"]
	return pos, &filter, nil
}

func (s *Subscriptions) handleSubscribeEvents(w http.ResponseWriter, req *http.Request) error {
	pos, filter, err := parseFilter(req.URL.Query())
	if err != nil {
		return utils.BadRequest(err)
	}

	conn, err := s.upgrader.Upgrade(w, req, nil)
	if err != nil {
		// the upgrader already responded
		logger.Debug("upgrade failed", "err", err)
		return nil
	}

	s.wg.Add(1)
	defer s.wg.Done()
	defer conn.Close()

	metricActiveCount().AddWithLabel(1, map[string]string{"subject": "events"})
	defer metricActiveCount().AddWithLabel(-1, map[string]string{"subject": "events"})

	if err := s.pipe(req.Context(), conn, newEventReader(s.rt.Events(), pos, filter)); err != nil {
		logger.Debug("subscription closed", "err", err)
		msg := websocket.FormatCloseMessage(websocket.CloseInternalServerErr, err.Error())
		_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
		return nil
	}
	msg := websocket.FormatCloseMessage(websocket.CloseGoingAway, "")
	_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
	return nil
}

// pipe delivers events until the peer goes away or the subscriptions are closed.
func (s *Subscriptions) pipe(ctx context.Context, conn *websocket.Conn, reader *eventReader) error {
	// the peer sends nothing but control frames, read to process them
	closed := make(chan struct{})
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	waiter := s.rt.NewEventWaiter()

	for {
		msgs, err := reader.Read(ctx)
		if err != nil {
			return err
		}
		for _, msg := range msgs {
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(msg); err != nil {
				return err
			}
		}
		if len(msgs) == readBatchSize {
			// more to catch up
			continue
		}
		if err := s.wait(conn, ticker, waiter, closed); err != nil {
			if err == errDone {
				return nil
			}
			return err
		}
	}
}

var errDone = errors.New("done")

// wait blocks until new events are committed, keeping the connection alive.
func (s *Subscriptions) wait(conn *websocket.Conn, ticker *time.Ticker, waiter co.Waiter, closed <-chan struct{}) error {
	for {
		select {
		case <-s.done:
			return errDone
		case <-closed:
			return errDone
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
				return err
			}
		case <-waiter.C():
			return nil
		}
	}
}

// Close disconnects every subscriber.
func (s *Subscriptions) Close() {
	close(s.done)
	s.wg.Wait()
}

func (s *Subscriptions) Mount(root *mux.Router, pathPrefix string) {
	sub := root.PathPrefix(pathPrefix).Subrouter()

	sub.Path("/events").
		Methods(http.MethodGet).
		Name("WS /subscriptions/events").
		HandlerFunc(utils.WrapHandlerFunc(s.handleSubscribeEvents))
}
