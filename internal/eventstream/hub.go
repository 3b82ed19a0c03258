// Package eventstream fans a running match's emitted events out to
// connected websocket spectators. It is a pure consumer of the
// orchestrator's OnEvent callback: nothing here feeds commands back into a
// match, and the deterministic core performs no I/O of its own.
package eventstream

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/lox/arenacore/internal/match"
)

// sendBufferSize bounds how many undelivered events a slow spectator can
// queue before the hub drops its connection rather than blocking the match.
const sendBufferSize = 256

// Hub multiplexes one match's event stream out to any number of websocket
// subscribers. A zero Hub is not usable; construct with NewHub.
type Hub struct {
	logger   zerolog.Logger
	upgrader websocket.Upgrader

	mu          sync.RWMutex
	subscribers map[*subscriber]struct{}
}

type subscriber struct {
	conn *websocket.Conn
	send chan []byte
}

// NewHub constructs a Hub. logger is used for connection-level diagnostics
// only; it never logs event payloads (those belong to the match's own
// eventlog writer).
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		subscribers: make(map[*subscriber]struct{}),
	}
}

// ServeHTTP upgrades the request to a websocket connection and registers it
// as a spectator until the connection closes.
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Warn().Err(err).Msg("eventstream: websocket upgrade failed")
		return
	}

	sub := &subscriber{conn: conn, send: make(chan []byte, sendBufferSize)}
	h.mu.Lock()
	h.subscribers[sub] = struct{}{}
	h.mu.Unlock()

	go h.writePump(sub)
	go h.readPump(sub)
}

// OnEvent broadcasts one emitted event to all current subscribers. It is
// shaped to plug straight into match.RunOptions.OnEvent: since that callback
// runs synchronously inside the turn loop, broadcast only enqueues onto
// per-subscriber buffered channels and never blocks on delivery.
func (h *Hub) OnEvent(ev match.Event) {
	payload, err := json.Marshal(ev)
	if err != nil {
		h.logger.Error().Err(err).Msg("eventstream: marshal event failed")
		return
	}

	h.mu.RLock()
	defer h.mu.RUnlock()
	for sub := range h.subscribers {
		select {
		case sub.send <- payload:
		default:
			h.logger.Warn().Msg("eventstream: subscriber send buffer full, dropping connection")
			go h.remove(sub)
		}
	}
}

// Close disconnects every current subscriber. It does not stop the hub from
// accepting new connections; callers that want a final shutdown should also
// stop routing requests to ServeHTTP.
func (h *Hub) Close() {
	h.mu.Lock()
	subs := make([]*subscriber, 0, len(h.subscribers))
	for sub := range h.subscribers {
		subs = append(subs, sub)
	}
	h.mu.Unlock()

	for _, sub := range subs {
		h.remove(sub)
	}
}

func (h *Hub) remove(sub *subscriber) {
	h.mu.Lock()
	if _, ok := h.subscribers[sub]; !ok {
		h.mu.Unlock()
		return
	}
	delete(h.subscribers, sub)
	h.mu.Unlock()

	close(sub.send)
	_ = sub.conn.Close()
}

func (h *Hub) writePump(sub *subscriber) {
	for payload := range sub.send {
		if err := sub.conn.WriteMessage(websocket.TextMessage, payload); err != nil {
			h.remove(sub)
			return
		}
	}
}

// readPump does nothing with inbound messages beyond detecting disconnects:
// this is a read-only spectator stream, not a command channel.
func (h *Hub) readPump(sub *subscriber) {
	for {
		if _, _, err := sub.conn.ReadMessage(); err != nil {
			h.remove(sub)
			return
		}
	}
}
