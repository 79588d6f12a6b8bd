package hub

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/pulseboard/pkg/domain/model"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
)

// Publisher delivers board events to connected clients. Delivery is
// best-effort: a slow or dead client never blocks the mutation that
// produced the event.
type Publisher interface {
	Publish(ctx context.Context, ev model.Event)
}

// Hub tracks live WebSocket connections and fans events out to all of
// them. sendMu serializes whole fan-outs: concurrent publishes must not
// interleave per connection, or clients would settle on different state
// for the same entity.
type Hub struct {
	mu     sync.RWMutex
	conns  map[uuid.UUID]*websocket.Conn
	sendMu sync.Mutex
}

func New() *Hub {
	return &Hub{
		conns: make(map[uuid.UUID]*websocket.Conn),
	}
}

// Register adds a connection to the hub and returns its ID for later
// removal.
func (h *Hub) Register(ws *websocket.Conn) uuid.UUID {
	id := uuid.New()

	h.mu.Lock()
	h.conns[id] = ws
	h.mu.Unlock()

	return id
}

// Unregister removes a connection. It does not close the underlying
// socket; the caller owns that.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	delete(h.conns, id)
	h.mu.Unlock()
}

// Len returns the number of registered connections.
func (h *Hub) Len() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.conns)
}

// Publish serializes the event once and writes it to every registered
// connection. The full fan-out runs under sendMu so every connection
// observes the same event order regardless of which goroutines publish.
// Connections that fail to accept the write are dropped from the hub.
func (h *Hub) Publish(ctx context.Context, ev model.Event) {
	data, err := json.Marshal(ev)
	if err != nil {
		logging.From(ctx).Error("failed to marshal event",
			"error", goerr.Wrap(err, "marshal event", goerr.V("type", ev.Type)),
		)
		return
	}

	h.sendMu.Lock()
	defer h.sendMu.Unlock()

	h.mu.RLock()
	targets := make(map[uuid.UUID]*websocket.Conn, len(h.conns))
	for id, ws := range h.conns {
		targets[id] = ws
	}
	h.mu.RUnlock()

	var failed []uuid.UUID
	for id, ws := range targets {
		if err := ws.WriteMessage(websocket.TextMessage, data); err != nil {
			logging.From(ctx).Warn("dropping client after failed write",
				"conn_id", id,
				"error", err,
			)
			failed = append(failed, id)
		}
	}

	if len(failed) > 0 {
		h.mu.Lock()
		for _, id := range failed {
			delete(h.conns, id)
		}
		h.mu.Unlock()
	}
}
