package http

import (
	"context"
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/secmon-lab/pulseboard/pkg/utils/async"
	"github.com/secmon-lab/pulseboard/pkg/utils/errutil"
	"github.com/secmon-lab/pulseboard/pkg/utils/logging"
)

var upgrader = websocket.Upgrader{
	// The dashboard is served from arbitrary origins in development, and
	// the channel carries no credentials or client input.
	CheckOrigin: func(r *http.Request) bool { return true },
}

// handleWS upgrades the connection and registers it with the hub. The
// channel is server-to-client only: the read pump exists to observe the
// close and discards any client frames.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		errutil.Handle(r.Context(), err, "websocket upgrade failed")
		return
	}

	id := s.hub.Register(ws)
	logging.From(r.Context()).Info("websocket client connected", "conn_id", id)

	async.Dispatch(r.Context(), func(ctx context.Context) error {
		defer func() {
			s.hub.Unregister(id)
			_ = ws.Close()
			logging.From(ctx).Info("websocket client disconnected", "conn_id", id)
		}()

		for {
			if _, _, err := ws.ReadMessage(); err != nil {
				return nil
			}
		}
	})
}
