package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	"github.com/arthistory/depthviz/internal/models"
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// HandlePickStream accepts a stream of pointer positions and answers each
// with the resulting selection, so a viewer can pick on every mouse move
func (h *Handler) HandlePickStream(w http.ResponseWriter, r *http.Request) {
	session, ok := h.getSessionOrError(w, r.PathValue("id"))
	if !ok {
		return
	}

	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("WebSocket upgrade error", "session_id", session.ID, "err", err)
		return
	}
	defer conn.Close()
	slog.Debug("Pick stream connected", "session_id", session.ID)

	for {
		var request models.PickRequest
		if err := conn.ReadJSON(&request); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Warn("Pick stream read error", "session_id", session.ID, "err", err)
			}
			break
		}

		response, err := h.pick(session, request)
		if err != nil {
			if err := conn.WriteJSON(map[string]string{"error": err.Error()}); err != nil {
				break
			}
			continue
		}
		if err := conn.WriteJSON(response); err != nil {
			slog.Warn("Pick stream write error", "session_id", session.ID, "err", err)
			break
		}
	}
	slog.Debug("Pick stream disconnected", "session_id", session.ID)
}
