package site

import (
	"net/http"

	"github.com/wolfman30/blake-psychology-site/internal/contact"
	"github.com/wolfman30/blake-psychology-site/internal/session"
	"golang.org/x/net/websocket"
)

type inboundEvent struct {
	Type string `json:"type"` // "ping"
}

// Events upgrades to a WebSocket that pushes the visitor's acknowledgment as
// soon as their submission completes.
func (h *Handler) Events(w http.ResponseWriter, r *http.Request) {
	v, err := h.visitor(w, r)
	if err != nil {
		h.logger.Error("site: resolve visitor failed", "error", err)
		http.Error(w, "session unavailable", http.StatusServiceUnavailable)
		return
	}
	websocket.Handler(func(conn *websocket.Conn) {
		h.serveEvents(conn, v)
	}).ServeHTTP(w, r)
}

func (h *Handler) serveEvents(conn *websocket.Conn, v *session.Visitor) {
	events, cancel := v.Subscribe()
	defer cancel()

	logger := h.logger.WithSession(v.ID)
	logger.Debug("site: events connection opened")

	if err := sendState(conn, v.Form); err != nil {
		return
	}

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			var msg inboundEvent
			if err := websocket.JSON.Receive(conn, &msg); err != nil {
				logger.Debug("site: events connection closed", "error", err)
				return
			}
			if msg.Type == "ping" {
				_ = websocket.JSON.Send(conn, session.Event{Type: "pong"})
			}
		}
	}()

	for {
		select {
		case <-closed:
			return
		case ev := <-events:
			if err := websocket.JSON.Send(conn, ev); err != nil {
				return
			}
			if ev.Type == "acknowledgment" {
				if err := sendState(conn, v.Form); err != nil {
					return
				}
			}
		}
	}
}

func sendState(conn *websocket.Conn, form *contact.Controller) error {
	snap := form.Snapshot()
	return websocket.JSON.Send(conn, session.Event{Type: "state", State: &snap})
}
