package http

import (
	"net/http"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"

	"trivia-game-service/internal/app"
)

// WSHandler mirrors game snapshots over a websocket so connected clients see
// updates without waiting for their next poll. It is strictly best effort:
// the polling API alone is sufficient for correctness.
type WSHandler struct {
	service  *app.GameService
	log      *logrus.Logger
	upgrader websocket.Upgrader
}

func NewWSHandler(service *app.GameService, log *logrus.Logger) *WSHandler {
	return &WSHandler{
		service: service,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
	}
}

type outboundMessage[T any] struct {
	Type    string `json:"type"`
	Payload T      `json:"payload"`
}

// ServeWS upgrades the connection and streams snapshots of one game until
// the client goes away. Disconnecting has no server-side effect beyond
// releasing the subscription.
func (h *WSHandler) ServeWS(w http.ResponseWriter, r *http.Request) {
	gameID := r.URL.Query().Get("gameId")
	if gameID == "" {
		http.Error(w, "missing gameId", http.StatusBadRequest)
		return
	}

	game, err := h.service.GetGame(r.Context(), gameID)
	if err != nil {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.log.WithError(err).Warn("ws upgrade failed")
		return
	}
	defer conn.Close()

	updates, cancel := h.service.Watch(gameID)
	defer cancel()

	done := make(chan struct{})
	go func() {
		defer close(done)
		// Drain the connection so we notice the peer closing; inbound
		// payloads are ignored, all mutations go through the HTTP API.
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	initial := outboundMessage[gameView]{Type: "game", Payload: newGameView(game, h.service.Now())}
	if err := conn.WriteJSON(initial); err != nil {
		return
	}

	for {
		select {
		case update, ok := <-updates:
			if !ok {
				return
			}
			msg := outboundMessage[gameView]{Type: "game", Payload: newGameView(update, h.service.Now())}
			if err := conn.WriteJSON(msg); err != nil {
				h.log.WithError(err).Debug("ws write failed")
				return
			}
		case <-done:
			return
		case <-r.Context().Done():
			return
		}
	}
}
