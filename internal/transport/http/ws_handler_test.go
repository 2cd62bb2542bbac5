package http

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/sirupsen/logrus"
)

func logDiscard() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func dialWS(t *testing.T, server *httptest.Server, gameID string) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws?gameId=" + gameID
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial %s: %v", url, err)
	}
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readGameMessage(t *testing.T, conn *websocket.Conn) outboundMessage[gameView] {
	t.Helper()

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg outboundMessage[gameView]
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("read: %v", err)
	}
	if msg.Type != "game" {
		t.Fatalf("message type = %q", msg.Type)
	}
	return msg
}

func TestServeWSStreamsSnapshots(t *testing.T) {
	ctx := context.Background()
	f := newAPIFixture(t)

	mux := http.NewServeMux()
	NewAPIHandler(f.service, logDiscard()).Register(mux)
	mux.HandleFunc("GET /ws", NewWSHandler(f.service, logDiscard()).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	game, err := f.service.CreateGame(ctx, "host-1", "Alice")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	conn := dialWS(t, server, game.ID)

	initial := readGameMessage(t, conn)
	if initial.Payload.ID != game.ID || len(initial.Payload.Players) != 1 {
		t.Fatalf("initial snapshot: %+v", initial.Payload)
	}

	if _, _, err := f.service.JoinGame(ctx, game.ID, "p2", "Bob"); err != nil {
		t.Fatalf("join: %v", err)
	}

	update := readGameMessage(t, conn)
	if len(update.Payload.Players) != 2 {
		t.Fatalf("join snapshot: %+v", update.Payload.Players)
	}

	if _, err := f.service.StartGame(ctx, game.ID); err != nil {
		t.Fatalf("start: %v", err)
	}
	update = readGameMessage(t, conn)
	if update.Payload.Status != "playing" || update.Payload.CurrentQuestion == nil {
		t.Fatalf("start snapshot: %+v", update.Payload)
	}
	if update.Payload.Questions != nil {
		t.Fatalf("ws snapshot leaked the question set")
	}
}

func TestServeWSRejectsBadRequests(t *testing.T) {
	f := newAPIFixture(t)

	mux := http.NewServeMux()
	mux.HandleFunc("GET /ws", NewWSHandler(f.service, logDiscard()).ServeWS)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	resp, err := server.Client().Get(server.URL + "/ws")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("missing gameId: status = %d", resp.StatusCode)
	}

	if _, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http")+"/ws?gameId=NOPE42", nil); err == nil {
		t.Fatalf("expected dial to an unknown game to fail")
	}
}
