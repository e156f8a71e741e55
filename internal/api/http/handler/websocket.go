package handler

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/5G-MAG/m1-dashboard/internal/state"
)

const (
	broadcastInterval = time.Second
	writeTimeout      = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		return origin == "" || origin == "http://"+r.Host || origin == "https://"+r.Host
	},
}

// StateHandler pushes state snapshots to websocket clients and serves the
// latest snapshot over plain HTTP.
type StateHandler struct {
	appState  *state.AppState
	clients   map[*websocket.Conn]bool
	clientsMu sync.Mutex
}

func NewStateHandler(appState *state.AppState) *StateHandler {
	return &StateHandler{
		appState: appState,
		clients:  make(map[*websocket.Conn]bool),
	}
}

func (h *StateHandler) GetState(c *gin.Context) {
	c.JSON(http.StatusOK, h.appState.Snapshot())
}

func (h *StateHandler) WebSocket(c *gin.Context) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	data, err := json.Marshal(h.appState.Snapshot())
	if err == nil {
		h.clientsMu.Lock()
		conn.SetWriteDeadline(time.Now().Add(writeTimeout))
		err = conn.WriteMessage(websocket.TextMessage, data)
		if err == nil {
			h.clients[conn] = true
		}
		h.clientsMu.Unlock()
	}
	if err != nil {
		slog.Debug("Failed to send initial snapshot", "error", err)
		return
	}
	slog.Debug("WebSocket client connected", "remote_addr", c.ClientIP())

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	h.clientsMu.Lock()
	delete(h.clients, conn)
	h.clientsMu.Unlock()
	slog.Debug("WebSocket client disconnected", "remote_addr", c.ClientIP())
}

// Run broadcasts a snapshot whenever the state changes, with a ticker as
// fallback, until ctx is done.
func (h *StateHandler) Run(ctx context.Context) {
	ticker := time.NewTicker(broadcastInterval)
	defer ticker.Stop()
	changeCh := h.appState.ChangeCh()

	var lastVersion uint64
	sent := false
	maybeBroadcast := func() {
		snapshot := h.appState.Snapshot()
		if sent && snapshot.Version == lastVersion {
			return
		}
		data, err := json.Marshal(snapshot)
		if err != nil {
			slog.Error("Failed to encode snapshot", "error", err)
			return
		}
		lastVersion, sent = snapshot.Version, true
		h.send(data)
	}

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return
		case <-changeCh:
			maybeBroadcast()
		case <-ticker.C:
			maybeBroadcast()
		}
	}
}

func (h *StateHandler) send(message []byte) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()

	for client := range h.clients {
		client.SetWriteDeadline(time.Now().Add(writeTimeout))
		if err := client.WriteMessage(websocket.TextMessage, message); err != nil {
			client.Close()
			delete(h.clients, client)
		}
	}
}

func (h *StateHandler) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for client := range h.clients {
		client.Close()
		delete(h.clients, client)
	}
}

func (h *StateHandler) ClientCount() int {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	return len(h.clients)
}
