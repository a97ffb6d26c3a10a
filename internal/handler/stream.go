package handler

import (
	"time"

	"github.com/GoPolymarket/liqwatch/internal/dashboard"
	"github.com/GoPolymarket/liqwatch/internal/pkg/logger"
	"github.com/GoPolymarket/liqwatch/internal/pkg/metrics"
	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 15 * time.Second // Keep-alive interval
)

// StreamHandler pushes board snapshots to browsers over a websocket.
type StreamHandler struct {
	board    *dashboard.Board
	upgrader websocket.Upgrader
}

func NewStreamHandler(board *dashboard.Board) *StreamHandler {
	return &StreamHandler{
		board: board,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
		},
	}
}

func (h *StreamHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade already wrote the HTTP error
		logger.Warn("Websocket upgrade failed", "error", err, "client_ip", c.ClientIP())
		return
	}
	defer conn.Close()

	snapshots, unsubscribe := h.board.Subscribe()
	defer unsubscribe()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	// Zombie check: the browser must answer pings within pongWait.
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			// viewers never send anything we act on; reading drives pong/close handling
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	for {
		select {
		case <-closed:
			return
		case <-c.Request.Context().Done():
			return
		case snap, ok := <-snapshots:
			if !ok {
				return
			}
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteJSON(snap); err != nil {
				logger.Debug("Websocket write failed", "error", err)
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
