package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"sjsilvers-api/internal/auth"
	"sjsilvers-api/internal/orders"
	"sjsilvers-api/pkg/ctxmanage"
	"sjsilvers-api/pkg/logkey"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// orderFeed fans order events out to connected admin dashboards.
type orderFeed struct {
	mu      sync.Mutex
	clients map[*websocket.Conn]bool
}

func newOrderFeed() *orderFeed {
	return &orderFeed{clients: make(map[*websocket.Conn]bool)}
}

func (f *orderFeed) add(conn *websocket.Conn) {
	f.mu.Lock()
	f.clients[conn] = true
	f.mu.Unlock()
}

func (f *orderFeed) remove(conn *websocket.Conn) {
	f.mu.Lock()
	delete(f.clients, conn)
	f.mu.Unlock()
}

func (f *orderFeed) broadcast(order orders.Order) {
	data, err := json.Marshal(order)
	if err != nil {
		return
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	for conn := range f.clients {
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			conn.Close()
			delete(f.clients, conn)
		}
	}
}

// OrderFeed upgrades the connection and streams order events to an admin
// client. The token travels in the query string because browsers cannot set
// headers on websocket upgrades.
func (h *Handler) OrderFeed(c *gin.Context) {
	traceId := ctxmanage.GetTraceIdOfRequest(c)

	claims, err := h.a.ValidateToken(c.Query("token"))
	if err != nil || claims.Role != auth.RoleAdmin {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"message": "Not authorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		slog.Error("websocket upgrade failed", slog.String(logkey.TraceID, traceId), slog.String(logkey.ERROR, err.Error()))
		return
	}
	defer conn.Close()

	h.feed.add(conn)
	defer h.feed.remove(conn)

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
}
