package ws

import (
	"context"
	"net/http"
	"sync"
	"time"

	"foodorder/services"
	"foodorder/utils"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	writeWait = 10 * time.Second
	// sendBuffer is how many events a connection may fall behind before
	// the hub drops it.
	sendBuffer = 16
)

// OrderHub pushes order events to the websocket connections of the user who
// placed the order.
type OrderHub struct {
	clients    map[string]map[*client]bool // userID -> connections
	broadcast  chan services.OrderEvent
	register   chan *client
	unregister chan *client
	done       chan struct{}
	mu         sync.Mutex
	log        *zap.Logger
}

// client is one websocket connection of one user. Only writePump writes to
// conn; the hub hands it events through send.
type client struct {
	conn   *websocket.Conn
	userID string
	send   chan services.OrderEvent
}

func NewOrderHub(log *zap.Logger) *OrderHub {
	return &OrderHub{
		clients:    make(map[string]map[*client]bool),
		broadcast:  make(chan services.OrderEvent, 64),
		register:   make(chan *client),
		unregister: make(chan *client),
		done:       make(chan struct{}),
		log:        log,
	}
}

// Run owns the client set until ctx is cancelled, then closes every
// connection. It never writes to a socket itself.
func (h *OrderHub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case <-ctx.Done():
			h.mu.Lock()
			for _, set := range h.clients {
				for cl := range set {
					h.drop(cl)
				}
			}
			h.mu.Unlock()
			return

		case cl := <-h.register:
			h.mu.Lock()
			if h.clients[cl.userID] == nil {
				h.clients[cl.userID] = make(map[*client]bool)
			}
			h.clients[cl.userID][cl] = true
			h.mu.Unlock()

		case cl := <-h.unregister:
			h.mu.Lock()
			h.drop(cl)
			h.mu.Unlock()

		case evt := <-h.broadcast:
			h.mu.Lock()
			for cl := range h.clients[evt.UserID] {
				select {
				case cl.send <- evt:
				default:
					h.log.Debug("ws client too slow, dropping", zap.String("user_id", evt.UserID))
					h.drop(cl)
				}
			}
			h.mu.Unlock()
		}
	}
}

// drop must be called with h.mu held. Closing send stops the client's
// writePump, which closes the socket.
func (h *OrderHub) drop(cl *client) {
	if _, ok := h.clients[cl.userID][cl]; !ok {
		return
	}
	delete(h.clients[cl.userID], cl)
	if len(h.clients[cl.userID]) == 0 {
		delete(h.clients, cl.userID)
	}
	close(cl.send)
}

// Subscribers reports how many open connections userID has.
func (h *OrderHub) Subscribers(userID string) int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients[userID])
}

// PublishOrder queues the event for delivery. It never waits on slow
// sockets; it only blocks while the queue is full.
func (h *OrderHub) PublishOrder(ctx context.Context, evt services.OrderEvent) error {
	select {
	case h.broadcast <- evt:
		return nil
	case <-h.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// WS route: /ws/orders (behind WSAuthMiddleware)
func (h *OrderHub) HandleWebSocket(c *gin.Context) {
	userID := utils.CurrentUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"ok": false, "error": "unauthorized"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Warn("ws upgrade failed", zap.Error(err))
		return
	}

	cl := &client{conn: conn, userID: userID, send: make(chan services.OrderEvent, sendBuffer)}
	select {
	case h.register <- cl:
	case <-h.done:
		conn.Close()
		return
	}

	go h.writePump(cl)
	go h.readPump(cl)
}

// writePump is the only writer on the connection.
func (h *OrderHub) writePump(cl *client) {
	defer cl.conn.Close()
	for evt := range cl.send {
		_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
		if err := cl.conn.WriteJSON(evt); err != nil {
			h.log.Debug("ws write failed", zap.String("user_id", cl.userID), zap.Error(err))
			return
		}
	}
	_ = cl.conn.SetWriteDeadline(time.Now().Add(writeWait))
	_ = cl.conn.WriteMessage(websocket.CloseMessage, []byte{})
}

// readPump drains client frames so close/ping are processed; the stream is
// server -> client only.
func (h *OrderHub) readPump(cl *client) {
	defer func() {
		select {
		case h.unregister <- cl:
		case <-h.done:
		}
		cl.conn.Close()
	}()

	for {
		if _, _, err := cl.conn.ReadMessage(); err != nil {
			return
		}
	}
}
