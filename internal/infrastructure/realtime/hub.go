// Package realtime pushes per-user notices to connected browsers over
// websockets.
package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"sync"
	"time"

	"billing_reconciler/internal/domain/entities"
	"billing_reconciler/internal/usecase/interfaces"

	"github.com/gorilla/websocket"
)

const (
	sendBuffer   = 16
	writeTimeout = 10 * time.Second
	pongTimeout  = 60 * time.Second
	pingInterval = (pongTimeout * 9) / 10
)

var ErrMissingUserID = errors.New("missing user id")

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // CORS is handled at the HTTP level
	},
}

type client struct {
	userID string
	conn   *websocket.Conn
	send   chan []byte
}

// Hub tracks the open sessions of every user.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]struct{}
}

var _ interfaces.IRealtimePublisher = (*Hub)(nil)

func NewHub() *Hub {
	return &Hub{clients: make(map[string]map[*client]struct{})}
}

// Publish delivers intent to every session of intent.UserID. Sessions whose
// buffer is full are disconnected.
func (h *Hub) Publish(ctx context.Context, intent entities.RealtimeIntent) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if intent.UserID == "" {
		return ErrMissingUserID
	}
	msg, err := json.Marshal(intent)
	if err != nil {
		return err
	}

	h.mu.RLock()
	var slow []*client
	delivered := 0
	for c := range h.clients[intent.UserID] {
		select {
		case c.send <- msg:
			delivered++
		default:
			slow = append(slow, c)
		}
	}
	h.mu.RUnlock()

	for _, c := range slow {
		log.Printf("[realtime][hub] dropping slow session user_id=%s", c.userID)
		h.unregister(c)
	}
	log.Printf("[realtime][hub] published event=%s user_id=%s sessions=%d", intent.Event, intent.UserID, delivered)
	return nil
}

// Sessions returns how many sessions userID has open.
func (h *Hub) Sessions(userID string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and keeps the session registered until the
// peer goes away.
func (h *Hub) ServeWS(w http.ResponseWriter, r *http.Request, userID string) error {
	if userID == "" {
		return ErrMissingUserID
	}
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[realtime][hub] upgrade failed user_id=%s err=%v", userID, err)
		return err
	}

	c := &client{userID: userID, conn: conn, send: make(chan []byte, sendBuffer)}
	h.register(c)
	log.Printf("[realtime][hub] connected user_id=%s", userID)

	go h.writePump(c)
	h.readPump(c)
	return nil
}

func (h *Hub) register(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		set = make(map[*client]struct{})
		h.clients[c.userID] = set
	}
	set[c] = struct{}{}
}

func (h *Hub) unregister(c *client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	set, ok := h.clients[c.userID]
	if !ok {
		return
	}
	if _, ok := set[c]; !ok {
		return
	}
	delete(set, c)
	if len(set) == 0 {
		delete(h.clients, c.userID)
	}
	close(c.send)
}

// readPump discards client messages and detects disconnects.
func (h *Hub) readPump(c *client) {
	defer func() {
		h.unregister(c)
		c.conn.Close()
		log.Printf("[realtime][hub] disconnected user_id=%s", c.userID)
	}()
	c.conn.SetReadLimit(512)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongTimeout))
	})
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (h *Hub) writePump(c *client) {
	ticker := time.NewTicker(pingInterval)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeTimeout))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
