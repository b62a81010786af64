package handlers

import (
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 512
)

// allResources is the channel of clients that want every refresh.
const allResources = "all"

// client is one websocket connection. gorilla/websocket allows a single
// concurrent writer, so data frames go through write.
type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
		return err
	}
	return c.conn.WriteJSON(v)
}

// Hub fans refresh notifications out to live preview clients after admin
// writes. Clients subscribe to one resource ("projects", "content", ...) or
// to all of them.
type Hub struct {
	mu      sync.RWMutex
	clients map[string]map[*client]bool
	origins []string
	logger  *slog.Logger
}

func NewHub(origins []string, logger *slog.Logger) *Hub {
	if logger == nil {
		logger = slog.Default()
	}
	return &Hub{
		clients: make(map[string]map[*client]bool),
		origins: origins,
		logger:  logger,
	}
}

// Clients returns the number of open connections.
func (hub *Hub) Clients() int {
	hub.mu.RLock()
	defer hub.mu.RUnlock()

	n := 0
	for _, conns := range hub.clients {
		n += len(conns)
	}
	return n
}

// BroadcastRefresh tells subscribers of resource that it changed. It is safe
// to call from concurrent requests.
func (hub *Hub) BroadcastRefresh(resource string) {
	hub.mu.RLock()
	targets := make([]*client, 0)
	for _, channel := range []string{resource, allResources} {
		for c := range hub.clients[channel] {
			targets = append(targets, c)
		}
	}
	hub.mu.RUnlock()

	msg := map[string]string{
		"type":     "refresh",
		"message":  "Site data updated",
		"resource": resource,
	}

	for _, c := range targets {
		if err := c.write(msg); err != nil {
			hub.logger.Warn("failed to broadcast refresh", "resource", resource, "error", err)
			hub.remove(c)
			c.conn.Close()
		}
	}
}

func (hub *Hub) add(channel string, c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	if hub.clients[channel] == nil {
		hub.clients[channel] = make(map[*client]bool)
	}
	hub.clients[channel][c] = true
}

func (hub *Hub) remove(c *client) {
	hub.mu.Lock()
	defer hub.mu.Unlock()

	for channel, conns := range hub.clients {
		if _, ok := conns[c]; ok {
			delete(conns, c)
			if len(conns) == 0 {
				delete(hub.clients, channel)
			}
		}
	}
}

func (hub *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	return origin == "" || slices.Contains(hub.origins, origin)
}

// WebSocket upgrades the request and keeps the connection subscribed until
// the client goes away.
func (h *Handler) WebSocket(c *gin.Context) {
	hub := h.hub

	channel := c.DefaultQuery("resource", allResources)

	upgrader := websocket.Upgrader{CheckOrigin: hub.checkOrigin}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		hub.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	conn.SetReadLimit(maxMessageSize)
	if err := conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		hub.logger.Warn("failed to set initial read deadline", "error", err)
		conn.Close()
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	cl := &client{conn: conn}

	err = cl.write(map[string]string{
		"type":     "connected",
		"message":  "WebSocket connection established",
		"resource": channel,
	})

	if err != nil {
		hub.logger.Warn("failed to send welcome message", "error", err)
		conn.Close()
		return
	}

	hub.add(channel, cl)

	defer func() {
		hub.remove(cl)
		conn.Close()
		hub.logger.Debug("websocket connection closed", "resource", channel)
	}()

	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()

	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
					hub.logger.Debug("ping failed", "resource", channel, "error", err)
					return
				}
			}
		}
	}()

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				hub.logger.Warn("websocket error", "resource", channel, "error", err)
			}
			break
		}
	}
}
