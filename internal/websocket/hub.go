package websocket

import (
	"context"
	"net/http"
	"slices"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Message types pushed to a user's open sessions after a successful write.
const (
	MessageTypeItemsUpdate      = "items_update"
	MessageTypeActiveListUpdate = "active_list_update"
	MessageTypeHistoryUpdate    = "history_update"
	MessageTypePong             = "pong"
)

const broadcastBuffer = 256

// Message is the envelope written to websocket clients.
type Message struct {
	Type string `json:"type"`
	Data any    `json:"data,omitempty"`
	Time int64  `json:"time"`

	userID int
	client *Client // set when only one session should receive the message
}

// Hub keeps the open sessions of every user and fans state changes out to
// them. The registry is only mutated from Run.
type Hub struct {
	clients map[int]map[*Client]bool

	register   chan *Client
	unregister chan *Client
	broadcast  chan Message
	done       chan struct{}

	allowedOrigins []string
	upgrader       websocket.Upgrader
	logger         *zap.Logger

	mutex sync.RWMutex
}

func NewHub(logger *zap.Logger, allowedOrigins []string) *Hub {
	h := &Hub{
		clients:        make(map[int]map[*Client]bool),
		register:       make(chan *Client),
		unregister:     make(chan *Client),
		broadcast:      make(chan Message, broadcastBuffer),
		done:           make(chan struct{}),
		allowedOrigins: allowedOrigins,
		logger:         logger,
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin:     h.checkOrigin,
	}
	return h
}

// Run owns the client registry until ctx is cancelled, then closes every
// session.
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case <-ctx.Done():
			h.closeAll()
			return

		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastToUser(message)
		}
	}
}

// NotifyUser queues a message for every session of userID. It never blocks:
// when the queue is full the message is dropped.
func (h *Hub) NotifyUser(userID int, msgType string, data any) {
	h.enqueue(Message{Type: msgType, Data: data, userID: userID})
}

// notifyClient queues a message for a single session.
func (h *Hub) notifyClient(client *Client, msgType string, data any) {
	h.enqueue(Message{Type: msgType, Data: data, userID: client.UserID, client: client})
}

func (h *Hub) enqueue(message Message) {
	select {
	case h.broadcast <- message:
	default:
		h.logger.Warn("websocket broadcast queue full, dropping message",
			zap.Int("user_id", message.userID),
			zap.String("type", message.Type),
		)
	}
}

// ClientCount returns the number of open sessions for userID.
func (h *Hub) ClientCount(userID int) int {
	h.mutex.RLock()
	defer h.mutex.RUnlock()
	return len(h.clients[userID])
}

// ServeWS upgrades the request and attaches the connection to userID.
func (h *Hub) ServeWS(c *gin.Context, userID int) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", zap.Error(err))
		return
	}

	client := &Client{
		ID:     uuid.NewString(),
		UserID: userID,
		hub:    h,
		conn:   conn,
		send:   make(chan Message, broadcastBuffer),
	}

	select {
	case h.register <- client:
	case <-h.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

func (h *Hub) checkOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	return slices.Contains(h.allowedOrigins, origin)
}

func (h *Hub) registerClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.clients[client.UserID] == nil {
		h.clients[client.UserID] = make(map[*Client]bool)
	}
	h.clients[client.UserID][client] = true

	h.logger.Debug("websocket client registered",
		zap.String("client_id", client.ID),
		zap.Int("user_id", client.UserID),
		zap.Int("user_clients", len(h.clients[client.UserID])),
	)
}

func (h *Hub) unregisterClient(client *Client) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	if h.removeClient(client) {
		h.logger.Debug("websocket client unregistered",
			zap.String("client_id", client.ID),
			zap.Int("user_id", client.UserID),
		)
	}
}

// removeClient must be called with the mutex held.
func (h *Hub) removeClient(client *Client) bool {
	clients, ok := h.clients[client.UserID]
	if !ok || !clients[client] {
		return false
	}
	delete(clients, client)
	close(client.send)
	if len(clients) == 0 {
		delete(h.clients, client.UserID)
	}
	return true
}

func (h *Hub) broadcastToUser(message Message) {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for client := range h.clients[message.userID] {
		if message.client != nil && message.client != client {
			continue
		}
		select {
		case client.send <- message:
		default:
			h.logger.Warn("websocket client too slow, disconnecting",
				zap.String("client_id", client.ID),
				zap.Int("user_id", client.UserID),
			)
			h.removeClient(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mutex.Lock()
	defer h.mutex.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeClient(client)
		}
	}
}
