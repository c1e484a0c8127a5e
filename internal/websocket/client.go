package websocket

import (
	"encoding/json"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	maxMessageSize = 512
)

const clientMessagePing = "ping"

// ClientMessage is what a browser session may send. Only keep-alive pings are
// understood; state changes go through the HTTP routes.
type ClientMessage struct {
	Type string `json:"type"`
}

// Client is one open websocket session of a user.
type Client struct {
	ID     string
	UserID int

	hub  *Hub
	conn *websocket.Conn
	send chan Message
}

func (c *Client) readPump() {
	defer func() {
		select {
		case c.hub.unregister <- c:
		case <-c.hub.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.hub.logger.Warn("websocket read failed", zap.String("client_id", c.ID), zap.Error(err))
			}
			return
		}

		var message ClientMessage
		if err := json.Unmarshal(data, &message); err != nil {
			c.hub.logger.Debug("ignoring malformed websocket message", zap.String("client_id", c.ID), zap.Error(err))
			continue
		}

		c.handleClientMessage(message)
	}
}

func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				// The hub closed the channel.
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			message.Time = time.Now().Unix()
			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

func (c *Client) handleClientMessage(message ClientMessage) {
	switch message.Type {
	case clientMessagePing:
		c.hub.notifyClient(c, MessageTypePong, nil)
	default:
		c.hub.logger.Debug("unknown websocket message type",
			zap.String("client_id", c.ID),
			zap.String("type", message.Type),
		)
	}
}
