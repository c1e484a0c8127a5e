package websocket

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func startHub(t *testing.T) (*Hub, string) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hub := NewHub(zap.NewNop(), []string{"http://localhost:3000"})
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)
	t.Cleanup(cancel)

	router := gin.New()
	router.GET("/ws/:user", func(c *gin.Context) {
		userID := 1
		if c.Param("user") == "2" {
			userID = 2
		}
		hub.ServeWS(c, userID)
	})
	srv := httptest.NewServer(router)
	t.Cleanup(srv.Close)

	return hub, "ws" + strings.TrimPrefix(srv.URL, "http")
}

func dial(t *testing.T, url string) *websocket.Conn {
	t.Helper()
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readMessage(t *testing.T, conn *websocket.Conn) map[string]any {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]any
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestNotifyUser(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url+"/ws/1")
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 10*time.Millisecond)

	hub.NotifyUser(1, MessageTypeItemsUpdate, map[string]any{"items": []any{}})

	msg := readMessage(t, conn)
	assert.Equal(t, MessageTypeItemsUpdate, msg["type"])
	assert.Equal(t, map[string]any{"items": []any{}}, msg["data"])
	assert.NotZero(t, msg["time"])
}

func TestNotifyUserOnlyReachesThatUser(t *testing.T) {
	hub, url := startHub(t)

	other := dial(t, url+"/ws/2")
	own := dial(t, url+"/ws/1")
	require.Eventually(t, func() bool {
		return hub.ClientCount(1) == 1 && hub.ClientCount(2) == 1
	}, time.Second, 10*time.Millisecond)

	hub.NotifyUser(1, MessageTypeHistoryUpdate, nil)
	assert.Equal(t, MessageTypeHistoryUpdate, readMessage(t, own)["type"])

	other.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := other.ReadMessage()
	assert.Error(t, err)
}

func TestPingGetsPong(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url+"/ws/1")
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, MessageTypePong, readMessage(t, conn)["type"])
}

func TestPongOnlyReachesPingingSession(t *testing.T) {
	hub, url := startHub(t)

	pinging := dial(t, url+"/ws/1")
	sibling := dial(t, url+"/ws/1")
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 2 }, time.Second, 10*time.Millisecond)

	require.NoError(t, pinging.WriteJSON(ClientMessage{Type: "ping"}))
	assert.Equal(t, MessageTypePong, readMessage(t, pinging)["type"])

	sibling.SetReadDeadline(time.Now().Add(100 * time.Millisecond))
	_, _, err := sibling.ReadMessage()
	assert.Error(t, err)
}

func TestDisconnectUnregisters(t *testing.T) {
	hub, url := startHub(t)

	conn := dial(t, url+"/ws/1")
	require.Eventually(t, func() bool { return hub.ClientCount(1) == 1 }, time.Second, 10*time.Millisecond)

	conn.Close()
	assert.Eventually(t, func() bool { return hub.ClientCount(1) == 0 }, 2*time.Second, 10*time.Millisecond)
}

func TestNotifyUserWithoutSessions(t *testing.T) {
	hub := NewHub(zap.NewNop(), nil)

	// No Run loop: the queue fills and further messages are dropped.
	for i := 0; i < broadcastBuffer+10; i++ {
		hub.NotifyUser(1, MessageTypeItemsUpdate, nil)
	}
	assert.Zero(t, hub.ClientCount(1))
}

func TestCheckOrigin(t *testing.T) {
	hub := NewHub(zap.NewNop(), []string{"http://localhost:3000"})

	tests := map[string]bool{
		"":                      true,
		"http://localhost:3000": true,
		"http://evil.example":   false,
	}

	for origin, want := range tests {
		req := httptest.NewRequest(http.MethodGet, "/ws", nil)
		if origin != "" {
			req.Header.Set("Origin", origin)
		}
		assert.Equal(t, want, hub.checkOrigin(req), origin)
	}
}
