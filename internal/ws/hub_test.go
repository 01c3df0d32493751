package ws

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chatroom-service/internal/models"
)

func TestHubAddAndRemoveClient(t *testing.T) {
	hub := NewHub()

	hub.AddClient("room1", nil, ConnInfo{})
	if len(hub.rooms) != 1 {
		t.Fatalf("expected room to be created")
	}
	assert.Equal(t, 1, hub.ClientCount("room1"))

	hub.RemoveClient("room1", nil)
	if len(hub.rooms) != 0 {
		t.Fatalf("expected room to be removed")
	}
}

func TestBroadcastWithoutClients(t *testing.T) {
	hub := NewHub()
	assert.NotPanics(t, func() {
		hub.BroadcastMessage("empty", models.Message{Text: "hi"})
	})
}

func dialRoom(t *testing.T, hub *Hub, room string) *websocket.Conn {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/ws/rooms/:room_id", NewRoomWebSocketHandler(hub).Handle)
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)

	url := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/rooms/" + room
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestRoomSubscriberReceivesMessages(t *testing.T) {
	hub := NewHub()
	conn := dialRoom(t, hub, "lobby")

	require.Eventually(t, func() bool { return hub.ClientCount("lobby") == 1 }, time.Second, 10*time.Millisecond)

	hub.BroadcastMessage("lobby", models.Message{RoomID: "lobby", Timestamp: 1, Text: "**a:** hi"})
	hub.BroadcastMembers("lobby", []string{"a"})

	_ = conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var event models.RoomEvent
	_, data, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "message", event.Type)
	require.NotNil(t, event.Message)
	assert.Equal(t, "**a:** hi", event.Message.Text)

	_, data, err = conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &event))
	assert.Equal(t, "members", event.Type)
	assert.Equal(t, []string{"a"}, event.Members)
}

func TestRoomSubscriptionIsSanitized(t *testing.T) {
	hub := NewHub()
	dialRoom(t, hub, "my%20room")

	require.Eventually(t, func() bool { return hub.ClientCount("myroom") == 1 }, time.Second, 10*time.Millisecond)
}

func TestDisconnectRemovesClient(t *testing.T) {
	hub := NewHub()
	conn := dialRoom(t, hub, "r")
	require.Eventually(t, func() bool { return hub.ClientCount("r") == 1 }, time.Second, 10*time.Millisecond)

	require.NoError(t, conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")))
	assert.Eventually(t, func() bool { return hub.ClientCount("r") == 0 }, time.Second, 10*time.Millisecond)
}
