package services

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// testClient injects a client without a live socket; the pumps are not
// started, so delivery is observed directly on the send channel.
func testClient(hub *Hub, userID uint) *Client {
	return &Client{
		hub:    hub,
		id:     "test-client",
		send:   make(chan []byte, 8),
		userID: userID,
	}
}

func TestHubSendToUser(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	alice := testClient(hub, 1)
	bob := testClient(hub, 2)
	hub.register <- alice
	hub.register <- bob

	require.Eventually(t, func() bool {
		return hub.IsOnline(1) && hub.IsOnline(2)
	}, time.Second, 5*time.Millisecond)

	hub.SendToUser(2, "new_message", map[string]interface{}{"text": "hello"})

	select {
	case data := <-bob.send:
		var msg WSMessage
		require.NoError(t, json.Unmarshal(data, &msg))
		assert.Equal(t, "new_message", msg.Type)
	case <-time.After(time.Second):
		t.Fatal("receiver never got the message")
	}

	select {
	case <-alice.send:
		t.Fatal("message leaked to another user")
	default:
	}
}

func TestHubFansOutToAllConnections(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	first := testClient(hub, 1)
	second := testClient(hub, 1)
	hub.register <- first
	hub.register <- second

	require.Eventually(t, func() bool { return hub.ClientCount() == 2 }, time.Second, 5*time.Millisecond)

	hub.SendToUser(1, "typing", nil)

	for _, client := range []*Client{first, second} {
		select {
		case <-client.send:
		case <-time.After(time.Second):
			t.Fatal("connection missed the fan-out")
		}
	}
}

func TestHubUnregisterTakesUserOffline(t *testing.T) {
	hub := NewHub()
	go hub.Run()

	client := testClient(hub, 7)
	hub.register <- client
	require.Eventually(t, func() bool { return hub.IsOnline(7) }, time.Second, 5*time.Millisecond)

	hub.unregister <- client
	require.Eventually(t, func() bool { return !hub.IsOnline(7) }, time.Second, 5*time.Millisecond)

	// Sending to an offline user is a no-op, not a panic.
	hub.SendToUser(7, "new_message", nil)
}
