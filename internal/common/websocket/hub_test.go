package websocket

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHubBroadcastReachesAllClients(t *testing.T) {
	hub := NewHub()

	a := &Client{ID: "a", Send: make(chan []byte, 1)}
	b := &Client{ID: "b", Send: make(chan []byte, 1)}
	hub.AddClient(a)
	hub.AddClient(b)

	hub.Broadcast([]byte("snapshot"))

	assert.Equal(t, []byte("snapshot"), <-a.Send)
	assert.Equal(t, []byte("snapshot"), <-b.Send)
}

func TestHubRemoveClient(t *testing.T) {
	hub := NewHub()

	c := &Client{ID: "c", Send: make(chan []byte, 1)}
	hub.AddClient(c)
	assert.Equal(t, 1, hub.ClientCount())

	hub.RemoveClient("c")
	assert.Equal(t, 0, hub.ClientCount())

	// Broadcasting after removal must not panic or deliver.
	hub.Broadcast([]byte("late"))
	select {
	case <-c.Send:
		t.Fatal("removed client should not receive broadcasts")
	default:
	}
}

func TestHubSendToClient(t *testing.T) {
	hub := NewHub()

	c := &Client{ID: "c", Send: make(chan []byte, 1)}
	hub.AddClient(c)

	hub.SendToClient("c", []byte("direct"))
	assert.Equal(t, []byte("direct"), <-c.Send)

	// Unknown id is a no-op.
	hub.SendToClient("missing", []byte("direct"))
}
