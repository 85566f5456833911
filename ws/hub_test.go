package ws

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(h *Hub, userID string) *Client {
	return &Client{hub: h, userID: userID, send: make(chan []byte, 8)}
}

func receive(t *testing.T, c *Client) Event {
	t.Helper()
	select {
	case raw := <-c.send:
		var ev Event
		require.NoError(t, json.Unmarshal(raw, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatalf("no event for %s", c.userID)
		return Event{}
	}
}

func TestBroadcastToUsersReachesEveryConnection(t *testing.T) {
	h := NewHub()
	a1, a2, b := newTestClient(h, "a"), newTestClient(h, "a"), newTestClient(h, "b")
	h.addClient(a1)
	h.addClient(a2)
	h.addClient(b)

	h.BroadcastToUsers([]string{"a", "a"}, Event{Op: OpPostCreate})

	assert.Equal(t, OpPostCreate, receive(t, a1).Op)
	assert.Equal(t, OpPostCreate, receive(t, a2).Op)
	assert.Len(t, a1.send, 0, "duplicate ids deliver once")
	assert.Len(t, b.send, 0)
}

func TestBroadcastSeqIncreases(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "a")
	h.addClient(c)

	h.BroadcastToUser("a", Event{Op: OpFriendRemove})
	h.BroadcastToUser("a", Event{Op: OpFriendRemove})

	first, second := receive(t, c), receive(t, c)
	assert.Greater(t, second.Seq, first.Seq)
}

func TestConnectCallbacksFireOnFirstAndLast(t *testing.T) {
	h := NewHub()
	connected := make(chan string, 4)
	disconnected := make(chan string, 4)
	h.OnUserFirstConnect(func(id string) { connected <- id })
	h.OnUserFullyDisconnected(func(id string) { disconnected <- id })

	c1, c2 := newTestClient(h, "a"), newTestClient(h, "a")
	h.addClient(c1)
	h.addClient(c2)

	assert.Equal(t, "a", <-connected)
	assert.True(t, h.IsOnline("a"))

	h.removeClient(c1)
	assert.True(t, h.IsOnline("a"))

	h.removeClient(c2)
	select {
	case id := <-disconnected:
		assert.Equal(t, "a", id)
	case <-time.After(time.Second):
		t.Fatal("disconnect callback not called")
	}
	assert.False(t, h.IsOnline("a"))
	assert.Len(t, connected, 0)
}

func TestDecodeTyping(t *testing.T) {
	typing, ok := decodeTyping(map[string]any{"group_id": "g1"})
	require.True(t, ok)
	assert.Equal(t, "g1", typing.GroupID)

	_, ok = decodeTyping(map[string]any{})
	assert.False(t, ok)

	_, ok = decodeTyping(map[string]any{"group_id": "g1", "user_id": "u1"})
	assert.False(t, ok)
}

func TestShutdownStopsRun(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()

	h.Shutdown()
	h.Shutdown()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return")
	}
}

func TestSendAfterDropIsIgnored(t *testing.T) {
	h := NewHub()
	done := make(chan struct{})
	go func() {
		h.Run()
		close(done)
	}()
	t.Cleanup(func() {
		h.Shutdown()
		<-done
	})

	c := &Client{hub: h, userID: "a", send: make(chan []byte, 1)}
	h.register <- c
	require.Eventually(t, func() bool { return h.IsOnline("a") }, time.Second, 5*time.Millisecond)

	// İkinci event buffer'ı taşırır, hub client'ı düşürür
	h.BroadcastToUser("a", Event{Op: OpPostCreate})
	h.BroadcastToUser("a", Event{Op: OpPostCreate})
	require.Eventually(t, func() bool { return !h.IsOnline("a") }, time.Second, 5*time.Millisecond)

	assert.NotPanics(t, func() { c.sendEvent(Event{Op: OpHeartbeatAck}) })
	assert.True(t, c.closed)
}

func TestShutdownThenSendEventDoesNotPanic(t *testing.T) {
	h := NewHub()
	c := newTestClient(h, "a")
	h.addClient(c)

	h.Shutdown()

	assert.NotPanics(t, func() { c.sendEvent(Event{Op: OpHeartbeatAck}) })
	assert.NotPanics(t, c.closeSend)
}
