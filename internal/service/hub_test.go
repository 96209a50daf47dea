package service

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

func newTestClient(room string) *Client {
	return &Client{Room: room, Send: make(chan []byte, 16)}
}

func recvEvent(t *testing.T, c *Client) model.WSEvent {
	t.Helper()
	select {
	case data, ok := <-c.Send:
		require.True(t, ok, "send channel closed")
		var ev model.WSEvent
		require.NoError(t, json.Unmarshal(data, &ev))
		return ev
	case <-time.After(time.Second):
		t.Fatal("timed out waiting for event")
		return model.WSEvent{}
	}
}

func TestHub_PublishReachesRoomListeners(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	a := newTestClient(RoomPublic)
	b := newTestClient(RoomPublic)
	hub.Register(a)
	hub.Register(b)

	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomPublic) == 2
	}, time.Second, 5*time.Millisecond)

	hub.Publish(RoomPublic, model.EventMessage, &model.ChatMessage{ID: 1, Username: "alice", Text: "hi"})

	for _, c := range []*Client{a, b} {
		ev := recvEvent(t, c)
		assert.Equal(t, model.EventMessage, ev.Type)

		var msg model.ChatMessage
		require.NoError(t, json.Unmarshal(ev.Data, &msg))
		assert.Equal(t, int64(1), msg.ID)
		assert.Equal(t, "alice", msg.Username)
	}
}

func TestHub_RoomsAreIsolated(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	pub := newTestClient(RoomPublic)
	adm := newTestClient(RoomAdmin)
	hub.Register(pub)
	hub.Register(adm)

	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomPublic) == 1 && hub.RoomCount(RoomAdmin) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Publish(RoomAdmin, model.EventMessage, &model.ChatMessage{ID: 2, Text: "admin only"})

	ev := recvEvent(t, adm)
	assert.Equal(t, model.EventMessage, ev.Type)

	select {
	case data := <-pub.Send:
		t.Fatalf("public client received admin event: %s", data)
	case <-time.After(100 * time.Millisecond):
	}
}

func TestHub_PurgeEventHasNoData(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	c := newTestClient(RoomPublic)
	hub.Register(c)
	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomPublic) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Publish(RoomPublic, model.EventPurge, nil)

	ev := recvEvent(t, c)
	assert.Equal(t, model.EventPurge, ev.Type)
	assert.Empty(t, ev.Data)
}

func TestHub_SlowClientIsDropped(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	slow := &Client{Room: RoomPublic, Send: make(chan []byte)}
	ok := newTestClient(RoomPublic)
	hub.Register(slow)
	hub.Register(ok)

	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomPublic) == 2
	}, time.Second, 5*time.Millisecond)

	// The unbuffered client cannot accept the event and must be evicted
	// instead of stalling the room.
	hub.Publish(RoomPublic, model.EventMessage, &model.ChatMessage{ID: 3})

	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomPublic) == 1
	}, time.Second, 5*time.Millisecond)

	ev := recvEvent(t, ok)
	assert.Equal(t, model.EventMessage, ev.Type)
}

func TestHub_UnregisterClosesSend(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	c := newTestClient(RoomMessages)
	hub.Register(c)
	require.Eventually(t, func() bool {
		return hub.RoomCount(RoomMessages) == 1
	}, time.Second, 5*time.Millisecond)

	hub.Unregister(c)

	select {
	case _, open := <-c.Send:
		assert.False(t, open, "send channel should be closed after unregister")
	case <-time.After(time.Second):
		t.Fatal("send channel was not closed")
	}
	assert.Equal(t, 0, hub.RoomCount(RoomMessages))
}

func TestHub_OnlineCountSpansRooms(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	defer hub.Shutdown()

	hub.Register(newTestClient(RoomPublic))
	hub.Register(newTestClient(RoomAdmin))
	hub.Register(newTestClient(RoomMessages))

	require.Eventually(t, func() bool {
		return hub.OnlineCount() == 3
	}, time.Second, 5*time.Millisecond)
}

func TestHub_RegisterAfterShutdownDoesNotBlock(t *testing.T) {
	hub := NewHub()
	go hub.Run()
	hub.Shutdown()

	done := make(chan struct{})
	go func() {
		hub.Register(newTestClient(RoomPublic))
		hub.Publish(RoomPublic, model.EventMessage, nil)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("register blocked after shutdown")
	}
}

func TestValidRoom(t *testing.T) {
	assert.True(t, ValidRoom(RoomPublic))
	assert.True(t, ValidRoom(RoomAdmin))
	assert.True(t, ValidRoom(RoomMessages))
	assert.False(t, ValidRoom("lobby"))
	assert.False(t, ValidRoom(""))
}
