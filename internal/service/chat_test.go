package service

import (
	"context"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type fakeChatStore struct {
	mu        sync.Mutex
	nextID    int64
	inserted  []model.ChatMessage
	recent    []model.ChatMessage
	lastSince int64
	lastLimit int
	cleared   []string
	err       error
}

func (f *fakeChatStore) Insert(_ context.Context, userID *int64, username, text string, timestamp int64, chatType string) (*model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.nextID++
	msg := model.ChatMessage{
		ID:        f.nextID,
		UserID:    userID,
		Username:  username,
		Text:      text,
		Timestamp: timestamp,
		ChatType:  chatType,
	}
	f.inserted = append(f.inserted, msg)
	return &msg, nil
}

func (f *fakeChatStore) Recent(_ context.Context, _ string, since int64, limit int) ([]model.ChatMessage, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return nil, f.err
	}
	f.lastSince = since
	f.lastLimit = limit
	return f.recent, nil
}

func (f *fakeChatStore) DeleteOlderThan(_ context.Context, cutoff int64) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.lastSince = cutoff
	return 3, nil
}

func (f *fakeChatStore) Clear(_ context.Context, chatType string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.err != nil {
		return 0, f.err
	}
	f.cleared = append(f.cleared, chatType)
	return 7, nil
}

type publishedEvent struct {
	room      string
	eventType string
	payload   any
}

type fakeBroadcaster struct {
	mu     sync.Mutex
	events []publishedEvent
}

func (f *fakeBroadcaster) Publish(room, eventType string, payload any) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.events = append(f.events, publishedEvent{room: room, eventType: eventType, payload: payload})
}

func (f *fakeBroadcaster) all() []publishedEvent {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]publishedEvent(nil), f.events...)
}

func TestChatService_Ingest(t *testing.T) {
	ctx := context.Background()

	t.Run("persists and broadcasts the saved row", func(t *testing.T) {
		store := &fakeChatStore{}
		hub := &fakeBroadcaster{}
		svc := NewChatService(store, hub)

		userID := int64(42)
		saved, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{
			UserID:   &userID,
			Username: "alice",
			Text:     "salut tout le monde",
		})
		require.NoError(t, err)
		require.NotNil(t, saved)
		assert.Equal(t, int64(1), saved.ID)
		assert.Equal(t, "alice", saved.Username)
		assert.Equal(t, RoomPublic, saved.ChatType)
		assert.NotZero(t, saved.Timestamp)

		events := hub.all()
		require.Len(t, events, 1)
		assert.Equal(t, RoomPublic, events[0].room)
		assert.Equal(t, model.EventMessage, events[0].eventType)
		assert.Equal(t, saved, events[0].payload)
	})

	t.Run("drops empty text silently", func(t *testing.T) {
		store := &fakeChatStore{}
		hub := &fakeBroadcaster{}
		svc := NewChatService(store, hub)

		for _, text := range []string{"", "   ", "\n\t  "} {
			saved, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{Text: text})
			assert.NoError(t, err)
			assert.Nil(t, saved)
		}
		assert.Empty(t, store.inserted)
		assert.Empty(t, hub.all())
	})

	t.Run("truncates oversized text to the cap", func(t *testing.T) {
		store := &fakeChatStore{}
		svc := NewChatService(store, &fakeBroadcaster{})

		saved, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{
			Username: "bob",
			Text:     strings.Repeat("x", MaxMessageLen+57),
		})
		require.NoError(t, err)
		assert.Len(t, []rune(saved.Text), MaxMessageLen)
	})

	t.Run("truncation counts runes not bytes", func(t *testing.T) {
		store := &fakeChatStore{}
		svc := NewChatService(store, &fakeBroadcaster{})

		saved, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{
			Username: "bob",
			Text:     strings.Repeat("é", MaxMessageLen+10),
		})
		require.NoError(t, err)
		assert.Equal(t, strings.Repeat("é", MaxMessageLen), saved.Text)
	})

	t.Run("defaults anonymous names per room", func(t *testing.T) {
		store := &fakeChatStore{}
		svc := NewChatService(store, &fakeBroadcaster{})

		pub, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "Anonymous", pub.Username)

		adm, err := svc.Ingest(ctx, RoomAdmin, &model.ChatSendRequest{Text: "hello"})
		require.NoError(t, err)
		assert.Equal(t, "Admin", adm.Username)
	})

	t.Run("concurrent ingests get distinct ids", func(t *testing.T) {
		store := &fakeChatStore{}
		svc := NewChatService(store, &fakeBroadcaster{})

		const n = 50
		var wg sync.WaitGroup
		ids := make(chan int64, n)
		errs := make(chan error, n)
		for i := 0; i < n; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				saved, err := svc.Ingest(ctx, RoomPublic, &model.ChatSendRequest{Username: "u", Text: "m"})
				if err != nil {
					errs <- err
					return
				}
				ids <- saved.ID
			}()
		}
		wg.Wait()
		close(ids)
		close(errs)

		for err := range errs {
			t.Errorf("ingest: %v", err)
		}

		seen := make(map[int64]bool)
		for id := range ids {
			assert.False(t, seen[id], "duplicate id %d", id)
			seen[id] = true
		}
		assert.Len(t, seen, n)
	})
}

func TestChatService_History(t *testing.T) {
	ctx := context.Background()

	t.Run("requests the retention window and cap", func(t *testing.T) {
		store := &fakeChatStore{recent: []model.ChatMessage{{ID: 1, Text: "a"}}}
		svc := NewChatService(store, &fakeBroadcaster{})

		before := time.Now().Add(-RetentionHorizon).UnixMilli()
		msgs, err := svc.History(ctx, RoomPublic)
		after := time.Now().Add(-RetentionHorizon).UnixMilli()

		require.NoError(t, err)
		assert.Len(t, msgs, 1)
		assert.Equal(t, HistoryLimit, store.lastLimit)
		assert.GreaterOrEqual(t, store.lastSince, before)
		assert.LessOrEqual(t, store.lastSince, after)
	})

	t.Run("snapshot is the newest messages in ascending order", func(t *testing.T) {
		// Store order is newest first, ids 551 down to 1.
		const total = HistoryLimit + 51
		rows := make([]model.ChatMessage, total)
		for i := range rows {
			id := int64(total - i)
			rows[i] = model.ChatMessage{ID: id, Timestamp: id * 1000, Text: "m"}
		}
		store := &fakeChatStore{recent: rows}
		svc := NewChatService(store, &fakeBroadcaster{})

		msgs, err := svc.History(ctx, RoomPublic)
		require.NoError(t, err)
		require.Len(t, msgs, HistoryLimit)

		// Oldest survivor first, newest last; the 51 oldest rows are gone.
		assert.Equal(t, int64(52), msgs[0].ID)
		assert.Equal(t, int64(total), msgs[len(msgs)-1].ID)
		for i := 1; i < len(msgs); i++ {
			assert.Greater(t, msgs[i].Timestamp, msgs[i-1].Timestamp)
		}
	})

	t.Run("returns an empty slice when there is no history", func(t *testing.T) {
		svc := NewChatService(&fakeChatStore{}, &fakeBroadcaster{})

		msgs, err := svc.History(ctx, RoomAdmin)
		require.NoError(t, err)
		assert.NotNil(t, msgs)
		assert.Empty(t, msgs)
	})
}

func TestChatService_Purge(t *testing.T) {
	store := &fakeChatStore{}
	hub := &fakeBroadcaster{}
	svc := NewChatService(store, hub)

	deleted, err := svc.Purge(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), deleted)

	events := hub.all()
	require.Len(t, events, 2)
	rooms := []string{events[0].room, events[1].room}
	assert.ElementsMatch(t, []string{RoomPublic, RoomAdmin}, rooms)
	for _, ev := range events {
		assert.Equal(t, model.EventPurge, ev.eventType)
	}
}

func TestChatService_Clear(t *testing.T) {
	ctx := context.Background()

	t.Run("scoped clear notifies only the affected room", func(t *testing.T) {
		store := &fakeChatStore{}
		hub := &fakeBroadcaster{}
		svc := NewChatService(store, hub)

		deleted, err := svc.Clear(ctx, RoomPublic)
		require.NoError(t, err)
		assert.Equal(t, int64(7), deleted)
		assert.Equal(t, []string{RoomPublic}, store.cleared)

		events := hub.all()
		require.Len(t, events, 1)
		assert.Equal(t, RoomPublic, events[0].room)
		assert.Equal(t, model.EventPurge, events[0].eventType)
	})

	t.Run("unscoped clear notifies both chat rooms", func(t *testing.T) {
		hub := &fakeBroadcaster{}
		svc := NewChatService(&fakeChatStore{}, hub)

		_, err := svc.Clear(ctx, "")
		require.NoError(t, err)

		events := hub.all()
		require.Len(t, events, 2)
		assert.ElementsMatch(t, []string{RoomPublic, RoomAdmin}, []string{events[0].room, events[1].room})
	})
}
