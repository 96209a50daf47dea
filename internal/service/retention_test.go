package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSessionStore struct {
	mu    sync.Mutex
	calls int
	err   error
}

func (f *fakeSessionStore) CleanupExpired(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.err
}

func (f *fakeSessionStore) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func TestSweeper_Tick(t *testing.T) {
	ctx := context.Background()

	t.Run("sweeps chat and sessions", func(t *testing.T) {
		store := &fakeChatStore{}
		sessions := &fakeSessionStore{}
		sweeper := NewSweeper(NewChatService(store, &fakeBroadcaster{}), sessions)

		sweeper.Tick(ctx)
		assert.Equal(t, 1, sessions.callCount())
		assert.NotZero(t, store.lastSince)
	})

	t.Run("swallows store failures", func(t *testing.T) {
		store := &fakeChatStore{err: errors.New("db down")}
		sessions := &fakeSessionStore{err: errors.New("db down")}
		sweeper := NewSweeper(NewChatService(store, &fakeBroadcaster{}), sessions)

		assert.NotPanics(t, func() { sweeper.Tick(ctx) })
		assert.Equal(t, 1, sessions.callCount())
	})

	t.Run("tolerates a nil session store", func(t *testing.T) {
		sweeper := NewSweeper(NewChatService(&fakeChatStore{}, &fakeBroadcaster{}), nil)
		assert.NotPanics(t, func() { sweeper.Tick(ctx) })
	})
}

func TestSweeper_RunStopsOnCancel(t *testing.T) {
	sessions := &fakeSessionStore{}
	sweeper := NewSweeper(NewChatService(&fakeChatStore{}, &fakeBroadcaster{}), sessions)
	sweeper.interval = 5 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sweeper.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool { return sessions.callCount() > 0 }, time.Second, time.Millisecond)
	cancel()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("sweeper did not stop on cancel")
	}
}
