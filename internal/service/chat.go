package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

const (
	// MaxMessageLen caps chat message text; longer input is truncated, not
	// rejected.
	MaxMessageLen = 300

	// HistoryLimit bounds the init snapshot sent to a connecting listener.
	HistoryLimit = 500

	// RetentionHorizon is how long chat history lives. Applies uniformly to
	// every chat kind.
	RetentionHorizon = 24 * time.Hour

	anonymousName = "Anonymous"
	adminName     = "Admin"
)

// ChatStore is the persistence surface the chat service needs.
type ChatStore interface {
	Insert(ctx context.Context, userID *int64, username, text string, timestamp int64, chatType string) (*model.ChatMessage, error)
	Recent(ctx context.Context, chatType string, since int64, limit int) ([]model.ChatMessage, error)
	DeleteOlderThan(ctx context.Context, cutoff int64) (int64, error)
	Clear(ctx context.Context, chatType string) (int64, error)
}

// Broadcaster fans an event out to every listener of a room, best effort.
type Broadcaster interface {
	Publish(room, eventType string, payload any)
}

// ChatService owns chat ingestion, history snapshots and retention. Room
// names double as chat kinds: the public room carries public rows, the admin
// room admin rows. Authorization happens before any of these methods run;
// the service trusts its callers.
type ChatService struct {
	store ChatStore
	hub   Broadcaster
}

func NewChatService(store ChatStore, hub Broadcaster) *ChatService {
	return &ChatService{store: store, hub: hub}
}

// Ingest validates and persists a chat message for room, then broadcasts the
// saved row (server-assigned id and timestamp included) to the room's
// listeners. Empty or whitespace-only text is silently dropped: the sender
// gets no error, matching the fire-and-forget contract. Oversized text is
// truncated to MaxMessageLen runes.
func (s *ChatService) Ingest(ctx context.Context, room string, req *model.ChatSendRequest) (*model.ChatMessage, error) {
	text := strings.TrimSpace(req.Text)
	if text == "" {
		return nil, nil
	}
	if runes := []rune(text); len(runes) > MaxMessageLen {
		text = string(runes[:MaxMessageLen])
	}

	username := strings.TrimSpace(req.Username)
	if username == "" {
		if room == RoomAdmin {
			username = adminName
		} else {
			username = anonymousName
		}
	}

	saved, err := s.store.Insert(ctx, req.UserID, username, text, time.Now().UnixMilli(), room)
	if err != nil {
		return nil, fmt.Errorf("insert chat message: %w", err)
	}

	s.hub.Publish(room, model.EventMessage, saved)
	return saved, nil
}

// History returns the init snapshot for room: the most recent HistoryLimit
// messages younger than the retention horizon, oldest first. Never nil.
func (s *ChatService) History(ctx context.Context, room string) ([]model.ChatMessage, error) {
	since := time.Now().Add(-RetentionHorizon).UnixMilli()
	msgs, err := s.store.Recent(ctx, room, since, HistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("load chat history: %w", err)
	}
	if msgs == nil {
		return []model.ChatMessage{}, nil
	}
	if len(msgs) > HistoryLimit {
		msgs = msgs[:HistoryLimit]
	}
	// The store hands back newest first; snapshots read oldest first.
	for i, j := 0, len(msgs)-1; i < j; i, j = i+1, j-1 {
		msgs[i], msgs[j] = msgs[j], msgs[i]
	}
	return msgs, nil
}

// Sweep deletes every chat message older than the retention horizon, across
// all chat kinds. Used by the hourly retention loop and the manual purge.
func (s *ChatService) Sweep(ctx context.Context) (int64, error) {
	cutoff := time.Now().Add(-RetentionHorizon).UnixMilli()
	return s.store.DeleteOlderThan(ctx, cutoff)
}

// Purge runs a sweep and tells listeners of both chat rooms to refetch.
// This backs the manual admin purge endpoint.
func (s *ChatService) Purge(ctx context.Context) (int64, error) {
	deleted, err := s.Sweep(ctx)
	if err != nil {
		return 0, err
	}
	s.hub.Publish(RoomPublic, model.EventPurge, nil)
	s.hub.Publish(RoomAdmin, model.EventPurge, nil)
	return deleted, nil
}

// Clear unconditionally deletes chat history, optionally scoped to one chat
// kind, and publishes purge to the affected room(s) only. Listeners offline
// during a clear catch up through their next init snapshot.
func (s *ChatService) Clear(ctx context.Context, chatType string) (int64, error) {
	deleted, err := s.store.Clear(ctx, chatType)
	if err != nil {
		return 0, err
	}
	switch chatType {
	case "":
		s.hub.Publish(RoomPublic, model.EventPurge, nil)
		s.hub.Publish(RoomAdmin, model.EventPurge, nil)
	default:
		s.hub.Publish(chatType, model.EventPurge, nil)
	}
	return deleted, nil
}
