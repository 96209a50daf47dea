package service

import (
	"context"
	"log"
	"time"
)

// SweepInterval is how often the retention loop fires.
const SweepInterval = time.Hour

// SessionStore is the slice of the session repository the sweeper uses.
type SessionStore interface {
	CleanupExpired(ctx context.Context) error
}

// Sweeper bounds unbounded growth: chat rows past the retention horizon and
// dead refresh tokens are deleted on a fixed period, independent of load.
// A failed cycle is logged and retried at the next tick, nothing more.
type Sweeper struct {
	chat     *ChatService
	sessions SessionStore
	interval time.Duration
}

func NewSweeper(chat *ChatService, sessions SessionStore) *Sweeper {
	return &Sweeper{chat: chat, sessions: sessions, interval: SweepInterval}
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *Sweeper) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Tick(ctx)
		}
	}
}

// Tick performs one sweep cycle. Store failures are swallowed; the next
// cycle simply tries again.
func (s *Sweeper) Tick(ctx context.Context) {
	deleted, err := s.chat.Sweep(ctx)
	if err != nil {
		log.Printf("[retention] chat sweep failed: %v", err)
	} else if deleted > 0 {
		log.Printf("[retention] deleted %d expired chat messages", deleted)
	}

	if s.sessions != nil {
		if err := s.sessions.CleanupExpired(ctx); err != nil {
			log.Printf("[retention] session cleanup failed: %v", err)
		}
	}
}
