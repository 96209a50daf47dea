package database

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const connectAttempts = 10

// NewPool opens a pgx pool against databaseURL, retrying while the database
// comes up (docker-compose starts Postgres alongside the server).
func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	cfg.MaxConns = 10
	cfg.MinConns = 1
	cfg.MaxConnLifetime = 30 * time.Minute
	cfg.MaxConnIdleTime = 5 * time.Minute

	var pool *pgxpool.Pool
	for attempt := 1; attempt <= connectAttempts; attempt++ {
		pool, err = pgxpool.NewWithConfig(ctx, cfg)
		if err == nil {
			if pingErr := pool.Ping(ctx); pingErr == nil {
				log.Printf("[db] connected (attempt %d)", attempt)
				return pool, nil
			} else {
				pool.Close()
				err = pingErr
			}
		}
		log.Printf("[db] connect attempt %d/%d failed: %v", attempt, connectAttempts, err)
		time.Sleep(2 * time.Second)
	}

	return nil, fmt.Errorf("connect after %d attempts: %w", connectAttempts, err)
}
