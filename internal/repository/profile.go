package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type ProfileRepository struct {
	pool *pgxpool.Pool
}

func NewProfileRepository(pool *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{pool: pool}
}

func (r *ProfileRepository) Get(ctx context.Context, userID int64) (*model.Profile, error) {
	p := &model.Profile{}
	err := r.pool.QueryRow(ctx, `
		SELECT user_id, display_name, bio, avatar_color, is_public, show_stats, created_at
		FROM user_profiles WHERE user_id = $1
	`, userID).Scan(&p.UserID, &p.DisplayName, &p.Bio, &p.AvatarColor, &p.IsPublic, &p.ShowStats, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return p, nil
}

// CreateDefault inserts a fresh profile using the username as display name.
// A concurrent insert wins silently and the stored row is returned.
func (r *ProfileRepository) CreateDefault(ctx context.Context, userID int64, displayName string, createdAt int64) (*model.Profile, error) {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, display_name, created_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO NOTHING
	`, userID, displayName, createdAt)
	if err != nil {
		return nil, err
	}
	return r.Get(ctx, userID)
}

// Upsert writes the full editable profile state.
func (r *ProfileRepository) Upsert(ctx context.Context, userID int64, req *model.ProfileUpdateRequest, createdAt int64) error {
	avatarColor := req.AvatarColor
	if avatarColor == "" {
		avatarColor = model.DefaultAvatarColor
	}
	_, err := r.pool.Exec(ctx, `
		INSERT INTO user_profiles (user_id, display_name, bio, avatar_color, is_public, show_stats, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO UPDATE SET
			display_name = EXCLUDED.display_name,
			bio = EXCLUDED.bio,
			avatar_color = EXCLUDED.avatar_color,
			is_public = EXCLUDED.is_public,
			show_stats = EXCLUDED.show_stats
	`, userID, req.DisplayName, req.Bio, avatarColor, req.IsPublic, req.ShowStats, createdAt)
	return err
}
