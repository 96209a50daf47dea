package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

type AnnouncementRepository struct {
	pool *pgxpool.Pool
}

func NewAnnouncementRepository(pool *pgxpool.Pool) *AnnouncementRepository {
	return &AnnouncementRepository{pool: pool}
}

func (r *AnnouncementRepository) Insert(ctx context.Context, title, content string, createdBy int64, timestamp int64) (*model.Announcement, error) {
	a := &model.Announcement{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO announcements (title, content, created_by, timestamp)
		VALUES ($1, $2, $3, $4)
		RETURNING id, title, content, created_by, timestamp
	`, title, content, createdBy, timestamp).Scan(&a.ID, &a.Title, &a.Content, &a.CreatedBy, &a.Timestamp)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AnnouncementRepository) List(ctx context.Context) ([]model.Announcement, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, title, content, created_by, timestamp
		FROM announcements
		ORDER BY timestamp DESC, id DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var anns []model.Announcement
	for rows.Next() {
		var a model.Announcement
		if err := rows.Scan(&a.ID, &a.Title, &a.Content, &a.CreatedBy, &a.Timestamp); err != nil {
			return nil, err
		}
		anns = append(anns, a)
	}
	return anns, rows.Err()
}

func (r *AnnouncementRepository) Clear(ctx context.Context) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM announcements`)
	return err
}

func (r *AnnouncementRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM announcements`).Scan(&count)
	return count, err
}
