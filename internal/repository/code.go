package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

var ErrCodeInvalid = errors.New("invite code invalid or already used")

type CodeRepository struct {
	pool *pgxpool.Pool
}

func NewCodeRepository(pool *pgxpool.Pool) *CodeRepository {
	return &CodeRepository{pool: pool}
}

func (r *CodeRepository) Create(ctx context.Context, code, role string, createdBy *int64) (*model.InviteCode, error) {
	ic := &model.InviteCode{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO invite_codes (code, role, created_by)
		VALUES ($1, $2, $3)
		RETURNING code, role, used, created_by, created_at
	`, code, role, createdBy).Scan(&ic.Code, &ic.Role, &ic.Used, &ic.CreatedBy, &ic.CreatedAt)
	if err != nil {
		return nil, err
	}
	return ic, nil
}

// Consume marks an unused code as used and returns the role it grants.
// The update is a single statement, so two racing registrations cannot both
// consume the same code.
func (r *CodeRepository) Consume(ctx context.Context, code string) (string, error) {
	var role string
	err := r.pool.QueryRow(ctx, `
		UPDATE invite_codes SET used = TRUE
		WHERE code = $1 AND used = FALSE
		RETURNING role
	`, code).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", ErrCodeInvalid
		}
		return "", err
	}
	return role, nil
}
