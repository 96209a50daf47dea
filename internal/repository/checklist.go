package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/nnyaqu-sketch/site-hacker-space/internal/model"
)

var ErrNotFound = errors.New("not found")

type ChecklistRepository struct {
	pool *pgxpool.Pool
}

func NewChecklistRepository(pool *pgxpool.Pool) *ChecklistRepository {
	return &ChecklistRepository{pool: pool}
}

func (r *ChecklistRepository) Create(ctx context.Context, name, description string, createdBy int64) (*model.Checklist, error) {
	l := &model.Checklist{Items: []model.ChecklistItem{}}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO checklists (name, description, created_by)
		VALUES ($1, $2, $3)
		RETURNING id, name, description, created_by
	`, name, description, createdBy).Scan(&l.ID, &l.Name, &l.Description, &l.CreatedBy)
	if err != nil {
		return nil, err
	}
	return l, nil
}

func (r *ChecklistRepository) Get(ctx context.Context, id int64) (*model.Checklist, error) {
	l := &model.Checklist{}
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, description, created_by FROM checklists WHERE id = $1
	`, id).Scan(&l.ID, &l.Name, &l.Description, &l.CreatedBy)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return l, nil
}

// List returns all checklists with their items nested.
func (r *ChecklistRepository) List(ctx context.Context) ([]model.Checklist, error) {
	rows, err := r.pool.Query(ctx, `SELECT id, name, description, created_by FROM checklists ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var lists []model.Checklist
	byID := make(map[int64]int)
	for rows.Next() {
		var l model.Checklist
		if err := rows.Scan(&l.ID, &l.Name, &l.Description, &l.CreatedBy); err != nil {
			return nil, err
		}
		l.Items = []model.ChecklistItem{}
		byID[l.ID] = len(lists)
		lists = append(lists, l)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	itemRows, err := r.pool.Query(ctx, `
		SELECT id, checklist_id, text, checked, parent_id FROM checklist_items ORDER BY id
	`)
	if err != nil {
		return nil, err
	}
	defer itemRows.Close()

	for itemRows.Next() {
		var it model.ChecklistItem
		if err := itemRows.Scan(&it.ID, &it.ChecklistID, &it.Text, &it.Checked, &it.ParentID); err != nil {
			return nil, err
		}
		if idx, ok := byID[it.ChecklistID]; ok {
			lists[idx].Items = append(lists[idx].Items, it)
		}
	}
	return lists, itemRows.Err()
}

func (r *ChecklistRepository) AddItem(ctx context.Context, checklistID int64, text string, parentID *int64) (*model.ChecklistItem, error) {
	it := &model.ChecklistItem{}
	err := r.pool.QueryRow(ctx, `
		INSERT INTO checklist_items (checklist_id, text, parent_id)
		VALUES ($1, $2, $3)
		RETURNING id, checklist_id, text, checked, parent_id
	`, checklistID, text, parentID).Scan(&it.ID, &it.ChecklistID, &it.Text, &it.Checked, &it.ParentID)
	if err != nil {
		return nil, err
	}
	return it, nil
}

// ToggleItem flips the checked flag in place and returns the new state.
func (r *ChecklistRepository) ToggleItem(ctx context.Context, itemID int64) (bool, error) {
	var checked bool
	err := r.pool.QueryRow(ctx, `
		UPDATE checklist_items SET checked = NOT checked WHERE id = $1 RETURNING checked
	`, itemID).Scan(&checked)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, ErrNotFound
		}
		return false, err
	}
	return checked, nil
}

// Delete removes a checklist; items cascade.
func (r *ChecklistRepository) Delete(ctx context.Context, id int64) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM checklists WHERE id = $1`, id)
	return err
}

func (r *ChecklistRepository) CountTotal(ctx context.Context) (int64, error) {
	var count int64
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM checklists`).Scan(&count)
	return count, err
}
