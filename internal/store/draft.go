package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"devlog/internal/models"
)

// DraftStore persists editor snapshots. Drafts are insert-only.
type DraftStore struct {
	db *sql.DB
}

// NewDraftStore creates a new DraftStore backed by the given database.
func NewDraftStore(db *sql.DB) *DraftStore {
	return &DraftStore{db: db}
}

// Insert stores a new draft blob and returns the stored record.
func (s *DraftStore) Insert(ctx context.Context, content string) (*models.Draft, error) {
	var d models.Draft
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO drafts (content) VALUES ($1)
		RETURNING id, content, created_at
	`, content).Scan(&d.ID, &d.Content, &d.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("insert draft: %w", err)
	}
	return &d, nil
}

// ListRecent returns up to limit drafts, newest first.
func (s *DraftStore) ListRecent(ctx context.Context, limit int) ([]models.Draft, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, content, created_at
		FROM drafts
		ORDER BY created_at DESC, id DESC
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("list drafts: %w", err)
	}
	defer rows.Close()

	var drafts []models.Draft
	for rows.Next() {
		var d models.Draft
		if err := rows.Scan(&d.ID, &d.Content, &d.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan draft: %w", err)
		}
		drafts = append(drafts, d)
	}
	return drafts, rows.Err()
}

// FindByID retrieves a draft by ID. Returns nil if not found.
func (s *DraftStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	var d models.Draft
	err := s.db.QueryRowContext(ctx,
		`SELECT id, content, created_at FROM drafts WHERE id = $1`, id,
	).Scan(&d.ID, &d.Content, &d.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find draft: %w", err)
	}
	return &d, nil
}

// Delete removes a draft by ID. Deleting an unknown ID returns ErrNotFound.
func (s *DraftStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM drafts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete draft: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete draft: %w", ErrNotFound)
	}
	return nil
}
