// Package drafts persists, lists, restores and discards snapshots of the post
// editor form. Every save inserts a new record; drafts are never merged.
package drafts

import (
	"context"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"devlog/internal/apperr"
	"devlog/internal/models"
)

const (
	// DefaultListLimit is how many drafts List returns when no limit is given.
	DefaultListLimit = 10
	// MaxListLimit caps the limit accepted by List.
	MaxListLimit = 50
)

// Repository is the draft collection of the document store.
type Repository interface {
	Insert(ctx context.Context, content string) (*models.Draft, error)
	ListRecent(ctx context.Context, limit int) ([]models.Draft, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Draft, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// Entry is a listed draft together with its decoded form.
type Entry struct {
	models.Draft
	Form models.PostForm `json:"form"`
}

// Service is the draft store adapter.
type Service struct {
	repo Repository
}

// NewService creates a draft Service backed by repo.
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// Save validates and stores a snapshot of form. A form with neither title nor
// content is rejected before reaching the store.
func (s *Service) Save(ctx context.Context, form models.PostForm) (*models.Draft, error) {
	if strings.TrimSpace(form.Title) == "" && strings.TrimSpace(form.Content) == "" {
		return nil, &apperr.ValidationError{Field: "form", Message: "title or content is required"}
	}

	blob, err := models.EncodeForm(form)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "save draft", Err: err}
	}
	d, err := s.repo.Insert(ctx, blob)
	if err != nil {
		return nil, &apperr.PersistenceError{Op: "save draft", Err: err}
	}
	slog.Debug("draft saved", "draft_id", d.ID)
	return d, nil
}

// List returns the most recent drafts, newest first. Drafts whose content does
// not decode are left out of the result.
func (s *Service) List(ctx context.Context, limit int) ([]Entry, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	limit = min(limit, MaxListLimit)

	drafts, err := s.repo.ListRecent(ctx, limit)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "list drafts", Err: err}
	}

	entries := make([]Entry, 0, len(drafts))
	for _, d := range drafts {
		form, err := models.DecodeForm(d.Content)
		if err != nil {
			slog.Debug("skipping corrupt draft", "draft_id", d.ID, "error", err)
			continue
		}
		entries = append(entries, Entry{Draft: d, Form: form})
	}
	return entries, nil
}

// Get loads a single draft by ID.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*models.Draft, error) {
	d, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "get draft", Err: err}
	}
	if d == nil {
		return nil, &apperr.NotFoundError{Kind: "draft", Key: id.String()}
	}
	return d, nil
}

// Restore decodes d into form. On failure form is left untouched.
func (s *Service) Restore(d *models.Draft, form *models.PostForm) error {
	decoded, err := models.DecodeForm(d.Content)
	if err != nil {
		return &apperr.CorruptDraftError{DraftID: d.ID.String(), Err: err}
	}
	*form = decoded
	return nil
}

// Discard deletes a draft. Unknown IDs are reported as a PersistenceError
// wrapping store.ErrNotFound.
func (s *Service) Discard(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return &apperr.PersistenceError{Op: "discard draft", Err: err}
	}
	return nil
}
