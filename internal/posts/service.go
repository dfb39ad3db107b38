// Package posts creates, edits, lists and deletes blog posts. It owns slug
// assignment, excerpt derivation and cache invalidation for the post
// collection.
package posts

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"

	"devlog/internal/apperr"
	"devlog/internal/models"
	"devlog/internal/slug"
	"devlog/internal/store"
	"devlog/internal/summary"
)

// Listing limits.
const (
	HomeLimit    = 6
	DefaultLimit = 10
	MaxLimit     = 50
)

// Repository is the post collection of the document store.
type Repository interface {
	slug.Checker
	Insert(ctx context.Context, p *models.Post) (*models.Post, error)
	Update(ctx context.Context, p *models.Post) error
	Delete(ctx context.Context, id uuid.UUID) error
	FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
	List(ctx context.Context, q models.PostQuery) ([]models.Post, int, error)
	Categories(ctx context.Context) ([]string, error)
}

// Cache holds published post views and the category list. Implementations
// swallow their own errors; a miss is always safe.
type Cache interface {
	Post(ctx context.Context, slug string) (*models.PostView, bool)
	StorePost(ctx context.Context, v *models.PostView)
	Categories(ctx context.Context) ([]string, bool)
	StoreCategories(ctx context.Context, categories []string)
	Invalidate(ctx context.Context, slugs ...string)
}

// Service implements the post operations on top of a Repository.
type Service struct {
	repo     Repository
	resolver *slug.Resolver
	cache    Cache
}

// NewService creates a post Service. A nil cache disables caching.
func NewService(repo Repository, cache Cache) *Service {
	if cache == nil {
		cache = noCache{}
	}
	return &Service{
		repo:     repo,
		resolver: slug.NewResolver(repo),
		cache:    cache,
	}
}

// Create validates form and inserts it as a new post. The slug is derived
// from the title and made unique within the publish scope.
func (s *Service) Create(ctx context.Context, form models.PostForm, publish bool) (*models.PostView, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}

	p := fromForm(form, publish)
	p.Slug = s.resolver.Resolve(ctx, p.Title, publish)

	stored, err := s.repo.Insert(ctx, p)
	if err != nil {
		return nil, writeError("create post", err)
	}

	s.cache.Invalidate(ctx, stored.Slug)
	return view(stored), nil
}

// Update replaces the editable fields of post id. The slug is kept while the
// title's base is unchanged; otherwise a new unique slug is resolved.
func (s *Service) Update(ctx context.Context, id uuid.UUID, form models.PostForm, publish bool) (*models.PostView, error) {
	if err := Validate(form); err != nil {
		return nil, err
	}
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "load post", Err: err}
	}
	if existing == nil {
		return nil, &apperr.NotFoundError{Kind: "post", Key: id.String()}
	}

	p := fromForm(form, publish)
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt

	switch {
	case !keepsSlug(existing, p.Title):
		p.Slug = s.resolver.Resolve(ctx, p.Title, publish)
	case publish && !existing.Published:
		// Going live moves the post into the published uniqueness scope.
		p.Slug = s.resolver.Unique(ctx, existing.Slug, true)
	default:
		p.Slug = existing.Slug
	}

	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return nil, &apperr.NotFoundError{Kind: "post", Key: id.String()}
		}
		return nil, writeError("update post", err)
	}

	s.cache.Invalidate(ctx, existing.Slug, p.Slug)
	return view(p), nil
}

// Get returns the published post with the given slug.
func (s *Service) Get(ctx context.Context, postSlug string) (*models.PostView, error) {
	if v, ok := s.cache.Post(ctx, postSlug); ok {
		return v, nil
	}

	p, err := s.repo.FindBySlug(ctx, postSlug)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "get post", Err: err}
	}
	if p == nil {
		return nil, &apperr.NotFoundError{Kind: "post", Key: postSlug}
	}

	v := view(p)
	s.cache.StorePost(ctx, v)
	return v, nil
}

// GetByID returns any post, published or not. Used by the editor.
func (s *Service) GetByID(ctx context.Context, id uuid.UUID) (*models.PostView, error) {
	p, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "get post", Err: err}
	}
	if p == nil {
		return nil, &apperr.NotFoundError{Kind: "post", Key: id.String()}
	}
	return view(p), nil
}

// List returns one page of published posts, newest first. An unfiltered
// listing without a limit is the home page and uses HomeLimit.
func (s *Service) List(ctx context.Context, q models.PostQuery) (*models.Page[models.PostView], error) {
	q.PublishedOnly = true
	q.Category = strings.TrimSpace(q.Category)
	q.Tag = strings.TrimSpace(q.Tag)
	q.Search = strings.TrimSpace(q.Search)
	if q.Page < 1 {
		q.Page = 1
	}
	switch {
	case q.Limit <= 0 && q.Category == "" && q.Tag == "" && q.Search == "":
		q.Limit = HomeLimit
	case q.Limit <= 0:
		q.Limit = DefaultLimit
	}
	q.Limit = min(q.Limit, MaxLimit)

	found, total, err := s.repo.List(ctx, q)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "list posts", Err: err}
	}

	views := make([]models.PostView, len(found))
	for i := range found {
		views[i] = *view(&found[i])
	}
	return &models.Page[models.PostView]{
		Data:    views,
		Total:   total,
		Page:    q.Page,
		Limit:   q.Limit,
		HasMore: q.Offset() < total-len(views),
	}, nil
}

// Categories returns the distinct categories of published posts, sorted.
func (s *Service) Categories(ctx context.Context) ([]string, error) {
	if c, ok := s.cache.Categories(ctx); ok {
		return c, nil
	}
	c, err := s.repo.Categories(ctx)
	if err != nil {
		return nil, &apperr.RetrievalError{Op: "list categories", Err: err}
	}
	if c == nil {
		c = []string{}
	}
	s.cache.StoreCategories(ctx, c)
	return c, nil
}

// Delete removes post id.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	existing, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return &apperr.RetrievalError{Op: "load post", Err: err}
	}
	if existing == nil {
		return &apperr.NotFoundError{Kind: "post", Key: id.String()}
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return &apperr.NotFoundError{Kind: "post", Key: id.String()}
		}
		return &apperr.PersistenceError{Op: "delete post", Err: err}
	}

	s.cache.Invalidate(ctx, existing.Slug)
	return nil
}

func fromForm(form models.PostForm, publish bool) *models.Post {
	p := &models.Post{
		Title:     strings.TrimSpace(form.Title),
		Content:   form.Content,
		Excerpt:   summary.Excerpt(form.Content, summary.DefaultExcerptLength),
		Tags:      NormalizeTags(form.Tags),
		Published: publish,
	}
	if c := strings.TrimSpace(form.Category); c != "" {
		p.Category = &c
	}
	return p
}

func view(p *models.Post) *models.PostView {
	return &models.PostView{Post: *p, ReadingMinutes: summary.ReadingTime(p.Content)}
}

func writeError(op string, err error) error {
	return &apperr.PersistenceError{
		Op:       op,
		Err:      err,
		Conflict: errors.Is(err, store.ErrDuplicateSlug),
	}
}

// keepsSlug reports whether p's slug still fits title: either it is the new
// title's base, or the base did not change, so a collision suffix such as
// "-2" stays. A title like "Go 2" whose own base ends in a number does not
// let a retitle to "Go" keep "go-2".
func keepsSlug(p *models.Post, title string) bool {
	base := slug.Base(title)
	return p.Slug == base || slug.Base(p.Title) == base
}

type noCache struct{}

func (noCache) Post(context.Context, string) (*models.PostView, bool) { return nil, false }
func (noCache) StorePost(context.Context, *models.PostView)           {}
func (noCache) Categories(context.Context) ([]string, bool)          { return nil, false }
func (noCache) StoreCategories(context.Context, []string)            {}
func (noCache) Invalidate(context.Context, ...string)                {}
