package store

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"devlog/internal/models"
)

// MemoryPostStore is an in-process PostStore used for local development
// without PostgreSQL and in tests. It enforces the same unique index on
// published slugs.
type MemoryPostStore struct {
	mu    sync.RWMutex
	posts map[uuid.UUID]*memPost
	seq   int64
	now   func() time.Time
}

type memPost struct {
	post models.Post
	seq  int64
}

// NewMemoryPostStore returns an empty MemoryPostStore.
func NewMemoryPostStore() *MemoryPostStore {
	return &MemoryPostStore{posts: make(map[uuid.UUID]*memPost), now: time.Now}
}

func clonePost(p models.Post) models.Post {
	p.Tags = append([]string{}, p.Tags...)
	if p.Category != nil {
		c := *p.Category
		p.Category = &c
	}
	return p
}

func (m *MemoryPostStore) SlugExists(_ context.Context, slug string, publishedOnly bool) (bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mp := range m.posts {
		if mp.post.Slug == slug && (!publishedOnly || mp.post.Published) {
			return true, nil
		}
	}
	return false, nil
}

// publishedSlugTaken reports whether a published post other than self uses slug.
// Callers hold m.mu.
func (m *MemoryPostStore) publishedSlugTaken(slug string, self uuid.UUID) bool {
	for id, mp := range m.posts {
		if id != self && mp.post.Published && mp.post.Slug == slug {
			return true
		}
	}
	return false
}

func (m *MemoryPostStore) Insert(_ context.Context, p *models.Post) (*models.Post, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if p.Published && m.publishedSlugTaken(p.Slug, uuid.Nil) {
		return nil, fmt.Errorf("insert post: %w", ErrDuplicateSlug)
	}

	now := m.now()
	m.seq++
	stored := clonePost(*p)
	stored.ID = uuid.New()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	m.posts[stored.ID] = &memPost{post: stored, seq: m.seq}

	out := clonePost(stored)
	return &out, nil
}

func (m *MemoryPostStore) Update(_ context.Context, p *models.Post) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	mp, ok := m.posts[p.ID]
	if !ok {
		return fmt.Errorf("update post: %w", ErrNotFound)
	}
	if p.Published && m.publishedSlugTaken(p.Slug, p.ID) {
		return fmt.Errorf("update post: %w", ErrDuplicateSlug)
	}

	updated := clonePost(*p)
	updated.CreatedAt = mp.post.CreatedAt
	updated.UpdatedAt = m.now()
	mp.post = updated
	p.UpdatedAt = updated.UpdatedAt
	return nil
}

func (m *MemoryPostStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.posts[id]; !ok {
		return fmt.Errorf("delete post: %w", ErrNotFound)
	}
	delete(m.posts, id)
	return nil
}

func (m *MemoryPostStore) FindByID(_ context.Context, id uuid.UUID) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mp, ok := m.posts[id]
	if !ok {
		return nil, nil
	}
	out := clonePost(mp.post)
	return &out, nil
}

func (m *MemoryPostStore) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, mp := range m.posts {
		if mp.post.Published && mp.post.Slug == slug {
			out := clonePost(mp.post)
			return &out, nil
		}
	}
	return nil, nil
}

// sorted returns all posts newest first. Callers hold m.mu.
func (m *MemoryPostStore) sorted() []*memPost {
	all := make([]*memPost, 0, len(m.posts))
	for _, mp := range m.posts {
		all = append(all, mp)
	}
	sort.Slice(all, func(i, j int) bool {
		if !all[i].post.CreatedAt.Equal(all[j].post.CreatedAt) {
			return all[i].post.CreatedAt.After(all[j].post.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})
	return all
}

func (m *MemoryPostStore) List(_ context.Context, q models.PostQuery) ([]models.Post, int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	search := strings.ToLower(q.Search)
	var matched []models.Post
	for _, mp := range m.sorted() {
		p := mp.post
		if q.PublishedOnly && !p.Published {
			continue
		}
		if q.Category != "" && p.CategoryName() != q.Category {
			continue
		}
		if q.Tag != "" && !slices.Contains(p.Tags, q.Tag) {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(p.Title), search) &&
			!strings.Contains(strings.ToLower(p.Content), search) {
			continue
		}
		matched = append(matched, clonePost(p))
	}

	total := len(matched)
	start := min(max(q.Offset(), 0), total)
	end := total
	if q.Limit > 0 {
		end = min(start+q.Limit, total)
	}
	return matched[start:end], total, nil
}

func (m *MemoryPostStore) Categories(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	seen := map[string]bool{}
	var out []string
	for _, mp := range m.posts {
		c := mp.post.CategoryName()
		if !mp.post.Published || c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	sort.Strings(out)
	return out, nil
}

// MemoryDraftStore is an in-process DraftStore.
type MemoryDraftStore struct {
	mu     sync.Mutex
	drafts []memDraft
	seq    int64
	now    func() time.Time
}

type memDraft struct {
	draft models.Draft
	seq   int64
}

// NewMemoryDraftStore returns an empty MemoryDraftStore.
func NewMemoryDraftStore() *MemoryDraftStore {
	return &MemoryDraftStore{now: time.Now}
}

func (m *MemoryDraftStore) Insert(_ context.Context, content string) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d := models.Draft{ID: uuid.New(), Content: content, CreatedAt: m.now()}
	m.drafts = append(m.drafts, memDraft{draft: d, seq: m.seq})
	return &d, nil
}

func (m *MemoryDraftStore) ListRecent(_ context.Context, limit int) ([]models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	all := slices.Clone(m.drafts)
	sort.Slice(all, func(i, j int) bool {
		if !all[i].draft.CreatedAt.Equal(all[j].draft.CreatedAt) {
			return all[i].draft.CreatedAt.After(all[j].draft.CreatedAt)
		}
		return all[i].seq > all[j].seq
	})
	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}
	out := make([]models.Draft, len(all))
	for i, md := range all {
		out[i] = md.draft
	}
	return out, nil
}

func (m *MemoryDraftStore) FindByID(_ context.Context, id uuid.UUID) (*models.Draft, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, md := range m.drafts {
		if md.draft.ID == id {
			d := md.draft
			return &d, nil
		}
	}
	return nil, nil
}

func (m *MemoryDraftStore) Delete(_ context.Context, id uuid.UUID) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, md := range m.drafts {
		if md.draft.ID == id {
			m.drafts = slices.Delete(m.drafts, i, i+1)
			return nil
		}
	}
	return fmt.Errorf("delete draft: %w", ErrNotFound)
}

// InsertRaw stores content verbatim with a fixed creation time. It lets tests
// and imports seed drafts that did not come through the form codec.
func (m *MemoryDraftStore) InsertRaw(content string, createdAt time.Time) models.Draft {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.seq++
	d := models.Draft{ID: uuid.New(), Content: content, CreatedAt: createdAt}
	m.drafts = append(m.drafts, memDraft{draft: d, seq: m.seq})
	return d
}
