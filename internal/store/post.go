// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"devlog/internal/models"
)

// postColumns lists all columns for posts SELECTs.
const postColumns = `id, slug, title, content, excerpt, category, tags,
	published, created_at, updated_at`

// PostStore handles all post-related database operations.
type PostStore struct {
	db *sql.DB
}

// NewPostStore creates a new PostStore with the given database connection.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

// scanPost scans a single posts row into a Post.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	var tagsRaw []byte
	err := scanner.Scan(
		&p.ID, &p.Slug, &p.Title, &p.Content, &p.Excerpt, &p.Category, &tagsRaw,
		&p.Published, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal(tagsRaw, &p.Tags); err != nil {
		return nil, fmt.Errorf("decode tags: %w", err)
	}
	if p.Tags == nil {
		p.Tags = []string{}
	}
	return &p, nil
}

func encodeTags(tags []string) []byte {
	if tags == nil {
		tags = []string{}
	}
	b, _ := json.Marshal(tags)
	return b
}

// SlugExists reports whether any post (or, with publishedOnly, any published
// post) uses slug.
func (s *PostStore) SlugExists(ctx context.Context, slug string, publishedOnly bool) (bool, error) {
	q := `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1)`
	if publishedOnly {
		q = `SELECT EXISTS (SELECT 1 FROM posts WHERE slug = $1 AND published)`
	}
	var exists bool
	if err := s.db.QueryRowContext(ctx, q, slug).Scan(&exists); err != nil {
		return false, fmt.Errorf("check slug: %w", err)
	}
	return exists, nil
}

// Insert stores a new post and returns it with the generated ID and timestamps.
func (s *PostStore) Insert(ctx context.Context, p *models.Post) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO posts (slug, title, content, excerpt, category, tags, published)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7)
		RETURNING `+postColumns,
		p.Slug, p.Title, p.Content, p.Excerpt, p.Category, encodeTags(p.Tags), p.Published,
	)
	created, err := scanPost(row)
	if err != nil {
		return nil, wrapWrite("insert post", err)
	}
	return created, nil
}

// Update overwrites the editable fields of an existing post and bumps updated_at.
func (s *PostStore) Update(ctx context.Context, p *models.Post) error {
	err := s.db.QueryRowContext(ctx, `
		UPDATE posts SET
			slug = $1, title = $2, content = $3, excerpt = $4, category = $5,
			tags = $6::jsonb, published = $7, updated_at = NOW()
		WHERE id = $8
		RETURNING updated_at
	`, p.Slug, p.Title, p.Content, p.Excerpt, p.Category, encodeTags(p.Tags), p.Published, p.ID,
	).Scan(&p.UpdatedAt)
	if err == sql.ErrNoRows {
		return fmt.Errorf("update post: %w", ErrNotFound)
	}
	if err != nil {
		return wrapWrite("update post", err)
	}
	return nil
}

// Delete removes a post by ID.
func (s *PostStore) Delete(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM posts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete post: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete post: %w", ErrNotFound)
	}
	return nil
}

// FindByID retrieves a post by its UUID. Returns nil if not found.
func (s *PostStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE id = $1`, id))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by id: %w", err)
	}
	return p, nil
}

// FindBySlug retrieves a published post by its slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	p, err := scanPost(s.db.QueryRowContext(ctx,
		`SELECT `+postColumns+` FROM posts WHERE slug = $1 AND published`, slug))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}
	return p, nil
}

// List returns one page of posts matching q, newest first, plus the total
// number of matches.
func (s *PostStore) List(ctx context.Context, q models.PostQuery) ([]models.Post, int, error) {
	where := []string{}
	args := []any{}
	i := 1

	if q.PublishedOnly {
		where = append(where, "published")
	}
	if q.Category != "" {
		where = append(where, fmt.Sprintf("category = $%d", i))
		args = append(args, q.Category)
		i++
	}
	if q.Tag != "" {
		where = append(where, fmt.Sprintf("tags ? $%d", i))
		args = append(args, q.Tag)
		i++
	}
	if q.Search != "" {
		where = append(where, fmt.Sprintf("(title ILIKE $%d OR content ILIKE $%d)", i, i))
		args = append(args, "%"+escapeLike(q.Search)+"%")
		i++
	}

	clause := ""
	if len(where) > 0 {
		clause = " WHERE " + strings.Join(where, " AND ")
	}

	var total int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM posts`+clause, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}

	query := `SELECT ` + postColumns + ` FROM posts` + clause +
		fmt.Sprintf(` ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`, i, i+1)
	args = append(args, q.Limit, q.Offset())

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}
	defer rows.Close()

	var posts []models.Post
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	return posts, total, rows.Err()
}

// Categories returns the distinct categories of published posts, sorted.
func (s *PostStore) Categories(ctx context.Context) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT category FROM posts
		WHERE published AND category IS NOT NULL AND category <> ''
		ORDER BY category
	`)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []string
	for rows.Next() {
		var c string
		if err := rows.Scan(&c); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// escapeLike escapes LIKE wildcards so search terms match literally.
func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}
