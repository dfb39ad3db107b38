// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"math"
	"time"

	"github.com/google/uuid"
)

// Post is a blog entry. Slug is unique among published posts.
type Post struct {
	ID        uuid.UUID `json:"id"`
	Slug      string    `json:"slug"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt,omitempty"`
	Category  *string   `json:"category,omitempty"`
	Tags      []string  `json:"tags"`
	Published bool      `json:"published"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CategoryName returns the category or the empty string when unset.
func (p *Post) CategoryName() string {
	if p.Category == nil {
		return ""
	}
	return *p.Category
}

// PostView is a post as returned to readers, with derived fields attached.
type PostView struct {
	Post
	ReadingMinutes int `json:"reading_minutes"`
}

// PostQuery filters a post listing. Zero values mean "no filter".
type PostQuery struct {
	PublishedOnly bool
	Category      string
	Tag           string
	Search        string
	Page          int // 1-based
	Limit         int
}

// Offset returns the row offset for the query's page. Offsets past
// math.MaxInt saturate instead of wrapping negative.
func (q PostQuery) Offset() int {
	if q.Page <= 1 || q.Limit <= 0 {
		return 0
	}
	if q.Page-1 > math.MaxInt/q.Limit {
		return math.MaxInt
	}
	return (q.Page - 1) * q.Limit
}

// Page is one page of a listing.
type Page[T any] struct {
	Data    []T  `json:"data"`
	Total   int  `json:"total"`
	Page    int  `json:"page"`
	Limit   int  `json:"limit"`
	HasMore bool `json:"has_more"`
}
