package slug

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"
)

const (
	// MaxSuffix is the highest numbered candidate probed before falling back
	// to a timestamp suffix.
	MaxSuffix = 10

	// fallbackBase is used when a title has no slug-safe characters at all.
	fallbackBase = "post"
)

// Checker reports whether a slug is taken. When publishedOnly is set only
// published posts count.
type Checker interface {
	SlugExists(ctx context.Context, slug string, publishedOnly bool) (bool, error)
}

// Resolver finds a free slug for a title. The check and the later insert are
// not atomic: two concurrent submissions of the same title can both see a
// candidate as free, and the store's unique index decides.
type Resolver struct {
	checker Checker
	now     func() time.Time
}

// NewResolver returns a Resolver backed by checker.
func NewResolver(checker Checker) *Resolver {
	return &Resolver{checker: checker, now: time.Now}
}

// WithClock replaces the clock used for the timestamp fallback.
func (r *Resolver) WithClock(now func() time.Time) *Resolver {
	r.now = now
	return r
}

// Base returns the slug base for title: its normalized form, or "post" when
// nothing slug-safe is left.
func Base(title string) string {
	if base := Normalize(title); base != "" {
		return base
	}
	return fallbackBase
}

// Resolve normalizes title and returns a slug that was free at check time.
func (r *Resolver) Resolve(ctx context.Context, title string, publish bool) string {
	return r.Unique(ctx, Base(title), publish)
}

// Unique returns base if it is free, else the first free base-N for
// N in 1..MaxSuffix, else base-<base36 unix millis>. A failed existence check
// returns the candidate being checked.
func (r *Resolver) Unique(ctx context.Context, base string, publish bool) string {
	candidate := base
	for i := 1; ; i++ {
		taken, err := r.checker.SlugExists(ctx, candidate, publish)
		if err != nil {
			slog.Warn("slug existence check failed, using candidate",
				"slug", candidate, "published_only", publish, "error", err)
			return candidate
		}
		if !taken {
			return candidate
		}
		if i > MaxSuffix {
			break
		}
		candidate = fmt.Sprintf("%s-%d", base, i)
	}
	return base + "-" + strconv.FormatInt(r.now().UnixMilli(), 36)
}
