package database

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
)

const welcomeBody = `# Welcome

This is the first post on your devlog. Edit or delete it, then start writing.

Drafts are saved automatically while you type.`

// Seed populates the database with a published welcome post when the posts
// table is empty. Running it again is a no-op.
func Seed(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, "SELECT COUNT(*) FROM posts").Scan(&count); err != nil {
		return fmt.Errorf("seed check posts: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	_, err := db.ExecContext(ctx, `
		INSERT INTO posts (slug, title, content, excerpt, category, tags, published)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, TRUE)
	`, "welcome", "Welcome", welcomeBody,
		"Welcome This is the first post on your devlog.", "notes", `["meta"]`)
	if err != nil {
		return fmt.Errorf("seed insert welcome post: %w", err)
	}

	slog.Info("database seeded", "post", "welcome")
	return nil
}
