package posts

import (
	"strings"
	"unicode/utf8"

	"devlog/internal/apperr"
	"devlog/internal/models"
)

// Validation limits for post form fields.
const (
	maxTitleLen    = 300
	maxContentLen  = 100_000
	maxCategoryLen = 100
	maxTags        = 20
	maxTagLen      = 50
)

// Validate checks a post form and returns the first problem found as a
// *apperr.ValidationError.
func Validate(form models.PostForm) error {
	title := strings.TrimSpace(form.Title)
	if title == "" {
		return &apperr.ValidationError{Field: "title", Message: "title is required"}
	}
	if utf8.RuneCountInString(title) > maxTitleLen {
		return &apperr.ValidationError{Field: "title", Message: "title is too long (max 300 characters)"}
	}
	if strings.TrimSpace(form.Content) == "" {
		return &apperr.ValidationError{Field: "content", Message: "content is required"}
	}
	if utf8.RuneCountInString(form.Content) > maxContentLen {
		return &apperr.ValidationError{Field: "content", Message: "content is too long (max 100,000 characters)"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(form.Category)) > maxCategoryLen {
		return &apperr.ValidationError{Field: "category", Message: "category is too long (max 100 characters)"}
	}

	tags := NormalizeTags(form.Tags)
	if len(tags) > maxTags {
		return &apperr.ValidationError{Field: "tags", Message: "too many tags (max 20)"}
	}
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLen {
			return &apperr.ValidationError{Field: "tags", Message: "tag is too long (max 50 characters)"}
		}
	}
	return nil
}

// NormalizeTags trims every tag, drops blanks and removes duplicates while
// keeping first-seen order. The result is never nil.
func NormalizeTags(tags []string) []string {
	out := make([]string, 0, len(tags))
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}
