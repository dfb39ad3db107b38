package models

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Draft is a timestamped snapshot of the post editor form. Content holds the
// form encoded with EncodeForm; drafts are never updated in place.
type Draft struct {
	ID        uuid.UUID `json:"id"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
}

// PostForm is the editor state shared by post submission and drafts.
type PostForm struct {
	Title     string   `json:"title"`
	Content   string   `json:"content"`
	Category  string   `json:"category"`
	Tags      []string `json:"tags"`
	Published bool     `json:"published"`
}

// Clone returns a copy of f that shares no memory with it.
func (f PostForm) Clone() PostForm {
	out := f
	out.Tags = append([]string(nil), f.Tags...)
	return out
}

// ErrCorruptForm reports a draft blob that does not decode as a PostForm.
var ErrCorruptForm = errors.New("corrupt form data")

// EncodeForm serializes f to the draft blob format.
func EncodeForm(f PostForm) (string, error) {
	if f.Tags == nil {
		f.Tags = []string{}
	}
	b, err := json.Marshal(f)
	if err != nil {
		return "", fmt.Errorf("encode form: %w", err)
	}
	return string(b), nil
}

// DecodeForm parses a draft blob. The blob must be a JSON object whose
// fields, when present, have the types of PostForm.
func DecodeForm(blob string) (PostForm, error) {
	var f PostForm
	trimmed := bytes.TrimSpace([]byte(blob))
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return f, ErrCorruptForm
	}
	if err := json.Unmarshal(trimmed, &f); err != nil {
		return PostForm{}, fmt.Errorf("%w: %v", ErrCorruptForm, err)
	}
	if f.Tags == nil {
		f.Tags = []string{}
	}
	return f, nil
}
