// Package apperr defines the error kinds surfaced by the post and draft
// services. Handlers inspect them with errors.As to pick a response.
package apperr

import "fmt"

// ValidationError reports missing or invalid user input. It is raised before
// any store call.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// PersistenceError wraps a failed insert, update or delete. Conflict is set
// when the store rejected the write on a uniqueness constraint.
type PersistenceError struct {
	Op       string
	Err      error
	Conflict bool
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// RetrievalError wraps a failed bulk fetch.
type RetrievalError struct {
	Op  string
	Err error
}

func (e *RetrievalError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *RetrievalError) Unwrap() error { return e.Err }

// CorruptDraftError reports a draft whose content does not decode.
type CorruptDraftError struct {
	DraftID string
	Err     error
}

func (e *CorruptDraftError) Error() string {
	return fmt.Sprintf("draft %s is corrupt: %v", e.DraftID, e.Err)
}

func (e *CorruptDraftError) Unwrap() error { return e.Err }

// NotFoundError reports a lookup that matched nothing.
type NotFoundError struct {
	Kind string
	Key  string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %q not found", e.Kind, e.Key)
}
