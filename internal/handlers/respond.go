// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"devlog/internal/apperr"
	"devlog/internal/store"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// envelope is the shape of every JSON response body.
type envelope struct {
	Data  any    `json:"data,omitempty"`
	Error string `json:"error,omitempty"`
	Field string `json:"field,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Warn("write json response failed", "error", err)
	}
}

func writeData(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, envelope{Data: data})
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, envelope{Error: msg})
}

// NotFound answers unknown routes in the API envelope.
func NotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "not found")
}

// MethodNotAllowed answers known routes called with the wrong method.
func MethodNotAllowed(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeServiceError maps a post or draft service error to a status code.
// Internal details are logged, never sent.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		corrupt    *apperr.CorruptDraftError
		persist    *apperr.PersistenceError
		retrieval  *apperr.RetrievalError
	)

	switch {
	case errors.As(err, &validation):
		writeJSON(w, http.StatusUnprocessableEntity, envelope{Error: validation.Message, Field: validation.Field})
	case errors.As(err, &notFound), errors.Is(err, store.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	case errors.As(err, &corrupt):
		slog.Warn("corrupt draft", "draft_id", corrupt.DraftID, "error", corrupt.Err)
		writeError(w, http.StatusUnprocessableEntity, "draft content is corrupt and cannot be restored")
	case errors.As(err, &persist) && persist.Conflict:
		writeError(w, http.StatusConflict, "a published post with this slug already exists, please retry")
	case errors.As(err, &persist):
		slog.Error(persist.Op+" failed", "error", persist.Err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s failed", persist.Op))
	case errors.As(err, &retrieval):
		slog.Error(retrieval.Op+" failed", "error", retrieval.Err, "path", r.URL.Path)
		writeError(w, http.StatusServiceUnavailable, "content is temporarily unavailable")
	default:
		slog.Error("unhandled service error", "error", err, "path", r.URL.Path)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

// decodeJSON reads a JSON request body into dst.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeError(w, http.StatusBadRequest, "malformed JSON body")
		return false
	}
	return true
}

// idParam parses the {id} URL parameter.
func idParam(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid id")
		return uuid.Nil, false
	}
	return id, true
}

// intQuery reads a non-negative integer query parameter. Missing or
// malformed values yield 0.
func intQuery(r *http.Request, key string) int {
	n, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil || n < 0 {
		return 0
	}
	return n
}
