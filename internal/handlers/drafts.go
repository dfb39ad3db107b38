package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"devlog/internal/drafts"
	"devlog/internal/models"
	"devlog/internal/posts"
)

// SessionHeader identifies the editor session an autosave belongs to.
const SessionHeader = "X-Editor-Session"

// Drafts groups the draft API handlers.
type Drafts struct {
	svc       *drafts.Service
	autosaver *drafts.Autosaver
	posts     *posts.Service
}

// NewDrafts creates the draft handler group. postSvc supplies the saved post
// body that drafts are diffed against.
func NewDrafts(svc *drafts.Service, autosaver *drafts.Autosaver, postSvc *posts.Service) *Drafts {
	return &Drafts{svc: svc, autosaver: autosaver, posts: postSvc}
}

// restoredDraft is a draft decoded back into editor form fields.
type restoredDraft struct {
	ID        uuid.UUID       `json:"id"`
	CreatedAt time.Time       `json:"created_at"`
	Form      models.PostForm `json:"form"`
}

// autosaveStatus reports the state of a session's autosave.
type autosaveStatus struct {
	Scheduled   bool       `json:"scheduled"`
	LastSavedAt *time.Time `json:"last_saved_at"`
}

// Save handles POST /api/drafts, the manual "save draft" action.
func (h *Drafts) Save(w http.ResponseWriter, r *http.Request) {
	var form models.PostForm
	if !decodeJSON(w, r, &form) {
		return
	}
	d, err := h.svc.Save(r.Context(), form)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusCreated, d)
}

// List handles GET /api/drafts?limit=.
func (h *Drafts) List(w http.ResponseWriter, r *http.Request) {
	entries, err := h.svc.List(r.Context(), intQuery(r, "limit"))
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, entries)
}

// Restore handles GET /api/drafts/{id} and returns the decoded form.
func (h *Drafts) Restore(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}

	var form models.PostForm
	if err := h.svc.Restore(d, &form); err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, restoredDraft{ID: d.ID, CreatedAt: d.CreatedAt, Form: form})
}

// draftDiff is a unified diff between a saved post body and a draft.
type draftDiff struct {
	ID     uuid.UUID  `json:"id"`
	PostID *uuid.UUID `json:"post_id,omitempty"`
	Diff   string     `json:"diff"`
}

// Diff handles GET /api/drafts/{id}/diff?post=. Without a post the draft is
// compared against an empty body.
func (h *Drafts) Diff(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}

	var (
		saved  string
		postID *uuid.UUID
	)
	if raw := r.URL.Query().Get("post"); raw != "" {
		pid, err := uuid.Parse(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid post id")
			return
		}
		p, err := h.posts.GetByID(r.Context(), pid)
		if err != nil {
			writeServiceError(w, r, err)
			return
		}
		saved, postID = p.Content, &pid
	}

	d, err := h.svc.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	diff, err := h.svc.Diff(d, saved)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, draftDiff{ID: d.ID, PostID: postID, Diff: diff})
}

// Discard handles DELETE /api/drafts/{id}.
func (h *Drafts) Discard(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Discard(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Autosave handles POST /api/drafts/autosave. Each call re-arms the debounce
// timer for the session; the save itself happens later in the background.
func (h *Drafts) Autosave(w http.ResponseWriter, r *http.Request) {
	session := strings.TrimSpace(r.Header.Get(SessionHeader))
	if session == "" {
		writeError(w, http.StatusBadRequest, SessionHeader+" header is required")
		return
	}
	var form models.PostForm
	if !decodeJSON(w, r, &form) {
		return
	}

	status := autosaveStatus{Scheduled: h.autosaver.Schedule(session, form)}
	if t, ok := h.autosaver.LastSaved(session); ok {
		status.LastSavedAt = &t
	}
	writeData(w, http.StatusAccepted, status)
}

// AutosaveStatus handles GET /api/drafts/autosave.
func (h *Drafts) AutosaveStatus(w http.ResponseWriter, r *http.Request) {
	session := strings.TrimSpace(r.Header.Get(SessionHeader))
	if session == "" {
		writeError(w, http.StatusBadRequest, SessionHeader+" header is required")
		return
	}
	status := autosaveStatus{Scheduled: h.autosaver.Pending(session)}
	if t, ok := h.autosaver.LastSaved(session); ok {
		status.LastSavedAt = &t
	}
	writeData(w, http.StatusOK, status)
}
