// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"devlog/internal/models"
	"devlog/internal/posts"
)

// Posts groups the post API handlers.
type Posts struct {
	svc *posts.Service
}

// NewPosts creates the post handler group.
func NewPosts(svc *posts.Service) *Posts {
	return &Posts{svc: svc}
}

// postRequest is the body of create and update calls.
type postRequest struct {
	Form    models.PostForm `json:"form"`
	Publish bool            `json:"publish"`
}

// List handles GET /api/posts?category=&tag=&q=&page=&limit=.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	page, err := h.svc.List(r.Context(), models.PostQuery{
		Category: q.Get("category"),
		Tag:      q.Get("tag"),
		Search:   q.Get("q"),
		Page:     intQuery(r, "page"),
		Limit:    intQuery(r, "limit"),
	})
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, page)
}

// Get handles GET /api/posts/{slug}. The slug may arrive percent-encoded.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	slug, err := url.PathUnescape(chi.URLParam(r, "slug"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid slug")
		return
	}
	v, err := h.svc.Get(r.Context(), slug)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

// GetByID handles GET /api/posts/id/{id}, used to load the edit form.
func (h *Posts) GetByID(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	v, err := h.svc.GetByID(r.Context(), id)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

// Create handles POST /api/posts.
func (h *Posts) Create(w http.ResponseWriter, r *http.Request) {
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.Create(r.Context(), req.Form, req.Publish)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/posts/id/"+v.ID.String())
	writeData(w, http.StatusCreated, v)
}

// Update handles PUT /api/posts/{id}.
func (h *Posts) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	var req postRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := h.svc.Update(r.Context(), id, req.Form, req.Publish)
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, v)
}

// Delete handles DELETE /api/posts/{id}.
func (h *Posts) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := idParam(w, r)
	if !ok {
		return
	}
	if err := h.svc.Delete(r.Context(), id); err != nil {
		writeServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Categories handles GET /api/categories.
func (h *Posts) Categories(w http.ResponseWriter, r *http.Request) {
	c, err := h.svc.Categories(r.Context())
	if err != nil {
		writeServiceError(w, r, err)
		return
	}
	writeData(w, http.StatusOK, c)
}
