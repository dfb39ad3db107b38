// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router tests verify the HTTP routing configuration, middleware
// chains, and the health endpoint.
package router

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"devlog/internal/drafts"
	"devlog/internal/handlers"
	"devlog/internal/middleware"
	"devlog/internal/posts"
	"devlog/internal/store"
)

func testRouter(t *testing.T, limiter *middleware.RateLimiter) chi.Router {
	t.Helper()

	postSvc := posts.NewService(store.NewMemoryPostStore(), nil)
	draftSvc := drafts.NewService(store.NewMemoryDraftStore())
	autosaver := drafts.NewAutosaver(draftSvc, time.Minute)
	t.Cleanup(autosaver.Stop)

	return New(Options{
		CORSOrigins:  []string{"http://localhost:3000"},
		WriteLimiter: limiter,
	}, handlers.NewPosts(postSvc), handlers.NewDrafts(draftSvc, autosaver, postSvc))
}

func TestHealth(t *testing.T) {
	r := testRouter(t, nil)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Errorf("status: got %d, want 200", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
		t.Errorf("content-type: got %q", ct)
	}
	var body struct {
		Data map[string]string `json:"data"`
	}
	if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body.Data["status"] != "ok" {
		t.Errorf("status field: got %q, want %q", body.Data["status"], "ok")
	}
	if w.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("secure headers should be applied globally")
	}
}

func TestRoutes(t *testing.T) {
	r := testRouter(t, nil)

	tests := []struct {
		method, path string
		want         int
	}{
		{http.MethodGet, "/api/posts", http.StatusOK},
		{http.MethodGet, "/api/posts/missing", http.StatusNotFound},
		{http.MethodGet, "/api/posts/id/00000000-0000-0000-0000-000000000000", http.StatusNotFound},
		{http.MethodGet, "/api/categories", http.StatusOK},
		{http.MethodGet, "/api/drafts", http.StatusOK},
		{http.MethodGet, "/api/drafts/not-a-uuid", http.StatusBadRequest},
		{http.MethodGet, "/api/nowhere", http.StatusNotFound},
		{http.MethodPatch, "/api/posts", http.StatusMethodNotAllowed},
	}

	for _, tt := range tests {
		t.Run(tt.method+" "+tt.path, func(t *testing.T) {
			w := httptest.NewRecorder()
			r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))
			if w.Code != tt.want {
				t.Errorf("status: got %d, want %d (%s)", w.Code, tt.want, w.Body.String())
			}
		})
	}
}

func TestUnmatchedRoutesUseEnvelope(t *testing.T) {
	r := testRouter(t, nil)

	tests := []struct {
		method, path, want string
	}{
		{http.MethodGet, "/api/nowhere", "not found"},
		{http.MethodPatch, "/api/posts", "method not allowed"},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		r.ServeHTTP(w, httptest.NewRequest(tt.method, tt.path, nil))

		if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "application/json") {
			t.Errorf("%s %s content-type: got %q", tt.method, tt.path, ct)
		}
		var body struct {
			Error string `json:"error"`
		}
		if err := json.NewDecoder(w.Body).Decode(&body); err != nil {
			t.Fatalf("%s %s: decode body: %v", tt.method, tt.path, err)
		}
		if body.Error != tt.want {
			t.Errorf("%s %s error: got %q, want %q", tt.method, tt.path, body.Error, tt.want)
		}
	}
}

func TestCORSPreflight(t *testing.T) {
	r := testRouter(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/drafts/autosave", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	// Browsers list requested header names in lowercase.
	req.Header.Set("Access-Control-Request-Headers", strings.ToLower(handlers.SessionHeader))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "http://localhost:3000" {
		t.Errorf("Allow-Origin: got %q", got)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/posts", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "" {
		t.Errorf("unknown origin should not be allowed, got %q", got)
	}
}

func TestWriteLimiter(t *testing.T) {
	limiter := middleware.NewRateLimiter(1, time.Minute)
	defer limiter.Stop()
	r := testRouter(t, limiter)

	post := func() int {
		req := httptest.NewRequest(http.MethodPost, "/api/drafts", strings.NewReader(`{"title":"t"}`))
		req.RemoteAddr = "10.0.0.9:5000"
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		return w.Code
	}

	if got := post(); got != http.StatusCreated {
		t.Fatalf("first write: got %d, want 201", got)
	}
	if got := post(); got != http.StatusTooManyRequests {
		t.Errorf("second write: got %d, want 429", got)
	}
}
