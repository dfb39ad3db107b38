// Package router sets up all HTTP routes and middleware chains for the
// devlog API. Reads are open; writes pass through a per-IP rate limiter.
package router

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"

	"devlog/internal/handlers"
	"devlog/internal/middleware"
)

// requestTimeout bounds every request, including store round trips.
const requestTimeout = 30 * time.Second

// Options configures the router.
type Options struct {
	// CORSOrigins lists the front-end origins allowed to call the API.
	CORSOrigins []string
	// Health checks the backing store. Nil means always healthy.
	Health handlers.Pinger
	// WriteLimiter throttles POST, PUT and DELETE. Nil disables throttling.
	WriteLimiter *middleware.RateLimiter
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(opts Options, posts *handlers.Posts, drafts *handlers.Drafts) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)
	r.Use(corsHandler(opts.CORSOrigins))
	r.Use(chimw.Timeout(requestTimeout))

	r.NotFound(handlers.NotFound)
	r.MethodNotAllowed(handlers.MethodNotAllowed)

	r.Get("/health", handlers.Health(opts.Health))

	r.Route("/api", func(r chi.Router) {
		if opts.WriteLimiter != nil {
			r.Use(opts.WriteLimiter.Writes)
		}

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", posts.List)
			r.Post("/", posts.Create)
			r.Get("/id/{id}", posts.GetByID)
			r.Get("/{slug}", posts.Get)
			r.Put("/{id}", posts.Update)
			r.Delete("/{id}", posts.Delete)
		})
		r.Get("/categories", posts.Categories)

		r.Route("/drafts", func(r chi.Router) {
			r.Get("/", drafts.List)
			r.Post("/", drafts.Save)
			r.Post("/autosave", drafts.Autosave)
			r.Get("/autosave", drafts.AutosaveStatus)
			r.Get("/{id}", drafts.Restore)
			r.Get("/{id}/diff", drafts.Diff)
			r.Delete("/{id}", drafts.Discard)
		})
	})

	return r
}

// corsHandler allows the separate front-end to call the API from the browser.
func corsHandler(origins []string) func(http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{
			http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions,
		},
		AllowedHeaders: []string{"Content-Type", handlers.SessionHeader},
		ExposedHeaders: []string{"Location", "Retry-After"},
		MaxAge:         300,
	}).Handler
}

