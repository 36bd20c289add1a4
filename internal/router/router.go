// Package router sets up all HTTP routes and middleware chains for the
// API. Routes are organized into public reads, authenticated writes, and
// admin-only entity management.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/rootv890/discovery-5/internal/auth"
	"github.com/rootv890/discovery-5/internal/handlers"
	"github.com/rootv890/discovery-5/internal/middleware"
)

// Handlers bundles the handler groups the router wires up.
type Handlers struct {
	Waitlist    *handlers.Waitlist
	Auth        *handlers.Auth
	Platforms   *handlers.Platforms
	Categories  *handlers.Categories
	Tools       *handlers.Tools
	Comments    *handlers.Comments
	Collections *handlers.Collections
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up. limiter may be nil to disable rate limiting.
func New(issuer *auth.Issuer, limiter *middleware.RateLimiter, h Handlers) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request.
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	// Health check.
	r.Get("/health", healthHandler)

	requireAuth := middleware.RequireAuth(issuer)

	r.Route("/api/v1", func(r chi.Router) {
		// Unauthenticated writes sit behind the rate limiter.
		r.Group(func(r chi.Router) {
			if limiter != nil {
				r.Use(limiter.Middleware)
			}
			r.Post("/waitlist", h.Waitlist.Signup)
			r.Post("/auth/sign-up", h.Auth.SignUp)
			r.Post("/auth/sign-in", h.Auth.SignIn)
		})

		// Platforms
		r.Route("/platforms", func(r chi.Router) {
			r.Get("/", h.Platforms.List)
			r.Get("/{id}", h.Platforms.Get)
			r.Get("/{id}/categories", h.Platforms.Categories)
			r.Get("/{id}/tools", h.Platforms.Tools)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", h.Platforms.Create)
				r.Patch("/{id}", h.Platforms.Update)
				r.Delete("/{id}", h.Platforms.Delete)
			})
		})

		// Categories
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", h.Categories.List)
			r.Get("/{id}/platforms", h.Categories.Platforms)
			r.Get("/{id}/tools", h.Categories.Tools)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Post("/", h.Categories.Create)
				r.Post("/{id}/platforms", h.Categories.Attach)
				r.Delete("/{id}/platforms", h.Categories.Detach)
				r.Delete("/{id}", h.Categories.Delete)
			})
		})

		// Tools
		r.Route("/tools", func(r chi.Router) {
			r.Get("/", h.Tools.List)
			r.Get("/{id}", h.Tools.Get)
			r.Get("/{id}/comments", h.Tools.ListComments)

			r.Group(func(r chi.Router) {
				r.Use(requireAuth)
				r.Post("/", h.Tools.Create)
				r.Put("/{id}/vote", h.Tools.Vote)
				r.Post("/{id}/comments", h.Tools.CreateComment)
			})

			r.Group(func(r chi.Router) {
				r.Use(requireAuth, middleware.RequireAdmin)
				r.Patch("/{id}", h.Tools.Update)
				r.Delete("/{id}", h.Tools.Delete)
				r.Post("/{id}/tags", h.Tools.Tag)
				r.Delete("/{id}/tags", h.Tools.Untag)
			})
		})

		// Comments (not scoped under a tool)
		r.With(requireAuth).Delete("/comments/{id}", h.Comments.Delete)

		// Collections are always the caller's own.
		r.Route("/collections", func(r chi.Router) {
			r.Use(requireAuth)
			r.Get("/", h.Collections.List)
			r.Post("/", h.Collections.Create)
			r.Post("/{id}/tools", h.Collections.AddTool)
			r.Delete("/{id}/tools", h.Collections.RemoveTool)
			r.Delete("/{id}", h.Collections.Delete)
		})
	})

	return r
}

// healthHandler returns a simple JSON health check response.
func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(`{"status":"ok"}`))
}
