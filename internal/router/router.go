// Package router wires the HTTP handlers into the chi route table.
package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/vaughan-dsouza/medium-blog/internal/handlers"
	"github.com/vaughan-dsouza/medium-blog/internal/metrics"
	"github.com/vaughan-dsouza/medium-blog/internal/middleware"
	"github.com/vaughan-dsouza/medium-blog/internal/utils"
)

type Options struct {
	JWTSecret string
	Logger    zerolog.Logger
	Metrics   *metrics.Metrics
}

func New(h *handlers.Handler, opts Options) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestLogger(opts.Logger))
	r.Use(middleware.Metrics(opts.Metrics))
	r.Use(chimw.Recoverer)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusNotFound, "route not found")
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		utils.JSONError(w, http.StatusMethodNotAllowed, "method not allowed")
	})

	r.Get("/healthz", h.Health.Check)
	r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		// Public
		r.Post("/user/signup", h.Auth.SignUp)
		r.Post("/user/signin", h.Auth.SignIn)

		// Protected
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(opts.JWTSecret))

			r.Post("/post", h.Posts.CreatePost)
			r.Get("/post/bulk", h.Posts.GetPosts)
			r.Get("/post/{id}", h.Posts.GetPostByID)
			r.Put("/post/{id}", h.Posts.UpdatePost)
		})
	})

	return r
}
