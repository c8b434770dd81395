package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// NewRouter はルーティングとミドルウェアを設定します。
func NewRouter(h *Handler) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/", h.Index)
	r.Get("/health", h.Health)

	r.Route("/api", func(r chi.Router) {
		r.Post("/generate", h.Generate)
	})

	return r
}
