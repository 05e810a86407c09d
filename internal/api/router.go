package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// buildRouter creates the HTTP router with all routes and middleware.
func (s *Server) buildRouter() http.Handler {
	r := chi.NewRouter()

	r.Use(s.requestIDMiddleware)
	r.Use(s.loggingMiddleware)
	r.Use(s.recoveryMiddleware)
	r.Use(s.bodySizeLimitMiddleware)

	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/health", s.handleHealth)

		r.Route("/mode", func(r chi.Router) {
			r.Get("/", s.handleGetMode)
			r.Post("/", s.handleSetMode)
		})

		r.Route("/signals", func(r chi.Router) {
			r.Get("/", s.handleListSignals)
			r.Post("/learn", s.handleLearnSignal)
			r.Delete("/{name}", s.handleDeleteSignal)
		})
	})

	return r
}
