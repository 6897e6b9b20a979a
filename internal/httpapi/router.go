// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package httpapi

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/unrolled/secure"

	"github.com/nursedemic/nursedemic/internal/observability"
)

// maxRequestBody caps form and JSON bodies. The largest legitimate payload
// is a contact message; 1 MB is generous.
const maxRequestBody = 1 << 20

// NewRouter assembles the API router. metrics may be nil.
func NewRouter(h *Handler, metrics *observability.Metrics) http.Handler {
	secureMiddleware := secure.New(secure.Options{
		FrameDeny:          true,
		ContentTypeNosniff: true,
		BrowserXssFilter:   true,
		ReferrerPolicy:     "same-origin",
	})

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestSize(maxRequestBody))
	r.Use(secureMiddleware.Handler)
	r.Use(requestLogger(h))
	r.Use(recordMetrics(metrics))

	// The legacy endpoints answered every non-POST hit with this envelope;
	// clients still probe with GET.
	r.MethodNotAllowed(func(w http.ResponseWriter, _ *http.Request) {
		respondFail(w, http.StatusMethodNotAllowed, "Invalid request method")
	})

	r.Route("/api", func(r chi.Router) {
		r.Post("/register", h.handleRegister)
		r.Post("/login", h.handleLogin)
		r.Post("/logout", h.handleLogout)
		r.Post("/contact", h.handleContact)

		r.Group(func(r chi.Router) {
			r.Use(h.withAccount)
			r.Get("/me", h.handleMe)
		})
	})

	return r
}
