// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

package httpapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/nursedemic/nursedemic/internal/auth"
	"github.com/nursedemic/nursedemic/internal/observability"
)

type contextKey string

const accountContextKey contextKey = "account"

// AccountFromContext returns the authenticated account, or nil.
func AccountFromContext(ctx context.Context) *auth.Account {
	account, _ := ctx.Value(accountContextKey).(*auth.Account)
	return account
}

// withAccount resolves the session cookie and, when it maps to a live
// session, stores the account in the request context. Requests without a
// valid session pass through with no account; handlers decide whether that
// is an error.
func (h *Handler) withAccount(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(h.cookie.Name)
		if err != nil || cookie.Value == "" {
			next.ServeHTTP(w, r)
			return
		}

		ctx, cancel := h.requestCtx(r)
		account, resolveErr := h.authn.CurrentAccount(ctx, cookie.Value)
		cancel()
		if resolveErr != nil {
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(context.WithValue(r.Context(), accountContextKey, account)))
	})
}

// requestLogger logs one line per request with route, status, and duration.
func requestLogger(h *Handler) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			h.logger.Info("request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"duration_ms", time.Since(start).Milliseconds(),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// recordMetrics feeds the prometheus counters. metrics may be nil (tests).
func recordMetrics(metrics *observability.Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if metrics == nil {
			return next
		}
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			next.ServeHTTP(ww, r)

			route := r.URL.Path
			metrics.RequestsTotal.WithLabelValues(route, strconv.Itoa(ww.Status())).Inc()
			metrics.RequestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}
