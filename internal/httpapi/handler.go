// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Nursedemic Contributors

// Package httpapi exposes the portal's form-processing endpoints as a JSON
// API: registration, login/logout, current-account lookup, and the contact
// form.
package httpapi

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/samber/oops"

	"github.com/nursedemic/nursedemic/internal/auth"
	"github.com/nursedemic/nursedemic/internal/contact"
	"github.com/nursedemic/nursedemic/internal/observability"
	"github.com/nursedemic/nursedemic/internal/session"
	"github.com/nursedemic/nursedemic/pkg/errutil"
)

// defaultStoreTimeout bounds each request's store work so a stalled database
// answers with a retryable failure instead of hanging the client.
const defaultStoreTimeout = 5 * time.Second

// CookieConfig controls how the session token travels to the browser.
type CookieConfig struct {
	Name   string
	Secure bool
	TTL    time.Duration
}

// Handler wires HTTP endpoints to the services.
type Handler struct {
	logger       *slog.Logger
	registration *auth.RegistrationService
	authn        *auth.Service
	contacts     *contact.Service
	cookie       CookieConfig
	metrics      *observability.Metrics
	storeTimeout time.Duration
}

// NewHandler constructs a Handler. metrics may be nil.
func NewHandler(logger *slog.Logger, registration *auth.RegistrationService, authn *auth.Service, contacts *contact.Service, cookie CookieConfig, metrics *observability.Metrics) (*Handler, error) {
	if registration == nil {
		return nil, oops.Errorf("registration service is required")
	}
	if authn == nil {
		return nil, oops.Errorf("auth service is required")
	}
	if contacts == nil {
		return nil, oops.Errorf("contact service is required")
	}
	if cookie.Name == "" {
		return nil, oops.Errorf("cookie name is required")
	}
	if logger == nil {
		logger = slog.Default()
	}
	if cookie.TTL <= 0 {
		cookie.TTL = session.DefaultTTL
	}
	return &Handler{
		logger:       logger,
		registration: registration,
		authn:        authn,
		contacts:     contacts,
		cookie:       cookie,
		metrics:      metrics,
		storeTimeout: defaultStoreTimeout,
	}, nil
}

type registerRequest struct {
	Name               string `json:"name"`
	Email              string `json:"email"`
	Role               string `json:"role"`
	Secret             string `json:"secret"`
	SecretConfirmation string `json:"secretConfirmation"`
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req = registerRequest{
			Name:  r.PostFormValue("name"),
			Email: r.PostFormValue("email"),
			Role:  r.PostFormValue("role"),
			// Legacy form field names still arrive from cached pages.
			Secret:             firstNonEmpty(r.PostFormValue("secret"), r.PostFormValue("password")),
			SecretConfirmation: firstNonEmpty(r.PostFormValue("secretConfirmation"), r.PostFormValue("confirm_password")),
		}
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	account, err := h.registration.Register(ctx, auth.RegistrationInput{
		Name:            req.Name,
		Email:           req.Email,
		Role:            req.Role,
		Password:        req.Secret,
		PasswordConfirm: req.SecretConfirmation,
	})
	if err != nil {
		status, msg := h.registerFailure(err)
		respondFail(w, status, msg)
		return
	}

	respondOK(w, "Account created successfully", map[string]any{
		"user_id": account.ID.String(),
		"email":   account.Email,
	})
}

func (h *Handler) registerFailure(err error) (int, string) {
	switch errCode(err) {
	case "AUTH_MISSING_FIELD":
		return http.StatusBadRequest, "All fields are required"
	case "AUTH_INVALID_EMAIL":
		return http.StatusBadRequest, "Invalid email format"
	case "AUTH_WEAK_PASSWORD":
		if errContext(err, "reason") == "missing_classes" {
			return http.StatusBadRequest, "Password must contain uppercase, lowercase, and a number"
		}
		return http.StatusBadRequest, "Password must be at least 8 characters"
	case "AUTH_PASSWORD_MISMATCH":
		return http.StatusBadRequest, "Passwords do not match"
	case "AUTH_INVALID_NAME":
		return http.StatusBadRequest, "Name must be at least 3 characters"
	case "AUTH_EMAIL_TAKEN":
		return http.StatusConflict, "Email already registered"
	case "STORE_UNAVAILABLE":
		errutil.LogError(h.logger, "registration store unavailable", err)
		return http.StatusServiceUnavailable, genericFailure
	default:
		errutil.LogError(h.logger, "registration failed", err)
		return http.StatusInternalServerError, genericFailure
	}
}

type loginRequest struct {
	Email  string `json:"email"`
	Secret string `json:"secret"`
}

func (h *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req = loginRequest{
			Email:  r.PostFormValue("email"),
			Secret: firstNonEmpty(r.PostFormValue("secret"), r.PostFormValue("password")),
		}
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	result, err := h.authn.Login(ctx, req.Email, req.Secret)
	if err != nil {
		h.recordLogin("failure")
		status, msg := h.loginFailure(err)
		respondFail(w, status, msg)
		return
	}

	h.recordLogin("success")
	h.setSessionCookie(w, result.SessionToken)

	// The token travels only in the cookie, never in the JSON body.
	respondOK(w, "Login successful", map[string]any{
		"user_id": result.AccountID.String(),
		"name":    result.Name,
		"role":    string(result.Role),
	})
}

func (h *Handler) loginFailure(err error) (int, string) {
	switch errCode(err) {
	case "AUTH_MISSING_FIELD":
		return http.StatusBadRequest, "Email and password are required"
	case "AUTH_INVALID_EMAIL":
		return http.StatusBadRequest, "Invalid email format"
	case "AUTH_INVALID_CREDENTIALS":
		return http.StatusUnauthorized, "Invalid email or password"
	case "STORE_UNAVAILABLE":
		errutil.LogError(h.logger, "login store unavailable", err)
		return http.StatusServiceUnavailable, genericFailure
	default:
		errutil.LogError(h.logger, "login failed", err)
		return http.StatusInternalServerError, genericFailure
	}
}

func (h *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := h.requestCtx(r)
	defer cancel()

	if cookie, err := r.Cookie(h.cookie.Name); err == nil && cookie.Value != "" {
		if logoutErr := h.authn.Logout(ctx, cookie.Value); logoutErr != nil {
			errutil.LogError(h.logger, "logout failed", logoutErr)
		}
	}
	h.clearSessionCookie(w)

	respondOK(w, "Logged out", nil)
}

func (h *Handler) handleMe(w http.ResponseWriter, r *http.Request) {
	account := AccountFromContext(r.Context())
	if account == nil {
		respondFail(w, http.StatusUnauthorized, "Not logged in")
		return
	}

	respondOK(w, "OK", map[string]any{
		"user_id": account.ID.String(),
		"name":    account.Name,
		"role":    string(account.Role),
	})
}

type contactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (h *Handler) handleContact(w http.ResponseWriter, r *http.Request) {
	var req contactRequest
	if isJSON(r) {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
	} else {
		if err := r.ParseForm(); err != nil {
			respondFail(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		req = contactRequest{
			Name:    r.PostFormValue("name"),
			Email:   r.PostFormValue("email"),
			Phone:   r.PostFormValue("phone"),
			Subject: r.PostFormValue("subject"),
			Message: r.PostFormValue("message"),
		}
	}

	ctx, cancel := h.requestCtx(r)
	defer cancel()

	if _, err := h.contacts.Submit(ctx, req.Name, req.Email, req.Phone, req.Subject, req.Message); err != nil {
		status, msg := h.contactFailure(err)
		respondFail(w, status, msg)
		return
	}

	respondOK(w, "Thank you for your message! We will respond within 24 hours.", nil)
}

func (h *Handler) contactFailure(err error) (int, string) {
	switch errCode(err) {
	case "CONTACT_MISSING_FIELD":
		return http.StatusBadRequest, "All required fields must be filled"
	case "CONTACT_INVALID_EMAIL":
		return http.StatusBadRequest, "Invalid email format"
	case "CONTACT_BODY_TOO_SHORT":
		return http.StatusBadRequest, "Message must be at least 10 characters long"
	default:
		errutil.LogError(h.logger, "contact submission failed", err)
		return http.StatusInternalServerError, genericFailure
	}
}

func (h *Handler) recordLogin(outcome string) {
	if h.metrics != nil {
		h.metrics.LoginsTotal.WithLabelValues(outcome).Inc()
	}
}

func (h *Handler) requestCtx(r *http.Request) (context.Context, context.CancelFunc) {
	return context.WithTimeout(r.Context(), h.storeTimeout)
}

func (h *Handler) setSessionCookie(w http.ResponseWriter, token string) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    token,
		Path:     "/",
		MaxAge:   int(h.cookie.TTL.Seconds()),
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *Handler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     h.cookie.Name,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.cookie.Secure,
		SameSite: http.SameSiteLaxMode,
	})
}

func isJSON(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "application/json")
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
