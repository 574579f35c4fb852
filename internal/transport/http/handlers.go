// Copyright 2026 The Loftwork Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package http

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/loftwork/loftwork/internal/audit"
	"github.com/loftwork/loftwork/internal/identity"
	"github.com/loftwork/loftwork/internal/observability/metrics"
	"github.com/loftwork/loftwork/internal/project"
	"github.com/loftwork/loftwork/internal/tenant"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// Handler holds HTTP handlers and dependencies
type Handler struct {
	identityService *identity.Service
	tenantService   *tenant.Service
	projectService  *project.Service
	meter           *metrics.Meter
	auditLogger     audit.Logger
}

// NewHandler creates a new HTTP handler
func NewHandler(
	identityService *identity.Service,
	tenantService *tenant.Service,
	projectService *project.Service,
	meter *metrics.Meter,
	auditLogger audit.Logger,
) *Handler {
	return &Handler{
		identityService: identityService,
		tenantService:   tenantService,
		projectService:  projectService,
		meter:           meter,
		auditLogger:     auditLogger,
	}
}

// NewRouter creates a new HTTP router
func NewRouter(h *Handler, rateLimiter *RateLimiter) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/auth/register", h.Register)
		r.Post("/auth/login", h.Login)

		// Protected: authentication, then tenant binding, then per-route
		// authorization and the tenancy guard.
		r.Group(func(r chi.Router) {
			r.Use(h.AuthMiddleware)
			r.Use(TenantMiddleware)

			r.Get("/auth/me", h.Me)

			r.Route("/orgs", func(r chi.Router) {
				r.Get("/", h.GetOrganization)
				r.With(RequireRole(identity.RoleAdmin)).Get("/stats", h.GetOrganizationStats)
			})

			r.Route("/users", func(r chi.Router) {
				r.With(RequireRole(identity.RoleAdmin)).Get("/", h.ListUsers)
				r.With(RequireRole(identity.RoleAdmin)).Post("/", h.CreateUser)
				r.Put("/{userID}", h.UpdateUser)
			})

			r.Route("/projects", func(r chi.Router) {
				r.With(RequireRole(identity.RoleAdmin, identity.RoleMember)).Post("/", h.CreateProject)
				r.With(RequireRole(identity.RoleAdmin, identity.RoleMember)).Get("/", h.ListProjects)

				r.Route("/{projectID}", func(r chi.Router) {
					r.Use(h.RequireProject)
					r.With(RequireRole(identity.RoleAdmin, identity.RoleMember)).Get("/", h.GetProject)
					r.With(RequireRole(identity.RoleAdmin)).Put("/", h.UpdateProject)
					r.With(RequireRole(identity.RoleAdmin)).Delete("/", h.DeleteProject)
				})
			})
		})
	})

	return r
}

// HealthCheck returns the health status
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{
		"status":    "ok",
		"service":   "loftwork",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// RegisterRequest represents registration data
type RegisterRequest struct {
	Email     string `json:"email"`
	Password  string `json:"password"`
	FullName  string `json:"full_name"`
	OrgName   string `json:"org_name"`
	Subdomain string `json:"subdomain"`
}

// Register creates an organization together with its admin user.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	org, err := h.identityService.Register(r.Context(), identity.RegisterParams{
		Email:     req.Email,
		Password:  req.Password,
		FullName:  req.FullName,
		OrgName:   req.OrgName,
		Subdomain: req.Subdomain,
	})
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{
		"org_id": org.ID,
	})
}

// LoginRequest represents login credentials
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login authenticates email/password and returns a bearer token.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	token, ident, err := h.identityService.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.meter.RecordLoginAttempt(r.Context(),
			metric.WithAttributes(attribute.String("outcome", "failure")))
		respondServiceError(r, w, err)
		return
	}
	h.meter.RecordLoginAttempt(r.Context(),
		metric.WithAttributes(attribute.String("outcome", "success")))

	respondJSON(w, http.StatusOK, map[string]any{
		"token": token,
		"user":  ident,
	})
}

// Me returns the bound identity.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"user": ident})
}
