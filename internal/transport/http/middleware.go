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
	"context"
	"log/slog"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"
	"github.com/loftwork/loftwork/internal/audit"
	"github.com/loftwork/loftwork/internal/observability/logger"
)

// Request pipeline: authentication → tenant binding → authorization →
// resource tenancy guard → handler. Stages run strictly in that order and a
// later stage never runs after an earlier one failed. Each stage communicates
// with the next only through values bound on the request context.

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			slog.InfoContext(r.Context(), "http_request_start",
				logger.RequestID(middleware.GetReqID(r.Context())),
				logger.Method(r.Method),
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)

			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request_end",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.UserAgent(r.UserAgent()),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// AuthMiddleware resolves the bearer token into a concrete identity and
// binds it to the request. Absent or malformed credentials and any
// verification failure all surface as a single 401; the reason is not
// distinguishable from outside.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := bearerToken(r)
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ident, err := h.identityService.AuthenticateToken(r.Context(), token)
		if err != nil {
			h.meter.RecordTokenReject(r.Context())
			h.auditLogger.Log(r.Context(), audit.Event{
				Type:     audit.TypeTokenRejected,
				Resource: r.URL.Path,
			})
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), identityKey, ident)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// bearerToken extracts the token from an Authorization: Bearer header.
func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

// TenantMiddleware derives the immutable tenant scope from the bound
// identity. It must run after AuthMiddleware; with no identity bound it
// fails closed. Handlers downstream read the tenant from context only, so
// the scope cannot be re-derived from mutable request state later in the
// pipeline.
func TenantMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ident, ok := BoundIdentity(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		ctx := context.WithValue(r.Context(), tenantKey, Tenant{
			ID:        ident.OrganizationID,
			Subdomain: ident.Subdomain,
		})
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRole allows the request through only when the bound identity's role
// is a member of the allow-list. The check is exact set membership: each
// route lists every role allowed to call it, and admin is not an implicit
// superset of member.
func RequireRole(roles ...string) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ident, ok := BoundIdentity(r.Context())
			if !ok {
				respondError(w, http.StatusUnauthorized, "authentication required")
				return
			}

			if !slices.Contains(roles, ident.Role) {
				respondError(w, http.StatusForbidden, "insufficient permissions")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
