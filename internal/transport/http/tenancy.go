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
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/loftwork/loftwork/internal/audit"
	"github.com/loftwork/loftwork/internal/project"
)

// RequireProject is the resource tenancy guard. For routes addressing a
// project by id it fetches the row filtered by the caller's organization id
// in the same query, and binds the result for the handler. A row owned by
// another tenant yields the same 404 as an id that exists nowhere; the
// existence of another tenant's resource is never observable. Routes without
// a project id pass through untouched.
func (h *Handler) RequireProject(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		projectID := chi.URLParam(r, "projectID")
		if projectID == "" {
			next.ServeHTTP(w, r)
			return
		}

		t, ok := BoundTenant(r.Context())
		if !ok {
			respondError(w, http.StatusUnauthorized, "authentication required")
			return
		}

		p, err := h.projectService.Get(r.Context(), projectID, t.ID)
		if err != nil {
			if errors.Is(err, project.ErrProjectNotFound) {
				h.meter.RecordTenantMiss(r.Context())
				ev := audit.Event{
					Type:     audit.TypeTenantViolation,
					OrgID:    t.ID,
					Resource: projectID,
				}
				if ident, ok := BoundIdentity(r.Context()); ok {
					ev.ActorID = ident.UserID
				}
				h.auditLogger.Log(r.Context(), ev)
				respondError(w, http.StatusNotFound, "resource not found")
				return
			}
			respondServiceError(r, w, err)
			return
		}

		ctx := context.WithValue(r.Context(), projectKey, p)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
