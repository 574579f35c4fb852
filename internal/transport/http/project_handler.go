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
	"strconv"

	"github.com/loftwork/loftwork/internal/project"
)

// CreateProjectRequest represents project creation data
type CreateProjectRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// CreateProject creates a project owned by the caller's organization.
func (h *Handler) CreateProject(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	t, ok := BoundTenant(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateProjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	p, err := h.projectService.Create(r.Context(), t.ID, ident.UserID, req.Name, req.Description)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	h.meter.RecordProjectCreate(r.Context())
	respondJSON(w, http.StatusCreated, map[string]any{"project": p})
}

// ListProjects returns a page of the caller organization's projects.
func (h *Handler) ListProjects(w http.ResponseWriter, r *http.Request) {
	t, ok := BoundTenant(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	q := r.URL.Query()
	page, _ := strconv.Atoi(q.Get("page"))
	limit, _ := strconv.Atoi(q.Get("limit"))

	result, err := h.projectService.List(r.Context(), t.ID, project.ListFilter{
		Status: q.Get("status"),
		Page:   page,
		Limit:  limit,
	})
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// GetProject returns the project bound by the tenancy guard.
func (h *Handler) GetProject(w http.ResponseWriter, r *http.Request) {
	p, ok := BoundProject(r.Context())
	if !ok {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"project": p})
}

// UpdateProject applies a partial update to the bound project.
func (h *Handler) UpdateProject(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, ok := BoundProject(r.Context())
	if !ok {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	var upd project.Update
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := h.projectService.Update(r.Context(), ident.UserID, p.ID, p.OrganizationID, upd)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"project": updated})
}

// DeleteProject removes the bound project.
func (h *Handler) DeleteProject(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}
	p, ok := BoundProject(r.Context())
	if !ok {
		respondError(w, http.StatusNotFound, "resource not found")
		return
	}

	if err := h.projectService.Delete(r.Context(), ident.UserID, p.ID, p.OrganizationID); err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]string{"message": "project deleted"})
}
