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

import "net/http"

// GetOrganization returns the caller's organization.
func (h *Handler) GetOrganization(w http.ResponseWriter, r *http.Request) {
	t, ok := BoundTenant(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	org, err := h.tenantService.Get(r.Context(), t.ID)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"organization": org})
}

// GetOrganizationStats returns aggregate counts for the caller's organization.
func (h *Handler) GetOrganizationStats(w http.ResponseWriter, r *http.Request) {
	t, ok := BoundTenant(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	stats, err := h.tenantService.Stats(r.Context(), t.ID)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"stats": stats})
}
