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

	"github.com/go-chi/chi/v5"
	"github.com/loftwork/loftwork/internal/identity"
)

// ListUsers returns the users of the caller's organization.
func (h *Handler) ListUsers(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	users, err := h.identityService.ListUsers(r.Context(), ident)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"users": users})
}

// CreateUserRequest represents admin user provisioning data
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// CreateUser provisions a user into the caller's organization.
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var req CreateUserRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.CreateUser(r.Context(), ident, identity.CreateUserParams{
		Email:    req.Email,
		Password: req.Password,
		FullName: req.FullName,
		Role:     req.Role,
	})
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusCreated, map[string]any{"user": user})
}

// UpdateUser applies a partial update to a user in the caller's organization.
// The self-service policy lives in the identity service.
func (h *Handler) UpdateUser(w http.ResponseWriter, r *http.Request) {
	ident, ok := BoundIdentity(r.Context())
	if !ok {
		respondError(w, http.StatusUnauthorized, "authentication required")
		return
	}

	var upd identity.UserUpdate
	if err := json.NewDecoder(r.Body).Decode(&upd); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	user, err := h.identityService.UpdateUser(r.Context(), ident, chi.URLParam(r, "userID"), upd)
	if err != nil {
		respondServiceError(r, w, err)
		return
	}

	respondJSON(w, http.StatusOK, map[string]any{"user": user})
}
