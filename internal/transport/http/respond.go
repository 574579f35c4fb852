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
	"errors"
	"log/slog"
	"net/http"

	"github.com/loftwork/loftwork/internal/identity"
	"github.com/loftwork/loftwork/internal/observability/logger"
	"github.com/loftwork/loftwork/internal/project"
	"github.com/loftwork/loftwork/internal/tenant"
)

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{
		"error": message,
	})
}

// respondServiceError maps domain errors to HTTP statuses in one place.
// Anything unrecognized becomes a 500 with a generic body; internal error
// text is logged, never returned to the caller.
func respondServiceError(r *http.Request, w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, identity.ErrMissingFields),
		errors.Is(err, identity.ErrInvalidEmail),
		errors.Is(err, identity.ErrInvalidRole),
		errors.Is(err, identity.ErrNoFields),
		errors.Is(err, project.ErrMissingName),
		errors.Is(err, project.ErrInvalidStatus),
		errors.Is(err, project.ErrNoFields):
		respondError(w, http.StatusBadRequest, err.Error())

	case errors.Is(err, identity.ErrSelfChange):
		respondError(w, http.StatusBadRequest, "cannot change own role or deactivate yourself")

	case errors.Is(err, tenant.ErrSubdomainTaken):
		respondError(w, http.StatusBadRequest, "subdomain already taken")

	case errors.Is(err, identity.ErrEmailTaken):
		respondError(w, http.StatusBadRequest, "email already registered")

	case errors.Is(err, identity.ErrInvalidCredentials):
		respondError(w, http.StatusUnauthorized, "invalid credentials")

	case errors.Is(err, identity.ErrInvalidToken):
		respondError(w, http.StatusUnauthorized, "authentication required")

	case errors.Is(err, identity.ErrNotPermitted):
		respondError(w, http.StatusForbidden, "insufficient permissions")

	case errors.Is(err, identity.ErrUserNotFound),
		errors.Is(err, tenant.ErrOrganizationNotFound),
		errors.Is(err, project.ErrProjectNotFound):
		respondError(w, http.StatusNotFound, "resource not found")

	default:
		slog.ErrorContext(r.Context(), "request failed",
			logger.Error(err),
			logger.Method(r.Method),
			logger.Path(r.URL.Path),
		)
		respondError(w, http.StatusInternalServerError, "internal server error")
	}
}
