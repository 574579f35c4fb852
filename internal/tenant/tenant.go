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

package tenant

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrSubdomainTaken       = errors.New("subdomain already taken")
)

// Organization is the tenant: the unit of data isolation. The subdomain is
// an immutable, case-sensitive identity key captured at registration. It is
// stored and returned as metadata; tenant scope on requests is always derived
// from the authenticated user, never from the subdomain in a URL or host.
type Organization struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Subdomain string    `json:"subdomain"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Stats aggregates per-tenant counts for the admin dashboard.
type Stats struct {
	TotalUsers        int `json:"total_users"`
	TotalProjects     int `json:"total_projects"`
	ActiveProjects    int `json:"active_projects"`
	CompletedProjects int `json:"completed_projects"`
}

// OrganizationRepository defines the interface for organization persistence
type OrganizationRepository interface {
	// GetByID retrieves an organization by id
	GetByID(ctx context.Context, id string) (*Organization, error)

	// GetBySubdomain retrieves an organization by its subdomain
	GetBySubdomain(ctx context.Context, subdomain string) (*Organization, error)

	// Stats returns aggregate counts for an organization
	Stats(ctx context.Context, orgID string) (*Stats, error)
}
