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

package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/loftwork/loftwork/internal/tenant"
)

// OrganizationRepository implements tenant.OrganizationRepository
type OrganizationRepository struct {
	db *DB
}

// NewOrganizationRepository creates a new organization repository
func NewOrganizationRepository(db *DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func scanOrganization(row pgx.Row) (*tenant.Organization, error) {
	var o tenant.Organization
	err := row.Scan(&o.ID, &o.Name, &o.Subdomain, &o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, tenant.ErrOrganizationNotFound
		}
		return nil, fmt.Errorf("failed to get organization: %w", err)
	}
	return &o, nil
}

// GetByID retrieves an organization by id
func (r *OrganizationRepository) GetByID(ctx context.Context, id string) (*tenant.Organization, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, subdomain, created_at, updated_at
		FROM organizations
		WHERE id = $1
	`, id)
	return scanOrganization(row)
}

// GetBySubdomain retrieves an organization by its subdomain
func (r *OrganizationRepository) GetBySubdomain(ctx context.Context, subdomain string) (*tenant.Organization, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT id, name, subdomain, created_at, updated_at
		FROM organizations
		WHERE subdomain = $1
	`, subdomain)
	return scanOrganization(row)
}

// Stats returns aggregate counts for an organization
func (r *OrganizationRepository) Stats(ctx context.Context, orgID string) (*tenant.Stats, error) {
	var s tenant.Stats
	err := r.db.pool.QueryRow(ctx, `
		SELECT
			(SELECT COUNT(*) FROM users WHERE organization_id = $1),
			(SELECT COUNT(*) FROM projects WHERE organization_id = $1),
			(SELECT COUNT(*) FROM projects WHERE organization_id = $1 AND status = 'active'),
			(SELECT COUNT(*) FROM projects WHERE organization_id = $1 AND status = 'completed')
	`, orgID).Scan(&s.TotalUsers, &s.TotalProjects, &s.ActiveProjects, &s.CompletedProjects)
	if err != nil {
		return nil, fmt.Errorf("failed to get organization stats: %w", err)
	}
	return &s, nil
}
