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
	"time"

	"github.com/loftwork/loftwork/internal/identity"
	"github.com/loftwork/loftwork/internal/tenant"
)

// RegistrationRepository implements identity.Registrar
type RegistrationRepository struct {
	db *DB
}

// NewRegistrationRepository creates a new registration repository
func NewRegistrationRepository(db *DB) *RegistrationRepository {
	return &RegistrationRepository{db: db}
}

// CreateOrganizationWithAdmin inserts an organization and its first admin
// user in one transaction. A failing user insert rolls the organization back
// with it, so an orphan tenant with no admin is never visible.
func (r *RegistrationRepository) CreateOrganizationWithAdmin(ctx context.Context, org *tenant.Organization, admin *identity.User) error {
	tx, err := r.db.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	now := time.Now()

	_, err = tx.Exec(ctx, `
		INSERT INTO organizations (id, name, subdomain, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
	`, org.ID, org.Name, org.Subdomain, now, now)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to insert organization: %w", err)
	}

	_, err = tx.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, full_name, role,
			organization_id, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		admin.ID, admin.Email, admin.PasswordHash, admin.FullName, admin.Role,
		admin.OrganizationID, admin.IsActive, now, now,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to insert admin user: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit registration: %w", err)
	}

	org.CreatedAt = now
	org.UpdatedAt = now
	admin.CreatedAt = now
	admin.UpdatedAt = now

	return nil
}
