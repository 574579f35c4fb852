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
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/loftwork/loftwork/internal/identity"
)

// UserRepository implements identity.UserRepository
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create inserts a new user
func (r *UserRepository) Create(ctx context.Context, user *identity.User) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO users (
			id, email, password_hash, full_name, role,
			organization_id, is_active, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`,
		user.ID, user.Email, user.PasswordHash, user.FullName, user.Role,
		user.OrganizationID, user.IsActive, now, now,
	)
	if err != nil {
		if conflict := conflictError(err); conflict != nil {
			return conflict
		}
		return fmt.Errorf("failed to insert user: %w", err)
	}

	user.CreatedAt = now
	user.UpdatedAt = now

	return nil
}

const membershipColumns = `
	u.id, u.email, u.password_hash, u.full_name, u.role,
	u.organization_id, u.is_active, u.last_login_at, u.created_at, u.updated_at,
	o.name, o.subdomain`

func scanMembership(row pgx.Row) (*identity.Membership, error) {
	var m identity.Membership
	err := row.Scan(
		&m.User.ID, &m.User.Email, &m.User.PasswordHash, &m.User.FullName, &m.User.Role,
		&m.User.OrganizationID, &m.User.IsActive, &m.User.LastLoginAt, &m.User.CreatedAt, &m.User.UpdatedAt,
		&m.OrganizationName, &m.Subdomain,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return &m, nil
}

// GetByEmail retrieves an active user by email joined with its organization.
// The is_active filter sits in the query: an inactive account is the same as
// a missing one to every authentication path.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*identity.Membership, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM users u
		JOIN organizations o ON u.organization_id = o.id
		WHERE u.email = $1 AND u.is_active
	`, email)
	return scanMembership(row)
}

// GetByID retrieves an active user by id joined with its organization
func (r *UserRepository) GetByID(ctx context.Context, id string) (*identity.Membership, error) {
	row := r.db.pool.QueryRow(ctx, `
		SELECT `+membershipColumns+`
		FROM users u
		JOIN organizations o ON u.organization_id = o.id
		WHERE u.id = $1 AND u.is_active
	`, id)
	return scanMembership(row)
}

// List returns all users of an organization, newest first
func (r *UserRepository) List(ctx context.Context, orgID string) ([]identity.User, error) {
	rows, err := r.db.pool.Query(ctx, `
		SELECT id, email, full_name, role, organization_id,
			is_active, last_login_at, created_at, updated_at
		FROM users
		WHERE organization_id = $1
		ORDER BY created_at DESC
	`, orgID)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []identity.User
	for rows.Next() {
		var u identity.User
		if err := rows.Scan(
			&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID,
			&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// UpdateFields applies a partial update to a user within an organization.
// The WHERE clause carries both id and organization_id so a cross-tenant id
// can never match.
func (r *UserRepository) UpdateFields(ctx context.Context, id, orgID string, upd identity.UserUpdate) (*identity.User, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.FullName != nil {
		add("full_name", *upd.FullName)
	}
	if upd.Role != nil {
		add("role", *upd.Role)
	}
	if upd.IsActive != nil {
		add("is_active", *upd.IsActive)
	}

	query := fmt.Sprintf(`
		UPDATE users SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING id, email, full_name, role, organization_id,
			is_active, last_login_at, created_at, updated_at
	`, strings.Join(set, ", "))

	var u identity.User
	err := r.db.pool.QueryRow(ctx, query, args...).Scan(
		&u.ID, &u.Email, &u.FullName, &u.Role, &u.OrganizationID,
		&u.IsActive, &u.LastLoginAt, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, identity.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return &u, nil
}

// TouchLastLogin records a successful authentication timestamp
func (r *UserRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.pool.Exec(ctx, `
		UPDATE users SET last_login_at = now() WHERE id = $1
	`, id)
	if err != nil {
		return fmt.Errorf("failed to record login: %w", err)
	}
	return nil
}
