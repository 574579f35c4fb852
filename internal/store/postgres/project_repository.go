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
	"github.com/loftwork/loftwork/internal/project"
)

// ProjectRepository implements project.Repository. Every statement filters by
// organization_id alongside the project id; there is deliberately no
// fetch-by-id-alone query.
type ProjectRepository struct {
	db *DB
}

// NewProjectRepository creates a new project repository
func NewProjectRepository(db *DB) *ProjectRepository {
	return &ProjectRepository{db: db}
}

// Create inserts a new project
func (r *ProjectRepository) Create(ctx context.Context, p *project.Project) error {
	now := time.Now()
	_, err := r.db.pool.Exec(ctx, `
		INSERT INTO projects (
			id, name, description, status, organization_id, created_by,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`,
		p.ID, p.Name, p.Description, p.Status, p.OrganizationID, p.CreatedBy,
		now, now,
	)
	if err != nil {
		return fmt.Errorf("failed to insert project: %w", err)
	}

	p.CreatedAt = now
	p.UpdatedAt = now

	return nil
}

// GetByIDAndOrg retrieves a project by id within an organization
func (r *ProjectRepository) GetByIDAndOrg(ctx context.Context, id, orgID string) (*project.Project, error) {
	var p project.Project
	err := r.db.pool.QueryRow(ctx, `
		SELECT p.id, p.name, p.description, p.status, p.organization_id,
			p.created_by, COALESCE(u.full_name, ''), p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN users u ON p.created_by = u.id
		WHERE p.id = $1 AND p.organization_id = $2
	`, id, orgID).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.OrganizationID,
		&p.CreatedBy, &p.CreatorName, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to get project: %w", err)
	}
	return &p, nil
}

// List returns a page of an organization's projects with the total count
func (r *ProjectRepository) List(ctx context.Context, orgID string, f project.ListFilter) ([]project.Project, int, error) {
	where := "WHERE p.organization_id = $1"
	args := []any{orgID}
	if f.Status != "" {
		args = append(args, f.Status)
		where += fmt.Sprintf(" AND p.status = $%d", len(args))
	}

	var total int
	countQuery := strings.Replace(where, "p.", "", -1)
	if err := r.db.pool.QueryRow(ctx,
		"SELECT COUNT(*) FROM projects "+countQuery, args...,
	).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count projects: %w", err)
	}

	offset := (f.Page - 1) * f.Limit
	args = append(args, f.Limit, offset)
	query := fmt.Sprintf(`
		SELECT p.id, p.name, p.description, p.status, p.organization_id,
			p.created_by, COALESCE(u.full_name, ''), p.created_at, p.updated_at
		FROM projects p
		LEFT JOIN users u ON p.created_by = u.id
		%s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.db.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list projects: %w", err)
	}
	defer rows.Close()

	var projects []project.Project
	for rows.Next() {
		var p project.Project
		if err := rows.Scan(
			&p.ID, &p.Name, &p.Description, &p.Status, &p.OrganizationID,
			&p.CreatedBy, &p.CreatorName, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan project: %w", err)
		}
		projects = append(projects, p)
	}
	return projects, total, rows.Err()
}

// UpdateFields applies a partial update within an organization
func (r *ProjectRepository) UpdateFields(ctx context.Context, id, orgID string, upd project.Update) (*project.Project, error) {
	set := []string{"updated_at = now()"}
	args := []any{id, orgID}

	add := func(column string, value any) {
		args = append(args, value)
		set = append(set, fmt.Sprintf("%s = $%d", column, len(args)))
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.Description != nil {
		add("description", *upd.Description)
	}
	if upd.Status != nil {
		add("status", *upd.Status)
	}

	query := fmt.Sprintf(`
		UPDATE projects SET %s
		WHERE id = $1 AND organization_id = $2
		RETURNING id, name, description, status, organization_id, created_by,
			created_at, updated_at
	`, strings.Join(set, ", "))

	var p project.Project
	err := r.db.pool.QueryRow(ctx, query, args...).Scan(
		&p.ID, &p.Name, &p.Description, &p.Status, &p.OrganizationID,
		&p.CreatedBy, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, project.ErrProjectNotFound
		}
		return nil, fmt.Errorf("failed to update project: %w", err)
	}
	return &p, nil
}

// Delete removes a project within an organization
func (r *ProjectRepository) Delete(ctx context.Context, id, orgID string) error {
	result, err := r.db.pool.Exec(ctx, `
		DELETE FROM projects WHERE id = $1 AND organization_id = $2
	`, id, orgID)
	if err != nil {
		return fmt.Errorf("failed to delete project: %w", err)
	}
	if result.RowsAffected() == 0 {
		return project.ErrProjectNotFound
	}
	return nil
}
