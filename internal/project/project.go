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

package project

import (
	"context"
	"errors"
	"time"
)

// Domain errors
var (
	// ErrProjectNotFound covers both a truly absent id and an id owned by
	// another tenant. The two must stay indistinguishable: the existence of
	// another tenant's resource is never observable.
	ErrProjectNotFound = errors.New("project not found")
	ErrMissingName     = errors.New("project name is required")
	ErrInvalidStatus   = errors.New("invalid project status")
	ErrNoFields        = errors.New("no fields to update")
)

// Status values
const (
	StatusActive    = "active"
	StatusArchived  = "archived"
	StatusCompleted = "completed"
)

// ValidStatus reports whether status is a known status value.
func ValidStatus(status string) bool {
	switch status {
	case StatusActive, StatusArchived, StatusCompleted:
		return true
	}
	return false
}

// Project is a tenant-scoped resource. OrganizationID is immutable; a
// project is never reparented to another tenant.
type Project struct {
	ID             string    `json:"id"`
	Name           string    `json:"name"`
	Description    string    `json:"description"`
	Status         string    `json:"status"`
	OrganizationID string    `json:"organization_id"`
	CreatedBy      string    `json:"created_by"`
	CreatorName    string    `json:"creator_name,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Update is a partial update: nil means "field not supplied".
type Update struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
}

// Empty reports whether no field is supplied.
func (u Update) Empty() bool {
	return u.Name == nil && u.Description == nil && u.Status == nil
}

// ListFilter narrows and pages a tenant's project listing.
type ListFilter struct {
	Status string
	Page   int
	Limit  int
}

// Repository defines the interface for project persistence. Every operation
// takes the owning organization id and applies it inside the same query;
// fetching by id alone and checking tenancy afterwards is not expressible
// through this interface.
type Repository interface {
	// Create inserts a new project
	Create(ctx context.Context, p *Project) error

	// GetByIDAndOrg retrieves a project by id within an organization.
	// Returns ErrProjectNotFound when no row matches both.
	GetByIDAndOrg(ctx context.Context, id, orgID string) (*Project, error)

	// List returns a page of an organization's projects, newest first,
	// along with the total count for the filter.
	List(ctx context.Context, orgID string, f ListFilter) ([]Project, int, error)

	// UpdateFields applies a partial update within an organization and
	// returns the updated row. Returns ErrProjectNotFound when no row
	// matches both id and orgID.
	UpdateFields(ctx context.Context, id, orgID string, upd Update) (*Project, error)

	// Delete removes a project within an organization. Returns
	// ErrProjectNotFound when no row matches both id and orgID.
	Delete(ctx context.Context, id, orgID string) error
}
