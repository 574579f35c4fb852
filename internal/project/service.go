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

	"github.com/loftwork/loftwork/internal/audit"
	"github.com/loftwork/loftwork/internal/id"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// Service provides tenant-scoped project operations. The organization id on
// every method comes from the bound tenant context, never from request input.
type Service struct {
	repo        Repository
	auditLogger audit.Logger
}

// NewService creates a new project service
func NewService(repo Repository, auditLogger audit.Logger) *Service {
	return &Service{repo: repo, auditLogger: auditLogger}
}

// Create creates a project owned by the caller's organization.
func (s *Service) Create(ctx context.Context, orgID, creatorID, name, description string) (*Project, error) {
	if name == "" {
		return nil, ErrMissingName
	}

	p := &Project{
		ID:             id.NewUUIDv7(),
		Name:           name,
		Description:    description,
		Status:         StatusActive,
		OrganizationID: orgID,
		CreatedBy:      creatorID,
	}
	if err := s.repo.Create(ctx, p); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectCreated,
		OrgID:    orgID,
		ActorID:  creatorID,
		Resource: p.ID,
	})

	return p, nil
}

// Get fetches a project by id within the caller's organization.
func (s *Service) Get(ctx context.Context, projectID, orgID string) (*Project, error) {
	return s.repo.GetByIDAndOrg(ctx, projectID, orgID)
}

// ListResult is one page of a tenant's projects.
type ListResult struct {
	Projects   []Project `json:"projects"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
	Total      int       `json:"total"`
	TotalPages int       `json:"total_pages"`
}

// List returns a page of the organization's projects.
func (s *Service) List(ctx context.Context, orgID string, f ListFilter) (*ListResult, error) {
	if f.Status != "" && !ValidStatus(f.Status) {
		return nil, ErrInvalidStatus
	}
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 {
		f.Limit = defaultPageSize
	}
	if f.Limit > maxPageSize {
		f.Limit = maxPageSize
	}

	projects, total, err := s.repo.List(ctx, orgID, f)
	if err != nil {
		return nil, err
	}

	totalPages := (total + f.Limit - 1) / f.Limit
	return &ListResult{
		Projects:   projects,
		Page:       f.Page,
		Limit:      f.Limit,
		Total:      total,
		TotalPages: totalPages,
	}, nil
}

// Update applies a partial update to a project in the caller's organization.
func (s *Service) Update(ctx context.Context, actorID, projectID, orgID string, upd Update) (*Project, error) {
	if upd.Empty() {
		return nil, ErrNoFields
	}
	if upd.Status != nil && !ValidStatus(*upd.Status) {
		return nil, ErrInvalidStatus
	}
	if upd.Name != nil && *upd.Name == "" {
		return nil, ErrMissingName
	}

	p, err := s.repo.UpdateFields(ctx, projectID, orgID, upd)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectUpdated,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: projectID,
	})

	return p, nil
}

// Delete removes a project from the caller's organization.
func (s *Service) Delete(ctx context.Context, actorID, projectID, orgID string) error {
	if err := s.repo.Delete(ctx, projectID, orgID); err != nil {
		return err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeProjectDeleted,
		OrgID:    orgID,
		ActorID:  actorID,
		Resource: projectID,
	})

	return nil
}
