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
	"sort"
	"testing"
	"time"

	"github.com/loftwork/loftwork/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// MockRepository is an in-memory implementation of Repository. Like the real
// store, every lookup filters by organization id inside the "query".
type MockRepository struct {
	projects map[string]*Project
}

func NewMockRepository() *MockRepository {
	return &MockRepository{projects: make(map[string]*Project)}
}

func (m *MockRepository) Create(ctx context.Context, p *Project) error {
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	cp := *p
	m.projects[p.ID] = &cp
	return nil
}

func (m *MockRepository) GetByIDAndOrg(ctx context.Context, id, orgID string) (*Project, error) {
	p, ok := m.projects[id]
	if !ok || p.OrganizationID != orgID {
		return nil, ErrProjectNotFound
	}
	cp := *p
	return &cp, nil
}

func (m *MockRepository) List(ctx context.Context, orgID string, f ListFilter) ([]Project, int, error) {
	var all []Project
	for _, p := range m.projects {
		if p.OrganizationID != orgID {
			continue
		}
		if f.Status != "" && p.Status != f.Status {
			continue
		}
		all = append(all, *p)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].CreatedAt.After(all[j].CreatedAt) })

	total := len(all)
	start := (f.Page - 1) * f.Limit
	if start > total {
		start = total
	}
	end := start + f.Limit
	if end > total {
		end = total
	}
	return all[start:end], total, nil
}

func (m *MockRepository) UpdateFields(ctx context.Context, id, orgID string, upd Update) (*Project, error) {
	p, ok := m.projects[id]
	if !ok || p.OrganizationID != orgID {
		return nil, ErrProjectNotFound
	}
	if upd.Name != nil {
		p.Name = *upd.Name
	}
	if upd.Description != nil {
		p.Description = *upd.Description
	}
	if upd.Status != nil {
		p.Status = *upd.Status
	}
	p.UpdatedAt = time.Now()
	cp := *p
	return &cp, nil
}

func (m *MockRepository) Delete(ctx context.Context, id, orgID string) error {
	p, ok := m.projects[id]
	if !ok || p.OrganizationID != orgID {
		return ErrProjectNotFound
	}
	delete(m.projects, id)
	return nil
}

func strPtr(s string) *string { return &s }

func newTestService() (*Service, *MockRepository) {
	repo := NewMockRepository()
	return NewService(repo, audit.NewSlogLogger()), repo
}

func TestService_Create(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p, err := s.Create(ctx, "org-1", "user-1", "P1", "first project")
	require.NoError(t, err)
	assert.Equal(t, StatusActive, p.Status)
	assert.Equal(t, "org-1", p.OrganizationID)
	assert.Equal(t, "user-1", p.CreatedBy)
	assert.NotEmpty(t, p.ID)

	_, err = s.Create(ctx, "org-1", "user-1", "", "no name")
	assert.ErrorIs(t, err, ErrMissingName)
}

func TestService_CrossTenantFetchIsNotFound(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p, err := s.Create(ctx, "org-x", "user-1", "Secret", "")
	require.NoError(t, err)

	// A caller bound to another tenant sees not-found, indistinguishable
	// from an id that exists nowhere.
	_, err = s.Get(ctx, p.ID, "org-y")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	_, err = s.Get(ctx, "truly-absent", "org-y")
	assert.ErrorIs(t, err, ErrProjectNotFound)

	// The owning tenant still sees it.
	got, err := s.Get(ctx, p.ID, "org-x")
	require.NoError(t, err)
	assert.Equal(t, "Secret", got.Name)
}

func TestService_List(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	for i := 0; i < 15; i++ {
		_, err := s.Create(ctx, "org-1", "user-1", "project", "")
		require.NoError(t, err)
	}
	_, err := s.Create(ctx, "org-2", "user-2", "other tenant", "")
	require.NoError(t, err)

	// Defaults apply when the filter is zero.
	result, err := s.List(ctx, "org-1", ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Page)
	assert.Equal(t, 10, result.Limit)
	assert.Equal(t, 15, result.Total)
	assert.Equal(t, 2, result.TotalPages)
	assert.Len(t, result.Projects, 10)

	result, err = s.List(ctx, "org-1", ListFilter{Page: 2, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, result.Projects, 5)

	// Unknown status is a validation error, not an empty page.
	_, err = s.List(ctx, "org-1", ListFilter{Status: "bogus"})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	// Another tenant's listing never includes org-1 rows.
	result, err = s.List(ctx, "org-2", ListFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Total)
}

func TestService_Update(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	p, err := s.Create(ctx, "org-1", "user-1", "P1", "")
	require.NoError(t, err)

	updated, err := s.Update(ctx, "user-1", p.ID, "org-1", Update{
		Status:      strPtr(StatusCompleted),
		Description: strPtr("done"),
	})
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, updated.Status)
	assert.Equal(t, "done", updated.Description)
	assert.Equal(t, "P1", updated.Name, "unsupplied fields stay untouched")

	_, err = s.Update(ctx, "user-1", p.ID, "org-1", Update{})
	assert.ErrorIs(t, err, ErrNoFields)

	_, err = s.Update(ctx, "user-1", p.ID, "org-1", Update{Status: strPtr("bogus")})
	assert.ErrorIs(t, err, ErrInvalidStatus)

	_, err = s.Update(ctx, "user-1", p.ID, "org-1", Update{Name: strPtr("")})
	assert.ErrorIs(t, err, ErrMissingName)

	// Cross-tenant update is a not-found, even though the id exists.
	_, err = s.Update(ctx, "user-2", p.ID, "org-2", Update{Name: strPtr("steal")})
	assert.ErrorIs(t, err, ErrProjectNotFound)
}

func TestService_Delete(t *testing.T) {
	s, repo := newTestService()
	ctx := context.Background()

	p, err := s.Create(ctx, "org-1", "user-1", "P1", "")
	require.NoError(t, err)

	// Cross-tenant delete must not remove the row.
	err = s.Delete(ctx, "user-2", p.ID, "org-2")
	assert.ErrorIs(t, err, ErrProjectNotFound)
	assert.Contains(t, repo.projects, p.ID)

	require.NoError(t, s.Delete(ctx, "user-1", p.ID, "org-1"))
	assert.NotContains(t, repo.projects, p.ID)

	err = s.Delete(ctx, "user-1", p.ID, "org-1")
	assert.ErrorIs(t, err, ErrProjectNotFound)
}
