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

package identity

import (
	"context"
	"sort"
	"time"

	"github.com/loftwork/loftwork/internal/tenant"
)

// MockStore is an in-memory implementation of UserRepository and Registrar.
type MockStore struct {
	users map[string]*User
	orgs  map[string]*tenant.Organization
}

func NewMockStore() *MockStore {
	return &MockStore{
		users: make(map[string]*User),
		orgs:  make(map[string]*tenant.Organization),
	}
}

func (m *MockStore) AddOrganization(org *tenant.Organization) {
	m.orgs[org.ID] = org
}

func (m *MockStore) Create(ctx context.Context, user *User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return ErrEmailTaken
		}
	}
	cp := *user
	m.users[user.ID] = &cp
	return nil
}

func (m *MockStore) membership(u *User) *Membership {
	org := m.orgs[u.OrganizationID]
	mem := &Membership{User: *u}
	if org != nil {
		mem.OrganizationName = org.Name
		mem.Subdomain = org.Subdomain
	}
	return mem
}

func (m *MockStore) GetByEmail(ctx context.Context, email string) (*Membership, error) {
	for _, u := range m.users {
		if u.Email == email && u.IsActive {
			return m.membership(u), nil
		}
	}
	return nil, ErrUserNotFound
}

func (m *MockStore) GetByID(ctx context.Context, id string) (*Membership, error) {
	u, ok := m.users[id]
	if !ok || !u.IsActive {
		return nil, ErrUserNotFound
	}
	return m.membership(u), nil
}

func (m *MockStore) List(ctx context.Context, orgID string) ([]User, error) {
	var users []User
	for _, u := range m.users {
		if u.OrganizationID == orgID {
			users = append(users, *u)
		}
	}
	sort.Slice(users, func(i, j int) bool {
		return users[i].CreatedAt.After(users[j].CreatedAt)
	})
	return users, nil
}

func (m *MockStore) UpdateFields(ctx context.Context, id, orgID string, upd UserUpdate) (*User, error) {
	u, ok := m.users[id]
	if !ok || u.OrganizationID != orgID {
		return nil, ErrUserNotFound
	}
	if upd.FullName != nil {
		u.FullName = *upd.FullName
	}
	if upd.Role != nil {
		u.Role = *upd.Role
	}
	if upd.IsActive != nil {
		u.IsActive = *upd.IsActive
	}
	u.UpdatedAt = time.Now()
	cp := *u
	return &cp, nil
}

func (m *MockStore) TouchLastLogin(ctx context.Context, id string) error {
	u, ok := m.users[id]
	if !ok {
		return ErrUserNotFound
	}
	now := time.Now()
	u.LastLoginAt = &now
	return nil
}

func (m *MockStore) CreateOrganizationWithAdmin(ctx context.Context, org *tenant.Organization, admin *User) error {
	for _, o := range m.orgs {
		if o.Subdomain == org.Subdomain {
			return tenant.ErrSubdomainTaken
		}
	}
	if err := m.Create(ctx, admin); err != nil {
		return err
	}
	cp := *org
	m.orgs[org.ID] = &cp
	return nil
}
