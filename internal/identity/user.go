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
	"errors"
	"time"
)

// Domain errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidEmail       = errors.New("invalid email address")
	ErrInvalidRole        = errors.New("invalid role")
	ErrMissingFields      = errors.New("required fields missing")
	ErrNoFields           = errors.New("no fields to update")
	ErrNotPermitted       = errors.New("operation not permitted")
	ErrSelfChange         = errors.New("cannot change own role or active flag")
)

// Roles. Membership checks are exact; admin is not a superset of member.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// ValidRole reports whether role is a known role value.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleMember
}

// User represents a user account. A user belongs to exactly one organization
// for its entire lifetime; OrganizationID never changes after creation.
type User struct {
	ID             string     `json:"id"`
	Email          string     `json:"email"`
	PasswordHash   string     `json:"-"`
	FullName       string     `json:"full_name"`
	Role           string     `json:"role"`
	OrganizationID string     `json:"organization_id"`
	IsActive       bool       `json:"is_active"`
	LastLoginAt    *time.Time `json:"last_login_at,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Identity is the resolved caller: the authenticated user plus its
// organization context. It is bound once per request and never re-derived
// from raw request input downstream.
type Identity struct {
	UserID           string `json:"id"`
	Email            string `json:"email"`
	FullName         string `json:"full_name"`
	Role             string `json:"role"`
	OrganizationID   string `json:"organization_id"`
	OrganizationName string `json:"organization_name"`
	Subdomain        string `json:"subdomain"`
}

// Membership is a user row joined with its organization.
type Membership struct {
	User             User
	OrganizationName string
	Subdomain        string
}

// Identity converts a joined row to the bound caller identity.
func (m *Membership) Identity() *Identity {
	return &Identity{
		UserID:           m.User.ID,
		Email:            m.User.Email,
		FullName:         m.User.FullName,
		Role:             m.User.Role,
		OrganizationID:   m.User.OrganizationID,
		OrganizationName: m.OrganizationName,
		Subdomain:        m.Subdomain,
	}
}

// UserUpdate is a partial update: nil means "field not supplied".
type UserUpdate struct {
	FullName *string `json:"full_name"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

// Empty reports whether no field is supplied.
func (u UserUpdate) Empty() bool {
	return u.FullName == nil && u.Role == nil && u.IsActive == nil
}

// UserRepository defines the interface for user persistence
type UserRepository interface {
	// Create inserts a new user. Returns ErrEmailTaken when the email is
	// already registered.
	Create(ctx context.Context, user *User) error

	// GetByEmail retrieves an active user by email joined with its
	// organization. Email lookup is global, not tenant-scoped. Inactive
	// users are indistinguishable from absent ones: ErrUserNotFound.
	GetByEmail(ctx context.Context, email string) (*Membership, error)

	// GetByID retrieves an active user by id joined with its organization.
	// Same active-flag semantics as GetByEmail.
	GetByID(ctx context.Context, id string) (*Membership, error)

	// List returns all users of an organization, newest first. Includes
	// inactive users; listing is an administrative view, not authentication.
	List(ctx context.Context, orgID string) ([]User, error)

	// UpdateFields applies a partial update to the user identified by id
	// within orgID and returns the updated row. Returns ErrUserNotFound when
	// no row matches both id and orgID.
	UpdateFields(ctx context.Context, id, orgID string, upd UserUpdate) (*User, error)

	// TouchLastLogin records a successful authentication timestamp.
	TouchLastLogin(ctx context.Context, id string) error
}
