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
	"fmt"
	"strings"

	"github.com/loftwork/loftwork/internal/audit"
	"github.com/loftwork/loftwork/internal/id"
	"github.com/loftwork/loftwork/internal/tenant"
)

// Registrar persists an organization together with its first admin user.
// Both rows become visible together or neither does; a tenant without an
// admin must never be observable.
type Registrar interface {
	CreateOrganizationWithAdmin(ctx context.Context, org *tenant.Organization, admin *User) error
}

// Service provides authentication and user management
type Service struct {
	repo        UserRepository
	registrar   Registrar
	hasher      *PasswordHasher
	tokens      *TokenService
	auditLogger audit.Logger

	// dummyDigest keeps the unknown-email login path in the same timing
	// class as a wrong-password failure.
	dummyDigest string
}

// NewService creates a new identity service
func NewService(
	repo UserRepository,
	registrar Registrar,
	hasher *PasswordHasher,
	tokens *TokenService,
	auditLogger audit.Logger,
) *Service {
	dummy, err := hasher.Hash("loftwork")
	if err != nil {
		dummy = ""
	}
	return &Service{
		repo:        repo,
		registrar:   registrar,
		hasher:      hasher,
		tokens:      tokens,
		auditLogger: auditLogger,
		dummyDigest: dummy,
	}
}

// RegisterParams holds registration input: a new organization plus its
// first admin user.
type RegisterParams struct {
	Email     string
	Password  string
	FullName  string
	OrgName   string
	Subdomain string
}

// Register creates an organization and its admin user atomically.
func (s *Service) Register(ctx context.Context, p RegisterParams) (*tenant.Organization, error) {
	if p.Email == "" || p.Password == "" || p.FullName == "" || p.OrgName == "" || p.Subdomain == "" {
		return nil, ErrMissingFields
	}
	if !isValidEmail(p.Email) {
		return nil, ErrInvalidEmail
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	org := &tenant.Organization{
		ID:        id.NewUUIDv7(),
		Name:      p.OrgName,
		Subdomain: p.Subdomain,
	}
	admin := &User{
		ID:             id.NewUUIDv7(),
		Email:          p.Email,
		PasswordHash:   passwordHash,
		FullName:       p.FullName,
		Role:           RoleAdmin,
		OrganizationID: org.ID,
		IsActive:       true,
	}

	if err := s.registrar.CreateOrganizationWithAdmin(ctx, org, admin); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeOrgRegistered,
		OrgID:    org.ID,
		ActorID:  admin.ID,
		Resource: org.Subdomain,
	})

	return org, nil
}

// Login authenticates an email/password pair and issues a token. Every
// failure (unknown email, inactive account, wrong password) collapses to
// ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (string, *Identity, error) {
	if email == "" || password == "" {
		return "", nil, ErrMissingFields
	}

	m, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		// Burn a verification anyway so the miss costs the same as a
		// wrong password.
		if s.dummyDigest != "" {
			_, _ = s.hasher.Verify(password, s.dummyDigest)
		}
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			Resource: email,
			Metadata: map[string]any{"reason": "user_not_found"},
		})
		return "", nil, ErrInvalidCredentials
	}

	valid, err := s.hasher.Verify(password, m.User.PasswordHash)
	if err != nil || !valid {
		s.auditLogger.Log(ctx, audit.Event{
			Type:     audit.TypeLoginFailed,
			OrgID:    m.User.OrganizationID,
			ActorID:  m.User.ID,
			Resource: "login",
			Metadata: map[string]any{"reason": "invalid_password"},
		})
		return "", nil, ErrInvalidCredentials
	}

	if err := s.repo.TouchLastLogin(ctx, m.User.ID); err != nil {
		return "", nil, fmt.Errorf("failed to record login: %w", err)
	}

	token, err := s.tokens.Issue(m.User.ID)
	if err != nil {
		return "", nil, fmt.Errorf("failed to issue token: %w", err)
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeLoginSuccess,
		OrgID:    m.User.OrganizationID,
		ActorID:  m.User.ID,
		Resource: "login",
	})

	return token, m.Identity(), nil
}

// AuthenticateToken resolves a bearer token into the caller identity. The
// user is re-fetched joined with its organization on every call, so a token
// for a since-deactivated user or deleted organization stops working
// immediately even though the token itself has not expired.
func (s *Service) AuthenticateToken(ctx context.Context, token string) (*Identity, error) {
	userID, err := s.tokens.Verify(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	m, err := s.repo.GetByID(ctx, userID)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return m.Identity(), nil
}

// CreateUserParams holds admin user provisioning input
type CreateUserParams struct {
	Email    string
	Password string
	FullName string
	Role     string
}

// CreateUser provisions a user into the caller's organization.
func (s *Service) CreateUser(ctx context.Context, caller *Identity, p CreateUserParams) (*User, error) {
	if p.Email == "" || p.Password == "" || p.FullName == "" {
		return nil, ErrMissingFields
	}
	if !isValidEmail(p.Email) {
		return nil, ErrInvalidEmail
	}
	role := p.Role
	if role == "" {
		role = RoleMember
	}
	if !ValidRole(role) {
		return nil, ErrInvalidRole
	}

	passwordHash, err := s.hasher.Hash(p.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &User{
		ID:             id.NewUUIDv7(),
		Email:          p.Email,
		PasswordHash:   passwordHash,
		FullName:       p.FullName,
		Role:           role,
		OrganizationID: caller.OrganizationID,
		IsActive:       true,
	}
	if err := s.repo.Create(ctx, user); err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserCreated,
		OrgID:    caller.OrganizationID,
		ActorID:  caller.UserID,
		Resource: user.ID,
	})

	return user, nil
}

// ListUsers returns the users of the caller's organization.
func (s *Service) ListUsers(ctx context.Context, caller *Identity) ([]User, error) {
	return s.repo.List(ctx, caller.OrganizationID)
}

// UpdateUser applies a partial update to a user in the caller's organization.
//
// Policy, in order:
//   - a non-admin may only target their own id (ErrNotPermitted otherwise);
//   - no caller, admin included, may change their own role or deactivate
//     themselves (ErrSelfChange);
//   - role and is_active supplied by a non-admin are silently dropped: the
//     applied set is the intersection of fields supplied and fields the
//     caller's role may change.
func (s *Service) UpdateUser(ctx context.Context, caller *Identity, targetID string, upd UserUpdate) (*User, error) {
	if caller.Role != RoleAdmin && caller.UserID != targetID {
		return nil, ErrNotPermitted
	}

	if caller.UserID == targetID {
		if upd.Role != nil && *upd.Role != caller.Role {
			return nil, ErrSelfChange
		}
		if upd.IsActive != nil && !*upd.IsActive {
			return nil, ErrSelfChange
		}
	}

	if upd.Role != nil && !ValidRole(*upd.Role) {
		return nil, ErrInvalidRole
	}

	upd = allowedUserUpdates(caller.Role, upd)
	if upd.Empty() {
		return nil, ErrNoFields
	}

	user, err := s.repo.UpdateFields(ctx, targetID, caller.OrganizationID, upd)
	if err != nil {
		return nil, err
	}

	s.auditLogger.Log(ctx, audit.Event{
		Type:     audit.TypeUserUpdated,
		OrgID:    caller.OrganizationID,
		ActorID:  caller.UserID,
		Resource: targetID,
	})

	return user, nil
}

// allowedUserUpdates intersects the supplied fields with the fields the
// caller's role may change. Pure function; the persistence shape is decided
// elsewhere.
func allowedUserUpdates(callerRole string, upd UserUpdate) UserUpdate {
	if callerRole != RoleAdmin {
		upd.Role = nil
		upd.IsActive = nil
	}
	return upd
}

func isValidEmail(email string) bool {
	at := strings.IndexByte(email, '@')
	return at > 0 && at < len(email)-1 && len(email) < 255
}
