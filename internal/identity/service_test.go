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
	"testing"
	"time"

	"github.com/loftwork/loftwork/internal/audit"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService(t *testing.T) (*Service, *MockStore) {
	t.Helper()
	store := NewMockStore()
	s := NewService(
		store,
		store,
		testHasher(),
		NewTokenService("test-secret", 24*time.Hour),
		audit.NewSlogLogger(),
	)
	return s, store
}

func register(t *testing.T, s *Service, email, subdomain string) *Identity {
	t.Helper()
	ctx := context.Background()
	_, err := s.Register(ctx, RegisterParams{
		Email:     email,
		Password:  "password123",
		FullName:  "Test Admin",
		OrgName:   "Test Org",
		Subdomain: subdomain,
	})
	require.NoError(t, err)

	_, ident, err := s.Login(ctx, email, "password123")
	require.NoError(t, err)
	return ident
}

func TestService_RegisterThenLogin(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	org, err := s.Register(ctx, RegisterParams{
		Email:     "a@x.com",
		Password:  "password123",
		FullName:  "Ada Admin",
		OrgName:   "Acme",
		Subdomain: "acme",
	})
	require.NoError(t, err)
	require.NotEmpty(t, org.ID)

	token, ident, err := s.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, ident.Role)
	assert.Equal(t, org.ID, ident.OrganizationID)
	assert.Equal(t, "Acme", ident.OrganizationName)
	assert.Equal(t, "acme", ident.Subdomain)

	// Token verification round-trips back to the same user.
	resolved, err := s.AuthenticateToken(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, ident.UserID, resolved.UserID)
}

func TestService_RegisterValidation(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()

	_, err := s.Register(ctx, RegisterParams{Email: "a@x.com", Password: "p"})
	assert.ErrorIs(t, err, ErrMissingFields)

	_, err = s.Register(ctx, RegisterParams{
		Email: "not-an-email", Password: "p", FullName: "N", OrgName: "O", Subdomain: "s",
	})
	assert.ErrorIs(t, err, ErrInvalidEmail)
}

func TestService_LoginFailuresAreUniform(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	ident := register(t, s, "a@x.com", "acme")

	// Wrong password and unknown email produce the identical error.
	_, _, wrongPass := s.Login(ctx, "a@x.com", "wrong password")
	_, _, noUser := s.Login(ctx, "nobody@x.com", "whatever")
	assert.ErrorIs(t, wrongPass, ErrInvalidCredentials)
	assert.ErrorIs(t, noUser, ErrInvalidCredentials)

	// An inactive account fails the same way even with the right password.
	store.users[ident.UserID].IsActive = false
	_, _, inactive := s.Login(ctx, "a@x.com", "password123")
	assert.ErrorIs(t, inactive, ErrInvalidCredentials)
}

func TestService_LoginRecordsLastLogin(t *testing.T) {
	s, store := newTestService(t)
	ident := register(t, s, "a@x.com", "acme")

	require.NotNil(t, store.users[ident.UserID].LastLoginAt)
}

func TestService_DeactivationKillsLiveTokens(t *testing.T) {
	s, store := newTestService(t)
	ctx := context.Background()
	register(t, s, "a@x.com", "acme")

	token, ident, err := s.Login(ctx, "a@x.com", "password123")
	require.NoError(t, err)

	_, err = s.AuthenticateToken(ctx, token)
	require.NoError(t, err)

	// Flip the active flag: the unexpired token must stop working on the
	// very next request.
	store.users[ident.UserID].IsActive = false
	_, err = s.AuthenticateToken(ctx, token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_CreateUser(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	admin := register(t, s, "a@x.com", "acme")

	user, err := s.CreateUser(ctx, admin, CreateUserParams{
		Email:    "m@x.com",
		Password: "password123",
		FullName: "Mel Member",
	})
	require.NoError(t, err)
	assert.Equal(t, RoleMember, user.Role, "role defaults to member")
	assert.Equal(t, admin.OrganizationID, user.OrganizationID)
	assert.True(t, user.IsActive)

	_, err = s.CreateUser(ctx, admin, CreateUserParams{
		Email:    "m@x.com",
		Password: "password123",
		FullName: "Duplicate",
	})
	assert.ErrorIs(t, err, ErrEmailTaken)

	_, err = s.CreateUser(ctx, admin, CreateUserParams{
		Email:    "x@x.com",
		Password: "password123",
		FullName: "Bad Role",
		Role:     "superuser",
	})
	assert.ErrorIs(t, err, ErrInvalidRole)
}

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestService_UpdateUser_SelfServicePolicy(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	admin := register(t, s, "a@x.com", "acme")

	created, err := s.CreateUser(ctx, admin, CreateUserParams{
		Email: "m@x.com", Password: "password123", FullName: "Mel Member",
	})
	require.NoError(t, err)

	_, member, err := s.Login(ctx, "m@x.com", "password123")
	require.NoError(t, err)

	t.Run("admin cannot change own role", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, admin, admin.UserID, UserUpdate{Role: strPtr(RoleMember)})
		assert.ErrorIs(t, err, ErrSelfChange)
	})

	t.Run("admin cannot deactivate self", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, admin, admin.UserID, UserUpdate{IsActive: boolPtr(false)})
		assert.ErrorIs(t, err, ErrSelfChange)
	})

	t.Run("admin can change another user's role", func(t *testing.T) {
		updated, err := s.UpdateUser(ctx, admin, created.ID, UserUpdate{Role: strPtr(RoleAdmin)})
		require.NoError(t, err)
		assert.Equal(t, RoleAdmin, updated.Role)

		updated, err = s.UpdateUser(ctx, admin, created.ID, UserUpdate{Role: strPtr(RoleMember)})
		require.NoError(t, err)
		assert.Equal(t, RoleMember, updated.Role)
	})

	t.Run("member cannot target another user", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, member, admin.UserID, UserUpdate{FullName: strPtr("Hijack")})
		assert.ErrorIs(t, err, ErrNotPermitted)
	})

	t.Run("member role and active fields are silently dropped", func(t *testing.T) {
		// role=member matches the caller's own role, so it passes the
		// self-change check and reaches the intersection, where it is
		// discarded along with is_active=true.
		updated, err := s.UpdateUser(ctx, member, member.UserID, UserUpdate{
			FullName: strPtr("Mel Renamed"),
			Role:     strPtr(RoleMember),
			IsActive: boolPtr(true),
		})
		require.NoError(t, err)
		assert.Equal(t, "Mel Renamed", updated.FullName)
		assert.Equal(t, RoleMember, updated.Role)
	})

	t.Run("member supplying only privileged fields gets no-fields error", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, member, member.UserID, UserUpdate{IsActive: boolPtr(true)})
		assert.ErrorIs(t, err, ErrNoFields)
	})

	t.Run("unknown target in caller org is not found", func(t *testing.T) {
		_, err := s.UpdateUser(ctx, admin, "no-such-user", UserUpdate{FullName: strPtr("X")})
		assert.ErrorIs(t, err, ErrUserNotFound)
	})
}

func TestService_UpdateUser_CrossTenantTargetIsNotFound(t *testing.T) {
	s, _ := newTestService(t)
	ctx := context.Background()
	adminA := register(t, s, "a@acme.com", "acme")
	adminB := register(t, s, "b@globex.com", "globex")

	// Admin A targeting a user of tenant B sees not-found, never the row.
	_, err := s.UpdateUser(ctx, adminA, adminB.UserID, UserUpdate{FullName: strPtr("X")})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAllowedUserUpdates(t *testing.T) {
	full := UserUpdate{
		FullName: strPtr("Name"),
		Role:     strPtr(RoleAdmin),
		IsActive: boolPtr(false),
	}

	admin := allowedUserUpdates(RoleAdmin, full)
	assert.NotNil(t, admin.FullName)
	assert.NotNil(t, admin.Role)
	assert.NotNil(t, admin.IsActive)

	member := allowedUserUpdates(RoleMember, full)
	assert.NotNil(t, member.FullName)
	assert.Nil(t, member.Role)
	assert.Nil(t, member.IsActive)
}
