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
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenService_IssueAndVerify(t *testing.T) {
	s := NewTokenService("test-secret", 24*time.Hour)

	token, err := s.Issue("user-123")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)
}

func TestTokenService_Expiry(t *testing.T) {
	issued := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

	s := NewTokenService("test-secret", 24*time.Hour)
	s.now = func() time.Time { return issued }

	token, err := s.Issue("user-123")
	require.NoError(t, err)

	// Still valid one minute before the deadline.
	s.now = func() time.Time { return issued.Add(24*time.Hour - time.Minute) }
	userID, err := s.Verify(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", userID)

	// Rejected one minute after.
	s.now = func() time.Time { return issued.Add(24*time.Hour + time.Minute) }
	_, err = s.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestTokenService_RejectsForeignAndMalformedTokens(t *testing.T) {
	s := NewTokenService("test-secret", 24*time.Hour)

	// Signed with a different secret.
	other := NewTokenService("other-secret", 24*time.Hour)
	foreign, err := other.Issue("user-123")
	require.NoError(t, err)

	// Unsigned token with the right shape.
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, jwt.RegisteredClaims{
		Subject:   "user-123",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	// Token without an expiry claim.
	noExpiry, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject: "user-123",
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	for name, token := range map[string]string{
		"foreign secret": foreign,
		"unsigned":       unsigned,
		"no expiry":      noExpiry,
		"garbage":        "not.a.token",
		"empty":          "",
	} {
		_, err := s.Verify(token)
		assert.ErrorIs(t, err, ErrInvalidToken, name)
	}
}

func TestTokenService_SecretRotationInvalidatesTokens(t *testing.T) {
	before := NewTokenService("old-secret", 24*time.Hour)
	token, err := before.Issue("user-123")
	require.NoError(t, err)

	after := NewTokenService("new-secret", 24*time.Hour)
	_, err = after.Verify(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
