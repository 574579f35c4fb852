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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Low-cost parameters keep the test fast; correctness does not depend on the
// work factor.
func testHasher() *PasswordHasher {
	return NewPasswordHasher(1024, 1, 1, 16, 32)
}

func TestPasswordHasher_HashAndVerify(t *testing.T) {
	h := testHasher()

	digest, err := h.Hash("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(digest, "$argon2id$"), "digest must be self-describing")
	assert.NotContains(t, digest, "correct horse", "digest must not contain the plaintext")

	ok, err := h.Verify("correct horse battery staple", digest)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = h.Verify("wrong password", digest)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPasswordHasher_DigestsAreSalted(t *testing.T) {
	h := testHasher()

	first, err := h.Hash("same password")
	require.NoError(t, err)
	second, err := h.Hash("same password")
	require.NoError(t, err)

	assert.NotEqual(t, first, second, "equal passwords must produce distinct digests")
}

func TestPasswordHasher_VerifyUsesDigestParameters(t *testing.T) {
	expensive := NewPasswordHasher(2048, 2, 1, 16, 32)
	digest, err := expensive.Hash("password123")
	require.NoError(t, err)

	// A hasher configured with different costs must still verify: the
	// parameters ride inside the digest.
	cheap := testHasher()
	ok, err := cheap.Verify("password123", digest)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestPasswordHasher_RejectsMalformedDigests(t *testing.T) {
	h := testHasher()

	for _, digest := range []string{
		"",
		"not a digest",
		"$argon2id$v=19$m=1024,t=1,p=1$only-four-sections",
		"$bcrypt$v=19$m=1024,t=1,p=1$c2FsdA$aGFzaA",
		"$argon2id$v=19$m=1024,t=1,p=1$!!notbase64!!$aGFzaA",
	} {
		_, err := h.Verify("anything", digest)
		assert.Error(t, err, "digest %q should be rejected", digest)
	}
}
