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

package http

import (
	"context"

	"github.com/loftwork/loftwork/internal/identity"
	"github.com/loftwork/loftwork/internal/project"
)

type contextKey string

const (
	identityKey contextKey = "identity"
	tenantKey   contextKey = "tenant"
	projectKey  contextKey = "project"
)

// Tenant is the immutable tenant scope bound to a request. It is derived
// once from the authenticated identity and never re-read from request input.
type Tenant struct {
	ID        string
	Subdomain string
}

// BoundIdentity retrieves the authenticated identity from context.
func BoundIdentity(ctx context.Context) (*identity.Identity, bool) {
	ident, ok := ctx.Value(identityKey).(*identity.Identity)
	return ident, ok
}

// BoundTenant retrieves the tenant scope from context.
func BoundTenant(ctx context.Context) (Tenant, bool) {
	t, ok := ctx.Value(tenantKey).(Tenant)
	return t, ok
}

// BoundProject retrieves the project fetched by the tenancy guard.
func BoundProject(ctx context.Context) (*project.Project, bool) {
	p, ok := ctx.Value(projectKey).(*project.Project)
	return p, ok
}
