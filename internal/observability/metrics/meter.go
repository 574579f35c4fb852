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

package metrics

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

// Config holds metrics configuration
type Config struct {
	Enabled bool
}

// Meter wraps OpenTelemetry meter
type Meter struct {
	meter metric.Meter

	loginAttempts  metric.Int64Counter
	tokenRejects   metric.Int64Counter
	tenantMisses   metric.Int64Counter
	projectCreates metric.Int64Counter
}

// New creates a new meter instance
func New(ctx context.Context, cfg Config, serviceName string) (*Meter, error) {
	if !cfg.Enabled {
		return &Meter{meter: otel.Meter("noop")}, nil
	}

	meter := otel.Meter(serviceName)

	m := &Meter{meter: meter}
	var err error

	m.loginAttempts, err = meter.Int64Counter("auth.login.attempts",
		metric.WithDescription("Login attempts by outcome"))
	if err != nil {
		return nil, fmt.Errorf("failed to create login counter: %w", err)
	}

	m.tokenRejects, err = meter.Int64Counter("auth.token.rejected",
		metric.WithDescription("Bearer tokens rejected during authentication"))
	if err != nil {
		return nil, fmt.Errorf("failed to create token counter: %w", err)
	}

	m.tenantMisses, err = meter.Int64Counter("tenancy.resource.misses",
		metric.WithDescription("Resource lookups that found no row in the caller tenant"))
	if err != nil {
		return nil, fmt.Errorf("failed to create tenancy counter: %w", err)
	}

	m.projectCreates, err = meter.Int64Counter("projects.created",
		metric.WithDescription("Projects created"))
	if err != nil {
		return nil, fmt.Errorf("failed to create project counter: %w", err)
	}

	return m, nil
}

// RecordLoginAttempt records a login attempt
func (m *Meter) RecordLoginAttempt(ctx context.Context, opts ...metric.AddOption) {
	if m.loginAttempts != nil {
		m.loginAttempts.Add(ctx, 1, opts...)
	}
}

// RecordTokenReject records a rejected bearer token
func (m *Meter) RecordTokenReject(ctx context.Context) {
	if m.tokenRejects != nil {
		m.tokenRejects.Add(ctx, 1)
	}
}

// RecordTenantMiss records a tenant-scoped lookup that matched no row
func (m *Meter) RecordTenantMiss(ctx context.Context) {
	if m.tenantMisses != nil {
		m.tenantMisses.Add(ctx, 1)
	}
}

// RecordProjectCreate records a created project
func (m *Meter) RecordProjectCreate(ctx context.Context) {
	if m.projectCreates != nil {
		m.projectCreates.Add(ctx, 1)
	}
}
