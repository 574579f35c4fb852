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

package tenant

import "context"

// Service provides organization reads for already-authenticated callers.
// Creation happens only through registration (identity.Service.Register);
// organizations are never deleted here.
type Service struct {
	repo OrganizationRepository
}

// NewService creates a new tenant service
func NewService(repo OrganizationRepository) *Service {
	return &Service{repo: repo}
}

// Get returns the caller's organization.
func (s *Service) Get(ctx context.Context, orgID string) (*Organization, error) {
	return s.repo.GetByID(ctx, orgID)
}

// Stats returns aggregate counts for the caller's organization.
func (s *Service) Stats(ctx context.Context, orgID string) (*Stats, error) {
	return s.repo.Stats(ctx, orgID)
}
