package directory

import (
	"context"
)

// ScopedResolver binds the repository to a single tenant so it can serve as
// the match engine's directory lookup.
type ScopedResolver struct {
	repo     *Repository
	tenantID string
}

// NewScopedResolver creates a tenant-bound directory resolver
func NewScopedResolver(repo *Repository, tenantID string) *ScopedResolver {
	return &ScopedResolver{
		repo:     repo,
		tenantID: tenantID,
	}
}

func (r *ScopedResolver) EnterpriseOf(ctx context.Context, organizationID string) (string, error) {
	return r.repo.EnterpriseOf(ctx, r.tenantID, organizationID)
}

func (r *ScopedResolver) NetworkOf(ctx context.Context, enterpriseID string) (*string, error) {
	return r.repo.NetworkOf(ctx, r.tenantID, enterpriseID)
}
