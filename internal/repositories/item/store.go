package item

import (
	"context"

	"github.com/Ramsey-B/clover/pkg/models"
)

// ScopedStore binds the repository to a single tenant so it can serve as the
// item source for report aggregation.
type ScopedStore struct {
	repo     *Repository
	tenantID string
}

// NewScopedStore creates a tenant-bound item store
func NewScopedStore(repo *Repository, tenantID string) *ScopedStore {
	return &ScopedStore{
		repo:     repo,
		tenantID: tenantID,
	}
}

func (s *ScopedStore) FindCandidates(ctx context.Context, scope models.ScopeConfig) ([]models.Item, error) {
	return s.repo.FindCandidates(ctx, s.tenantID, scope)
}

func (s *ScopedStore) FindOpenLostItems(ctx context.Context, limit int) ([]models.Item, error) {
	return s.repo.FindOpenLostItems(ctx, s.tenantID, limit)
}
