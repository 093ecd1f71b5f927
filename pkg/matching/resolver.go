package matching

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
)

// DirectoryResolver looks up the organization hierarchy. Implementations
// must be read-only and safe for concurrent use.
type DirectoryResolver interface {
	// EnterpriseOf returns the enterprise that owns the organization
	EnterpriseOf(ctx context.Context, organizationID string) (string, error)
	// NetworkOf returns the network the enterprise belongs to, or nil when
	// the enterprise has not joined one
	NetworkOf(ctx context.Context, enterpriseID string) (*string, error)
}

// ContextResolver determines the relationship tier between the custodians
// of two items. Directory failures never surface as errors; an unresolvable
// enterprise is treated as having no network, which forces the most
// conservative tier.
type ContextResolver struct {
	directory DirectoryResolver
	logger    ectologger.Logger
}

func NewContextResolver(directory DirectoryResolver, logger ectologger.Logger) *ContextResolver {
	return &ContextResolver{
		directory: directory,
		logger:    logger,
	}
}

// Resolve classifies the relationship between the two items' custodians,
// from most to least specific.
func (r *ContextResolver) Resolve(ctx context.Context, source, candidate models.Item) models.RelationshipTier {
	if source.OrganizationID != "" && source.OrganizationID == candidate.OrganizationID {
		return models.TierSameOrganization
	}

	if source.EnterpriseID != "" && source.EnterpriseID == candidate.EnterpriseID {
		return models.TierSameEnterprise
	}

	sourceNetwork := r.networkOf(ctx, source.EnterpriseID)
	candidateNetwork := r.networkOf(ctx, candidate.EnterpriseID)
	if sourceNetwork != nil && candidateNetwork != nil && *sourceNetwork == *candidateNetwork {
		return models.TierSameNetwork
	}

	return models.TierCrossNetwork
}

func (r *ContextResolver) networkOf(ctx context.Context, enterpriseID string) *string {
	if enterpriseID == "" {
		return nil
	}

	networkID, err := r.directory.NetworkOf(ctx, enterpriseID)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"enterprise_id": enterpriseID,
		}).Warn("directory lookup failed, treating enterprise as networkless")
		return nil
	}
	return networkID
}
