package matching

import (
	"context"
	"fmt"
	"testing"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/models"
)

// stubDirectory is an in-memory DirectoryResolver for tests
type stubDirectory struct {
	enterprises map[string]string  // organization id -> enterprise id
	networks    map[string]*string // enterprise id -> network id
}

func (d *stubDirectory) EnterpriseOf(_ context.Context, organizationID string) (string, error) {
	enterpriseID, ok := d.enterprises[organizationID]
	if !ok {
		return "", fmt.Errorf("unknown organization %s", organizationID)
	}
	return enterpriseID, nil
}

func (d *stubDirectory) NetworkOf(_ context.Context, enterpriseID string) (*string, error) {
	networkID, ok := d.networks[enterpriseID]
	if !ok {
		return nil, fmt.Errorf("unknown enterprise %s", enterpriseID)
	}
	return networkID, nil
}

func noopLogger() ectologger.Logger {
	return ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
}

func TestResolve(t *testing.T) {
	campusNet := "network-1"
	directory := &stubDirectory{
		networks: map[string]*string{
			"ent-1": &campusNet,
			"ent-2": &campusNet,
			"ent-3": nil,
		},
	}
	r := NewContextResolver(directory, noopLogger())
	ctx := context.Background()

	t.Run("SameOrganization", func(t *testing.T) {
		source := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		candidate := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		assert.Equal(t, models.TierSameOrganization, r.Resolve(ctx, source, candidate))
	})

	t.Run("SameEnterprise", func(t *testing.T) {
		source := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		candidate := models.Item{OrganizationID: "org-2", EnterpriseID: "ent-1"}
		assert.Equal(t, models.TierSameEnterprise, r.Resolve(ctx, source, candidate))
	})

	t.Run("SameNetwork", func(t *testing.T) {
		source := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		candidate := models.Item{OrganizationID: "org-3", EnterpriseID: "ent-2"}
		assert.Equal(t, models.TierSameNetwork, r.Resolve(ctx, source, candidate))
	})

	t.Run("NetworklessEnterpriseIsCrossNetwork", func(t *testing.T) {
		source := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		candidate := models.Item{OrganizationID: "org-4", EnterpriseID: "ent-3"}
		assert.Equal(t, models.TierCrossNetwork, r.Resolve(ctx, source, candidate))
	})

	t.Run("DirectoryFailureIsCrossNetwork", func(t *testing.T) {
		source := models.Item{OrganizationID: "org-1", EnterpriseID: "ent-1"}
		candidate := models.Item{OrganizationID: "org-5", EnterpriseID: "ent-unknown"}
		assert.Equal(t, models.TierCrossNetwork, r.Resolve(ctx, source, candidate))
	})

	t.Run("EmptyOrganizationIDsDoNotMatch", func(t *testing.T) {
		source := models.Item{EnterpriseID: "ent-1"}
		candidate := models.Item{EnterpriseID: "ent-2"}
		assert.Equal(t, models.TierSameNetwork, r.Resolve(ctx, source, candidate))
	})
}
