package matching

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Ramsey-B/clover/pkg/models"
)

func TestCompose(t *testing.T) {
	c := NewScoreComposer(DefaultComposerConfig())

	t.Run("TierBonuses", func(t *testing.T) {
		cases := []struct {
			tier     models.RelationshipTier
			expected float64
		}{
			{models.TierSameOrganization, 0.70},
			{models.TierSameEnterprise, 0.65},
			{models.TierSameNetwork, 0.58},
			{models.TierCrossNetwork, 0.50},
		}
		for _, tc := range cases {
			comp := c.Compose(0.50, tc.tier, 50)
			assert.InDelta(t, tc.expected, comp.Final, 0.0001, string(tc.tier))
			assert.Equal(t, 0.0, comp.TrustBonus)
		}
	})

	t.Run("TierBonusOrdering", func(t *testing.T) {
		org := c.Compose(0.42, models.TierSameOrganization, 60)
		ent := c.Compose(0.42, models.TierSameEnterprise, 60)
		net := c.Compose(0.42, models.TierSameNetwork, 60)
		cross := c.Compose(0.42, models.TierCrossNetwork, 60)

		assert.Greater(t, org.Final, ent.Final)
		assert.Greater(t, ent.Final, net.Final)
		assert.Greater(t, net.Final, cross.Final)
	})

	t.Run("HighTrustBonus", func(t *testing.T) {
		comp := c.Compose(0.50, models.TierCrossNetwork, 85)
		assert.InDelta(t, 0.55, comp.Final, 0.0001)
		assert.Equal(t, 0.05, comp.TrustBonus)

		comp = c.Compose(0.50, models.TierCrossNetwork, 84.9)
		assert.InDelta(t, 0.50, comp.Final, 0.0001)
		assert.Equal(t, 0.0, comp.TrustBonus)
	})

	t.Run("ClampsToOne", func(t *testing.T) {
		comp := c.Compose(0.95, models.TierSameOrganization, 90)
		assert.Equal(t, 1.0, comp.Final)
		// bonus attribution stays exact even after clamping
		assert.Equal(t, 0.20, comp.TierBonus)
		assert.Equal(t, 0.05, comp.TrustBonus)
		assert.Equal(t, 0.95, comp.RawScore)
	})
}

func TestClassifyTransfer(t *testing.T) {
	cases := []struct {
		tier       models.RelationshipTier
		complexity models.TransferComplexity
		leadTime   string
	}{
		{models.TierSameOrganization, models.ComplexityNone, "Immediate"},
		{models.TierSameEnterprise, models.ComplexityLow, "1-2 business days"},
		{models.TierSameNetwork, models.ComplexityMedium, "2-3 business days"},
		{models.TierCrossNetwork, models.ComplexityHigh, "3-5 business days"},
	}

	for _, tc := range cases {
		complexity, leadTime := ClassifyTransfer(tc.tier)
		assert.Equal(t, tc.complexity, complexity)
		assert.Equal(t, tc.leadTime, leadTime)
	}
}
