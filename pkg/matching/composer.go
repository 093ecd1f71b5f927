package matching

import "github.com/Ramsey-B/clover/pkg/models"

// ComposerConfig holds the bonus values added on top of the raw similarity
// score during composition.
type ComposerConfig struct {
	SameOrganizationBonus float64
	SameEnterpriseBonus   float64
	SameNetworkBonus      float64
	TrustBonus            float64
	HighTrustThreshold    float64
}

// DefaultComposerConfig returns the production bonus values
func DefaultComposerConfig() ComposerConfig {
	return ComposerConfig{
		SameOrganizationBonus: 0.20,
		SameEnterpriseBonus:   0.15,
		SameNetworkBonus:      0.08,
		TrustBonus:            0.05,
		HighTrustThreshold:    85,
	}
}

// Composition records each bonus component applied during score
// composition. Bonuses are tracked as granted, before clamping, so the
// attribution stays exact even when the final score clamps to 1.0.
type Composition struct {
	RawScore   float64
	TierBonus  float64
	TrustBonus float64
	Final      float64
}

// ScoreComposer turns a raw similarity score into the final composite score
// by adding relationship-tier and trust bonuses, then clamping to [0, 1].
type ScoreComposer struct {
	config ComposerConfig
}

func NewScoreComposer(config ComposerConfig) *ScoreComposer {
	return &ScoreComposer{config: config}
}

// Compose applies the flat tier bonus and, when the average of the two
// reporters' trust scores meets the high-trust threshold, the trust bonus.
func (c *ScoreComposer) Compose(rawScore float64, tier models.RelationshipTier, avgTrust float64) Composition {
	comp := Composition{RawScore: rawScore}

	switch tier {
	case models.TierSameOrganization:
		comp.TierBonus = c.config.SameOrganizationBonus
	case models.TierSameEnterprise:
		comp.TierBonus = c.config.SameEnterpriseBonus
	case models.TierSameNetwork:
		comp.TierBonus = c.config.SameNetworkBonus
	case models.TierCrossNetwork:
		comp.TierBonus = 0
	}

	if avgTrust >= c.config.HighTrustThreshold {
		comp.TrustBonus = c.config.TrustBonus
	}

	final := rawScore + comp.TierBonus + comp.TrustBonus
	if final > 1.0 {
		final = 1.0
	}
	if final < 0.0 {
		final = 0.0
	}
	comp.Final = final

	return comp
}

// ClassifyTransfer maps a relationship tier to the expected logistics
// difficulty and a human-readable lead time.
func ClassifyTransfer(tier models.RelationshipTier) (models.TransferComplexity, string) {
	switch tier {
	case models.TierSameOrganization:
		return models.ComplexityNone, "Immediate"
	case models.TierSameEnterprise:
		return models.ComplexityLow, "1-2 business days"
	case models.TierSameNetwork:
		return models.ComplexityMedium, "2-3 business days"
	default:
		return models.ComplexityHigh, "3-5 business days"
	}
}
