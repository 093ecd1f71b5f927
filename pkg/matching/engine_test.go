package matching

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/models"
)

// stubTrust is an in-memory TrustLookup for tests
type stubTrust struct {
	scores map[string]float64
}

func (t *stubTrust) ScoreOf(_ context.Context, userID string) (float64, error) {
	if score, ok := t.scores[userID]; ok {
		return score, nil
	}
	return 0, fmt.Errorf("unknown reporter %s", userID)
}

func newTestEngine(directory DirectoryResolver, trust TrustLookup) *Engine {
	logger := noopLogger()
	return NewEngine(
		logger,
		NewSimilarityScorer(DefaultScorerConfig()),
		NewContextResolver(directory, logger),
		NewScoreComposer(DefaultComposerConfig()),
		trust,
		DefaultEngineConfig(),
	)
}

func testDirectory() *stubDirectory {
	campusNet := "network-1"
	return &stubDirectory{
		networks: map[string]*string{
			"ent-1": &campusNet,
			"ent-2": &campusNet,
			"ent-3": nil,
		},
	}
}

var day0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func lostItem(id string) models.Item {
	return models.Item{
		ID:             id,
		Type:           models.ItemTypeLost,
		Status:         models.ItemStatusOpen,
		Title:          "Blue Nike Backpack",
		Category:       "backpack",
		Location:       models.Location{Building: "Building A", Room: strPtr("101")},
		ReportedDate:   day0,
		OrganizationID: "org-1",
		EnterpriseID:   "ent-1",
		ReporterID:     "reporter-1",
	}
}

func foundItem(id string) models.Item {
	item := lostItem(id)
	item.Type = models.ItemTypeFound
	item.Title = "Backpack blue nike"
	item.ReporterID = "reporter-2"
	return item
}

func TestFindMatches(t *testing.T) {
	ctx := context.Background()

	t.Run("SameOrganizationHighTrustClampsToOne", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{
			"reporter-1": 90,
			"reporter-2": 90,
		}})

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{foundItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		require.Len(t, results, 1)

		match := results[0]
		assert.Equal(t, "item-2", match.MatchedItemID)
		assert.Equal(t, 1.0, match.CompositeScore)
		assert.Equal(t, 1.0, match.Breakdown["title"])
		assert.Equal(t, 1.0, match.Breakdown["category"])
		assert.Equal(t, 1.0, match.Breakdown["location"])
		assert.Equal(t, 1.0, match.Breakdown["time"])
		assert.Equal(t, models.TierSameOrganization, match.RelationshipTier)
		assert.Equal(t, models.ComplexityNone, match.TransferComplexity)
		assert.Equal(t, "Immediate", match.EstimatedTransferTime)
		assert.False(t, match.RequiresVerification)
		assert.Equal(t, 90.0, match.SourceTrustScore)
		assert.Equal(t, 90.0, match.CandidateTrustScore)
	})

	t.Run("SameNetworkMatch", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{
			"reporter-1": 60,
			"reporter-2": 60,
		}})

		source := lostItem("item-1")
		source.EstimatedValue = 50

		candidate := foundItem("item-2")
		candidate.OrganizationID = "org-9"
		candidate.EnterpriseID = "ent-2"
		candidate.Location = models.Location{Building: "Building Z"}
		candidate.EstimatedValue = 50

		results, err := e.FindMatches(ctx, source, []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeNetwork, NetworkID: "network-1"})
		require.NoError(t, err)
		require.Len(t, results, 1)

		match := results[0]
		assert.Equal(t, models.TierSameNetwork, match.RelationshipTier)
		assert.Equal(t, models.ComplexityMedium, match.TransferComplexity)
		assert.Equal(t, "2-3 business days", match.EstimatedTransferTime)
		assert.False(t, match.RequiresVerification)
	})

	t.Run("DirectoryFailureStillReturnsResult", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{
			"reporter-1": 60,
			"reporter-2": 60,
		}})

		candidate := foundItem("item-2")
		candidate.OrganizationID = "org-9"
		candidate.EnterpriseID = "ent-unknown"

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeAll})
		require.NoError(t, err)
		require.Len(t, results, 1)

		match := results[0]
		assert.Equal(t, models.TierCrossNetwork, match.RelationshipTier)
		assert.Equal(t, models.ComplexityHigh, match.TransferComplexity)
		assert.Equal(t, "3-5 business days", match.EstimatedTransferTime)
		assert.True(t, match.RequiresVerification)
		assert.Contains(t, match.VerificationReasons, "cross-network transfer requires manual coordination")
	})

	t.Run("SameTypeNeverMatches", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{lostItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("ClaimedCandidatesAreExcluded", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		claimed := foundItem("item-2")
		claimed.Status = models.ItemStatusClaimed

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{claimed}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("LowRawScoreIsExcluded", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		candidate := foundItem("item-2")
		candidate.Title = "Leather Wallet"
		candidate.Category = "wallet"
		candidate.Location = models.Location{Building: "Building Z"}
		candidate.ReportedDate = day0.Add(500 * time.Hour)

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		assert.Empty(t, results)
	})

	t.Run("HighValueRequiresVerification", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{
			"reporter-1": 90,
			"reporter-2": 90,
		}})

		candidate := foundItem("item-2")
		candidate.EstimatedValue = 500

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].RequiresVerification)
		assert.Contains(t, results[0].VerificationReasons, "item value meets or exceeds $500")
	})

	t.Run("LowTrustRequiresVerification", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{
			"reporter-1": 90,
			"reporter-2": 40,
		}})

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{foundItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.True(t, results[0].RequiresVerification)
		assert.Contains(t, results[0].VerificationReasons, "candidate reporter trust score is below threshold")
	})

	t.Run("TrustLookupFailureDefaultsToNeutral", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		results, err := e.FindMatches(ctx, lostItem("item-1"), []models.Item{foundItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, 50.0, results[0].SourceTrustScore)
		assert.Equal(t, 50.0, results[0].CandidateTrustScore)
		assert.False(t, results[0].RequiresVerification)
	})

	t.Run("CrossEnterpriseScopesUseStricterMinimum", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		source := lostItem("item-1")
		source.Title = "Square Umbrella"
		source.Location = models.Location{Building: "Building A"}

		// shares only category and report date: raw score 0.30
		candidate := foundItem("item-2")
		candidate.Title = "Leather Wallet"
		candidate.OrganizationID = "org-9"
		candidate.EnterpriseID = "ent-3"
		candidate.Location = models.Location{Building: "Building Z"}

		results, err := e.FindMatches(ctx, source, []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeAll})
		require.NoError(t, err)
		assert.Empty(t, results)

		// an explicit minimum overrides the scope default
		minScore := 0.30
		results, err = e.FindMatches(ctx, source, []models.Item{candidate}, models.ScopeConfig{Scope: models.ScopeAll, MinScore: &minScore})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("TieBreakIsDeterministic", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		candidates := []models.Item{foundItem("item-b"), foundItem("item-a")}
		results, err := e.FindMatches(ctx, lostItem("item-1"), candidates, models.ScopeConfig{Scope: models.ScopeOrganization})
		require.NoError(t, err)
		require.Len(t, results, 2)
		assert.Equal(t, results[0].CompositeScore, results[1].CompositeScore)
		assert.Equal(t, "item-a", results[0].MatchedItemID)
		assert.Equal(t, "item-b", results[1].MatchedItemID)
	})

	t.Run("LimitApplies", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		candidates := []models.Item{foundItem("item-a"), foundItem("item-b"), foundItem("item-c")}
		results, err := e.FindMatches(ctx, lostItem("item-1"), candidates, models.ScopeConfig{Scope: models.ScopeOrganization, Limit: 1})
		require.NoError(t, err)
		assert.Len(t, results, 1)
	})

	t.Run("MissingSourceIDIsAnError", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		source := lostItem("")
		_, err := e.FindMatches(ctx, source, []models.Item{foundItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		assert.Error(t, err)
	})

	t.Run("CancelledContextStopsTheScan", func(t *testing.T) {
		e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

		cancelled, cancel := context.WithCancel(context.Background())
		cancel()

		_, err := e.FindMatches(cancelled, lostItem("item-1"), []models.Item{foundItem("item-2")}, models.ScopeConfig{Scope: models.ScopeOrganization})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestFindMatchesConvenienceVariants(t *testing.T) {
	ctx := context.Background()
	e := newTestEngine(testDirectory(), &stubTrust{scores: map[string]float64{}})

	inOrg := foundItem("item-org")

	otherOrg := foundItem("item-other-org")
	otherOrg.OrganizationID = "org-9"

	otherEnterprise := foundItem("item-other-ent")
	otherEnterprise.OrganizationID = "org-9"
	otherEnterprise.EnterpriseID = "ent-2"

	networkless := foundItem("item-networkless")
	networkless.OrganizationID = "org-9"
	networkless.EnterpriseID = "ent-3"

	candidates := []models.Item{inOrg, otherOrg, otherEnterprise, networkless}

	t.Run("WithinOrganization", func(t *testing.T) {
		results, err := e.FindMatchesWithinOrganization(ctx, lostItem("item-1"), candidates, "org-1")
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "item-org", results[0].MatchedItemID)
	})

	t.Run("WithinEnterprise", func(t *testing.T) {
		results, err := e.FindMatchesWithinEnterprise(ctx, lostItem("item-1"), candidates, "ent-1")
		require.NoError(t, err)
		require.Len(t, results, 2)
	})

	t.Run("WithinNetwork", func(t *testing.T) {
		results, err := e.FindMatchesWithinNetwork(ctx, lostItem("item-1"), candidates, "network-1")
		require.NoError(t, err)
		// the networkless enterprise is filtered out of the pool
		require.Len(t, results, 3)
	})

	t.Run("AcrossEnterprises", func(t *testing.T) {
		results, err := e.FindMatchesAcrossEnterprises(ctx, lostItem("item-1"), candidates, []string{"ent-2"})
		require.NoError(t, err)
		require.Len(t, results, 1)
		assert.Equal(t, "item-other-ent", results[0].MatchedItemID)
	})
}
