package reporting

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/Gobusters/ectologger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

type stubStore struct {
	items []models.Item
}

func (s *stubStore) FindCandidates(_ context.Context, _ models.ScopeConfig) ([]models.Item, error) {
	return s.items, nil
}

func (s *stubStore) FindOpenLostItems(_ context.Context, limit int) ([]models.Item, error) {
	lost := make([]models.Item, 0)
	for _, item := range s.items {
		if item.Type == models.ItemTypeLost && item.Status.IsOpen() {
			lost = append(lost, item)
		}
	}
	if len(lost) > limit {
		lost = lost[:limit]
	}
	return lost, nil
}

type stubDirectory struct {
	networks map[string]*string
}

func (d *stubDirectory) EnterpriseOf(_ context.Context, organizationID string) (string, error) {
	return "", fmt.Errorf("unknown organization %s", organizationID)
}

func (d *stubDirectory) NetworkOf(_ context.Context, enterpriseID string) (*string, error) {
	networkID, ok := d.networks[enterpriseID]
	if !ok {
		return nil, fmt.Errorf("unknown enterprise %s", enterpriseID)
	}
	return networkID, nil
}

type stubTrust struct{}

func (t *stubTrust) ScoreOf(_ context.Context, userID string) (float64, error) {
	return 0, fmt.Errorf("unknown reporter %s", userID)
}

var day0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func testItem(id string, itemType models.ItemType, title, category, building, orgID, entID string) models.Item {
	return models.Item{
		ID:             id,
		Type:           itemType,
		Status:         models.ItemStatusOpen,
		Title:          title,
		Category:       category,
		Location:       models.Location{Building: building},
		ReportedDate:   day0,
		OrganizationID: orgID,
		EnterpriseID:   entID,
		ReporterID:     "reporter-" + id,
	}
}

func newTestAggregator(store ItemStore) *Aggregator {
	logger := ectologger.NewEctoLogger(func(_ ectologger.EctoLogMessage) {})
	campusNet := "network-1"
	directory := &stubDirectory{networks: map[string]*string{
		"ent-1": &campusNet,
		"ent-2": &campusNet,
	}}

	engine := matching.NewEngine(
		logger,
		matching.NewSimilarityScorer(matching.DefaultScorerConfig()),
		matching.NewContextResolver(directory, logger),
		matching.NewScoreComposer(matching.DefaultComposerConfig()),
		&stubTrust{},
		matching.DefaultEngineConfig(),
	)

	return NewAggregator(logger, store, engine, DefaultAggregatorConfig())
}

func testWorld() []models.Item {
	claimed := testItem("found-claimed", models.ItemTypeFound, "Blue Nike Backpack", "backpack", "Building A", "org-1", "ent-1")
	claimed.Status = models.ItemStatusClaimed

	// a malformed row: open but missing its id
	bad := testItem("", models.ItemTypeLost, "Broken Row", "misc", "Building C", "org-1", "ent-1")

	return []models.Item{
		testItem("lost-1", models.ItemTypeLost, "Blue Nike Backpack", "backpack", "Building A", "org-1", "ent-1"),
		testItem("found-1", models.ItemTypeFound, "Backpack blue nike", "backpack", "Building A", "org-1", "ent-1"),
		testItem("lost-2", models.ItemTypeLost, "Red Umbrella", "umbrella", "Building B", "org-2", "ent-2"),
		testItem("found-2", models.ItemTypeFound, "Red Umbrella", "umbrella", "Building B", "org-2", "ent-2"),
		testItem("lost-3", models.ItemTypeLost, "Gold Pocket Watch", "jewelry", "Building D", "org-1", "ent-1"),
		claimed,
		bad,
	}
}

func TestGenerateReport(t *testing.T) {
	a := newTestAggregator(&stubStore{items: testWorld()})

	report, err := a.GenerateReport(context.Background(), models.ScopeConfig{ScopeID: "system", Scope: models.ScopeAll})
	require.NoError(t, err)

	// claimed item is not analyzed, the malformed row is analyzed but skipped
	assert.Equal(t, 6, report.ItemsAnalyzed)
	assert.Equal(t, 4, report.ItemsWithMatches)
	assert.Equal(t, 1, report.ItemsWithoutMatches)
	assert.Equal(t, 4, report.MatchesFound)
	assert.Equal(t, 4, report.SameEnterpriseMatches)
	assert.Equal(t, 0, report.CrossEnterpriseMatches)
	assert.Equal(t, 4, report.TierDistribution[models.TierSameOrganization])
	assert.Equal(t, "system", report.ScopeID)

	assert.Greater(t, report.AverageScore, 0.0)
	assert.LessOrEqual(t, report.AverageScore, 1.0)

	require.Len(t, report.TopMatches, 4)
	for i := 1; i < len(report.TopMatches); i++ {
		assert.GreaterOrEqual(t, report.TopMatches[i-1].BestMatch.CompositeScore, report.TopMatches[i].BestMatch.CompositeScore)
	}
}

func TestGenerateReportEmptyScope(t *testing.T) {
	a := newTestAggregator(&stubStore{items: nil})

	report, err := a.GenerateReport(context.Background(), models.ScopeConfig{Scope: models.ScopeAll})
	require.NoError(t, err)

	assert.Equal(t, 0, report.ItemsAnalyzed)
	assert.Equal(t, 0, report.MatchesFound)
	assert.Equal(t, 0.0, report.AverageScore)
	assert.Empty(t, report.TopMatches)
}

func TestFindBestMatchesAcrossSystem(t *testing.T) {
	a := newTestAggregator(&stubStore{items: testWorld()})

	t.Run("ReturnsBestMatchPerLostItem", func(t *testing.T) {
		matches, err := a.FindBestMatchesAcrossSystem(context.Background(), 10)
		require.NoError(t, err)
		require.Len(t, matches, 2)

		assert.Equal(t, "lost-1", matches[0].ItemID)
		assert.Equal(t, "found-1", matches[0].BestMatch.MatchedItemID)
		assert.Equal(t, "lost-2", matches[1].ItemID)
		assert.Equal(t, "found-2", matches[1].BestMatch.MatchedItemID)
	})

	t.Run("LimitApplies", func(t *testing.T) {
		matches, err := a.FindBestMatchesAcrossSystem(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, matches, 1)
		assert.Equal(t, "lost-1", matches[0].ItemID)
	})
}
