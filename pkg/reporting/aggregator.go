// Package reporting builds matching statistics over whole scopes of items.
package reporting

import (
	"context"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// ItemStore retrieves items for analysis. The aggregator never queries
// storage directly.
type ItemStore interface {
	// FindCandidates returns the open items within the scope
	FindCandidates(ctx context.Context, scope models.ScopeConfig) ([]models.Item, error)
	// FindOpenLostItems returns a bounded sample of open lost items
	// across the whole system
	FindOpenLostItems(ctx context.Context, limit int) ([]models.Item, error)
}

// AggregatorConfig contains configuration for report generation
type AggregatorConfig struct {
	TopMatchesLimit      int // Best matches surfaced per report (default: 10)
	SystemScanSampleSize int // Open lost items sampled by the system-wide scan (default: 200)
}

// DefaultAggregatorConfig returns default aggregator configuration
func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		TopMatchesLimit:      10,
		SystemScanSampleSize: 200,
	}
}

// Aggregator runs the match engine over every open item in a scope and
// accumulates statistics. One failing item never aborts a report.
type Aggregator struct {
	logger ectologger.Logger
	store  ItemStore
	engine *matching.Engine
	config AggregatorConfig
}

// NewAggregator creates a new report aggregator
func NewAggregator(logger ectologger.Logger, store ItemStore, engine *matching.Engine, config AggregatorConfig) *Aggregator {
	return &Aggregator{
		logger: logger,
		store:  store,
		engine: engine,
		config: config,
	}
}

// GenerateReport analyzes every open item in the scope against the other
// items in the same scope and returns aggregate matching statistics. Items
// that fail to score are logged and skipped so the report always completes.
func (a *Aggregator) GenerateReport(ctx context.Context, scope models.ScopeConfig) (*models.MatchReport, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Aggregator.GenerateReport")
	defer span.End()

	log := a.logger.WithContext(ctx).WithFields(map[string]any{
		"scope":    scope.Scope,
		"scope_id": scope.ScopeID,
	})

	items, err := a.store.FindCandidates(ctx, scope)
	if err != nil {
		log.WithError(err).Error("failed to load items for report")
		return nil, err
	}

	report := &models.MatchReport{
		ScopeID:          scope.ScopeID,
		TierDistribution: make(map[models.RelationshipTier]int),
		TopMatches:       []models.TopMatch{},
	}

	scoreSum := 0.0
	for _, item := range items {
		if !item.Status.IsOpen() {
			continue
		}

		report.ItemsAnalyzed++

		matches, err := a.engine.FindMatches(ctx, item, items, scope)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			log.WithError(err).WithFields(map[string]any{"item_id": item.ID}).Warn("skipping item that failed to match")
			continue
		}

		if len(matches) == 0 {
			report.ItemsWithoutMatches++
			continue
		}

		report.ItemsWithMatches++
		report.MatchesFound += len(matches)

		for _, match := range matches {
			scoreSum += match.CompositeScore
			if match.RelationshipTier == models.TierSameOrganization || match.RelationshipTier == models.TierSameEnterprise {
				report.SameEnterpriseMatches++
			} else {
				report.CrossEnterpriseMatches++
			}
		}

		best := matches[0]
		report.TierDistribution[best.RelationshipTier]++
		report.TopMatches = append(report.TopMatches, models.TopMatch{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			BestMatch: best,
		})
	}

	if report.MatchesFound > 0 {
		report.AverageScore = scoreSum / float64(report.MatchesFound)
	}

	sortTopMatches(report.TopMatches)
	if len(report.TopMatches) > a.config.TopMatchesLimit {
		report.TopMatches = report.TopMatches[:a.config.TopMatchesLimit]
	}

	log.WithFields(map[string]any{
		"items_analyzed": report.ItemsAnalyzed,
		"matches_found":  report.MatchesFound,
	}).Info("Generated match report")

	return report, nil
}

// FindBestMatchesAcrossSystem scans a bounded sample of open lost items
// across the whole system and returns the top scoring matches, one best
// match per item. Intended for dashboard surfacing, not exhaustive analysis.
func (a *Aggregator) FindBestMatchesAcrossSystem(ctx context.Context, limit int) ([]models.TopMatch, error) {
	ctx, span := tracing.StartSpan(ctx, "reporting.Aggregator.FindBestMatchesAcrossSystem")
	defer span.End()

	if limit <= 0 {
		limit = a.config.TopMatchesLimit
	}

	lostItems, err := a.store.FindOpenLostItems(ctx, a.config.SystemScanSampleSize)
	if err != nil {
		return nil, err
	}

	scope := models.ScopeConfig{Scope: models.ScopeAll}
	candidates, err := a.store.FindCandidates(ctx, scope)
	if err != nil {
		return nil, err
	}

	topMatches := make([]models.TopMatch, 0, len(lostItems))
	for _, item := range lostItems {
		matches, err := a.engine.FindMatches(ctx, item, candidates, scope)
		if err != nil {
			if ctx.Err() != nil {
				return nil, err
			}
			a.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{"item_id": item.ID}).Warn("skipping item that failed to match")
			continue
		}
		if len(matches) == 0 {
			continue
		}

		topMatches = append(topMatches, models.TopMatch{
			ItemID:    item.ID,
			ItemTitle: item.Title,
			BestMatch: matches[0],
		})
	}

	sortTopMatches(topMatches)
	if len(topMatches) > limit {
		topMatches = topMatches[:limit]
	}

	return topMatches, nil
}

func sortTopMatches(matches []models.TopMatch) {
	sort.Slice(matches, func(i, j int) bool {
		if matches[i].BestMatch.CompositeScore != matches[j].BestMatch.CompositeScore {
			return matches[i].BestMatch.CompositeScore > matches[j].BestMatch.CompositeScore
		}
		return matches[i].ItemID < matches[j].ItemID
	})
}
