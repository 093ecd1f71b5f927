package matching

import (
	"context"
	"fmt"
	"sort"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// TrustLookup provides reporter reputation scores in [0, 100].
// Implementations must be read-only and safe for concurrent use.
type TrustLookup interface {
	ScoreOf(ctx context.Context, userID string) (float64, error)
}

// EngineConfig contains configuration for the match engine
type EngineConfig struct {
	BaseMinScore            float64 // Raw score below which candidates are dropped before composition (default: 0.30)
	CrossEnterpriseMinScore float64 // Composite minimum for scopes that pair different enterprises (default: 0.40)
	MaxResults              int     // Maximum results to return per source item (default: 100)
	HighValueThreshold      float64 // Estimated value at or above which verification is required (default: 500)
	LowTrustThreshold       float64 // Trust score below which verification is required (default: 50)
	DefaultTrustScore       float64 // Trust substituted when the lookup fails or the reporter is unknown (default: 50)
}

// DefaultEngineConfig returns default engine configuration
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		BaseMinScore:            0.30,
		CrossEnterpriseMinScore: 0.40,
		MaxResults:              100,
		HighValueThreshold:      500,
		LowTrustThreshold:       50,
		DefaultTrustScore:       50,
	}
}

// Engine ranks candidate items against a source item. It holds no mutable
// state; multiple goroutines may call it concurrently.
type Engine struct {
	logger   ectologger.Logger
	scorer   *SimilarityScorer
	resolver *ContextResolver
	composer *ScoreComposer
	trust    TrustLookup
	config   EngineConfig
}

// NewEngine creates a new match engine
func NewEngine(
	logger ectologger.Logger,
	scorer *SimilarityScorer,
	resolver *ContextResolver,
	composer *ScoreComposer,
	trust TrustLookup,
	config EngineConfig,
) *Engine {
	return &Engine{
		logger:   logger,
		scorer:   scorer,
		resolver: resolver,
		composer: composer,
		trust:    trust,
		config:   config,
	}
}

// FindMatches evaluates every candidate against the source item and returns
// match results sorted by composite score descending, ties broken by
// candidate ID ascending. Candidates of the same type as the source, claimed
// candidates, and candidates below the scope's minimum score are dropped.
// One bad candidate never aborts the batch; the only error condition is a
// source item without an ID.
func (e *Engine) FindMatches(ctx context.Context, source models.Item, candidates []models.Item, scope models.ScopeConfig) ([]models.MatchResult, error) {
	ctx, span := tracing.StartSpan(ctx, "matching.Engine.FindMatches")
	defer span.End()

	if source.ID == "" {
		return nil, fmt.Errorf("source item is missing an id")
	}

	log := e.logger.WithContext(ctx).WithFields(map[string]any{
		"source_item_id": source.ID,
		"source_type":    source.Type,
		"candidates":     len(candidates),
		"scope":          scope.Scope,
	})

	log.Debug("Finding matches for item")

	minScore := e.minScoreFor(scope)
	sourceTrust := e.trustOf(ctx, source.ReporterID)

	results := make([]models.MatchResult, 0)
	for _, candidate := range candidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		if candidate.ID == source.ID {
			continue
		}
		if candidate.Type == source.Type {
			continue
		}
		if candidate.Status == models.ItemStatusClaimed {
			continue
		}

		raw, breakdown := e.scorer.Score(source, candidate)
		if raw < e.config.BaseMinScore {
			continue
		}

		candidateTrust := e.trustOf(ctx, candidate.ReporterID)
		avgTrust := (sourceTrust + candidateTrust) / 2

		tier := e.resolver.Resolve(ctx, source, candidate)
		composition := e.composer.Compose(raw, tier, avgTrust)
		if composition.Final < minScore {
			continue
		}

		complexity, leadTime := ClassifyTransfer(tier)
		verify, reasons := e.verification(source, candidate, sourceTrust, candidateTrust, complexity)

		results = append(results, models.MatchResult{
			MatchedItemID:         candidate.ID,
			CompositeScore:        composition.Final,
			Breakdown:             breakdown,
			RelationshipTier:      tier,
			TransferComplexity:    complexity,
			EstimatedTransferTime: leadTime,
			RequiresVerification:  verify,
			VerificationReasons:   reasons,
			SourceTrustScore:      sourceTrust,
			CandidateTrustScore:   candidateTrust,
		})
	}

	sort.Slice(results, func(i, j int) bool {
		if results[i].CompositeScore != results[j].CompositeScore {
			return results[i].CompositeScore > results[j].CompositeScore
		}
		return results[i].MatchedItemID < results[j].MatchedItemID
	})

	limit := scope.Limit
	if limit <= 0 || limit > e.config.MaxResults {
		limit = e.config.MaxResults
	}
	if len(results) > limit {
		results = results[:limit]
	}

	log.WithFields(map[string]any{"match_count": len(results)}).Debug("Found matches")

	return results, nil
}

// FindMatchesWithinOrganization restricts candidates to a single organization
func (e *Engine) FindMatchesWithinOrganization(ctx context.Context, source models.Item, candidates []models.Item, organizationID string) ([]models.MatchResult, error) {
	pool := filterItems(candidates, func(item models.Item) bool {
		return item.OrganizationID == organizationID
	})
	return e.FindMatches(ctx, source, pool, models.ScopeConfig{
		Scope:          models.ScopeOrganization,
		OrganizationID: organizationID,
	})
}

// FindMatchesWithinEnterprise restricts candidates to a single enterprise
func (e *Engine) FindMatchesWithinEnterprise(ctx context.Context, source models.Item, candidates []models.Item, enterpriseID string) ([]models.MatchResult, error) {
	pool := filterItems(candidates, func(item models.Item) bool {
		return item.EnterpriseID == enterpriseID
	})
	return e.FindMatches(ctx, source, pool, models.ScopeConfig{
		Scope:        models.ScopeEnterprise,
		EnterpriseID: enterpriseID,
	})
}

// FindMatchesWithinNetwork restricts candidates to enterprises belonging to
// the given network. Enterprises whose directory lookup fails are excluded
// from the pool.
func (e *Engine) FindMatchesWithinNetwork(ctx context.Context, source models.Item, candidates []models.Item, networkID string) ([]models.MatchResult, error) {
	pool := filterItems(candidates, func(item models.Item) bool {
		itemNetwork := e.resolver.networkOf(ctx, item.EnterpriseID)
		return itemNetwork != nil && *itemNetwork == networkID
	})
	return e.FindMatches(ctx, source, pool, models.ScopeConfig{
		Scope:     models.ScopeNetwork,
		NetworkID: networkID,
	})
}

// FindMatchesAcrossEnterprises restricts candidates to an explicit list of
// enterprises
func (e *Engine) FindMatchesAcrossEnterprises(ctx context.Context, source models.Item, candidates []models.Item, enterpriseIDs []string) ([]models.MatchResult, error) {
	allowed := make(map[string]bool, len(enterpriseIDs))
	for _, id := range enterpriseIDs {
		allowed[id] = true
	}
	pool := filterItems(candidates, func(item models.Item) bool {
		return allowed[item.EnterpriseID]
	})
	return e.FindMatches(ctx, source, pool, models.ScopeConfig{
		Scope:         models.ScopeEnterprises,
		EnterpriseIDs: enterpriseIDs,
	})
}

func (e *Engine) minScoreFor(scope models.ScopeConfig) float64 {
	if scope.MinScore != nil {
		return *scope.MinScore
	}
	if scope.CrossesEnterprises() {
		return e.config.CrossEnterpriseMinScore
	}
	return e.config.BaseMinScore
}

// trustOf resolves a reporter's trust score, substituting the neutral
// default when the reporter is unknown or the lookup fails
func (e *Engine) trustOf(ctx context.Context, reporterID string) float64 {
	if reporterID == "" {
		return e.config.DefaultTrustScore
	}

	score, err := e.trust.ScoreOf(ctx, reporterID)
	if err != nil {
		e.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"reporter_id": reporterID,
		}).Warn("trust lookup failed, using default score")
		return e.config.DefaultTrustScore
	}
	return score
}

func (e *Engine) verification(source, candidate models.Item, sourceTrust, candidateTrust float64, complexity models.TransferComplexity) (bool, []string) {
	var reasons []string

	if source.EstimatedValue >= e.config.HighValueThreshold || candidate.EstimatedValue >= e.config.HighValueThreshold {
		reasons = append(reasons, fmt.Sprintf("item value meets or exceeds $%.0f", e.config.HighValueThreshold))
	}
	if sourceTrust < e.config.LowTrustThreshold {
		reasons = append(reasons, "source reporter trust score is below threshold")
	}
	if candidateTrust < e.config.LowTrustThreshold {
		reasons = append(reasons, "candidate reporter trust score is below threshold")
	}
	if complexity == models.ComplexityHigh {
		reasons = append(reasons, "cross-network transfer requires manual coordination")
	}

	return len(reasons) > 0, reasons
}

func filterItems(items []models.Item, keep func(models.Item) bool) []models.Item {
	filtered := make([]models.Item, 0, len(items))
	for _, item := range items {
		if keep(item) {
			filtered = append(filtered, item)
		}
	}
	return filtered
}
