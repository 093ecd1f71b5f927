// Package processor consumes partner item reports, stores them, and runs
// matching against the tenant's open items.
package processor

import (
	"context"
	"fmt"

	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"

	"github.com/Ramsey-B/clover/internal/repositories/directory"
	"github.com/Ramsey-B/clover/internal/repositories/item"
	"github.com/Ramsey-B/clover/internal/repositories/trust"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var validate = validator.New()

// Processor handles partner item report intake
type Processor struct {
	logger       ectologger.Logger
	items        *item.Repository
	directories  *directory.Repository
	trustScores  *trust.Repository
	emitter      *events.Emitter
	scorer       *matching.SimilarityScorer
	composer     *matching.ScoreComposer
	engineConfig matching.EngineConfig
}

// NewProcessor creates a new intake processor
func NewProcessor(
	logger ectologger.Logger,
	items *item.Repository,
	directories *directory.Repository,
	trustScores *trust.Repository,
	emitter *events.Emitter,
	engineConfig matching.EngineConfig,
) *Processor {
	return &Processor{
		logger:       logger,
		items:        items,
		directories:  directories,
		trustScores:  trustScores,
		emitter:      emitter,
		scorer:       matching.NewSimilarityScorer(matching.DefaultScorerConfig()),
		composer:     matching.NewScoreComposer(matching.DefaultComposerConfig()),
		engineConfig: engineConfig,
	}
}

// engineFor builds a match engine bound to one tenant's directory and trust
// data
func (p *Processor) engineFor(tenantID string) *matching.Engine {
	resolver := matching.NewContextResolver(directory.NewScopedResolver(p.directories, tenantID), p.logger)
	lookup := trust.NewScopedLookup(p.trustScores, tenantID)
	return matching.NewEngine(p.logger, p.scorer, resolver, p.composer, lookup, p.engineConfig)
}

// HandleMessage processes one partner item report. Returning an error leaves
// the message uncommitted so it is retried.
func (p *Processor) HandleMessage(ctx context.Context, msg *kafka.IncomingMessage) error {
	ctx, span := tracing.StartSpan(ctx, "processor.Processor.HandleMessage")
	defer span.End()

	tenantID := msg.GetTenantID()
	log := p.logger.WithContext(ctx).WithFields(map[string]any{
		"tenant_id": tenantID,
		"partner":   msg.ItemReport.Partner,
		"offset":    msg.Offset,
	})

	if tenantID == "" {
		// poison message, committing is the only way forward
		log.Error("Item report is missing a tenant id, skipping")
		return nil
	}

	report := msg.ItemReport.Report
	if err := validate.Struct(report); err != nil {
		log.WithError(err).Error("Item report failed validation, skipping")
		return nil
	}

	created, err := p.items.Create(ctx, tenantID, report)
	if err != nil {
		return fmt.Errorf("failed to store item report: %w", err)
	}

	log = log.WithFields(map[string]any{"item_id": created.ID})
	log.Info("Stored partner item report")

	candidates, err := p.items.FindCandidates(ctx, tenantID, models.ScopeConfig{Scope: models.ScopeAll})
	if err != nil {
		// the report is already persisted, matching can be redone later
		log.WithError(err).Error("Failed to load candidates for new item")
		return nil
	}

	engine := p.engineFor(tenantID)
	matches, err := engine.FindMatches(ctx, *created, candidates, models.ScopeConfig{Scope: models.ScopeAll})
	if err != nil {
		log.WithError(err).Error("Failed to match new item")
		return nil
	}

	if len(matches) == 0 {
		return nil
	}

	log.WithFields(map[string]any{"match_count": len(matches)}).Info("Found matches for partner item")

	// match events are best effort, the item itself is already stored
	if err := p.emitter.EmitMatchesFound(ctx, tenantID, *created, matches); err != nil {
		log.WithError(err).Error("Failed to emit match events")
	}

	return nil
}
