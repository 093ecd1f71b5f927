// Package events handles event emission for match lifecycle changes
package events

import (
	"context"

	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/kafka"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Emitter handles event emission for clover
type Emitter struct {
	producer *kafka.Producer
	logger   ectologger.Logger
}

// NewEmitter creates a new event emitter
func NewEmitter(producer *kafka.Producer, logger ectologger.Logger) *Emitter {
	return &Emitter{
		producer: producer,
		logger:   logger,
	}
}

// EmitMatchesFound emits one match.found event per result for an item
func (e *Emitter) EmitMatchesFound(ctx context.Context, tenantID string, item models.Item, matches []models.MatchResult) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitMatchesFound")
	defer span.End()

	if len(matches) == 0 {
		return nil
	}

	events := make([]*kafka.MatchEvent, 0, len(matches))
	for _, match := range matches {
		events = append(events, &kafka.MatchEvent{
			EventType: "match.found",
			TenantID:  tenantID,
			ItemID:    item.ID,
			ItemType:  item.Type,
			Match:     match,
		})
	}

	if err := e.producer.PublishMatchEvents(ctx, events); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit match.found events")
		return err
	}

	return nil
}

// EmitReportGenerated emits a report.generated event
func (e *Emitter) EmitReportGenerated(ctx context.Context, tenantID string, report *models.MatchReport) error {
	ctx, span := tracing.StartSpan(ctx, "events.Emitter.EmitReportGenerated")
	defer span.End()

	event := &kafka.ReportEvent{
		EventType: "report.generated",
		TenantID:  tenantID,
		ScopeID:   report.ScopeID,
		Report:    report,
	}

	if err := e.producer.PublishReportEvent(ctx, event); err != nil {
		e.logger.WithContext(ctx).WithError(err).Error("Failed to emit report.generated event")
		return err
	}

	return nil
}
