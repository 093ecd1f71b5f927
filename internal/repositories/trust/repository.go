// Package trust persists reporter reputation scores.
package trust

import (
	"context"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

// Repository handles trust score persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new trust score repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Upsert sets a reporter's trust score, replacing any previous value
func (r *Repository) Upsert(ctx context.Context, tenantID, userID string, score float64) error {
	ctx, span := tracing.StartSpan(ctx, "trust.Repository.Upsert")
	defer span.End()

	if score < 0 || score > 100 {
		return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("trust score %f is out of range", score))
	}

	now := time.Now().UTC()

	ib := database.NewInsertBuilder()
	ib.InsertInto("trust_scores")
	ib.Cols("tenant_id", "user_id", "score", "updated_at")
	ib.Values(tenantID, userID, score, now)
	ub := ib.OnConflict("tenant_id", "user_id")
	ub.Set(
		ub.Assign("score", database.Excluded("score")),
		ub.Assign("updated_at", database.Excluded("updated_at")),
	)

	query, args := ib.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
			"user_id": userID,
		}).Error("Failed to upsert trust score")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert trust score")
	}

	return nil
}

// UpsertBatch replaces trust scores for many reporters in one transaction.
// Used by bulk syncs from external reputation feeds.
func (r *Repository) UpsertBatch(ctx context.Context, tenantID string, scores map[string]float64) error {
	ctx, span := tracing.StartSpan(ctx, "trust.Repository.UpsertBatch")
	defer span.End()

	if len(scores) == 0 {
		return nil
	}
	for userID, score := range scores {
		if score < 0 || score > 100 {
			return httperror.NewHTTPError(http.StatusBadRequest, fmt.Sprintf("trust score %f for user %s is out of range", score, userID))
		}
	}

	userIDs := make([]string, 0, len(scores))
	for userID := range scores {
		userIDs = append(userIDs, userID)
	}
	sort.Strings(userIDs)

	now := time.Now().UTC()

	ctx, tx, err := r.db.GetTx(ctx, nil)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to start transaction")
	}
	defer tx.Rollback(ctx)

	const batchSize = 500
	for i := 0; i < len(userIDs); i += batchSize {
		end := i + batchSize
		if end > len(userIDs) {
			end = len(userIDs)
		}

		ib := database.NewInsertBuilder()
		ib.InsertInto("trust_scores")
		ib.Cols("tenant_id", "user_id", "score", "updated_at")
		for _, userID := range userIDs[i:end] {
			ib.Values(tenantID, userID, scores[userID], now)
		}
		ub := ib.OnConflict("tenant_id", "user_id")
		ub.Set(
			ub.Assign("score", database.Excluded("score")),
			ub.Assign("updated_at", database.Excluded("updated_at")),
		)

		query, args := ib.Build()
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			r.logger.WithContext(ctx).WithError(err).WithFields(map[string]any{
				"count": len(scores),
			}).Error("Failed to bulk upsert trust scores")
			return httperror.NewHTTPError(http.StatusInternalServerError, "failed to upsert trust scores")
		}
	}

	if err := tx.Commit(ctx); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to commit trust score batch")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to commit")
	}
	return nil
}

// ScoreOf retrieves a reporter's trust score
func (r *Repository) ScoreOf(ctx context.Context, tenantID, userID string) (float64, error) {
	ctx, span := tracing.StartSpan(ctx, "trust.Repository.ScoreOf")
	defer span.End()

	sb := database.NewSelectBuilder()
	sb.Select("score")
	sb.From("trust_scores")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("user_id", userID),
	)

	query, args := sb.Build()
	var score float64
	if err := r.db.GetContext(ctx, &score, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return 0, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("no trust score for user %s", userID))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get trust score")
		return 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get trust score")
	}

	return score, nil
}

// ScopedLookup binds the repository to a single tenant so it can serve as
// the match engine's trust lookup.
type ScopedLookup struct {
	repo     *Repository
	tenantID string
}

// NewScopedLookup creates a tenant-bound trust lookup
func NewScopedLookup(repo *Repository, tenantID string) *ScopedLookup {
	return &ScopedLookup{
		repo:     repo,
		tenantID: tenantID,
	}
}

func (l *ScopedLookup) ScoreOf(ctx context.Context, userID string) (float64, error) {
	return l.repo.ScoreOf(ctx, l.tenantID, userID)
}
