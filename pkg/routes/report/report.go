package report

import (
	"context"
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/Gobusters/ectologger"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/config"
	"github.com/Ramsey-B/clover/internal/repositories/directory"
	"github.com/Ramsey-B/clover/internal/repositories/item"
	"github.com/Ramsey-B/clover/internal/repositories/trust"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/events"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/reporting"
)

var validate = validator.New()

// Register registers report routes
func Register(g *echo.Group) {
	g.POST("/matches", GenerateReport)
	g.GET("/top-matches", TopMatches)
}

// GenerateReport runs the match engine over every open item in the
// requested scope and returns aggregate statistics
func GenerateReport(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var scope models.ScopeConfig
	if err := c.Bind(&scope); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if scope.Scope == "" {
		scope.Scope = models.ScopeAll
	}
	if err := validate.Struct(scope); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, aggregator, err := buildAggregator(ctx, tenantID)
	if err != nil {
		return err
	}

	generated, err := aggregator.GenerateReport(ctx, scope)
	if err != nil {
		return err
	}

	// the report event is best effort, the caller already has the report
	ctx, emitter, err := ectoinject.GetContext[*events.Emitter](ctx)
	if err == nil {
		if err := emitter.EmitReportGenerated(ctx, tenantID, generated); err != nil {
			ctx, logger, _ := ectoinject.GetContext[ectologger.Logger](ctx)
			logger.WithContext(ctx).WithError(err).Warn("Failed to emit report.generated event")
		}
	}

	return c.JSON(http.StatusOK, generated)
}

// TopMatches surfaces the best matches for open lost items system-wide
func TopMatches(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	limit := 0
	if v := c.QueryParam("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return httperror.NewHTTPError(http.StatusBadRequest, "limit must be a positive integer")
		}
		limit = n
	}

	ctx, aggregator, err := buildAggregator(ctx, tenantID)
	if err != nil {
		return err
	}

	matches, err := aggregator.FindBestMatchesAcrossSystem(ctx, limit)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, matches)
}

func buildAggregator(ctx context.Context, tenantID string) (context.Context, *reporting.Aggregator, error) {
	ctx, logger, err := ectoinject.GetContext[ectologger.Logger](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, cfg, err := ectoinject.GetContext[*config.Config](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, items, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, directories, err := ectoinject.GetContext[*directory.Repository](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, trustScores, err := ectoinject.GetContext[*trust.Repository](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, factory, err := ectoinject.GetContext[*matching.Factory](ctx)
	if err != nil {
		return ctx, nil, httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	engine := factory.EngineFor(
		directory.NewScopedResolver(directories, tenantID),
		trust.NewScopedLookup(trustScores, tenantID),
	)

	aggregator := reporting.NewAggregator(
		logger,
		item.NewScopedStore(items, tenantID),
		engine,
		reporting.AggregatorConfig{
			TopMatchesLimit:      cfg.ReportTopMatchesLimit,
			SystemScanSampleSize: cfg.SystemScanSampleSize,
		},
	)

	return ctx, aggregator, nil
}
