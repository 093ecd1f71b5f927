package trust

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	trustrepo "github.com/Ramsey-B/clover/internal/repositories/trust"
	"github.com/Ramsey-B/clover/pkg/appcontext"
)

var validate = validator.New()

// Register registers trust score routes
func Register(g *echo.Group) {
	g.PUT("", SyncScores)
	g.PUT("/:user_id", UpsertScore)
	g.GET("/:user_id", GetScore)
}

// UpsertScoreRequest sets a reporter's trust score
type UpsertScoreRequest struct {
	Score float64 `json:"score" validate:"gte=0,lte=100"`
}

// SyncScoresRequest replaces trust scores for many reporters at once
type SyncScoresRequest struct {
	Scores map[string]float64 `json:"scores" validate:"required,min=1"`
}

// SyncScores bulk-replaces reporter trust scores from an external feed
func SyncScores(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var req SyncScoresRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*trustrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.UpsertBatch(ctx, tenantID, req.Scores); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"updated": len(req.Scores),
	})
}

// UpsertScore creates or replaces a reporter's trust score
func UpsertScore(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)
	userID := c.Param("user_id")

	var req UpsertScoreRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*trustrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Upsert(ctx, tenantID, userID, req.Score); err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"score":   req.Score,
	})
}

// GetScore returns a reporter's trust score
func GetScore(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)
	userID := c.Param("user_id")

	ctx, repo, err := ectoinject.GetContext[*trustrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	score, err := repo.ScoreOf(ctx, tenantID, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, map[string]any{
		"user_id": userID,
		"score":   score,
	})
}
