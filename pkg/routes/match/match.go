package match

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/directory"
	"github.com/Ramsey-B/clover/internal/repositories/item"
	"github.com/Ramsey-B/clover/internal/repositories/trust"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/matching"
	"github.com/Ramsey-B/clover/pkg/models"
)

var validate = validator.New()

// Register registers match routes
func Register(g *echo.Group) {
	g.POST("/:id/matches", FindMatches)
}

// FindMatches finds ranked matches for an item within the requested scope
func FindMatches(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	id := c.Param("id")

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

	ctx, items, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, directories, err := ectoinject.GetContext[*directory.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, trustScores, err := ectoinject.GetContext[*trust.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}
	ctx, factory, err := ectoinject.GetContext[*matching.Factory](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	source, err := items.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	candidates, err := items.FindCandidates(ctx, tenantID, scope)
	if err != nil {
		return err
	}

	engine := factory.EngineFor(
		directory.NewScopedResolver(directories, tenantID),
		trust.NewScopedLookup(trustScores, tenantID),
	)

	matches, err := engine.FindMatches(ctx, *source, candidates, scope)
	if err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	return c.JSON(http.StatusOK, models.ItemMatches{
		Item:    *source,
		Matches: matches,
	})
}
