package directory

import (
	"net/http"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	directoryrepo "github.com/Ramsey-B/clover/internal/repositories/directory"
	"github.com/Ramsey-B/clover/pkg/appcontext"
)

var validate = validator.New()

// Register registers directory routes
func Register(g *echo.Group) {
	g.POST("/networks", CreateNetwork)
	g.POST("/enterprises", CreateEnterprise)
	g.POST("/organizations", CreateOrganization)
	g.GET("/enterprises/:id", GetEnterprise)
	g.GET("/organizations/:id", GetOrganization)
}

// CreateNetworkRequest is the request to create a sharing network
type CreateNetworkRequest struct {
	Name string `json:"name" validate:"required"`
}

// CreateEnterpriseRequest is the request to create an enterprise
type CreateEnterpriseRequest struct {
	Name      string  `json:"name" validate:"required"`
	NetworkID *string `json:"network_id,omitempty"`
}

// CreateOrganizationRequest is the request to create an organization
type CreateOrganizationRequest struct {
	Name         string `json:"name" validate:"required"`
	EnterpriseID string `json:"enterprise_id" validate:"required"`
}

// CreateNetwork creates a sharing network
func CreateNetwork(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var req CreateNetworkRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*directoryrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	network, err := repo.CreateNetwork(ctx, tenantID, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, network)
}

// CreateEnterprise creates an enterprise, optionally joined to a network
func CreateEnterprise(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var req CreateEnterpriseRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*directoryrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	enterprise, err := repo.CreateEnterprise(ctx, tenantID, req.Name, req.NetworkID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, enterprise)
}

// CreateOrganization creates an organization under an enterprise
func CreateOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var req CreateOrganizationRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*directoryrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	organization, err := repo.CreateOrganization(ctx, tenantID, req.EnterpriseID, req.Name)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, organization)
}

// GetEnterprise returns an enterprise by ID
func GetEnterprise(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	ctx, repo, err := ectoinject.GetContext[*directoryrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	enterprise, err := repo.GetEnterprise(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, enterprise)
}

// GetOrganization returns an organization by ID
func GetOrganization(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	ctx, repo, err := ectoinject.GetContext[*directoryrepo.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	organization, err := repo.GetOrganization(ctx, tenantID, c.Param("id"))
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, organization)
}
