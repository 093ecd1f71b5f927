package items

import (
	"net/http"
	"strconv"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectoinject"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/Ramsey-B/clover/internal/repositories/item"
	"github.com/Ramsey-B/clover/pkg/appcontext"
	"github.com/Ramsey-B/clover/pkg/models"
)

var validate = validator.New()

// Register registers item routes
func Register(g *echo.Group) {
	g.POST("", CreateItem)
	g.GET("", ListItems)
	g.GET("/:id", GetItem)
	g.PUT("/:id/status", UpdateItemStatus)
	g.DELETE("/:id", DeleteItem)
}

// CreateItem reports a new lost or found item
func CreateItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var req models.CreateItemRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	created, err := repo.Create(ctx, tenantID, req)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, created)
}

// GetItem gets an item by ID
func GetItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	found, err := repo.Get(ctx, tenantID, id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, found)
}

// ListItems lists items with optional type, status and organization filters
func ListItems(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	var itemType *models.ItemType
	if v := c.QueryParam("type"); v != "" {
		t := models.ItemType(v)
		if t != models.ItemTypeLost && t != models.ItemTypeFound {
			return httperror.NewHTTPError(http.StatusBadRequest, "type must be lost or found")
		}
		itemType = &t
	}

	var status *models.ItemStatus
	if v := c.QueryParam("status"); v != "" {
		s := models.ItemStatus(v)
		status = &s
	}

	var organizationID *string
	if v := c.QueryParam("organization_id"); v != "" {
		organizationID = &v
	}

	page := intQueryParam(c, "page", 1)
	pageSize := intQueryParam(c, "page_size", 20)

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	items, totalCount, err := repo.List(ctx, tenantID, itemType, status, organizationID, page, pageSize)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, models.ItemListResponse{
		Items:      items,
		TotalCount: totalCount,
		Page:       page,
		PageSize:   pageSize,
	})
}

// UpdateItemStatusRequest is the request body for a status transition
type UpdateItemStatusRequest struct {
	Status models.ItemStatus `json:"status" validate:"required,oneof=open pending_claim claimed expired"`
}

// UpdateItemStatus transitions an item's lifecycle state
func UpdateItemStatus(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	id := c.Param("id")

	var req UpdateItemStatusRequest
	if err := c.Bind(&req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := validate.Struct(req); err != nil {
		return httperror.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	updated, err := repo.UpdateStatus(ctx, tenantID, id, req.Status)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, updated)
}

// DeleteItem soft deletes an item
func DeleteItem(c echo.Context) error {
	ctx := c.Request().Context()
	tenantID := appcontext.GetTenantID(ctx)

	id := c.Param("id")

	ctx, repo, err := ectoinject.GetContext[*item.Repository](ctx)
	if err != nil {
		return httperror.NewHTTPError(http.StatusInternalServerError, "service unavailable")
	}

	if err := repo.Delete(ctx, tenantID, id); err != nil {
		return err
	}

	return c.NoContent(http.StatusNoContent)
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	v := c.QueryParam(name)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return fallback
	}
	return n
}
