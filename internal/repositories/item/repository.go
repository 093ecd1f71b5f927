// Package item persists lost and found item reports.
package item

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Gobusters/ectoerror/httperror"
	"github.com/Gobusters/ectologger"
	"github.com/google/uuid"
	"github.com/huandu/go-sqlbuilder"

	"github.com/Ramsey-B/clover/pkg/database"
	"github.com/Ramsey-B/clover/pkg/models"
	"github.com/Ramsey-B/clover/pkg/tracing"
)

var itemColumns = []string{
	"id", "tenant_id", "type", "status", "category", "title", "description",
	"keywords", "building", "room", "latitude", "longitude", "reported_date",
	"brand", "primary_color", "estimated_value", "organization_id",
	"enterprise_id", "reporter_id", "created_at", "updated_at", "deleted_at",
}

// row is the flattened database shape of an item
type row struct {
	ID             string                   `db:"id"`
	TenantID       string                   `db:"tenant_id"`
	Type           models.ItemType          `db:"type"`
	Status         models.ItemStatus        `db:"status"`
	Category       string                   `db:"category"`
	Title          string                   `db:"title"`
	Description    string                   `db:"description"`
	Keywords       database.JSONB[[]string] `db:"keywords"`
	Building       string                   `db:"building"`
	Room           *string                  `db:"room"`
	Latitude       *float64                 `db:"latitude"`
	Longitude      *float64                 `db:"longitude"`
	ReportedDate   time.Time                `db:"reported_date"`
	Brand          *string                  `db:"brand"`
	PrimaryColor   *string                  `db:"primary_color"`
	EstimatedValue float64                  `db:"estimated_value"`
	OrganizationID string                   `db:"organization_id"`
	EnterpriseID   string                   `db:"enterprise_id"`
	ReporterID     string                   `db:"reporter_id"`
	CreatedAt      time.Time                `db:"created_at"`
	UpdatedAt      time.Time                `db:"updated_at"`
	DeletedAt      *time.Time               `db:"deleted_at"`
}

func (r row) toModel() models.Item {
	return models.Item{
		ID:          r.ID,
		TenantID:    r.TenantID,
		Type:        r.Type,
		Status:      r.Status,
		Category:    r.Category,
		Title:       r.Title,
		Description: r.Description,
		Keywords:    r.Keywords.GetValue(),
		Location: models.Location{
			Building:  r.Building,
			Room:      r.Room,
			Latitude:  r.Latitude,
			Longitude: r.Longitude,
		},
		ReportedDate:   r.ReportedDate,
		Brand:          r.Brand,
		PrimaryColor:   r.PrimaryColor,
		EstimatedValue: r.EstimatedValue,
		OrganizationID: r.OrganizationID,
		EnterpriseID:   r.EnterpriseID,
		ReporterID:     r.ReporterID,
		CreatedAt:      r.CreatedAt,
		UpdatedAt:      r.UpdatedAt,
		DeletedAt:      r.DeletedAt,
	}
}

// Repository handles item persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new item repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// Create stores a newly reported item
func (r *Repository) Create(ctx context.Context, tenantID string, req models.CreateItemRequest) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.Create")
	defer span.End()

	log := r.logger.WithContext(ctx).WithFields(map[string]any{
		"method":    "Create",
		"tenant_id": tenantID,
		"type":      req.Type,
		"category":  req.Category,
	})

	id := uuid.New().String()
	now := time.Now().UTC()

	reportedDate := now
	if req.ReportedDate != nil {
		reportedDate = req.ReportedDate.UTC()
	}

	item := &models.Item{
		ID:             id,
		TenantID:       tenantID,
		Type:           req.Type,
		Status:         models.ItemStatusOpen,
		Category:       req.Category,
		Title:          req.Title,
		Description:    req.Description,
		Keywords:       req.Keywords,
		Location:       req.Location,
		ReportedDate:   reportedDate,
		Brand:          req.Brand,
		PrimaryColor:   req.PrimaryColor,
		EstimatedValue: req.EstimatedValue,
		OrganizationID: req.OrganizationID,
		EnterpriseID:   req.EnterpriseID,
		ReporterID:     req.ReporterID,
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("items")
	sb.Cols("id", "tenant_id", "type", "status", "category", "title", "description",
		"keywords", "building", "room", "latitude", "longitude", "reported_date",
		"brand", "primary_color", "estimated_value", "organization_id",
		"enterprise_id", "reporter_id", "created_at", "updated_at")
	sb.Values(item.ID, item.TenantID, item.Type, item.Status, item.Category, item.Title, item.Description,
		database.JSONB[[]string]{Data: item.Keywords}, item.Location.Building, item.Location.Room,
		item.Location.Latitude, item.Location.Longitude, item.ReportedDate,
		item.Brand, item.PrimaryColor, item.EstimatedValue, item.OrganizationID,
		item.EnterpriseID, item.ReporterID, item.CreatedAt, item.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		log.WithError(err).Error("Failed to create item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create item")
	}

	log.WithFields(map[string]any{"id": id}).Info("Created item")
	return item, nil
}

// Get retrieves an item by ID
func (r *Repository) Get(ctx context.Context, tenantID string, id string) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.Get")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("items")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var result row
	if err := r.db.GetContext(ctx, &result, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("item %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get item")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get item")
	}

	item := result.toModel()
	return &item, nil
}

// List retrieves items for a tenant with optional type, status and
// organization filters
func (r *Repository) List(ctx context.Context, tenantID string, itemType *models.ItemType, status *models.ItemStatus, organizationID *string, page, pageSize int) ([]models.Item, int, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.List")
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	offset := (page - 1) * pageSize

	countSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	countSb.Select("COUNT(*)")
	countSb.From("items")
	countSb.Where(listFilters(countSb, tenantID, itemType, status, organizationID)...)

	countQuery, countArgs := countSb.Build()
	var totalCount int
	if err := r.db.GetContext(ctx, &totalCount, countQuery, countArgs...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to count items")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to count items")
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("items")
	sb.Where(listFilters(sb, tenantID, itemType, status, organizationID)...)
	sb.OrderBy("reported_date DESC", "id ASC")
	sb.Limit(pageSize).Offset(offset)

	query, args := sb.Build()
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to list items")
		return nil, 0, httperror.NewHTTPError(http.StatusInternalServerError, "failed to list items")
	}

	items := make([]models.Item, 0, len(rows))
	for _, result := range rows {
		items = append(items, result.toModel())
	}

	return items, totalCount, nil
}

func listFilters(sb *sqlbuilder.SelectBuilder, tenantID string, itemType *models.ItemType, status *models.ItemStatus, organizationID *string) []string {
	where := []string{
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	}
	if itemType != nil {
		where = append(where, sb.Equal("type", *itemType))
	}
	if status != nil {
		where = append(where, sb.Equal("status", *status))
	}
	if organizationID != nil {
		where = append(where, sb.Equal("organization_id", *organizationID))
	}
	return where
}

// UpdateStatus transitions an item's lifecycle state
func (r *Repository) UpdateStatus(ctx context.Context, tenantID string, id string, status models.ItemStatus) (*models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.UpdateStatus")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("items")
	sb.Set(
		sb.Assign("status", status),
		sb.Assign("updated_at", time.Now().UTC()),
	)
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to update item status")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to update item status")
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("item %s not found", id))
	}

	return r.Get(ctx, tenantID, id)
}

// Delete soft deletes an item
func (r *Repository) Delete(ctx context.Context, tenantID string, id string) error {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.Delete")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewUpdateBuilder()
	sb.Update("items")
	sb.Set(sb.Assign("deleted_at", time.Now().UTC()))
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to delete item")
		return httperror.NewHTTPError(http.StatusInternalServerError, "failed to delete item")
	}

	return nil
}

// FindCandidates returns the open items visible to the given scope
func (r *Repository) FindCandidates(ctx context.Context, tenantID string, scope models.ScopeConfig) ([]models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.FindCandidates")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("items")

	where := []string{
		sb.Equal("tenant_id", tenantID),
		sb.In("status", models.ItemStatusOpen, models.ItemStatusPendingClaim),
		sb.IsNull("deleted_at"),
	}

	switch scope.Scope {
	case models.ScopeOrganization:
		where = append(where, sb.Equal("organization_id", scope.OrganizationID))
	case models.ScopeEnterprise:
		where = append(where, sb.Equal("enterprise_id", scope.EnterpriseID))
	case models.ScopeNetwork:
		networkSb := sqlbuilder.PostgreSQL.NewSelectBuilder()
		networkSb.Select("id")
		networkSb.From("enterprises")
		networkSb.Where(
			networkSb.Equal("network_id", scope.NetworkID),
			networkSb.IsNull("deleted_at"),
		)
		where = append(where, sb.In("enterprise_id", networkSb))
	case models.ScopeEnterprises:
		ids := make([]any, 0, len(scope.EnterpriseIDs))
		for _, id := range scope.EnterpriseIDs {
			ids = append(ids, id)
		}
		where = append(where, sb.In("enterprise_id", ids...))
	}

	sb.Where(where...)
	sb.OrderBy("reported_date DESC", "id ASC")

	query, args := sb.Build()
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find candidate items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find candidate items")
	}

	items := make([]models.Item, 0, len(rows))
	for _, result := range rows {
		items = append(items, result.toModel())
	}

	return items, nil
}

// FindOpenLostItems returns a bounded sample of the most recent open lost
// items for a tenant
func (r *Repository) FindOpenLostItems(ctx context.Context, tenantID string, limit int) ([]models.Item, error) {
	ctx, span := tracing.StartSpan(ctx, "item.Repository.FindOpenLostItems")
	defer span.End()

	if limit <= 0 {
		limit = 200
	}

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select(itemColumns...)
	sb.From("items")
	sb.Where(
		sb.Equal("tenant_id", tenantID),
		sb.Equal("type", models.ItemTypeLost),
		sb.In("status", models.ItemStatusOpen, models.ItemStatusPendingClaim),
		sb.IsNull("deleted_at"),
	)
	sb.OrderBy("reported_date DESC", "id ASC")
	sb.Limit(limit)

	query, args := sb.Build()
	var rows []row
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to find open lost items")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to find open lost items")
	}

	items := make([]models.Item, 0, len(rows))
	for _, result := range rows {
		items = append(items, result.toModel())
	}

	return items, nil
}
