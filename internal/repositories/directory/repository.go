// Package directory persists the organization hierarchy: organizations,
// enterprises, and the networks enterprises cooperate in.
package directory

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

// Repository handles directory persistence
type Repository struct {
	db     database.DB
	logger ectologger.Logger
}

// NewRepository creates a new directory repository
func NewRepository(db database.DB, logger ectologger.Logger) *Repository {
	return &Repository{
		db:     db,
		logger: logger,
	}
}

// CreateOrganization registers an organization under an enterprise
func (r *Repository) CreateOrganization(ctx context.Context, tenantID, enterpriseID, name string) (*models.Organization, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.CreateOrganization")
	defer span.End()

	now := time.Now().UTC()
	org := &models.Organization{
		ID:           uuid.New().String(),
		TenantID:     tenantID,
		EnterpriseID: enterpriseID,
		Name:         name,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("organizations")
	sb.Cols("id", "tenant_id", "enterprise_id", "name", "created_at", "updated_at")
	sb.Values(org.ID, org.TenantID, org.EnterpriseID, org.Name, org.CreatedAt, org.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create organization")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create organization")
	}

	return org, nil
}

// CreateEnterprise registers an enterprise, optionally joined to a network
func (r *Repository) CreateEnterprise(ctx context.Context, tenantID, name string, networkID *string) (*models.Enterprise, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.CreateEnterprise")
	defer span.End()

	now := time.Now().UTC()
	enterprise := &models.Enterprise{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		NetworkID: networkID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("enterprises")
	sb.Cols("id", "tenant_id", "network_id", "name", "created_at", "updated_at")
	sb.Values(enterprise.ID, enterprise.TenantID, enterprise.NetworkID, enterprise.Name, enterprise.CreatedAt, enterprise.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create enterprise")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create enterprise")
	}

	return enterprise, nil
}

// CreateNetwork registers a sharing network
func (r *Repository) CreateNetwork(ctx context.Context, tenantID, name string) (*models.Network, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.CreateNetwork")
	defer span.End()

	now := time.Now().UTC()
	network := &models.Network{
		ID:        uuid.New().String(),
		TenantID:  tenantID,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
	}

	sb := sqlbuilder.PostgreSQL.NewInsertBuilder()
	sb.InsertInto("networks")
	sb.Cols("id", "tenant_id", "name", "created_at", "updated_at")
	sb.Values(network.ID, network.TenantID, network.Name, network.CreatedAt, network.UpdatedAt)

	query, args := sb.Build()
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		r.logger.WithContext(ctx).WithError(err).Error("Failed to create network")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to create network")
	}

	return network, nil
}

// GetOrganization retrieves an organization by ID
func (r *Repository) GetOrganization(ctx context.Context, tenantID, id string) (*models.Organization, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.GetOrganization")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "enterprise_id", "name", "created_at", "updated_at", "deleted_at")
	sb.From("organizations")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var org models.Organization
	if err := r.db.GetContext(ctx, &org, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("organization %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get organization")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get organization")
	}

	return &org, nil
}

// GetEnterprise retrieves an enterprise by ID
func (r *Repository) GetEnterprise(ctx context.Context, tenantID, id string) (*models.Enterprise, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.GetEnterprise")
	defer span.End()

	sb := sqlbuilder.PostgreSQL.NewSelectBuilder()
	sb.Select("id", "tenant_id", "network_id", "name", "created_at", "updated_at", "deleted_at")
	sb.From("enterprises")
	sb.Where(
		sb.Equal("id", id),
		sb.Equal("tenant_id", tenantID),
		sb.IsNull("deleted_at"),
	)

	query, args := sb.Build()
	var enterprise models.Enterprise
	if err := r.db.GetContext(ctx, &enterprise, query, args...); err != nil {
		if err.Error() == "sql: no rows in result set" {
			return nil, httperror.NewHTTPError(http.StatusNotFound, fmt.Sprintf("enterprise %s not found", id))
		}
		r.logger.WithContext(ctx).WithError(err).Error("Failed to get enterprise")
		return nil, httperror.NewHTTPError(http.StatusInternalServerError, "failed to get enterprise")
	}

	return &enterprise, nil
}

// EnterpriseOf returns the enterprise owning the organization
func (r *Repository) EnterpriseOf(ctx context.Context, tenantID, organizationID string) (string, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.EnterpriseOf")
	defer span.End()

	org, err := r.GetOrganization(ctx, tenantID, organizationID)
	if err != nil {
		return "", err
	}
	return org.EnterpriseID, nil
}

// NetworkOf returns the network the enterprise belongs to, nil when it has
// not joined one
func (r *Repository) NetworkOf(ctx context.Context, tenantID, enterpriseID string) (*string, error) {
	ctx, span := tracing.StartSpan(ctx, "directory.Repository.NetworkOf")
	defer span.End()

	enterprise, err := r.GetEnterprise(ctx, tenantID, enterpriseID)
	if err != nil {
		return nil, err
	}
	return enterprise.NetworkID, nil
}
