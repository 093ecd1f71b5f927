package models

import (
	"time"
)

// ItemType distinguishes the two report directions
type ItemType string

const (
	ItemTypeLost  ItemType = "lost"
	ItemTypeFound ItemType = "found"
)

// ItemStatus is the lifecycle state of a reported item
type ItemStatus string

const (
	ItemStatusOpen         ItemStatus = "open"
	ItemStatusPendingClaim ItemStatus = "pending_claim"
	ItemStatusClaimed      ItemStatus = "claimed"
	ItemStatusExpired      ItemStatus = "expired"
)

// IsOpen reports whether the item should still be considered for matching.
func (s ItemStatus) IsOpen() bool {
	return s == ItemStatusOpen || s == ItemStatusPendingClaim
}

// Location is where an item was lost or found. Room and coordinates are
// optional; matching degrades gracefully when they are absent.
type Location struct {
	Building  string   `json:"building" db:"building"`
	Room      *string  `json:"room,omitempty" db:"room"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude"`
}

// Item represents a reported lost or found object
// Field order matches schema: id, tenant_id, type, status, category, ...
type Item struct {
	ID             string     `json:"id" db:"id"`
	TenantID       string     `json:"tenant_id" db:"tenant_id"`
	Type           ItemType   `json:"type" db:"type"`
	Status         ItemStatus `json:"status" db:"status"`
	Category       string     `json:"category" db:"category"`
	Title          string     `json:"title" db:"title"`
	Description    string     `json:"description" db:"description"`
	Keywords       []string   `json:"keywords"`
	Location       Location   `json:"location"`
	ReportedDate   time.Time  `json:"reported_date" db:"reported_date"`
	Brand          *string    `json:"brand,omitempty" db:"brand"`
	PrimaryColor   *string    `json:"primary_color,omitempty" db:"primary_color"`
	EstimatedValue float64    `json:"estimated_value" db:"estimated_value"`
	OrganizationID string     `json:"organization_id" db:"organization_id"`
	EnterpriseID   string     `json:"enterprise_id" db:"enterprise_id"`
	ReporterID     string     `json:"reporter_id" db:"reporter_id"`
	CreatedAt      time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at" db:"updated_at"`
	DeletedAt      *time.Time `json:"deleted_at,omitempty" db:"deleted_at"`
}

// CreateItemRequest is the request for reporting an item
type CreateItemRequest struct {
	Type           ItemType   `json:"type" validate:"required,oneof=lost found"`
	Category       string     `json:"category" validate:"required"`
	Title          string     `json:"title" validate:"required"`
	Description    string     `json:"description"`
	Keywords       []string   `json:"keywords,omitempty"`
	Location       Location   `json:"location"`
	ReportedDate   *time.Time `json:"reported_date,omitempty"`
	Brand          *string    `json:"brand,omitempty"`
	PrimaryColor   *string    `json:"primary_color,omitempty"`
	EstimatedValue float64    `json:"estimated_value" validate:"gte=0"`
	OrganizationID string     `json:"organization_id" validate:"required"`
	EnterpriseID   string     `json:"enterprise_id" validate:"required"`
	ReporterID     string     `json:"reporter_id" validate:"required"`
}

// ItemListResponse is the response for listing items
type ItemListResponse struct {
	Items      []Item `json:"items"`
	TotalCount int    `json:"total_count"`
	Page       int    `json:"page"`
	PageSize   int    `json:"page_size"`
}
