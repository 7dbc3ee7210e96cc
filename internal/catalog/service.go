// internal/catalog/service.go
package catalog

import (
	"context"
	"time"

	"github.com/google/uuid"
)

type CreateEventInput struct {
	OrganizationID uuid.UUID
	Name           string
	Description    string
	Location       string
	StartDate      time.Time
	EndDate        time.Time
	IsParent       bool
	ParentEventID  *uuid.UUID
}

type CreateItemInput struct {
	EventID       uuid.UUID
	Title         string
	Category      string
	Description   string
	Price         float64
	Quantity      int
	MaxPerOrder   int
	StartSaleDate *time.Time
	EndSaleDate   *time.Time
	IsHidden      bool
	SortOrder     int
	ItemType      string
}

// UpdateItemInput is a full-record update of the CRUD fields. The quantity
// columns are deliberately absent: StockAdjustment is the only way to move
// them, and it is routed through the inventory ledger.
type UpdateItemInput struct {
	Title           string
	Category        string
	Description     string
	Price           float64
	StartSaleDate   *time.Time
	EndSaleDate     *time.Time
	Status          string
	IsHidden        bool
	SortOrder       int
	ItemType        string
	StockAdjustment int
}

// Service defines the interface for the catalog service.
type Service interface {
	CreateEvent(ctx context.Context, in CreateEventInput) (*Event, error)
	GetEvent(ctx context.Context, id uuid.UUID) (*Event, error)
	ListEvents(ctx context.Context) ([]*Event, error)

	CreateItem(ctx context.Context, in CreateItemInput) (*Item, error)
	GetItem(ctx context.Context, id uuid.UUID) (*Item, error)
	ListItemsByEvent(ctx context.Context, eventID uuid.UUID) ([]*Item, error)
	UpdateItem(ctx context.Context, id uuid.UUID, in UpdateItemInput) (*Item, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
	SearchItems(ctx context.Context, query string) ([]*Item, error)
}
