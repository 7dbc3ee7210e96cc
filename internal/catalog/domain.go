// internal/catalog/domain.go
package catalog

import (
	"time"

	"github.com/google/uuid"
)

// Event is an occasion items are sold for. Parent events group child events
// and cannot carry items themselves.
type Event struct {
	ID             uuid.UUID  `json:"id"`
	OrganizationID uuid.UUID  `json:"organization_id"`
	Name           string     `json:"name"`
	Description    string     `json:"description"`
	Location       string     `json:"location"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
	Status         string     `json:"status"`
	IsParent       bool       `json:"is_parent"`
	ParentEventID  *uuid.UUID `json:"parent_event_id,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
}

// Item is a sellable unit of an event: a ticket type, package, addon or
// merchandise. Quantity and QuantityAvailable change only through the
// inventory ledger; every other field is ordinary CRUD state.
type Item struct {
	ID                uuid.UUID  `json:"id"`
	EventID           uuid.UUID  `json:"event_id"`
	Title             string     `json:"title"`
	Category          string     `json:"category"`
	Description       string     `json:"description"`
	Price             float64    `json:"price"`
	Quantity          int        `json:"quantity"`
	QuantityAvailable int        `json:"quantity_available"`
	MaxPerOrder       int        `json:"max_per_order"`
	StartSaleDate     *time.Time `json:"start_sale_date,omitempty"`
	EndSaleDate       *time.Time `json:"end_sale_date,omitempty"`
	Status            string     `json:"status"`
	IsHidden          bool       `json:"is_hidden"`
	SortOrder         int        `json:"sort_order"`
	ItemType          string     `json:"item_type"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

const (
	ItemTypeTicket      = "TICKET"
	ItemTypePackage     = "PACKAGE"
	ItemTypeAddon       = "ADDON"
	ItemTypeMerchandise = "MERCHANDISE"
)
