// internal/platform/domain.go
package platform

import (
	"time"

	"github.com/google/uuid"
)

// Organization is a tenant: every event and dashboard user hangs off one.
type Organization struct {
	ID        uuid.UUID `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Slug      string    `db:"slug" json:"slug"`
	LogoURL   string    `db:"logo_url" json:"logo_url"`
	Status    string    `db:"status" json:"status"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Banner is a promotional slot rendered on the storefront.
type Banner struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	ImageURL  string     `db:"image_url" json:"image_url"`
	LinkURL   string     `db:"link_url" json:"link_url"`
	SortOrder int        `db:"sort_order" json:"sort_order"`
	IsActive  bool       `db:"is_active" json:"is_active"`
	StartsAt  *time.Time `db:"starts_at" json:"starts_at,omitempty"`
	EndsAt    *time.Time `db:"ends_at" json:"ends_at,omitempty"`
	CreatedAt time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt time.Time  `db:"updated_at" json:"updated_at"`
}

// FeeConfig is the platform's cut on each order: a percentage of the
// subtotal plus a fixed amount per order.
type FeeConfig struct {
	ID         uuid.UUID `db:"id" json:"id"`
	Name       string    `db:"name" json:"name"`
	Percentage float64   `db:"percentage" json:"percentage"`
	FixedFee   float64   `db:"fixed_fee" json:"fixed_fee"`
	IsActive   bool      `db:"is_active" json:"is_active"`
	CreatedAt  time.Time `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time `db:"updated_at" json:"updated_at"`
}

// Fee returns the platform fee for an order subtotal. Inactive configs
// charge nothing.
func (f *FeeConfig) Fee(subtotal float64) float64 {
	if !f.IsActive {
		return 0
	}
	return subtotal*f.Percentage/100 + f.FixedFee
}
