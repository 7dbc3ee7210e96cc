// internal/platform/service.go
package platform

import (
	"context"

	"github.com/google/uuid"
)

type CreateOrganizationInput struct {
	Name    string `json:"name"`
	Slug    string `json:"slug"`
	LogoURL string `json:"logo_url"`
}

type CreateBannerInput struct {
	Title     string `json:"title"`
	ImageURL  string `json:"image_url"`
	LinkURL   string `json:"link_url"`
	SortOrder int    `json:"sort_order"`
}

type UpdateFeeConfigInput struct {
	Name       string  `json:"name"`
	Percentage float64 `json:"percentage"`
	FixedFee   float64 `json:"fixed_fee"`
	IsActive   bool    `json:"is_active"`
}

type Service interface {
	CreateOrganization(ctx context.Context, in CreateOrganizationInput) (*Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error)
	ListOrganizations(ctx context.Context) ([]Organization, error)

	CreateBanner(ctx context.Context, in CreateBannerInput) (*Banner, error)
	ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error)
	DeleteBanner(ctx context.Context, id uuid.UUID) error

	ActiveFeeConfig(ctx context.Context) (*FeeConfig, error)
	UpdateFeeConfig(ctx context.Context, id uuid.UUID, in UpdateFeeConfigInput) (*FeeConfig, error)
	ListFeeConfigs(ctx context.Context) ([]FeeConfig, error)
}
