// internal/platform/implementation.go
package platform

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"go.uber.org/zap"
)

var (
	ErrOrganizationNotFound = errors.New("organization not found")
	ErrBannerNotFound       = errors.New("banner not found")
	ErrFeeConfigNotFound    = errors.New("fee config not found")
	ErrSlugTaken            = errors.New("organization slug already in use")
)

type service struct {
	db     *sqlx.DB
	logger *zap.Logger
}

func NewService(db *sqlx.DB, logger *zap.Logger) Service {
	return &service{db: db, logger: logger}
}

func (s *service) CreateOrganization(ctx context.Context, in CreateOrganizationInput) (*Organization, error) {
	org := &Organization{
		ID:        uuid.New(),
		Name:      in.Name,
		Slug:      in.Slug,
		LogoURL:   in.LogoURL,
		Status:    "active",
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO organizations (id, name, slug, logo_url, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		org.ID, org.Name, org.Slug, org.LogoURL, org.Status, org.CreatedAt, org.UpdatedAt)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == "23505" {
			return nil, ErrSlugTaken
		}
		return nil, fmt.Errorf("create organization: %w", err)
	}
	return org, nil
}

func (s *service) GetOrganization(ctx context.Context, id uuid.UUID) (*Organization, error) {
	org := &Organization{}
	err := s.db.GetContext(ctx, org, `SELECT * FROM organizations WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get organization: %w", err)
	}
	return org, nil
}

func (s *service) ListOrganizations(ctx context.Context) ([]Organization, error) {
	var orgs []Organization
	err := s.db.SelectContext(ctx, &orgs, `SELECT * FROM organizations ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("list organizations: %w", err)
	}
	return orgs, nil
}

func (s *service) CreateBanner(ctx context.Context, in CreateBannerInput) (*Banner, error) {
	banner := &Banner{
		ID:        uuid.New(),
		Title:     in.Title,
		ImageURL:  in.ImageURL,
		LinkURL:   in.LinkURL,
		SortOrder: in.SortOrder,
		IsActive:  true,
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO banners (id, title, image_url, link_url, sort_order, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		banner.ID, banner.Title, banner.ImageURL, banner.LinkURL,
		banner.SortOrder, banner.IsActive, banner.CreatedAt, banner.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("create banner: %w", err)
	}
	return banner, nil
}

func (s *service) ListBanners(ctx context.Context, activeOnly bool) ([]Banner, error) {
	query := `SELECT * FROM banners ORDER BY sort_order ASC, created_at DESC`
	if activeOnly {
		query = `SELECT * FROM banners WHERE is_active = TRUE
			AND (starts_at IS NULL OR starts_at <= NOW())
			AND (ends_at IS NULL OR ends_at > NOW())
			ORDER BY sort_order ASC, created_at DESC`
	}
	var banners []Banner
	if err := s.db.SelectContext(ctx, &banners, query); err != nil {
		return nil, fmt.Errorf("list banners: %w", err)
	}
	return banners, nil
}

func (s *service) DeleteBanner(ctx context.Context, id uuid.UUID) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM banners WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete banner: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrBannerNotFound
	}
	return nil
}

func (s *service) ActiveFeeConfig(ctx context.Context) (*FeeConfig, error) {
	cfg := &FeeConfig{}
	err := s.db.GetContext(ctx, cfg, `
		SELECT * FROM platform_fee_configs
		WHERE is_active = TRUE
		ORDER BY updated_at DESC
		LIMIT 1`)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeeConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("active fee config: %w", err)
	}
	return cfg, nil
}

// UpdateFeeConfig updates a config and, when it becomes active, retires
// every other active config so at most one applies at a time.
func (s *service) UpdateFeeConfig(ctx context.Context, id uuid.UUID, in UpdateFeeConfigInput) (*FeeConfig, error) {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	if in.IsActive {
		if _, err := tx.ExecContext(ctx, `
			UPDATE platform_fee_configs SET is_active = FALSE, updated_at = NOW()
			WHERE is_active = TRUE AND id != $1`, id); err != nil {
			return nil, fmt.Errorf("retire fee configs: %w", err)
		}
	}

	cfg := &FeeConfig{}
	err = tx.GetContext(ctx, cfg, `
		UPDATE platform_fee_configs
		SET name = $2, percentage = $3, fixed_fee = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING *`, id, in.Name, in.Percentage, in.FixedFee, in.IsActive)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrFeeConfigNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("update fee config: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit: %w", err)
	}
	return cfg, nil
}

func (s *service) ListFeeConfigs(ctx context.Context) ([]FeeConfig, error) {
	var configs []FeeConfig
	err := s.db.SelectContext(ctx, &configs, `SELECT * FROM platform_fee_configs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("list fee configs: %w", err)
	}
	return configs, nil
}
