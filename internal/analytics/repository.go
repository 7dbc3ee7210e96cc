// internal/analytics/repository.go
package analytics

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

// Repository runs the aggregation queries over the core order tables.
type Repository interface {
	SalesOverview(ctx context.Context, eventID uuid.UUID) (*Overview, error)
	TicketSalesRanking(ctx context.Context, eventID uuid.UUID) ([]RankingEntry, error)
	DailySalesChart(ctx context.Context, eventID uuid.UUID) ([]DailySales, error)
}

type postgresRepository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &postgresRepository{db: db}
}

func (r *postgresRepository) SalesOverview(ctx context.Context, eventID uuid.UUID) (*Overview, error) {
	overview := &Overview{}
	err := r.db.GetContext(ctx, overview, `
		SELECT
			COALESCE(SUM(oi.quantity), 0) AS total_sold,
			COALESCE(SUM(oi.subtotal), 0) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN items i ON i.id = oi.item_id
		WHERE i.event_id = $1 AND o.status = 'paid'`, eventID)
	if err != nil {
		return nil, fmt.Errorf("sales overview: %w", err)
	}

	// The platform fee lives on the order, so it is summed once per order
	// rather than once per order line.
	err = r.db.GetContext(ctx, &overview.TotalPlatformFee, `
		SELECT COALESCE(SUM(o.platform_fee_amount), 0)
		FROM orders o
		WHERE o.status = 'paid'
		  AND o.id IN (
			SELECT oi.order_id
			FROM order_items oi
			JOIN items i ON i.id = oi.item_id
			WHERE i.event_id = $1
		  )`, eventID)
	if err != nil {
		return nil, fmt.Errorf("platform fee total: %w", err)
	}
	return overview, nil
}

func (r *postgresRepository) TicketSalesRanking(ctx context.Context, eventID uuid.UUID) ([]RankingEntry, error) {
	var ranking []RankingEntry
	err := r.db.SelectContext(ctx, &ranking, `
		SELECT
			i.title                       AS ticket_name,
			COALESCE(SUM(oi.quantity), 0) AS total_sold,
			COALESCE(SUM(oi.subtotal), 0) AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN items i ON i.id = oi.item_id
		WHERE i.event_id = $1 AND o.status = 'paid'
		GROUP BY i.title
		ORDER BY total_sold DESC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("ticket sales ranking: %w", err)
	}
	return ranking, nil
}

func (r *postgresRepository) DailySalesChart(ctx context.Context, eventID uuid.UUID) ([]DailySales, error) {
	var chart []DailySales
	err := r.db.SelectContext(ctx, &chart, `
		SELECT
			TO_CHAR(DATE(o.created_at), 'YYYY-MM-DD') AS date,
			COALESCE(SUM(oi.quantity), 0)             AS total_sold,
			COALESCE(SUM(oi.subtotal), 0)             AS total_revenue
		FROM order_items oi
		JOIN orders o ON o.id = oi.order_id
		JOIN items i ON i.id = oi.item_id
		WHERE i.event_id = $1 AND o.status = 'paid'
		GROUP BY DATE(o.created_at)
		ORDER BY date ASC`, eventID)
	if err != nil {
		return nil, fmt.Errorf("daily sales chart: %w", err)
	}
	return chart, nil
}
