// internal/analytics/domain.go
package analytics

import "time"

// Overview aggregates paid sales for one event.
type Overview struct {
	TotalSold        int     `json:"total_sold" db:"total_sold"`
	TotalRevenue     float64 `json:"total_revenue" db:"total_revenue"`
	TotalPlatformFee float64 `json:"total_platform_fee" db:"total_platform_fee"`
}

// RankingEntry is one row of the per-item sales ranking.
type RankingEntry struct {
	TicketName   string  `json:"ticket_name" db:"ticket_name"`
	TotalSold    int     `json:"total_sold" db:"total_sold"`
	TotalRevenue float64 `json:"total_revenue" db:"total_revenue"`
}

// DailySales is one day of the sales chart.
type DailySales struct {
	Date         string  `json:"date" db:"date"`
	TotalSold    int     `json:"total_sold" db:"total_sold"`
	TotalRevenue float64 `json:"total_revenue" db:"total_revenue"`
}

// Report is the cached analytics response for an event.
type Report struct {
	Overview    Overview       `json:"overview"`
	Ranking     []RankingEntry `json:"ranking"`
	Chart       []DailySales   `json:"chart"`
	LastUpdated time.Time      `json:"last_updated"`
}
