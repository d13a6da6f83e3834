package domain

import (
	"context"
	"time"
)

// MonthlyCount is an enrollments-per-month data point.
// swagger:model MonthlyCount
type MonthlyCount struct {
	Month time.Time `json:"month"`
	Count int       `json:"count"`
}

// GroupCount is a count grouped by a label (segment or company).
// swagger:model GroupCount
type GroupCount struct {
	Label string `json:"label"`
	Count int    `json:"count"`
}

// EventRanking is one row of the top-events ranking.
// swagger:model EventRanking
type EventRanking struct {
	EventID       string  `json:"event_id"`
	EventName     string  `json:"event_name"`
	VacancyTotal  int     `json:"vacancy_total"`
	Total         int     `json:"total"`
	Presential    int     `json:"presential"`
	Online        int     `json:"online"`
	OccupancyRate float64 `json:"occupancy_rate"`
}

// Dashboard bundles the global rollups shown on the statistics page.
// swagger:model Dashboard
type Dashboard struct {
	ByMonth   []*MonthlyCount `json:"by_month"`
	BySegment []*GroupCount   `json:"by_segment"`
	ByCompany []*GroupCount   `json:"by_company"`
	TopEvents []*EventRanking `json:"top_events"`
}

// StatsRepository computes the dashboard rollups. All result sets must be
// read inside one transaction so they describe a single snapshot.
type StatsRepository interface {
	// ByMonth returns raw month buckets with at least one enrollment since
	// the given time. The service zero-fills missing months.
	ByMonth(ctx context.Context, since time.Time) ([]*MonthlyCount, error)
	BySegment(ctx context.Context) ([]*GroupCount, error)
	ByCompany(ctx context.Context, limit int) ([]*GroupCount, error)
	TopEvents(ctx context.Context, limit int) ([]*EventRanking, error)
	// InTx runs fn with a snapshot-consistent view of the repository.
	InTx(ctx context.Context, fn func(StatsRepository) error) error
}

// StatsService produces the dashboard.
type StatsService interface {
	Dashboard(ctx context.Context) (*Dashboard, error)
}
