package services

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"time"

	"eventdesk/internal/domain"
)

const (
	topCompaniesLimit = 10
	topEventsLimit    = 10
	trailingMonths    = 12
)

type statsService struct {
	statsRepo      domain.StatsRepository
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewStatsService(statsRepo domain.StatsRepository, logger *slog.Logger, timeout time.Duration) domain.StatsService {
	return &statsService{
		statsRepo:      statsRepo,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// Dashboard reads every rollup inside a single transaction so the four
// result sets describe one snapshot of the data.
func (s *statsService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	since := monthsWindowStart(time.Now(), trailingMonths)

	var d domain.Dashboard
	err := s.statsRepo.InTx(ctx, func(r domain.StatsRepository) error {
		byMonth, err := r.ByMonth(ctx, since)
		if err != nil {
			return fmt.Errorf("enrollments by month: %w", err)
		}
		d.ByMonth = zeroFillMonths(byMonth, since, trailingMonths)

		if d.BySegment, err = r.BySegment(ctx); err != nil {
			return fmt.Errorf("enrollments by segment: %w", err)
		}
		if d.ByCompany, err = r.ByCompany(ctx, topCompaniesLimit); err != nil {
			return fmt.Errorf("enrollments by company: %w", err)
		}
		if d.TopEvents, err = r.TopEvents(ctx, topEventsLimit); err != nil {
			return fmt.Errorf("top events: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	for _, e := range d.TopEvents {
		e.OccupancyRate = occupancyRate(e.Presential, e.VacancyTotal)
	}
	return &d, nil
}

// monthsWindowStart returns the first day of the month n-1 months before now,
// so the window covers n calendar months including the current one.
func monthsWindowStart(now time.Time, n int) time.Time {
	first := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	return first.AddDate(0, -(n - 1), 0)
}

// zeroFillMonths expands sparse month buckets into a dense series of n
// consecutive months starting at since.
func zeroFillMonths(rows []*domain.MonthlyCount, since time.Time, n int) []*domain.MonthlyCount {
	byKey := make(map[string]int, len(rows))
	for _, r := range rows {
		byKey[r.Month.Format("2006-01")] = r.Count
	}
	out := make([]*domain.MonthlyCount, 0, n)
	for i := 0; i < n; i++ {
		m := since.AddDate(0, i, 0)
		out = append(out, &domain.MonthlyCount{
			Month: m,
			Count: byKey[m.Format("2006-01")],
		})
	}
	return out
}

// occupancyRate is the presential share of total vacancies as a percentage,
// rounded to two decimals. Zero vacancies yields zero.
func occupancyRate(presential, vacancy int) float64 {
	if vacancy == 0 {
		return 0
	}
	return round2(float64(presential) / float64(vacancy) * 100)
}

func round2(x float64) float64 {
	return math.Round(x*100) / 100
}
