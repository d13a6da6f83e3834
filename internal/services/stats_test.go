package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func TestMonthsWindowStart(t *testing.T) {
	now := time.Date(2025, 6, 15, 14, 30, 0, 0, time.Local)
	got := monthsWindowStart(now, 12)
	assert.Equal(t, time.Date(2024, 7, 1, 0, 0, 0, 0, time.Local), got)

	got = monthsWindowStart(now, 1)
	assert.Equal(t, time.Date(2025, 6, 1, 0, 0, 0, 0, time.Local), got)
}

func TestZeroFillMonths(t *testing.T) {
	since := time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local)

	t.Run("fills gaps with zero counts", func(t *testing.T) {
		rows := []*domain.MonthlyCount{
			{Month: time.Date(2025, 1, 1, 0, 0, 0, 0, time.Local), Count: 5},
			{Month: time.Date(2025, 3, 1, 0, 0, 0, 0, time.Local), Count: 2},
		}
		got := zeroFillMonths(rows, since, 4)
		require.Len(t, got, 4)
		assert.Equal(t, 5, got[0].Count)
		assert.Equal(t, 0, got[1].Count)
		assert.Equal(t, 2, got[2].Count)
		assert.Equal(t, 0, got[3].Count)
		assert.Equal(t, time.Month(4), got[3].Month.Month())
	})

	t.Run("empty input yields a dense zeroed series", func(t *testing.T) {
		got := zeroFillMonths(nil, since, 12)
		require.Len(t, got, 12)
		for _, m := range got {
			assert.Zero(t, m.Count)
		}
		assert.Equal(t, time.December, got[11].Month.Month())
	})

	t.Run("matches buckets regardless of time zone", func(t *testing.T) {
		// date_trunc gives back UTC months; keying by year-month must still
		// line them up with the local window.
		rows := []*domain.MonthlyCount{
			{Month: time.Date(2025, 2, 1, 0, 0, 0, 0, time.UTC), Count: 7},
		}
		got := zeroFillMonths(rows, since, 3)
		assert.Equal(t, 7, got[1].Count)
	})
}

func TestOccupancyRate(t *testing.T) {
	assert.Zero(t, occupancyRate(10, 0))
	assert.Equal(t, 50.0, occupancyRate(50, 100))
	assert.Equal(t, 33.33, occupancyRate(1, 3))
	assert.Equal(t, 120.0, occupancyRate(60, 50))
}

func TestStatsService_Dashboard(t *testing.T) {
	ctx := context.Background()

	t.Run("assembles all rollups from one snapshot", func(t *testing.T) {
		repo := &fakeStatsRepo{
			bySegment: []*domain.GroupCount{{Label: "tech", Count: 12}},
			byCompany: []*domain.GroupCount{{Label: "Acme", Count: 8}},
			topEvents: []*domain.EventRanking{
				{EventID: "ev-1", EventName: "Tech Summit", VacancyTotal: 100, Total: 80, Presential: 60, Online: 20},
				{EventID: "ev-2", EventName: "Free Meetup", VacancyTotal: 0, Total: 10, Presential: 10},
			},
		}
		svc := NewStatsService(repo, testLogger(), time.Second)

		d, err := svc.Dashboard(ctx)
		require.NoError(t, err)

		assert.Len(t, d.ByMonth, trailingMonths)
		assert.Equal(t, monthsWindowStart(time.Now(), trailingMonths), repo.sinceSeen)
		assert.Equal(t, 10, repo.companyLimitSeen, "companies are a top-10 ranking")
		assert.Equal(t, 10, repo.eventsLimitSeen, "events are a top-10 ranking")

		require.Len(t, d.TopEvents, 2)
		assert.Equal(t, 60.0, d.TopEvents[0].OccupancyRate)
		// Zero vacancies never divides.
		assert.Zero(t, d.TopEvents[1].OccupancyRate)
	})

	t.Run("rollup failure surfaces", func(t *testing.T) {
		repo := &fakeStatsRepo{byMonthErr: errors.New("boom")}
		svc := NewStatsService(repo, testLogger(), time.Second)

		_, err := svc.Dashboard(ctx)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "enrollments by month")
	})

	t.Run("snapshot failure surfaces", func(t *testing.T) {
		repo := &fakeStatsRepo{inTxErr: errors.New("begin tx")}
		svc := NewStatsService(repo, testLogger(), time.Second)

		_, err := svc.Dashboard(ctx)
		require.Error(t, err)
	})
}
