package postgres

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"eventdesk/internal/domain"
)

func TestStatsRepository_InTx(t *testing.T) {
	ctx := context.Background()

	t.Run("runs queries inside a read-only tx and commits", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`GROUP BY segment`).
			WillReturnRows(sqlmock.NewRows([]string{"segment", "total"}).
				AddRow("tech", 12).
				AddRow("Não informado", 3))
		mock.ExpectCommit()

		repo := NewStatsRepository(db)
		var got []*domain.GroupCount
		err = repo.InTx(ctx, func(r domain.StatsRepository) error {
			got, err = r.BySegment(ctx)
			return err
		})
		require.NoError(t, err)
		require.Len(t, got, 2)
		require.Equal(t, "tech", got[0].Label)
		require.Equal(t, 12, got[0].Count)
		require.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("fn error rolls back and surfaces", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		require.NoError(t, err)
		defer db.Close()

		mock.ExpectBegin()
		mock.ExpectQuery(`GROUP BY segment`).
			WillReturnError(sql.ErrConnDone)
		mock.ExpectRollback()

		repo := NewStatsRepository(db)
		err = repo.InTx(ctx, func(r domain.StatsRepository) error {
			_, err := r.BySegment(ctx)
			return err
		})
		require.ErrorIs(t, err, sql.ErrConnDone)
		require.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestStatsRepository_ByMonth(t *testing.T) {
	ctx := context.Background()
	since := time.Date(2025, 4, 1, 0, 0, 0, 0, time.Local)

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"month", "total"}).
		AddRow(time.Date(2025, 4, 1, 0, 0, 0, 0, time.UTC), 10).
		AddRow(time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), 4)
	mock.ExpectQuery(`date_trunc\('month', al.created_at\)`).
		WithArgs(since).
		WillReturnRows(rows)

	repo := NewStatsRepository(db)
	got, err := repo.ByMonth(ctx, since)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, 10, got[0].Count)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_ByCompany(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"company", "total"}).
		AddRow("Acme", 40).
		AddRow("Globex", 25)
	mock.ExpectQuery(`GROUP BY company\s+ORDER BY total DESC\s+LIMIT \$1`).
		WithArgs(10).
		WillReturnRows(rows)

	repo := NewStatsRepository(db)
	got, err := repo.ByCompany(ctx, 10)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "Acme", got[0].Label)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestStatsRepository_TopEvents(t *testing.T) {
	ctx := context.Background()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	rows := sqlmock.NewRows([]string{"id", "name", "vacancy_total", "total", "presential", "online"}).
		AddRow("ev-1", "Tech Summit", 100, 80, 60, 20).
		AddRow("ev-2", "DevCon", 50, 30, 30, 0)
	mock.ExpectQuery(`ORDER BY total DESC\s+LIMIT \$1`).
		WithArgs(5).
		WillReturnRows(rows)

	repo := NewStatsRepository(db)
	got, err := repo.TopEvents(ctx, 5)
	require.NoError(t, err)
	require.Len(t, got, 2)
	require.Equal(t, "ev-1", got[0].EventID)
	require.Equal(t, 80, got[0].Total)
	require.Equal(t, 60, got[0].Presential)
	require.NoError(t, mock.ExpectationsWereMet())
}
