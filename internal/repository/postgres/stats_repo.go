package postgres

import (
	"context"
	"database/sql"
	"time"

	"eventdesk/internal/domain"
)

// querier is satisfied by both *sql.DB and *sql.Tx, so the rollup queries
// can run standalone or inside the snapshot transaction.
type querier interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
}

type statsRepository struct {
	DB *sql.DB
	q  querier
}

func NewStatsRepository(db *sql.DB) domain.StatsRepository {
	return &statsRepository{DB: db, q: db}
}

// InTx runs fn against a read-only transaction so the dashboard's result
// sets describe one snapshot.
func (r *statsRepository) InTx(ctx context.Context, fn func(domain.StatsRepository) error) error {
	tx, err := r.DB.BeginTx(ctx, &sql.TxOptions{ReadOnly: true})
	if err != nil {
		return err
	}
	defer tx.Rollback()
	if err := fn(&statsRepository{DB: r.DB, q: tx}); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *statsRepository) ByMonth(ctx context.Context, since time.Time) ([]*domain.MonthlyCount, error) {
	query := `
		SELECT date_trunc('month', al.created_at) AS month, COUNT(*) AS total
		FROM attendance_list al
		WHERE al.created_at >= $1
		GROUP BY month
		ORDER BY month
	`
	rows, err := r.q.QueryContext(ctx, query, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.MonthlyCount, 0)
	for rows.Next() {
		m := &domain.MonthlyCount{}
		if err := rows.Scan(&m.Month, &m.Count); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *statsRepository) BySegment(ctx context.Context) ([]*domain.GroupCount, error) {
	query := `
		SELECT COALESCE(NULLIF(al.segment, ''), 'Não informado') AS segment, COUNT(*) AS total
		FROM attendance_list al
		GROUP BY segment
		ORDER BY total DESC
	`
	return r.groupCounts(ctx, query)
}

func (r *statsRepository) ByCompany(ctx context.Context, limit int) ([]*domain.GroupCount, error) {
	query := `
		SELECT COALESCE(NULLIF(al.company_name, ''), 'Não informado') AS company, COUNT(*) AS total
		FROM attendance_list al
		GROUP BY company
		ORDER BY total DESC
		LIMIT $1
	`
	return r.groupCounts(ctx, query, limit)
}

func (r *statsRepository) groupCounts(ctx context.Context, query string, args ...interface{}) ([]*domain.GroupCount, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.GroupCount, 0)
	for rows.Next() {
		g := &domain.GroupCount{}
		if err := rows.Scan(&g.Label, &g.Count); err != nil {
			return nil, err
		}
		out = append(out, g)
	}
	return out, rows.Err()
}

// TopEvents ranks events by enrollment count with the presential/online
// split. Occupancy rate is derived in the service layer.
func (r *statsRepository) TopEvents(ctx context.Context, limit int) ([]*domain.EventRanking, error) {
	query := `
		SELECT e.id, e.name, e.vacancy_total,
			COUNT(al.id) AS total,
			COUNT(*) FILTER (WHERE al.attendee_type IN ('in_person', 'admin_added')) AS presential,
			COUNT(*) FILTER (WHERE al.attendee_type = 'online') AS online
		FROM events e
		JOIN attendance_list al ON al.event_id = e.id
		GROUP BY e.id, e.name, e.vacancy_total
		ORDER BY total DESC
		LIMIT $1
	`
	rows, err := r.q.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]*domain.EventRanking, 0)
	for rows.Next() {
		er := &domain.EventRanking{}
		if err := rows.Scan(&er.EventID, &er.EventName, &er.VacancyTotal, &er.Total, &er.Presential, &er.Online); err != nil {
			return nil, err
		}
		out = append(out, er)
	}
	return out, rows.Err()
}
