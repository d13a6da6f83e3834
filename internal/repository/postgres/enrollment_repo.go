package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"eventdesk/internal/domain"
)

type enrollmentRepository struct {
	DB *sql.DB
}

func NewEnrollmentRepository(db *sql.DB) domain.EnrollmentRepository {
	return &enrollmentRepository{DB: db}
}

const enrollmentColumns = `al.id, al.event_id, al.user_id, al.attendee_name, al.attendee_email,
		al.cpf, al.rg, al.phone, al.position, al.company_name, al.cnpj, al.segment,
		al.checked_in, al.attendee_type, al.participant_type, al.created_at, al.updated_at`

// enrollmentPredicate builds the shared WHERE clause for the list and
// counter queries. "ALL" and the empty string disable a filter; date bounds
// cover whole local calendar days.
func enrollmentPredicate(f domain.EnrollmentFilters) (string, []interface{}) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		p := arg("%" + s + "%")
		conds = append(conds, fmt.Sprintf(
			"(al.attendee_name ILIKE %s OR al.attendee_email ILIKE %s OR al.company_name ILIKE %s)", p, p, p))
	}
	if f.EventID != "" && f.EventID != domain.FilterAll {
		conds = append(conds, "al.event_id = "+arg(f.EventID))
	}
	if f.Segment != "" && f.Segment != domain.FilterAll {
		conds = append(conds, "al.segment = "+arg(f.Segment))
	}
	switch f.Status {
	case domain.StatusCheckedIn:
		conds = append(conds, "al.checked_in = TRUE")
	case domain.StatusPending:
		conds = append(conds, "al.checked_in = FALSE")
	}
	if f.AttendeeType != "" && f.AttendeeType != domain.FilterAll {
		conds = append(conds, "al.attendee_type = "+arg(f.AttendeeType))
	}
	if f.DateFrom != nil {
		conds = append(conds, "al.created_at >= "+arg(domain.StartOfDay(*f.DateFrom)))
	}
	if f.DateTo != nil {
		conds = append(conds, "al.created_at < "+arg(domain.EndOfDayExclusive(*f.DateTo)))
	}
	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

func (r *enrollmentRepository) Create(ctx context.Context, e *domain.Enrollment) error {
	query := `
		INSERT INTO attendance_list (event_id, user_id, attendee_name, attendee_email,
			cpf, rg, phone, position, company_name, cnpj, segment,
			checked_in, attendee_type, participant_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (event_id, user_id) DO NOTHING
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query,
		e.EventID, e.UserID, e.AttendeeName, e.AttendeeEmail,
		e.CPF, e.RG, e.Phone, e.Position, e.CompanyName, e.CNPJ, e.Segment,
		e.CheckedIn, e.AttendeeType, e.ParticipantType, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
	if errors.Is(err, sql.ErrNoRows) {
		// Conflict target hit: a row for this (event, user) already exists.
		return domain.ErrDuplicate
	}
	return err
}

func scanEnrollment(scan func(dest ...interface{}) error, withEventName bool) (*domain.Enrollment, error) {
	e := &domain.Enrollment{}
	dest := []interface{}{
		&e.ID, &e.EventID, &e.UserID, &e.AttendeeName, &e.AttendeeEmail,
		&e.CPF, &e.RG, &e.Phone, &e.Position, &e.CompanyName, &e.CNPJ, &e.Segment,
		&e.CheckedIn, &e.AttendeeType, &e.ParticipantType, &e.CreatedAt, &e.UpdatedAt,
	}
	if withEventName {
		dest = append(dest, &e.EventName)
	}
	if err := scan(dest...); err != nil {
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) GetByID(ctx context.Context, id string) (*domain.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `, e.name
		FROM attendance_list al
		JOIN events e ON e.id = al.event_id
		WHERE al.id = $1
	`
	row := r.DB.QueryRowContext(ctx, query, id)
	e, err := scanEnrollment(row.Scan, true)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Enrollment, error) {
	query := `
		SELECT ` + enrollmentColumns + `
		FROM attendance_list al
		WHERE al.event_id = $1 AND al.user_id = $2
	`
	row := r.DB.QueryRowContext(ctx, query, eventID, userID)
	e, err := scanEnrollment(row.Scan, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) List(ctx context.Context, f domain.EnrollmentFilters, limit, offset int) ([]*domain.Enrollment, error) {
	where, args := enrollmentPredicate(f)
	args = append(args, limit, offset)
	query := fmt.Sprintf(`
		SELECT `+enrollmentColumns+`, e.name
		FROM attendance_list al
		JOIN events e ON e.id = al.event_id
		WHERE %s
		ORDER BY al.created_at DESC, al.id DESC
		LIMIT $%d OFFSET $%d
	`, where, len(args)-1, len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	enrollments := make([]*domain.Enrollment, 0)
	for rows.Next() {
		e, err := scanEnrollment(rows.Scan, true)
		if err != nil {
			return nil, err
		}
		enrollments = append(enrollments, e)
	}
	return enrollments, rows.Err()
}

// Counters runs the five count queries concurrently under one predicate.
func (r *enrollmentRepository) Counters(ctx context.Context, f domain.EnrollmentFilters) (*domain.EnrollmentCounters, error) {
	where, args := enrollmentPredicate(f)
	base := "SELECT COUNT(*) FROM attendance_list al WHERE " + where

	c := &domain.EnrollmentCounters{}
	g, gctx := errgroup.WithContext(ctx)
	count := func(extra string, dst *int) func() error {
		query := base
		if extra != "" {
			query += " AND " + extra
		}
		return func() error {
			return r.DB.QueryRowContext(gctx, query, args...).Scan(dst)
		}
	}
	g.Go(count("", &c.Total))
	g.Go(count("al.checked_in = TRUE", &c.CheckedIn))
	g.Go(count("al.checked_in = FALSE", &c.Pending))
	g.Go(count("al.attendee_type IN ('in_person', 'admin_added')", &c.Presential))
	g.Go(count("al.attendee_type = 'online'", &c.Online))
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return c, nil
}

func (r *enrollmentRepository) SetCheckedIn(ctx context.Context, id string, checkedIn bool) (*domain.Enrollment, error) {
	query := `
		UPDATE attendance_list al SET checked_in = $1, updated_at = NOW()
		WHERE al.id = $2
		RETURNING ` + enrollmentColumns
	row := r.DB.QueryRowContext(ctx, query, checkedIn, id)
	e, err := scanEnrollment(row.Scan, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) SetParticipantType(ctx context.Context, id, participantType string) (*domain.Enrollment, error) {
	query := `
		UPDATE attendance_list al SET participant_type = $1, updated_at = NOW()
		WHERE al.id = $2
		RETURNING ` + enrollmentColumns
	row := r.DB.QueryRowContext(ctx, query, participantType, id)
	e, err := scanEnrollment(row.Scan, false)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *enrollmentRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM attendance_list WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *enrollmentRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_list WHERE event_id = $1`, eventID).Scan(&n)
	return n, err
}

func (r *enrollmentRepository) CountByUserID(ctx context.Context, userID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM attendance_list WHERE user_id = $1`, userID).Scan(&n)
	return n, err
}
