package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventdesk/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{DB: db}
}

const eventColumns = `e.id, e.name, e.slug, e.description, e.format,
		e.vacancy_total, e.vacancies_per_brand, e.online_vacancies,
		e.start_date, e.end_date, e.schedule_link, e.published, e.highlighted,
		e.cover_image, e.street, e.number, e.complement, e.neighborhood,
		e.city, e.state, e.zip_code, e.intl_country, e.intl_city,
		e.created_at, e.updated_at`

func scanEvent(scan func(dest ...interface{}) error) (*domain.Event, error) {
	e := &domain.Event{}
	var street, number, complement, neighborhood, city, state, zip sql.NullString
	var intlCountry, intlCity sql.NullString
	err := scan(
		&e.ID, &e.Name, &e.Slug, &e.Description, &e.Format,
		&e.VacancyTotal, &e.VacanciesPerBrand, &e.OnlineVacancies,
		&e.StartDate, &e.EndDate, &e.ScheduleLink, &e.Published, &e.Highlighted,
		&e.CoverImage, &street, &number, &complement, &neighborhood,
		&city, &state, &zip, &intlCountry, &intlCity,
		&e.CreatedAt, &e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if city.Valid {
		e.Address = &domain.Address{
			Street:       street.String,
			Number:       number.String,
			Complement:   complement.String,
			Neighborhood: neighborhood.String,
			City:         city.String,
			State:        state.String,
			ZipCode:      zip.String,
		}
	}
	e.IntlCountry = intlCountry.String
	e.IntlCity = intlCity.String
	return e, nil
}

func addressArgs(e *domain.Event) []interface{} {
	var street, number, complement, neighborhood, city, state, zip interface{}
	if e.Address != nil {
		street, number, complement = e.Address.Street, e.Address.Number, e.Address.Complement
		neighborhood, city, state, zip = e.Address.Neighborhood, e.Address.City, e.Address.State, e.Address.ZipCode
	}
	var intlCountry, intlCity interface{}
	if e.IntlCountry != "" {
		intlCountry = e.IntlCountry
	}
	if e.IntlCity != "" {
		intlCity = e.IntlCity
	}
	return []interface{}{street, number, complement, neighborhood, city, state, zip, intlCountry, intlCity}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (id, name, slug, description, format,
			vacancy_total, vacancies_per_brand, online_vacancies,
			start_date, end_date, schedule_link, published, highlighted, cover_image,
			street, number, complement, neighborhood, city, state, zip_code,
			intl_country, intl_city, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14,
			$15, $16, $17, $18, $19, $20, $21, $22, $23, $24, $25)
	`
	args := []interface{}{
		e.ID, e.Name, e.Slug, e.Description, e.Format,
		e.VacancyTotal, e.VacanciesPerBrand, e.OnlineVacancies,
		e.StartDate, e.EndDate, e.ScheduleLink, e.Published, e.Highlighted, e.CoverImage,
	}
	args = append(args, addressArgs(e)...)
	args = append(args, e.CreatedAt, e.UpdatedAt)
	_, err := r.DB.ExecContext(ctx, query, args...)
	return err
}

func (r *eventRepository) Update(ctx context.Context, e *domain.Event) error {
	query := `
		UPDATE events SET name = $2, slug = $3, description = $4, format = $5,
			vacancy_total = $6, vacancies_per_brand = $7, online_vacancies = $8,
			start_date = $9, end_date = $10, schedule_link = $11, highlighted = $12,
			cover_image = $13, street = $14, number = $15, complement = $16,
			neighborhood = $17, city = $18, state = $19, zip_code = $20,
			intl_country = $21, intl_city = $22, updated_at = NOW()
		WHERE id = $1
	`
	args := []interface{}{
		e.ID, e.Name, e.Slug, e.Description, e.Format,
		e.VacancyTotal, e.VacanciesPerBrand, e.OnlineVacancies,
		e.StartDate, e.EndDate, e.ScheduleLink, e.Highlighted, e.CoverImage,
	}
	args = append(args, addressArgs(e)...)
	result, err := r.DB.ExecContext(ctx, query, args...)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.id = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) GetBySlug(ctx context.Context, slug string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events e WHERE e.slug = $1`
	e, err := scanEvent(r.DB.QueryRowContext(ctx, query, slug).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return e, nil
}

// eventOrderBy maps a named sort order to its ORDER BY clause. Every order
// carries e.id DESC so the id cursor advances deterministically; event ids
// are time-ordered (UUIDv7). The id < cursor keyset is gap-free only when
// the primary key of the sort correlates with id (newest/oldest); under
// name or enrollment sorts a row sorted after the cursor row can be skipped
// when its id is higher. Accepted: pages stay stable and duplicate-free,
// which is what the admin listing needs.
func eventOrderBy(sort string) string {
	switch sort {
	case domain.EventSortOldest:
		return "e.created_at ASC, e.id DESC"
	case domain.EventSortStartAsc:
		return "e.start_date ASC, e.id DESC"
	case domain.EventSortStartDesc:
		return "e.start_date DESC, e.id DESC"
	case domain.EventSortNameAsc:
		return "e.name ASC, e.id DESC"
	case domain.EventSortNameDesc:
		return "e.name DESC, e.id DESC"
	case domain.EventSortEnrollmentsDesc:
		return "(SELECT COUNT(*) FROM attendance_list al WHERE al.event_id = e.id) DESC, e.id DESC"
	case domain.EventSortVacanciesDesc:
		return "e.vacancy_total DESC, e.id DESC"
	default: // domain.EventSortNewest
		return "e.created_at DESC, e.id DESC"
	}
}

func eventPredicate(f domain.EventFilters) (string, []interface{}) {
	var conds []string
	var args []interface{}
	arg := func(v interface{}) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if s := strings.TrimSpace(f.Search); s != "" {
		conds = append(conds, "e.name ILIKE "+arg("%"+s+"%"))
	}
	switch f.Status {
	case domain.EventStatusDraft:
		conds = append(conds, "e.published = FALSE")
	case domain.EventStatusScheduled:
		conds = append(conds, "e.published = TRUE AND e.start_date > NOW()")
	case domain.EventStatusOngoing:
		conds = append(conds, "e.published = TRUE AND e.start_date <= NOW() AND e.end_date >= NOW()")
	case domain.EventStatusFinished:
		conds = append(conds, "e.published = TRUE AND e.end_date < NOW()")
	}
	if f.Format != "" && f.Format != domain.FilterAll {
		conds = append(conds, "e.format = "+arg(f.Format))
	}
	if f.Highlighted != nil {
		conds = append(conds, "e.highlighted = "+arg(*f.Highlighted))
	}
	if f.DateFrom != nil {
		conds = append(conds, "e.start_date >= "+arg(domain.StartOfDay(*f.DateFrom)))
	}
	if f.DateTo != nil {
		conds = append(conds, "e.start_date < "+arg(domain.EndOfDayExclusive(*f.DateTo)))
	}
	if f.City != "" {
		conds = append(conds, "e.city = "+arg(f.City))
	}
	if f.State != "" {
		conds = append(conds, "e.state = "+arg(f.State))
	}
	if len(conds) == 0 {
		return "TRUE", args
	}
	return strings.Join(conds, " AND "), args
}

// ListAdmin fetches up to limit+1 rows so the caller can detect a next page
// without a count query.
func (r *eventRepository) ListAdmin(ctx context.Context, f domain.EventFilters, cursor string, limit int) ([]*domain.Event, error) {
	where, args := eventPredicate(f)
	if cursor != "" {
		args = append(args, cursor)
		where += fmt.Sprintf(" AND e.id < $%d", len(args))
	}
	args = append(args, limit+1)
	query := fmt.Sprintf(`
		SELECT `+eventColumns+`
		FROM events e
		WHERE %s
		ORDER BY %s
		LIMIT $%d
	`, where, eventOrderBy(f.Sort), len(args))

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows.Scan)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}

// MetricsByEventIDs computes per-event derived metrics for the fetched page
// in one grouped query keyed by event ids.
func (r *eventRepository) MetricsByEventIDs(ctx context.Context, eventIDs []string) (map[string]*domain.EventMetrics, error) {
	metrics := make(map[string]*domain.EventMetrics, len(eventIDs))
	if len(eventIDs) == 0 {
		return metrics, nil
	}
	query := `
		SELECT al.event_id,
			COUNT(DISTINCT al.cnpj) FILTER (WHERE al.cnpj <> '') AS distinct_companies,
			COUNT(*) FILTER (WHERE al.attendee_type IN ('in_person', 'admin_added')) AS presential,
			COUNT(*) FILTER (WHERE al.attendee_type = 'online') AS online
		FROM attendance_list al
		WHERE al.event_id = ANY($1)
		GROUP BY al.event_id
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(eventIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		m := &domain.EventMetrics{}
		if err := rows.Scan(&m.EventID, &m.DistinctCompanies, &m.Presential, &m.Online); err != nil {
			return nil, err
		}
		metrics[m.EventID] = m
	}
	return metrics, rows.Err()
}

func (r *eventRepository) SetPublished(ctx context.Context, id string, published bool) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE events SET published = $1, updated_at = NOW() WHERE id = $2`, published, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *eventRepository) SetHighlighted(ctx context.Context, id string, highlighted bool) error {
	result, err := r.DB.ExecContext(ctx,
		`UPDATE events SET highlighted = $1, updated_at = NOW() WHERE id = $2`, highlighted, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ReplaceRelations rewrites the event's speaker/sponsor/supporter links in
// one transaction.
func (r *eventRepository) ReplaceRelations(ctx context.Context, eventID string, rel domain.EventRelations) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	rewrite := func(table, column string, ids []string) error {
		if _, err := tx.ExecContext(ctx,
			fmt.Sprintf(`DELETE FROM %s WHERE event_id = $1`, table), eventID); err != nil {
			return err
		}
		for _, id := range ids {
			if _, err := tx.ExecContext(ctx, fmt.Sprintf(`
				INSERT INTO %s (event_id, %s) VALUES ($1, $2)
				ON CONFLICT DO NOTHING
			`, table, column), eventID, id); err != nil {
				return err
			}
		}
		return nil
	}

	if err := rewrite("event_speakers", "speaker_id", rel.SpeakerIDs); err != nil {
		return err
	}
	if err := rewrite("event_sponsors", "sponsor_id", rel.SponsorIDs); err != nil {
		return err
	}
	if err := rewrite("event_supporters", "supporter_id", rel.SupporterIDs); err != nil {
		return err
	}
	return tx.Commit()
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM events WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
