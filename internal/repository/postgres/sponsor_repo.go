package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

type sponsorRepository struct {
	DB *sql.DB
}

func NewSponsorRepository(db *sql.DB) domain.SponsorRepository {
	return &sponsorRepository{DB: db}
}

func scanSponsor(scan func(dest ...interface{}) error) (*domain.Sponsor, error) {
	s := &domain.Sponsor{}
	if err := scan(&s.ID, &s.Name, &s.Logo, &s.CNPJ, &s.Segment, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *sponsorRepository) Create(ctx context.Context, s *domain.Sponsor) error {
	query := `
		INSERT INTO sponsors (name, logo, cnpj, segment, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.Name, s.Logo, s.CNPJ, s.Segment, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func (r *sponsorRepository) Update(ctx context.Context, s *domain.Sponsor) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE sponsors SET name = $2, logo = $3, cnpj = $4, segment = $5, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Name, s.Logo, s.CNPJ, s.Segment)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sponsorRepository) GetByID(ctx context.Context, id string) (*domain.Sponsor, error) {
	query := `SELECT id, name, logo, cnpj, segment, created_at, updated_at FROM sponsors WHERE id = $1`
	s, err := scanSponsor(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *sponsorRepository) List(ctx context.Context) ([]*domain.Sponsor, error) {
	query := `SELECT id, name, logo, cnpj, segment, created_at, updated_at FROM sponsors ORDER BY name ASC`
	return r.list(ctx, query)
}

func (r *sponsorRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Sponsor, error) {
	query := `
		SELECT sp.id, sp.name, sp.logo, sp.cnpj, sp.segment, sp.created_at, sp.updated_at
		FROM sponsors sp
		JOIN event_sponsors es ON es.sponsor_id = sp.id
		WHERE es.event_id = $1
		ORDER BY sp.name ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *sponsorRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Sponsor, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sponsors := make([]*domain.Sponsor, 0)
	for rows.Next() {
		s, err := scanSponsor(rows.Scan)
		if err != nil {
			return nil, err
		}
		sponsors = append(sponsors, s)
	}
	return sponsors, rows.Err()
}

func (r *sponsorRepository) IsAssociated(ctx context.Context, eventID, sponsorID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_sponsors WHERE event_id = $1 AND sponsor_id = $2`,
		eventID, sponsorID).Scan(&n)
	return n > 0, err
}

func (r *sponsorRepository) Associate(ctx context.Context, eventID, sponsorID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO event_sponsors (event_id, sponsor_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, eventID, sponsorID)
	return err
}

func (r *sponsorRepository) Disassociate(ctx context.Context, eventID, sponsorID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM event_sponsors WHERE event_id = $1 AND sponsor_id = $2`, eventID, sponsorID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *sponsorRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM sponsors WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
