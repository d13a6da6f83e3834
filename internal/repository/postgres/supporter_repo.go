package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

type supporterRepository struct {
	DB *sql.DB
}

func NewSupporterRepository(db *sql.DB) domain.SupporterRepository {
	return &supporterRepository{DB: db}
}

func scanSupporter(scan func(dest ...interface{}) error) (*domain.Supporter, error) {
	s := &domain.Supporter{}
	if err := scan(&s.ID, &s.Name, &s.Logo, &s.CNPJ, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *supporterRepository) Create(ctx context.Context, s *domain.Supporter) error {
	query := `
		INSERT INTO supporters (name, logo, cnpj, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.Name, s.Logo, s.CNPJ, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func (r *supporterRepository) Update(ctx context.Context, s *domain.Supporter) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE supporters SET name = $2, logo = $3, cnpj = $4, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Name, s.Logo, s.CNPJ)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *supporterRepository) GetByID(ctx context.Context, id string) (*domain.Supporter, error) {
	query := `SELECT id, name, logo, cnpj, created_at, updated_at FROM supporters WHERE id = $1`
	s, err := scanSupporter(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *supporterRepository) List(ctx context.Context) ([]*domain.Supporter, error) {
	query := `SELECT id, name, logo, cnpj, created_at, updated_at FROM supporters ORDER BY name ASC`
	return r.list(ctx, query)
}

func (r *supporterRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Supporter, error) {
	query := `
		SELECT su.id, su.name, su.logo, su.cnpj, su.created_at, su.updated_at
		FROM supporters su
		JOIN event_supporters es ON es.supporter_id = su.id
		WHERE es.event_id = $1
		ORDER BY su.name ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *supporterRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Supporter, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	supporters := make([]*domain.Supporter, 0)
	for rows.Next() {
		s, err := scanSupporter(rows.Scan)
		if err != nil {
			return nil, err
		}
		supporters = append(supporters, s)
	}
	return supporters, rows.Err()
}

func (r *supporterRepository) IsAssociated(ctx context.Context, eventID, supporterID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_supporters WHERE event_id = $1 AND supporter_id = $2`,
		eventID, supporterID).Scan(&n)
	return n > 0, err
}

func (r *supporterRepository) Associate(ctx context.Context, eventID, supporterID string) error {
	_, err := r.DB.ExecContext(ctx, `
		INSERT INTO event_supporters (event_id, supporter_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, eventID, supporterID)
	return err
}

func (r *supporterRepository) Disassociate(ctx context.Context, eventID, supporterID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM event_supporters WHERE event_id = $1 AND supporter_id = $2`, eventID, supporterID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *supporterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM supporters WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
