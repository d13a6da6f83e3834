package postgres

import (
	"context"
	"database/sql"
	"errors"

	"eventdesk/internal/domain"
)

type speakerRepository struct {
	DB *sql.DB
}

func NewSpeakerRepository(db *sql.DB) domain.SpeakerRepository {
	return &speakerRepository{DB: db}
}

const speakerColumns = `s.id, s.user_id, s.name, s.description, s.photo, s.created_at, s.updated_at`

func scanSpeaker(scan func(dest ...interface{}) error) (*domain.Speaker, error) {
	s := &domain.Speaker{}
	if err := scan(&s.ID, &s.UserID, &s.Name, &s.Description, &s.Photo, &s.CreatedAt, &s.UpdatedAt); err != nil {
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) Create(ctx context.Context, s *domain.Speaker) error {
	query := `
		INSERT INTO speakers (user_id, name, description, photo, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		s.UserID, s.Name, s.Description, s.Photo, s.CreatedAt, s.UpdatedAt).Scan(&s.ID)
}

func (r *speakerRepository) Update(ctx context.Context, s *domain.Speaker) error {
	result, err := r.DB.ExecContext(ctx, `
		UPDATE speakers SET name = $2, description = $3, photo = $4, updated_at = NOW()
		WHERE id = $1
	`, s.ID, s.Name, s.Description, s.Photo)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *speakerRepository) GetByID(ctx context.Context, id string) (*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers s WHERE s.id = $1`
	s, err := scanSpeaker(r.DB.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) GetByUserID(ctx context.Context, userID string) (*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers s WHERE s.user_id = $1`
	s, err := scanSpeaker(r.DB.QueryRowContext(ctx, query, userID).Scan)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

func (r *speakerRepository) List(ctx context.Context) ([]*domain.Speaker, error) {
	query := `SELECT ` + speakerColumns + ` FROM speakers s ORDER BY s.name ASC`
	return r.list(ctx, query)
}

func (r *speakerRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	query := `
		SELECT ` + speakerColumns + `
		FROM speakers s
		JOIN event_speakers es ON es.speaker_id = s.id
		WHERE es.event_id = $1
		ORDER BY s.name ASC
	`
	return r.list(ctx, query, eventID)
}

func (r *speakerRepository) list(ctx context.Context, query string, args ...interface{}) ([]*domain.Speaker, error) {
	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	speakers := make([]*domain.Speaker, 0)
	for rows.Next() {
		s, err := scanSpeaker(rows.Scan)
		if err != nil {
			return nil, err
		}
		speakers = append(speakers, s)
	}
	return speakers, rows.Err()
}

func (r *speakerRepository) IsAssociated(ctx context.Context, eventID, speakerID string) (bool, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_speakers WHERE event_id = $1 AND speaker_id = $2`,
		eventID, speakerID).Scan(&n)
	return n > 0, err
}

// Associate links the speaker to the event and mirrors it into the attendance
// list in one transaction, so the speaker always appears among the attendees.
// An existing enrollment for the same (event, user) is retyped to "speaker"
// instead of duplicated.
func (r *speakerRepository) Associate(ctx context.Context, eventID string, s *domain.Speaker, enrollment *domain.Enrollment) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO event_speakers (event_id, speaker_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING
	`, eventID, s.ID); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO attendance_list (event_id, user_id, attendee_name, attendee_email,
			cpf, rg, phone, position, company_name, cnpj, segment,
			checked_in, attendee_type, participant_type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		ON CONFLICT (event_id, user_id)
		DO UPDATE SET participant_type = EXCLUDED.participant_type, updated_at = NOW()
	`,
		enrollment.EventID, enrollment.UserID, enrollment.AttendeeName, enrollment.AttendeeEmail,
		enrollment.CPF, enrollment.RG, enrollment.Phone, enrollment.Position,
		enrollment.CompanyName, enrollment.CNPJ, enrollment.Segment,
		enrollment.CheckedIn, enrollment.AttendeeType, enrollment.ParticipantType,
		enrollment.CreatedAt, enrollment.UpdatedAt,
	); err != nil {
		return err
	}

	return tx.Commit()
}

// Disassociate removes the link and the mirrored enrollment, but only while
// the enrollment's participant_type is still exactly "speaker". Rows retyped
// through other paths are left alone.
func (r *speakerRepository) Disassociate(ctx context.Context, eventID string, s *domain.Speaker) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx,
		`DELETE FROM event_speakers WHERE event_id = $1 AND speaker_id = $2`, eventID, s.ID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}

	if _, err := tx.ExecContext(ctx, `
		DELETE FROM attendance_list
		WHERE event_id = $1 AND user_id = $2 AND participant_type = $3
	`, eventID, s.UserID, domain.ParticipantTypeSpeaker); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *speakerRepository) CountEventAssociations(ctx context.Context, speakerID string) (int, error) {
	var n int
	err := r.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM event_speakers WHERE speaker_id = $1`, speakerID).Scan(&n)
	return n, err
}

func (r *speakerRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM speakers WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}
