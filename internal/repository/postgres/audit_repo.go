package postgres

import (
	"context"
	"database/sql"

	"eventdesk/internal/domain"
)

type auditRepository struct {
	DB *sql.DB
}

func NewAuditRepository(db *sql.DB) domain.AuditRepository {
	return &auditRepository{DB: db}
}

func (r *auditRepository) Create(ctx context.Context, entry *domain.AuditEntry) error {
	query := `
		INSERT INTO audit_logs (id, actor_user_id, action, entity, entity_id, detail, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`
	var detail interface{}
	if len(entry.Detail) > 0 {
		detail = []byte(entry.Detail)
	}
	_, err := r.DB.ExecContext(ctx, query,
		entry.ID, entry.ActorUserID, entry.Action, entry.Entity, entry.EntityID, detail, entry.CreatedAt)
	return err
}

func (r *auditRepository) ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*domain.AuditEntry, error) {
	query := `
		SELECT id, actor_user_id, action, entity, entity_id, detail, created_at
		FROM audit_logs
		WHERE entity = $1 AND entity_id = $2
		ORDER BY created_at DESC
		LIMIT $3
	`
	rows, err := r.DB.QueryContext(ctx, query, entity, entityID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.AuditEntry, 0)
	for rows.Next() {
		e := &domain.AuditEntry{}
		var detail sql.NullString
		if err := rows.Scan(&e.ID, &e.ActorUserID, &e.Action, &e.Entity, &e.EntityID, &detail, &e.CreatedAt); err != nil {
			return nil, err
		}
		if detail.Valid {
			e.Detail = []byte(detail.String)
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
