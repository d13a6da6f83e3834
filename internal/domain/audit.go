package domain

import (
	"context"
	"encoding/json"
	"time"
)

// AuditEntry is a structured audit-log record describing a mutation,
// including before/after state where applicable.
// swagger:model AuditEntry
type AuditEntry struct {
	ID          string          `json:"id"`
	ActorUserID string          `json:"actor_user_id"`
	Action      string          `json:"action"`
	Entity      string          `json:"entity"`
	EntityID    string          `json:"entity_id"`
	Detail      json.RawMessage `json:"detail,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// AuditRepository defines storage for audit-log entries.
type AuditRepository interface {
	Create(ctx context.Context, entry *AuditEntry) error
	ListByEntity(ctx context.Context, entity, entityID string, limit int) ([]*AuditEntry, error)
}

// Auditor records audit entries. Recording must never fail the mutation it
// describes; implementations log write failures and move on.
type Auditor interface {
	Record(ctx context.Context, actorID, action, entity, entityID string, detail any)
}
