package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"eventdesk/internal/domain"
)

type auditor struct {
	repo   domain.AuditRepository
	logger *slog.Logger
}

// NewAuditor returns an Auditor that writes structured entries through the
// repository. A failed write is logged and swallowed: auditing never fails
// the mutation it describes.
func NewAuditor(repo domain.AuditRepository, logger *slog.Logger) domain.Auditor {
	return &auditor{repo: repo, logger: logger}
}

func (a *auditor) Record(ctx context.Context, actorID, action, entity, entityID string, detail any) {
	var raw json.RawMessage
	if detail != nil {
		b, err := json.Marshal(detail)
		if err != nil {
			a.logger.ErrorContext(ctx, "audit detail marshal failed", "action", action, "err", err)
		} else {
			raw = b
		}
	}
	entry := &domain.AuditEntry{
		ID:          uuid.NewString(),
		ActorUserID: actorID,
		Action:      action,
		Entity:      entity,
		EntityID:    entityID,
		Detail:      raw,
		CreatedAt:   time.Now(),
	}
	if err := a.repo.Create(ctx, entry); err != nil {
		a.logger.ErrorContext(ctx, "audit write failed", "action", action, "entity", entity, "entity_id", entityID, "err", err)
	}
}

// changeDetail is the before/after shape stored in audit entries.
type changeDetail struct {
	Before any `json:"before,omitempty"`
	After  any `json:"after,omitempty"`
}
