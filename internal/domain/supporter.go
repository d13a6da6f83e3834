package domain

import (
	"context"
	"time"
)

// Supporter is a supporting organization shown on event pages.
// swagger:model Supporter
type Supporter struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	CNPJ      string    `json:"cnpj"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SupporterRepository defines storage operations for supporters.
type SupporterRepository interface {
	Create(ctx context.Context, s *Supporter) error
	Update(ctx context.Context, s *Supporter) error
	GetByID(ctx context.Context, id string) (*Supporter, error)
	List(ctx context.Context) ([]*Supporter, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Supporter, error)
	IsAssociated(ctx context.Context, eventID, supporterID string) (bool, error)
	Associate(ctx context.Context, eventID, supporterID string) error
	Disassociate(ctx context.Context, eventID, supporterID string) error
	Delete(ctx context.Context, id string) error
}

// SupporterService defines organizer-facing supporter operations.
type SupporterService interface {
	Create(ctx context.Context, actorID, name, logo, cnpj string) (*Supporter, error)
	Update(ctx context.Context, actorID, supporterID, name, logo, cnpj string) (*Supporter, error)
	List(ctx context.Context) ([]*Supporter, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Supporter, error)
	Associate(ctx context.Context, actorID, eventID, supporterID string) error
	Disassociate(ctx context.Context, actorID, eventID, supporterID string) error
	Delete(ctx context.Context, actorID, supporterID string) error
}
