package domain

import (
	"context"
	"time"
)

// Sponsor is a sponsoring brand, optionally tied to a company by CNPJ.
// swagger:model Sponsor
type Sponsor struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Logo      string    `json:"logo"`
	CNPJ      string    `json:"cnpj"`
	Segment   string    `json:"segment"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// SponsorRepository defines storage operations for sponsors.
type SponsorRepository interface {
	Create(ctx context.Context, s *Sponsor) error
	Update(ctx context.Context, s *Sponsor) error
	GetByID(ctx context.Context, id string) (*Sponsor, error)
	List(ctx context.Context) ([]*Sponsor, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Sponsor, error)
	IsAssociated(ctx context.Context, eventID, sponsorID string) (bool, error)
	Associate(ctx context.Context, eventID, sponsorID string) error
	Disassociate(ctx context.Context, eventID, sponsorID string) error
	Delete(ctx context.Context, id string) error
}

// SponsorService defines organizer-facing sponsor operations.
type SponsorService interface {
	Create(ctx context.Context, actorID, name, logo, cnpj, segment string) (*Sponsor, error)
	Update(ctx context.Context, actorID, sponsorID, name, logo, cnpj, segment string) (*Sponsor, error)
	List(ctx context.Context) ([]*Sponsor, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Sponsor, error)
	Associate(ctx context.Context, actorID, eventID, sponsorID string) error
	Disassociate(ctx context.Context, actorID, eventID, sponsorID string) error
	Delete(ctx context.Context, actorID, sponsorID string) error
}
