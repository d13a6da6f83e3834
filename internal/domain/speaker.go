package domain

import (
	"context"
	"time"
)

// Speaker wraps a user with a public speaking profile. A user has at most
// one speaker profile.
// swagger:model Speaker
type Speaker struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	Photo       string    `json:"photo"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// SpeakerRepository defines storage operations for speakers and their event
// associations. Associate and Disassociate also maintain the mirrored
// enrollment row and must run both writes in one transaction.
type SpeakerRepository interface {
	Create(ctx context.Context, s *Speaker) error
	Update(ctx context.Context, s *Speaker) error
	GetByID(ctx context.Context, id string) (*Speaker, error)
	GetByUserID(ctx context.Context, userID string) (*Speaker, error)
	List(ctx context.Context) ([]*Speaker, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Speaker, error)
	IsAssociated(ctx context.Context, eventID, speakerID string) (bool, error)
	// Associate links the speaker to the event and inserts (or retypes) the
	// mirrored enrollment with participant_type "speaker".
	Associate(ctx context.Context, eventID string, s *Speaker, enrollment *Enrollment) error
	// Disassociate unlinks the speaker and deletes the mirrored enrollment
	// only while its participant_type is still exactly "speaker".
	Disassociate(ctx context.Context, eventID string, s *Speaker) error
	CountEventAssociations(ctx context.Context, speakerID string) (int, error)
	Delete(ctx context.Context, id string) error
}

// SpeakerService defines organizer-facing speaker operations.
type SpeakerService interface {
	Create(ctx context.Context, actorID, userID, name, description, photo string) (*Speaker, error)
	Update(ctx context.Context, actorID, speakerID, name, description, photo string) (*Speaker, error)
	List(ctx context.Context) ([]*Speaker, error)
	ListByEvent(ctx context.Context, eventID string) ([]*Speaker, error)
	Associate(ctx context.Context, actorID, eventID, speakerID string) error
	Disassociate(ctx context.Context, actorID, eventID, speakerID string) error
	Delete(ctx context.Context, actorID, speakerID string) error
}
