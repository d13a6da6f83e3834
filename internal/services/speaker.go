package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type speakerService struct {
	speakerRepo    domain.SpeakerRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	auditor        domain.Auditor
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSpeakerService(
	speakerRepo domain.SpeakerRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	auditor domain.Auditor,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SpeakerService {
	return &speakerService{
		speakerRepo:    speakerRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		auditor:        auditor,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *speakerService) Create(ctx context.Context, actorID, userID, name, description, photo string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.userRepo.GetByID(ctx, userID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// One speaker profile per user.
	if _, err := s.speakerRepo.GetByUserID(ctx, userID); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get speaker by user: %w", err)
	}

	now := time.Now()
	sp := &domain.Speaker{
		UserID:      userID,
		Name:        name,
		Description: description,
		Photo:       photo,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := s.speakerRepo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("create speaker: %w", err)
	}
	s.auditor.Record(ctx, actorID, "speaker.create", "speaker", sp.ID, changeDetail{After: sp})
	return sp, nil
}

func (s *speakerService) Update(ctx context.Context, actorID, speakerID, name, description, photo string) (*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get speaker: %w", err)
	}

	sp := &domain.Speaker{
		ID:          speakerID,
		UserID:      before.UserID,
		Name:        name,
		Description: description,
		Photo:       photo,
		CreatedAt:   before.CreatedAt,
	}
	if err := s.speakerRepo.Update(ctx, sp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update speaker: %w", err)
	}
	s.auditor.Record(ctx, actorID, "speaker.update", "speaker", speakerID, changeDetail{Before: before, After: sp})
	return sp, nil
}

func (s *speakerService) List(ctx context.Context) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.speakerRepo.List(ctx)
}

func (s *speakerService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Speaker, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.speakerRepo.ListByEventID(ctx, eventID)
}

// Associate links a speaker to an event and mirrors them into the attendance
// list so the speaker shows up among the attendees. Both writes run in one
// transaction inside the repository.
func (s *speakerService) Associate(ctx context.Context, actorID, eventID, speakerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	sp, err := s.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get speaker: %w", err)
	}

	associated, err := s.speakerRepo.IsAssociated(ctx, eventID, speakerID)
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if associated {
		return domain.ErrDuplicate
	}

	user, err := s.userRepo.GetByID(ctx, sp.UserID)
	if err != nil {
		return fmt.Errorf("get speaker user: %w", err)
	}

	now := time.Now()
	enrollment := &domain.Enrollment{
		EventID:         eventID,
		UserID:          sp.UserID,
		AttendeeName:    sp.Name,
		AttendeeEmail:   user.Email,
		CPF:             user.CPF,
		RG:              user.RG,
		Phone:           user.Phone,
		Position:        user.Position,
		CompanyName:     user.CompanyName,
		CNPJ:            user.CNPJ,
		Segment:         user.Segment,
		AttendeeType:    domain.AttendeeTypeAdminAdded,
		ParticipantType: domain.ParticipantTypeSpeaker,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.speakerRepo.Associate(ctx, eventID, sp, enrollment); err != nil {
		return fmt.Errorf("associate speaker: %w", err)
	}
	s.auditor.Record(ctx, actorID, "speaker.associate", "event", eventID, map[string]string{
		"speaker_id": speakerID,
		"user_id":    sp.UserID,
	})
	return nil
}

// Disassociate unlinks the speaker; the mirrored enrollment is deleted only
// while its participant_type is still exactly "speaker".
func (s *speakerService) Disassociate(ctx context.Context, actorID, eventID, speakerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	sp, err := s.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get speaker: %w", err)
	}

	if err := s.speakerRepo.Disassociate(ctx, eventID, sp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("disassociate speaker: %w", err)
	}
	s.auditor.Record(ctx, actorID, "speaker.disassociate", "event", eventID, map[string]string{
		"speaker_id": speakerID,
		"user_id":    sp.UserID,
	})
	return nil
}

func (s *speakerService) Delete(ctx context.Context, actorID, speakerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.speakerRepo.GetByID(ctx, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get speaker: %w", err)
	}

	n, err := s.speakerRepo.CountEventAssociations(ctx, speakerID)
	if err != nil {
		return fmt.Errorf("count associations: %w", err)
	}
	if n > 0 {
		return domain.ErrInvalidInput
	}

	if err := s.speakerRepo.Delete(ctx, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete speaker: %w", err)
	}
	s.auditor.Record(ctx, actorID, "speaker.delete", "speaker", speakerID, changeDetail{Before: before})
	return nil
}
