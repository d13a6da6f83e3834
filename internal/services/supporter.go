package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type supporterService struct {
	supporterRepo  domain.SupporterRepository
	eventRepo      domain.EventRepository
	auditor        domain.Auditor
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSupporterService(
	supporterRepo domain.SupporterRepository,
	eventRepo domain.EventRepository,
	auditor domain.Auditor,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SupporterService {
	return &supporterService{
		supporterRepo:  supporterRepo,
		eventRepo:      eventRepo,
		auditor:        auditor,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *supporterService) Create(ctx context.Context, actorID, name, logo, cnpj string) (*domain.Supporter, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	su := &domain.Supporter{
		Name:      name,
		Logo:      logo,
		CNPJ:      cnpj,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.supporterRepo.Create(ctx, su); err != nil {
		return nil, fmt.Errorf("create supporter: %w", err)
	}
	s.auditor.Record(ctx, actorID, "supporter.create", "supporter", su.ID, changeDetail{After: su})
	return su, nil
}

func (s *supporterService) Update(ctx context.Context, actorID, supporterID, name, logo, cnpj string) (*domain.Supporter, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.supporterRepo.GetByID(ctx, supporterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get supporter: %w", err)
	}

	su := &domain.Supporter{
		ID:        supporterID,
		Name:      name,
		Logo:      logo,
		CNPJ:      cnpj,
		CreatedAt: before.CreatedAt,
	}
	if err := s.supporterRepo.Update(ctx, su); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update supporter: %w", err)
	}
	s.auditor.Record(ctx, actorID, "supporter.update", "supporter", supporterID, changeDetail{Before: before, After: su})
	return su, nil
}

func (s *supporterService) List(ctx context.Context) ([]*domain.Supporter, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.supporterRepo.List(ctx)
}

func (s *supporterService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Supporter, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.supporterRepo.ListByEventID(ctx, eventID)
}

func (s *supporterService) Associate(ctx context.Context, actorID, eventID, supporterID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if _, err := s.supporterRepo.GetByID(ctx, supporterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get supporter: %w", err)
	}

	associated, err := s.supporterRepo.IsAssociated(ctx, eventID, supporterID)
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if associated {
		return domain.ErrDuplicate
	}

	if err := s.supporterRepo.Associate(ctx, eventID, supporterID); err != nil {
		return fmt.Errorf("associate supporter: %w", err)
	}
	s.auditor.Record(ctx, actorID, "supporter.associate", "event", eventID, map[string]string{"supporter_id": supporterID})
	return nil
}

func (s *supporterService) Disassociate(ctx context.Context, actorID, eventID, supporterID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.supporterRepo.Disassociate(ctx, eventID, supporterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("disassociate supporter: %w", err)
	}
	s.auditor.Record(ctx, actorID, "supporter.disassociate", "event", eventID, map[string]string{"supporter_id": supporterID})
	return nil
}

func (s *supporterService) Delete(ctx context.Context, actorID, supporterID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.supporterRepo.GetByID(ctx, supporterID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get supporter: %w", err)
	}
	if err := s.supporterRepo.Delete(ctx, supporterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete supporter: %w", err)
	}
	s.auditor.Record(ctx, actorID, "supporter.delete", "supporter", supporterID, changeDetail{Before: before})
	return nil
}
