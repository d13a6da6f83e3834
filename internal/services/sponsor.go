package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type sponsorService struct {
	sponsorRepo    domain.SponsorRepository
	eventRepo      domain.EventRepository
	auditor        domain.Auditor
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewSponsorService(
	sponsorRepo domain.SponsorRepository,
	eventRepo domain.EventRepository,
	auditor domain.Auditor,
	logger *slog.Logger,
	timeout time.Duration,
) domain.SponsorService {
	return &sponsorService{
		sponsorRepo:    sponsorRepo,
		eventRepo:      eventRepo,
		auditor:        auditor,
		logger:         logger,
		contextTimeout: timeout,
	}
}

func (s *sponsorService) Create(ctx context.Context, actorID, name, logo, cnpj, segment string) (*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	now := time.Now()
	sp := &domain.Sponsor{
		Name:      name,
		Logo:      logo,
		CNPJ:      cnpj,
		Segment:   segment,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.sponsorRepo.Create(ctx, sp); err != nil {
		return nil, fmt.Errorf("create sponsor: %w", err)
	}
	s.auditor.Record(ctx, actorID, "sponsor.create", "sponsor", sp.ID, changeDetail{After: sp})
	return sp, nil
}

func (s *sponsorService) Update(ctx context.Context, actorID, sponsorID, name, logo, cnpj, segment string) (*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.sponsorRepo.GetByID(ctx, sponsorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get sponsor: %w", err)
	}

	sp := &domain.Sponsor{
		ID:        sponsorID,
		Name:      name,
		Logo:      logo,
		CNPJ:      cnpj,
		Segment:   segment,
		CreatedAt: before.CreatedAt,
	}
	if err := s.sponsorRepo.Update(ctx, sp); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update sponsor: %w", err)
	}
	s.auditor.Record(ctx, actorID, "sponsor.update", "sponsor", sponsorID, changeDetail{Before: before, After: sp})
	return sp, nil
}

func (s *sponsorService) List(ctx context.Context) ([]*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.sponsorRepo.List(ctx)
}

func (s *sponsorService) ListByEvent(ctx context.Context, eventID string) ([]*domain.Sponsor, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return s.sponsorRepo.ListByEventID(ctx, eventID)
}

func (s *sponsorService) Associate(ctx context.Context, actorID, eventID, sponsorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	if _, err := s.sponsorRepo.GetByID(ctx, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get sponsor: %w", err)
	}

	associated, err := s.sponsorRepo.IsAssociated(ctx, eventID, sponsorID)
	if err != nil {
		return fmt.Errorf("check association: %w", err)
	}
	if associated {
		return domain.ErrDuplicate
	}

	if err := s.sponsorRepo.Associate(ctx, eventID, sponsorID); err != nil {
		return fmt.Errorf("associate sponsor: %w", err)
	}
	s.auditor.Record(ctx, actorID, "sponsor.associate", "event", eventID, map[string]string{"sponsor_id": sponsorID})
	return nil
}

func (s *sponsorService) Disassociate(ctx context.Context, actorID, eventID, sponsorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := s.sponsorRepo.Disassociate(ctx, eventID, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("disassociate sponsor: %w", err)
	}
	s.auditor.Record(ctx, actorID, "sponsor.disassociate", "event", eventID, map[string]string{"sponsor_id": sponsorID})
	return nil
}

func (s *sponsorService) Delete(ctx context.Context, actorID, sponsorID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.sponsorRepo.GetByID(ctx, sponsorID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get sponsor: %w", err)
	}
	if err := s.sponsorRepo.Delete(ctx, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete sponsor: %w", err)
	}
	s.auditor.Record(ctx, actorID, "sponsor.delete", "sponsor", sponsorID, changeDetail{Before: before})
	return nil
}
