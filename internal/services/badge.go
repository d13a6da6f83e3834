package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

type badgeService struct {
	enrollmentRepo domain.EnrollmentRepository
	eventRepo      domain.EventRepository
	printer        domain.BadgePrinter
	auditor        domain.Auditor
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewBadgeService(
	enrollmentRepo domain.EnrollmentRepository,
	eventRepo domain.EventRepository,
	printer domain.BadgePrinter,
	auditor domain.Auditor,
	logger *slog.Logger,
	timeout time.Duration,
) domain.BadgeService {
	return &badgeService{
		enrollmentRepo: enrollmentRepo,
		eventRepo:      eventRepo,
		printer:        printer,
		auditor:        auditor,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// PrintBadges sends one badge per enrollment to the printer at ip:port on the
// operator's network. The QR code carries the enrollment id so the check-in
// scanner can resolve it. Returns the number of badges sent.
func (s *badgeService) PrintBadges(ctx context.Context, actorID, eventID string, enrollmentIDs []string, ip string, port int) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if ip == "" || port <= 0 || len(enrollmentIDs) == 0 {
		return 0, domain.ErrInvalidInput
	}
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return 0, domain.ErrNotFound
		}
		return 0, fmt.Errorf("get event: %w", err)
	}

	badges := make([]domain.BadgePayload, 0, len(enrollmentIDs))
	for _, id := range enrollmentIDs {
		e, err := s.enrollmentRepo.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return 0, domain.ErrNotFound
			}
			return 0, fmt.Errorf("get enrollment: %w", err)
		}
		if e.EventID != eventID {
			return 0, domain.ErrInvalidInput
		}
		badges = append(badges, domain.BadgePayload{
			Name:     e.AttendeeName,
			Company:  e.CompanyName,
			Position: e.Position,
			QR:       e.ID,
		})
	}

	if err := s.printer.Print(ctx, ip, port, badges); err != nil {
		return 0, fmt.Errorf("print badges: %w", err)
	}
	s.auditor.Record(ctx, actorID, "badge.print", "event", eventID, map[string]any{
		"count":          len(badges),
		"enrollment_ids": enrollmentIDs,
	})
	return len(badges), nil
}
