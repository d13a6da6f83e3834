package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"eventdesk/internal/domain"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultPageSize
	}
	if limit > maxPageSize {
		return maxPageSize
	}
	return limit
}

type enrollmentService struct {
	enrollmentRepo domain.EnrollmentRepository
	eventRepo      domain.EventRepository
	userRepo       domain.UserRepository
	auditor        domain.Auditor
	mailer         domain.Mailer
	renderer       domain.EmailTemplateRenderer
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEnrollmentService(
	enrollmentRepo domain.EnrollmentRepository,
	eventRepo domain.EventRepository,
	userRepo domain.UserRepository,
	auditor domain.Auditor,
	mailer domain.Mailer,
	renderer domain.EmailTemplateRenderer,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EnrollmentService {
	return &enrollmentService{
		enrollmentRepo: enrollmentRepo,
		eventRepo:      eventRepo,
		userRepo:       userRepo,
		auditor:        auditor,
		mailer:         mailer,
		renderer:       renderer,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// List degrades to an empty page on repository failure; the listing path
// never surfaces a hard error.
func (s *enrollmentService) List(ctx context.Context, f domain.EnrollmentFilters, cursor string, limit int) (*domain.EnrollmentPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	limit = clampLimit(limit)
	skip := domain.DecodeSkipCursor(cursor)

	rows, err := s.enrollmentRepo.List(ctx, f, limit, skip)
	if err != nil {
		s.logger.ErrorContext(ctx, "list enrollments failed", "err", err)
		return emptyEnrollmentPage(), nil
	}
	counters, err := s.enrollmentRepo.Counters(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "count enrollments failed", "err", err)
		return emptyEnrollmentPage(), nil
	}

	hasNext := counters.Total > skip+len(rows)
	next := ""
	if hasNext {
		next = domain.EncodeSkipCursor(skip + limit)
	}
	return &domain.EnrollmentPage{
		Data: rows,
		Metadata: domain.PageMetadata{
			Count:       counters.Total,
			HasNextPage: hasNext,
			Cursor:      next,
		},
	}, nil
}

func emptyEnrollmentPage() *domain.EnrollmentPage {
	return &domain.EnrollmentPage{
		Data:     []*domain.Enrollment{},
		Metadata: domain.PageMetadata{},
	}
}

// Counters degrades to zeroed counters on repository failure.
func (s *enrollmentService) Counters(ctx context.Context, f domain.EnrollmentFilters) (*domain.EnrollmentCounters, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	c, err := s.enrollmentRepo.Counters(ctx, f)
	if err != nil {
		s.logger.ErrorContext(ctx, "enrollment counters failed", "err", err)
		return &domain.EnrollmentCounters{}, nil
	}
	c.CheckInRate = checkInRate(c.CheckedIn, c.Total)
	return c, nil
}

func checkInRate(checkedIn, total int) float64 {
	if total == 0 {
		return 0
	}
	return round2(float64(checkedIn) / float64(total) * 100)
}

func (s *enrollmentService) Add(ctx context.Context, actorID string, in domain.AddEnrollmentInput) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	event, err := s.eventRepo.GetByID(ctx, in.EventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	if _, err := s.userRepo.GetByID(ctx, in.UserID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}

	// Application-level uniqueness check; the insert's conflict target backs
	// it up if a concurrent add slips through.
	if _, err := s.enrollmentRepo.GetByEventAndUser(ctx, in.EventID, in.UserID); err == nil {
		return nil, domain.ErrDuplicate
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	now := time.Now()
	e := &domain.Enrollment{
		EventID:         in.EventID,
		UserID:          in.UserID,
		AttendeeName:    in.AttendeeName,
		AttendeeEmail:   in.AttendeeEmail,
		CPF:             in.CPF,
		RG:              in.RG,
		Phone:           in.Phone,
		Position:        in.Position,
		CompanyName:     in.CompanyName,
		CNPJ:            in.CNPJ,
		Segment:         in.Segment,
		AttendeeType:    domain.AttendeeTypeAdminAdded,
		ParticipantType: domain.ParticipantTypeAttendee,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	if err := s.enrollmentRepo.Create(ctx, e); err != nil {
		if errors.Is(err, domain.ErrDuplicate) {
			return nil, domain.ErrDuplicate
		}
		return nil, fmt.Errorf("create enrollment: %w", err)
	}

	s.auditor.Record(ctx, actorID, "enrollment.add", "enrollment", e.ID, changeDetail{After: e})
	s.sendConfirmation(e, event)
	return e, nil
}

// sendConfirmation emails the attendee in the background; delivery failures
// are logged, never returned.
func (s *enrollmentService) sendConfirmation(e *domain.Enrollment, event *domain.Event) {
	if s.mailer == nil || s.renderer == nil || e.AttendeeEmail == "" {
		return
	}
	go func() {
		data := domain.EnrollmentConfirmationData{
			AttendeeName:  e.AttendeeName,
			AttendeeEmail: e.AttendeeEmail,
			EventName:     event.Name,
			EventDate:     event.StartDate.Format("02/01/2006"),
		}
		subject, html, text, err := s.renderer.Render("enrollment_confirmation", data)
		if err != nil {
			s.logger.Error("render confirmation email failed", "enrollment_id", e.ID, "err", err)
			return
		}
		if err := s.mailer.Send(e.AttendeeEmail, subject, html, text); err != nil {
			s.logger.Error("enrollment confirmation email failed", "enrollment_id", e.ID, "err", err)
		}
	}()
}

func (s *enrollmentService) ToggleCheckIn(ctx context.Context, actorID, enrollmentID string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	updated, err := s.enrollmentRepo.SetCheckedIn(ctx, enrollmentID, !current.CheckedIn)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set checked_in: %w", err)
	}

	s.auditor.Record(ctx, actorID, "enrollment.checkin", "enrollment", enrollmentID, changeDetail{
		Before: map[string]bool{"checked_in": current.CheckedIn},
		After:  map[string]bool{"checked_in": updated.CheckedIn},
	})
	return updated, nil
}

func (s *enrollmentService) ChangeParticipantType(ctx context.Context, actorID, enrollmentID, participantType string) (*domain.Enrollment, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	switch participantType {
	case domain.ParticipantTypeAttendee, domain.ParticipantTypeSpeaker,
		domain.ParticipantTypeSponsor, domain.ParticipantTypeSupporter:
	default:
		return nil, domain.ErrInvalidInput
	}

	current, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get enrollment: %w", err)
	}

	updated, err := s.enrollmentRepo.SetParticipantType(ctx, enrollmentID, participantType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("set participant_type: %w", err)
	}

	s.auditor.Record(ctx, actorID, "enrollment.participant_type", "enrollment", enrollmentID, changeDetail{
		Before: map[string]string{"participant_type": current.ParticipantType},
		After:  map[string]string{"participant_type": updated.ParticipantType},
	})
	return updated, nil
}

func (s *enrollmentService) Remove(ctx context.Context, actorID, enrollmentID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	current, err := s.enrollmentRepo.GetByID(ctx, enrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get enrollment: %w", err)
	}

	if err := s.enrollmentRepo.Delete(ctx, enrollmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete enrollment: %w", err)
	}

	s.auditor.Record(ctx, actorID, "enrollment.remove", "enrollment", enrollmentID, changeDetail{Before: current})
	return nil
}
