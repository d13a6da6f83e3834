package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
	"unicode"

	"github.com/google/uuid"

	"eventdesk/internal/domain"
)

// StorageConfig holds the public object-storage URL parts for event images.
type StorageConfig struct {
	Host   string
	Bucket string
}

// PublicURL builds the public URL for an object stored under
// events/{eventID}/{filename}.
func (c StorageConfig) PublicURL(eventID, filename string) string {
	if c.Host == "" || c.Bucket == "" || filename == "" {
		return ""
	}
	return fmt.Sprintf("https://s3.%s/%s/events/%s/%s", c.Host, c.Bucket, eventID, filename)
}

type eventService struct {
	eventRepo      domain.EventRepository
	enrollmentRepo domain.EnrollmentRepository
	auditor        domain.Auditor
	storage        StorageConfig
	logger         *slog.Logger
	contextTimeout time.Duration
}

func NewEventService(
	eventRepo domain.EventRepository,
	enrollmentRepo domain.EnrollmentRepository,
	auditor domain.Auditor,
	storage StorageConfig,
	logger *slog.Logger,
	timeout time.Duration,
) domain.EventService {
	return &eventService{
		eventRepo:      eventRepo,
		enrollmentRepo: enrollmentRepo,
		auditor:        auditor,
		storage:        storage,
		logger:         logger,
		contextTimeout: timeout,
	}
}

// slugify lowercases the name and collapses every non-alphanumeric run into
// a single hyphen.
func slugify(name string) string {
	var b strings.Builder
	lastHyphen := true
	for _, r := range strings.ToLower(name) {
		if unicode.IsLetter(r) && r < 128 || unicode.IsDigit(r) {
			b.WriteRune(r)
			lastHyphen = false
		} else if !lastHyphen {
			b.WriteByte('-')
			lastHyphen = true
		}
	}
	return strings.Trim(b.String(), "-")
}

func validateUpsert(in domain.UpsertEventInput) error {
	if strings.TrimSpace(in.Name) == "" {
		return domain.ErrInvalidInput
	}
	if in.EndDate.Before(in.StartDate) {
		return domain.ErrInvalidInput
	}
	// National address and international location are mutually exclusive.
	hasIntl := in.IntlCountry != "" || in.IntlCity != ""
	if in.Address != nil && hasIntl {
		return domain.ErrInvalidInput
	}
	return nil
}

func (s *eventService) Upsert(ctx context.Context, actorID string, in domain.UpsertEventInput) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := validateUpsert(in); err != nil {
		return nil, err
	}

	if in.ID == "" {
		return s.create(ctx, actorID, in)
	}
	return s.update(ctx, actorID, in)
}

func (s *eventService) create(ctx context.Context, actorID string, in domain.UpsertEventInput) (*domain.Event, error) {
	// UUIDv7 keeps event ids time-ordered, which the admin listing's id
	// cursor depends on.
	id, err := uuid.NewV7()
	if err != nil {
		return nil, fmt.Errorf("generate event id: %w", err)
	}

	slug := in.Slug
	if slug == "" {
		slug = slugify(in.Name)
	}

	now := time.Now()
	e := &domain.Event{
		ID:                id.String(),
		Name:              in.Name,
		Slug:              slug,
		Description:       in.Description,
		Format:            in.Format,
		VacancyTotal:      in.VacancyTotal,
		VacanciesPerBrand: in.VacanciesPerBrand,
		OnlineVacancies:   in.OnlineVacancies,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		ScheduleLink:      in.ScheduleLink,
		Highlighted:       in.Highlighted,
		CoverImage:        in.CoverImage,
		Address:           in.Address,
		IntlCountry:       in.IntlCountry,
		IntlCity:          in.IntlCity,
		CreatedAt:         now,
		UpdatedAt:         now,
	}
	if err := s.eventRepo.Create(ctx, e); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	if in.Relations != nil {
		if err := s.eventRepo.ReplaceRelations(ctx, e.ID, *in.Relations); err != nil {
			return nil, fmt.Errorf("replace event relations: %w", err)
		}
	}
	e.CoverImageURL = s.storage.PublicURL(e.ID, e.CoverImage)
	s.auditor.Record(ctx, actorID, "event.create", "event", e.ID, changeDetail{After: e})
	return e, nil
}

func (s *eventService) update(ctx context.Context, actorID string, in domain.UpsertEventInput) (*domain.Event, error) {
	before, err := s.eventRepo.GetByID(ctx, in.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}

	e := &domain.Event{
		ID:                in.ID,
		Name:              in.Name,
		Slug:              in.Slug,
		Description:       in.Description,
		Format:            in.Format,
		VacancyTotal:      in.VacancyTotal,
		VacanciesPerBrand: in.VacanciesPerBrand,
		OnlineVacancies:   in.OnlineVacancies,
		StartDate:         in.StartDate,
		EndDate:           in.EndDate,
		ScheduleLink:      in.ScheduleLink,
		Published:         before.Published,
		Highlighted:       in.Highlighted,
		CoverImage:        in.CoverImage,
		Address:           in.Address,
		IntlCountry:       in.IntlCountry,
		IntlCity:          in.IntlCity,
		CreatedAt:         before.CreatedAt,
	}
	if e.Slug == "" {
		e.Slug = before.Slug
	}
	if err := s.eventRepo.Update(ctx, e); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	if in.Relations != nil {
		if err := s.eventRepo.ReplaceRelations(ctx, e.ID, *in.Relations); err != nil {
			return nil, fmt.Errorf("replace event relations: %w", err)
		}
	}
	e.CoverImageURL = s.storage.PublicURL(e.ID, e.CoverImage)
	s.auditor.Record(ctx, actorID, "event.update", "event", e.ID, changeDetail{Before: before, After: e})
	return e, nil
}

func (s *eventService) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	e, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	e.CoverImageURL = s.storage.PublicURL(e.ID, e.CoverImage)
	return e, nil
}

// ListAdmin pages with an id cursor: the repository fetches limit+1 rows so
// a next page is detected without a count query, and per-page metrics are
// merged in from one batched query.
func (s *eventService) ListAdmin(ctx context.Context, f domain.EventFilters, cursor string, limit int) (*domain.AdminEventPage, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	limit = clampLimit(limit)
	rows, err := s.eventRepo.ListAdmin(ctx, f, cursor, limit)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	hasNext := len(rows) > limit
	if hasNext {
		rows = rows[:limit]
	}

	ids := make([]string, len(rows))
	for i, e := range rows {
		ids[i] = e.ID
	}
	metrics, err := s.eventRepo.MetricsByEventIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("event metrics: %w", err)
	}

	now := time.Now()
	data := make([]*domain.AdminEvent, len(rows))
	for i, e := range rows {
		e.CoverImageURL = s.storage.PublicURL(e.ID, e.CoverImage)
		m, ok := metrics[e.ID]
		if !ok {
			m = &domain.EventMetrics{EventID: e.ID}
		}
		data[i] = &domain.AdminEvent{Event: e, Status: e.Status(now), Metrics: m}
	}

	next := ""
	if hasNext && len(rows) > 0 {
		next = rows[len(rows)-1].ID
	}
	return &domain.AdminEventPage{
		Data: data,
		Metadata: domain.PageMetadata{
			Count:       len(data),
			HasNextPage: hasNext,
			Cursor:      next,
		},
	}, nil
}

func (s *eventService) SetPublished(ctx context.Context, actorID, eventID string, published bool) (*domain.Event, error) {
	return s.setFlag(ctx, actorID, eventID, "event.publish", published, s.eventRepo.SetPublished)
}

func (s *eventService) SetHighlighted(ctx context.Context, actorID, eventID string, highlighted bool) (*domain.Event, error) {
	return s.setFlag(ctx, actorID, eventID, "event.highlight", highlighted, s.eventRepo.SetHighlighted)
}

func (s *eventService) setFlag(ctx context.Context, actorID, eventID, action string, value bool,
	set func(context.Context, string, bool) error) (*domain.Event, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	if err := set(ctx, eventID, value); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("%s: %w", action, err)
	}
	after, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("get event: %w", err)
	}
	after.CoverImageURL = s.storage.PublicURL(after.ID, after.CoverImage)
	s.auditor.Record(ctx, actorID, action, "event", eventID, changeDetail{Before: before, After: after})
	return after, nil
}

// Delete refuses to remove an event that still has enrollments; deletes are
// blocked, never cascaded.
func (s *eventService) Delete(ctx context.Context, actorID, eventID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	before, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}

	n, err := s.enrollmentRepo.CountByEventID(ctx, eventID)
	if err != nil {
		return fmt.Errorf("count enrollments: %w", err)
	}
	if n > 0 {
		return domain.ErrEventHasEnrollments
	}

	if err := s.eventRepo.Delete(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.auditor.Record(ctx, actorID, "event.delete", "event", eventID, changeDetail{Before: before})
	return nil
}
