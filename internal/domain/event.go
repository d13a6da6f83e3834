package domain

import (
	"context"
	"time"
)

// Event formats.
const (
	EventFormatInPerson = "in_person"
	EventFormatOnline   = "online"
	EventFormatHybrid   = "hybrid"
)

// Derived event statuses (published flag + dates vs. now).
const (
	EventStatusDraft     = "draft"
	EventStatusScheduled = "scheduled"
	EventStatusOngoing   = "ongoing"
	EventStatusFinished  = "finished"
)

// Address is a national (BR) event address. Mutually exclusive with the
// international location fields on Event.
// swagger:model Address
type Address struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// Event represents a conference event.
// swagger:model Event
type Event struct {
	ID                string     `json:"id"`
	Name              string     `json:"name"`
	Slug              string     `json:"slug"`
	Description       string     `json:"description"`
	Format            string     `json:"format"`
	VacancyTotal      int        `json:"vacancy_total"`
	VacanciesPerBrand int        `json:"vacancies_per_brand"`
	OnlineVacancies   int        `json:"online_vacancies"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	ScheduleLink      string     `json:"schedule_link"`
	Published         bool       `json:"published"`
	Highlighted       bool       `json:"highlighted"`
	CoverImage        string     `json:"cover_image"`
	CoverImageURL     string     `json:"cover_image_url,omitempty"`
	Address           *Address   `json:"address,omitempty"`
	IntlCountry       string     `json:"intl_country,omitempty"`
	IntlCity          string     `json:"intl_city,omitempty"`
	CreatedAt         time.Time  `json:"created_at"`
	UpdatedAt         time.Time  `json:"updated_at"`
}

// Status derives the event lifecycle status from the published flag and the
// event dates relative to now.
func (e *Event) Status(now time.Time) string {
	if !e.Published {
		return EventStatusDraft
	}
	switch {
	case now.Before(e.StartDate):
		return EventStatusScheduled
	case now.After(e.EndDate):
		return EventStatusFinished
	default:
		return EventStatusOngoing
	}
}

// EventMetrics are per-event derived metrics merged into admin listings.
// swagger:model EventMetrics
type EventMetrics struct {
	EventID           string `json:"event_id"`
	DistinctCompanies int    `json:"distinct_companies"`
	Presential        int    `json:"presential"`
	Online            int    `json:"online"`
}

// AdminEvent is an event with its derived metrics and status.
// swagger:model AdminEvent
type AdminEvent struct {
	*Event
	Status  string        `json:"status"`
	Metrics *EventMetrics `json:"metrics"`
}

// Admin event listing sort orders.
const (
	EventSortNewest          = "newest"
	EventSortOldest          = "oldest"
	EventSortStartAsc        = "start_asc"
	EventSortStartDesc       = "start_desc"
	EventSortNameAsc         = "name_asc"
	EventSortNameDesc        = "name_desc"
	EventSortEnrollmentsDesc = "enrollments_desc"
	EventSortVacanciesDesc   = "vacancies_desc"
)

// EventFilters is the predicate for the admin event listing.
type EventFilters struct {
	Search      string
	Status      string
	Format      string
	Highlighted *bool
	DateFrom    *time.Time
	DateTo      *time.Time
	City        string
	State       string
	Sort        string
}

// AdminEventPage is one page of the admin event listing. The cursor is the
// id of the last row; pages are fetched with id < cursor.
// swagger:model AdminEventPage
type AdminEventPage struct {
	Data     []*AdminEvent `json:"data"`
	Metadata PageMetadata  `json:"metadata"`
}

// EventRelations are the association ids rewritten atomically on upsert.
type EventRelations struct {
	SpeakerIDs   []string
	SponsorIDs   []string
	SupporterIDs []string
}

// EventRepository defines storage operations for events.
type EventRepository interface {
	Create(ctx context.Context, e *Event) error
	Update(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	GetBySlug(ctx context.Context, slug string) (*Event, error)
	// ListAdmin returns up to limit+1 events matching the filters with
	// id < cursor (when cursor is non-empty), so callers can detect a next
	// page without a count query.
	ListAdmin(ctx context.Context, f EventFilters, cursor string, limit int) ([]*Event, error)
	// MetricsByEventIDs computes per-event metrics for the given ids in one
	// grouped query.
	MetricsByEventIDs(ctx context.Context, eventIDs []string) (map[string]*EventMetrics, error)
	SetPublished(ctx context.Context, id string, published bool) error
	SetHighlighted(ctx context.Context, id string, highlighted bool) error
	// ReplaceRelations rewrites the speaker/sponsor/supporter associations in
	// one transaction.
	ReplaceRelations(ctx context.Context, eventID string, rel EventRelations) error
	Delete(ctx context.Context, id string) error
}

// UpsertEventInput carries all writable event fields plus relations.
type UpsertEventInput struct {
	ID                string
	Name              string
	Slug              string
	Description       string
	Format            string
	VacancyTotal      int
	VacanciesPerBrand int
	OnlineVacancies   int
	StartDate         time.Time
	EndDate           time.Time
	ScheduleLink      string
	Highlighted       bool
	CoverImage        string
	Address           *Address
	IntlCountry       string
	IntlCity          string
	Relations         *EventRelations
}

// EventService defines organizer-facing event operations.
type EventService interface {
	Upsert(ctx context.Context, actorID string, in UpsertEventInput) (*Event, error)
	GetByID(ctx context.Context, id string) (*Event, error)
	ListAdmin(ctx context.Context, f EventFilters, cursor string, limit int) (*AdminEventPage, error)
	SetPublished(ctx context.Context, actorID, eventID string, published bool) (*Event, error)
	SetHighlighted(ctx context.Context, actorID, eventID string, highlighted bool) (*Event, error)
	// Delete fails with ErrEventHasEnrollments while any enrollment
	// references the event.
	Delete(ctx context.Context, actorID, eventID string) error
}
