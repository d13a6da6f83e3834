package domain

import (
	"context"
	"time"
)

// Attendee types. AdminAdded marks rows inserted by an organizer rather than
// by self-enrollment.
const (
	AttendeeTypeInPerson   = "in_person"
	AttendeeTypeOnline     = "online"
	AttendeeTypeAdminAdded = "admin_added"
)

// Participant types within an event's attendee roster.
const (
	ParticipantTypeAttendee  = "attendee"
	ParticipantTypeSpeaker   = "speaker"
	ParticipantTypeSponsor   = "sponsor"
	ParticipantTypeSupporter = "supporter"
)

// Enrollment is a row of the attendance list: one user enrolled in one event.
// Attendee identity and company are denormalized at creation time.
// swagger:model Enrollment
type Enrollment struct {
	ID              string    `json:"id"`
	EventID         string    `json:"event_id"`
	EventName       string    `json:"event_name,omitempty"`
	UserID          string    `json:"user_id"`
	AttendeeName    string    `json:"attendee_name"`
	AttendeeEmail   string    `json:"attendee_email"`
	CPF             string    `json:"cpf"`
	RG              string    `json:"rg"`
	Phone           string    `json:"phone"`
	Position        string    `json:"position"`
	CompanyName     string    `json:"company_name"`
	CNPJ            string    `json:"cnpj"`
	Segment         string    `json:"segment"`
	CheckedIn       bool      `json:"checked_in"`
	AttendeeType    string    `json:"attendee_type"`
	ParticipantType string    `json:"participant_type"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// Enrollment status filter values. FilterAll ("ALL") and the empty string
// mean "no filter" for every enumerated filter field.
const (
	FilterAll       = "ALL"
	StatusCheckedIn = "CHECKED_IN"
	StatusPending   = "PENDING"
)

// EnrollmentFilters is the common predicate for the enrollment list and its
// counters. DateFrom/DateTo are interpreted as local calendar-day boundaries.
type EnrollmentFilters struct {
	Search       string
	EventID      string
	Segment      string
	Status       string
	AttendeeType string
	DateFrom     *time.Time
	DateTo       *time.Time
}

// EnrollmentCounters are the global counters computed under an
// EnrollmentFilters predicate. Total == CheckedIn + Pending always holds.
// swagger:model EnrollmentCounters
type EnrollmentCounters struct {
	Total       int     `json:"total"`
	CheckedIn   int     `json:"checked_in"`
	Pending     int     `json:"pending"`
	CheckInRate float64 `json:"check_in_rate"`
	Presential  int     `json:"presential"`
	Online      int     `json:"online"`
}

// EnrollmentPage is one page of the enrollment list.
// swagger:model EnrollmentPage
type EnrollmentPage struct {
	Data     []*Enrollment `json:"data"`
	Metadata PageMetadata  `json:"metadata"`
}

// EnrollmentRepository defines storage operations for the attendance list.
type EnrollmentRepository interface {
	Create(ctx context.Context, e *Enrollment) error
	GetByID(ctx context.Context, id string) (*Enrollment, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Enrollment, error)
	// List returns enrollments matching the filters ordered by
	// created_at DESC, id DESC, at the given offset.
	List(ctx context.Context, f EnrollmentFilters, limit, offset int) ([]*Enrollment, error)
	// Counters computes the global counters under the same predicate as List.
	Counters(ctx context.Context, f EnrollmentFilters) (*EnrollmentCounters, error)
	SetCheckedIn(ctx context.Context, id string, checkedIn bool) (*Enrollment, error)
	SetParticipantType(ctx context.Context, id, participantType string) (*Enrollment, error)
	Delete(ctx context.Context, id string) error
	CountByEventID(ctx context.Context, eventID string) (int, error)
	CountByUserID(ctx context.Context, userID string) (int, error)
}

// AddEnrollmentInput is the input for an organizer adding an attendee.
type AddEnrollmentInput struct {
	EventID       string
	UserID        string
	AttendeeName  string
	AttendeeEmail string
	CPF           string
	RG            string
	Phone         string
	Position      string
	CompanyName   string
	CNPJ          string
	Segment       string
}

// EnrollmentService defines attendee-roster operations.
type EnrollmentService interface {
	// List never surfaces a repository failure: on error it logs and returns
	// an empty page.
	List(ctx context.Context, f EnrollmentFilters, cursor string, limit int) (*EnrollmentPage, error)
	// Counters degrades to zeroed counters on repository failure.
	Counters(ctx context.Context, f EnrollmentFilters) (*EnrollmentCounters, error)
	Add(ctx context.Context, actorID string, in AddEnrollmentInput) (*Enrollment, error)
	ToggleCheckIn(ctx context.Context, actorID, enrollmentID string) (*Enrollment, error)
	ChangeParticipantType(ctx context.Context, actorID, enrollmentID, participantType string) (*Enrollment, error)
	Remove(ctx context.Context, actorID, enrollmentID string) error
}
