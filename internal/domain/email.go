package domain

// Mailer sends email. Implementations must be safe for concurrent use.
type Mailer interface {
	Send(to, subject, html, text string) error
}

// EmailTemplateRenderer renders a named email template into subject, html,
// and text bodies.
type EmailTemplateRenderer interface {
	Render(templateName string, data interface{}) (subject, htmlBody, textBody string, err error)
}

// EnrollmentConfirmationData is the payload for the enrollment confirmation
// email sent after an organizer adds an attendee.
type EnrollmentConfirmationData struct {
	AttendeeName  string
	AttendeeEmail string
	EventName     string
	EventDate     string
}
