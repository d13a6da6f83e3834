package http

import (
	"log/slog"
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"eventdesk/internal/delivery/http/controllers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

// Controllers groups every controller the router wires up.
type Controllers struct {
	Auth       *controllers.AuthController
	User       *controllers.UserController
	Enrollment *controllers.EnrollmentController
	Event      *controllers.EventController
	Speaker    *controllers.SpeakerController
	Sponsor    *controllers.SponsorController
	Supporter  *controllers.SupporterController
	Stats      *controllers.StatsController
	Badge      *controllers.BadgeController
}

// NewRouter initializes the HTTP router with all application routes. Every
// /admin route requires a valid token plus the permission named for it.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(verifier, logger)
	perm := func(permission string, next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequirePermission(permission)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/register", c.Auth.Register)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("GET /users/me", authed(c.User.Me))

	// User administration
	mux.HandleFunc("POST /admin/users/{userID}/roles", perm(domain.PermUsersAdmin, c.User.GrantRole))
	mux.HandleFunc("DELETE /admin/users/{userID}", perm(domain.PermUsersAdmin, c.User.Delete))

	// Enrollments
	mux.HandleFunc("GET /admin/enrollments", authed(c.Enrollment.List))
	mux.HandleFunc("GET /admin/enrollments/counters", authed(c.Enrollment.Counters))
	mux.HandleFunc("POST /admin/enrollments", perm(domain.PermEnrollmentsWrite, c.Enrollment.Add))
	mux.HandleFunc("POST /admin/enrollments/{enrollmentID}/check-in", perm(domain.PermEnrollmentsCheckin, c.Enrollment.ToggleCheckIn))
	mux.HandleFunc("PATCH /admin/enrollments/{enrollmentID}/participant-type", perm(domain.PermEnrollmentsWrite, c.Enrollment.ChangeParticipantType))
	mux.HandleFunc("DELETE /admin/enrollments/{enrollmentID}", perm(domain.PermEnrollmentsWrite, c.Enrollment.Remove))

	// Events
	mux.HandleFunc("GET /admin/events", authed(c.Event.ListAdmin))
	mux.HandleFunc("PUT /admin/events", perm(domain.PermEventsWrite, c.Event.Upsert))
	mux.HandleFunc("GET /admin/events/{eventID}", authed(c.Event.Get))
	mux.HandleFunc("PATCH /admin/events/{eventID}/published", perm(domain.PermEventsWrite, c.Event.SetPublished))
	mux.HandleFunc("PATCH /admin/events/{eventID}/highlighted", perm(domain.PermEventsWrite, c.Event.SetHighlighted))
	mux.HandleFunc("DELETE /admin/events/{eventID}", perm(domain.PermEventsWrite, c.Event.Delete))

	// Speakers
	mux.HandleFunc("GET /admin/speakers", authed(c.Speaker.List))
	mux.HandleFunc("POST /admin/speakers", perm(domain.PermSpeakersWrite, c.Speaker.Create))
	mux.HandleFunc("PUT /admin/speakers/{speakerID}", perm(domain.PermSpeakersWrite, c.Speaker.Update))
	mux.HandleFunc("DELETE /admin/speakers/{speakerID}", perm(domain.PermSpeakersWrite, c.Speaker.Delete))
	mux.HandleFunc("GET /admin/events/{eventID}/speakers", authed(c.Speaker.ListByEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/speakers/{speakerID}", perm(domain.PermSpeakersWrite, c.Speaker.Associate))
	mux.HandleFunc("DELETE /admin/events/{eventID}/speakers/{speakerID}", perm(domain.PermSpeakersWrite, c.Speaker.Disassociate))

	// Sponsors
	mux.HandleFunc("GET /admin/sponsors", authed(c.Sponsor.List))
	mux.HandleFunc("POST /admin/sponsors", perm(domain.PermSponsorsWrite, c.Sponsor.Create))
	mux.HandleFunc("PUT /admin/sponsors/{sponsorID}", perm(domain.PermSponsorsWrite, c.Sponsor.Update))
	mux.HandleFunc("DELETE /admin/sponsors/{sponsorID}", perm(domain.PermSponsorsWrite, c.Sponsor.Delete))
	mux.HandleFunc("GET /admin/events/{eventID}/sponsors", authed(c.Sponsor.ListByEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/sponsors/{sponsorID}", perm(domain.PermSponsorsWrite, c.Sponsor.Associate))
	mux.HandleFunc("DELETE /admin/events/{eventID}/sponsors/{sponsorID}", perm(domain.PermSponsorsWrite, c.Sponsor.Disassociate))

	// Supporters
	mux.HandleFunc("GET /admin/supporters", authed(c.Supporter.List))
	mux.HandleFunc("POST /admin/supporters", perm(domain.PermSupportersWrite, c.Supporter.Create))
	mux.HandleFunc("PUT /admin/supporters/{supporterID}", perm(domain.PermSupportersWrite, c.Supporter.Update))
	mux.HandleFunc("DELETE /admin/supporters/{supporterID}", perm(domain.PermSupportersWrite, c.Supporter.Delete))
	mux.HandleFunc("GET /admin/events/{eventID}/supporters", authed(c.Supporter.ListByEvent))
	mux.HandleFunc("POST /admin/events/{eventID}/supporters/{supporterID}", perm(domain.PermSupportersWrite, c.Supporter.Associate))
	mux.HandleFunc("DELETE /admin/events/{eventID}/supporters/{supporterID}", perm(domain.PermSupportersWrite, c.Supporter.Disassociate))

	// Statistics
	mux.HandleFunc("GET /admin/stats/dashboard", perm(domain.PermStatsRead, c.Stats.Dashboard))

	// Badges
	mux.HandleFunc("POST /admin/events/{eventID}/badges", perm(domain.PermBadgesPrint, c.Badge.Print))

	// Operational endpoints
	mux.Handle("GET /metrics", promhttp.Handler())
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
