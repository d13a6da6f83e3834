package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type EnrollmentController struct {
	Logger  *slog.Logger
	Service domain.EnrollmentService
}

func NewEnrollmentController(logger *slog.Logger, svc domain.EnrollmentService) *EnrollmentController {
	return &EnrollmentController{
		Logger:  logger,
		Service: svc,
	}
}

// parseEnrollmentFilters reads the shared list/counter predicate from the
// query string. "ALL" and the empty string both mean "no filter".
func parseEnrollmentFilters(r *http.Request) domain.EnrollmentFilters {
	q := r.URL.Query()
	return domain.EnrollmentFilters{
		Search:       q.Get("search"),
		EventID:      q.Get("event_id"),
		Segment:      q.Get("segment"),
		Status:       q.Get("status"),
		AttendeeType: q.Get("attendee_type"),
		DateFrom:     h.ParseDateParam(r, "date_from"),
		DateTo:       h.ParseDateParam(r, "date_to"),
	}
}

// List godoc
// @Summary List enrollments
// @Description Returns one page of the attendance list under the given filters. On a storage failure the page degrades to empty rather than erroring.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by attendee name, email, CPF, or company"
// @Param event_id query string false "Filter by event"
// @Param segment query string false "Filter by company segment"
// @Param status query string false "CHECKED_IN, PENDING, or ALL"
// @Param attendee_type query string false "in_person, online, admin_added, or ALL"
// @Param date_from query string false "Start day (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "End day (YYYY-MM-DD, inclusive)"
// @Param cursor query string false "Opaque page cursor"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains the enrollment page"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/enrollments [get]
func (c *EnrollmentController) List(w http.ResponseWriter, r *http.Request) {
	cursor, limit := h.ParseCursorPage(r)
	page, err := c.Service.List(r.Context(), parseEnrollmentFilters(r), cursor, limit)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, page)
}

// Counters godoc
// @Summary Enrollment counters
// @Description Returns the global counters under the same filters as the list. Degrades to zeroed counters on storage failure.
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by attendee name, email, CPF, or company"
// @Param event_id query string false "Filter by event"
// @Param segment query string false "Filter by company segment"
// @Param status query string false "CHECKED_IN, PENDING, or ALL"
// @Param attendee_type query string false "in_person, online, admin_added, or ALL"
// @Param date_from query string false "Start day (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "End day (YYYY-MM-DD, inclusive)"
// @Success 200 {object} helpers.APIResponse "data contains the counters"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Router /admin/enrollments/counters [get]
func (c *EnrollmentController) Counters(w http.ResponseWriter, r *http.Request) {
	counters, err := c.Service.Counters(r.Context(), parseEnrollmentFilters(r))
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, counters)
}

// AddEnrollmentRequest is the request body for POST /admin/enrollments
type AddEnrollmentRequest struct {
	EventID       string `json:"event_id" validate:"required,uuid"`
	UserID        string `json:"user_id" validate:"required,uuid"`
	AttendeeName  string `json:"attendee_name" validate:"required"`
	AttendeeEmail string `json:"attendee_email" validate:"omitempty,email"`
	CPF           string `json:"cpf"`
	RG            string `json:"rg"`
	Phone         string `json:"phone"`
	Position      string `json:"position"`
	CompanyName   string `json:"company_name"`
	CNPJ          string `json:"cnpj"`
	Segment       string `json:"segment"`
}

// Add godoc
// @Summary Add an attendee to an event
// @Description Creates an enrollment on behalf of a user, sends a confirmation email, and records the action in the audit log.
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body AddEnrollmentRequest true "Enrollment data"
// @Success 201 {object} helpers.APIResponse "data contains the created enrollment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/enrollments [post]
func (c *EnrollmentController) Add(w http.ResponseWriter, r *http.Request) {
	var req AddEnrollmentRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	enrollment, err := c.Service.Add(r.Context(), actorID, domain.AddEnrollmentInput{
		EventID:       req.EventID,
		UserID:        req.UserID,
		AttendeeName:  req.AttendeeName,
		AttendeeEmail: req.AttendeeEmail,
		CPF:           req.CPF,
		RG:            req.RG,
		Phone:         req.Phone,
		Position:      req.Position,
		CompanyName:   req.CompanyName,
		CNPJ:          req.CNPJ,
		Segment:       req.Segment,
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento ou usuário não encontrado")
			return
		}
		if errors.Is(err, domain.ErrDuplicate) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "usuário já inscrito neste evento")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, enrollment)
}

// ToggleCheckIn godoc
// @Summary Toggle an enrollment's check-in state
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param enrollmentID path string true "Enrollment ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the updated enrollment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/enrollments/{enrollmentID}/check-in [post]
func (c *EnrollmentController) ToggleCheckIn(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("enrollmentID")
	if !uuidRegex.MatchString(enrollmentID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de inscrição inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	enrollment, err := c.Service.ToggleCheckIn(r.Context(), actorID, enrollmentID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "inscrição não encontrada")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, enrollment)
}

// ChangeParticipantTypeRequest is the request body for
// PATCH /admin/enrollments/{enrollmentID}/participant-type
type ChangeParticipantTypeRequest struct {
	ParticipantType string `json:"participant_type" validate:"required,oneof=attendee speaker sponsor supporter"`
}

// ChangeParticipantType godoc
// @Summary Change an enrollment's participant type
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param enrollmentID path string true "Enrollment ID (UUID)"
// @Param body body ChangeParticipantTypeRequest true "New participant type"
// @Success 200 {object} helpers.APIResponse "data contains the updated enrollment"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/enrollments/{enrollmentID}/participant-type [patch]
func (c *EnrollmentController) ChangeParticipantType(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("enrollmentID")
	if !uuidRegex.MatchString(enrollmentID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de inscrição inválido")
		return
	}
	var req ChangeParticipantTypeRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	enrollment, err := c.Service.ChangeParticipantType(r.Context(), actorID, enrollmentID, req.ParticipantType)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "inscrição não encontrada")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "tipo de participante inválido")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, enrollment)
}

// Remove godoc
// @Summary Remove an enrollment
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param enrollmentID path string true "Enrollment ID (UUID)"
// @Success 204 "enrollment removed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/enrollments/{enrollmentID} [delete]
func (c *EnrollmentController) Remove(w http.ResponseWriter, r *http.Request) {
	enrollmentID := r.PathValue("enrollmentID")
	if !uuidRegex.MatchString(enrollmentID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de inscrição inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Remove(r.Context(), actorID, enrollmentID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "inscrição não encontrada")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
