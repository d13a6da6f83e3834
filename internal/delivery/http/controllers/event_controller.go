package controllers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{
		Logger:  logger,
		Service: svc,
	}
}

// AddressPayload mirrors domain.Address in request bodies.
type AddressPayload struct {
	Street       string `json:"street"`
	Number       string `json:"number"`
	Complement   string `json:"complement"`
	Neighborhood string `json:"neighborhood"`
	City         string `json:"city"`
	State        string `json:"state"`
	ZipCode      string `json:"zip_code"`
}

// RelationsPayload carries the association ids rewritten on upsert.
type RelationsPayload struct {
	SpeakerIDs   []string `json:"speaker_ids"`
	SponsorIDs   []string `json:"sponsor_ids"`
	SupporterIDs []string `json:"supporter_ids"`
}

// UpsertEventRequest is the request body for PUT /admin/events. An empty id
// creates a new event; a non-empty id updates the existing one.
type UpsertEventRequest struct {
	ID                string            `json:"id" validate:"omitempty,uuid"`
	Name              string            `json:"name" validate:"required"`
	Slug              string            `json:"slug"`
	Description       string            `json:"description"`
	Format            string            `json:"format" validate:"required,oneof=in_person online hybrid"`
	VacancyTotal      int               `json:"vacancy_total" validate:"min=0"`
	VacanciesPerBrand int               `json:"vacancies_per_brand" validate:"min=0"`
	OnlineVacancies   int               `json:"online_vacancies" validate:"min=0"`
	StartDate         time.Time         `json:"start_date" validate:"required"`
	EndDate           time.Time         `json:"end_date" validate:"required"`
	ScheduleLink      string            `json:"schedule_link"`
	Highlighted       bool              `json:"highlighted"`
	CoverImage        string            `json:"cover_image"`
	Address           *AddressPayload   `json:"address"`
	IntlCountry       string            `json:"intl_country"`
	IntlCity          string            `json:"intl_city"`
	Relations         *RelationsPayload `json:"relations"`
}

func (req *UpsertEventRequest) toInput() domain.UpsertEventInput {
	in := domain.UpsertEventInput{
		ID:                req.ID,
		Name:              req.Name,
		Slug:              req.Slug,
		Description:       req.Description,
		Format:            req.Format,
		VacancyTotal:      req.VacancyTotal,
		VacanciesPerBrand: req.VacanciesPerBrand,
		OnlineVacancies:   req.OnlineVacancies,
		StartDate:         req.StartDate,
		EndDate:           req.EndDate,
		ScheduleLink:      req.ScheduleLink,
		Highlighted:       req.Highlighted,
		CoverImage:        req.CoverImage,
		IntlCountry:       req.IntlCountry,
		IntlCity:          req.IntlCity,
	}
	if req.Address != nil {
		in.Address = &domain.Address{
			Street:       req.Address.Street,
			Number:       req.Address.Number,
			Complement:   req.Address.Complement,
			Neighborhood: req.Address.Neighborhood,
			City:         req.Address.City,
			State:        req.Address.State,
			ZipCode:      req.Address.ZipCode,
		}
	}
	if req.Relations != nil {
		in.Relations = &domain.EventRelations{
			SpeakerIDs:   req.Relations.SpeakerIDs,
			SponsorIDs:   req.Relations.SponsorIDs,
			SupporterIDs: req.Relations.SupporterIDs,
		}
	}
	return in
}

// Upsert godoc
// @Summary Create or update an event
// @Description Creates a new event when id is empty, updates it otherwise. Speaker/sponsor/supporter relations, when present, are rewritten atomically.
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body UpsertEventRequest true "Event data"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [put]
func (c *EventController) Upsert(w http.ResponseWriter, r *http.Request) {
	var req UpsertEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())
	creating := req.ID == ""

	event, err := c.Service.Upsert(r.Context(), actorID, req.toInput())
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "dados do evento inválidos")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if creating {
		h.WriteJSONSuccess(w, http.StatusCreated, event)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// ListAdmin godoc
// @Summary List events for the admin panel
// @Description Returns one page of events with derived status and per-event metrics, newest first by default. The cursor is the id of the last row of the previous page.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search by name"
// @Param status query string false "draft, scheduled, ongoing, or finished"
// @Param format query string false "in_person, online, or hybrid"
// @Param highlighted query bool false "Filter highlighted events"
// @Param date_from query string false "Start day (YYYY-MM-DD, inclusive)"
// @Param date_to query string false "End day (YYYY-MM-DD, inclusive)"
// @Param city query string false "Filter by address city"
// @Param state query string false "Filter by address state"
// @Param sort query string false "newest, oldest, start_asc, start_desc, name_asc, name_desc, enrollments_desc, or vacancies_desc"
// @Param cursor query string false "Id of the last row of the previous page"
// @Param limit query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains the event page"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events [get]
func (c *EventController) ListAdmin(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var highlighted *bool
	if s := q.Get("highlighted"); s == "true" || s == "false" {
		v := s == "true"
		highlighted = &v
	}
	f := domain.EventFilters{
		Search:      q.Get("search"),
		Status:      q.Get("status"),
		Format:      q.Get("format"),
		Highlighted: highlighted,
		DateFrom:    h.ParseDateParam(r, "date_from"),
		DateTo:      h.ParseDateParam(r, "date_to"),
		City:        q.Get("city"),
		State:       q.Get("state"),
		Sort:        q.Get("sort"),
	}
	cursor, limit := h.ParseCursorPage(r)

	page, err := c.Service.ListAdmin(r.Context(), f, cursor, limit)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, page)
}

// Get godoc
// @Summary Get an event by id
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	event, err := c.Service.GetByID(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// SetFlagRequest is the request body for the publish and highlight toggles.
type SetFlagRequest struct {
	Value bool `json:"value"`
}

// SetPublished godoc
// @Summary Publish or unpublish an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SetFlagRequest true "Published flag"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/published [patch]
func (c *EventController) SetPublished(w http.ResponseWriter, r *http.Request) {
	c.setFlag(w, r, c.Service.SetPublished)
}

// SetHighlighted godoc
// @Summary Highlight or unhighlight an event
// @Tags events
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body SetFlagRequest true "Highlighted flag"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/highlighted [patch]
func (c *EventController) SetHighlighted(w http.ResponseWriter, r *http.Request) {
	c.setFlag(w, r, c.Service.SetHighlighted)
}

func (c *EventController) setFlag(w http.ResponseWriter, r *http.Request,
	set func(ctx context.Context, actorID, eventID string, value bool) (*domain.Event, error)) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	var req SetFlagRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	event, err := set(r.Context(), actorID, eventID, req.Value)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Deletes an event. Fails while any enrollment still references it.
// @Tags events
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "event deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Delete(r.Context(), actorID, eventID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		if errors.Is(err, domain.ErrEventHasEnrollments) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "evento possui inscrições e não pode ser excluído")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
