package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type SponsorController struct {
	Logger  *slog.Logger
	Service domain.SponsorService
}

func NewSponsorController(logger *slog.Logger, svc domain.SponsorService) *SponsorController {
	return &SponsorController{
		Logger:  logger,
		Service: svc,
	}
}

// SponsorRequest is the request body for sponsor create and update.
type SponsorRequest struct {
	Name    string `json:"name" validate:"required"`
	Logo    string `json:"logo"`
	CNPJ    string `json:"cnpj"`
	Segment string `json:"segment"`
}

// Create godoc
// @Summary Create a sponsor
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SponsorRequest true "Sponsor data"
// @Success 201 {object} helpers.APIResponse "data contains the created sponsor"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sponsors [post]
func (c *SponsorController) Create(w http.ResponseWriter, r *http.Request) {
	var req SponsorRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	sponsor, err := c.Service.Create(r.Context(), actorID, req.Name, req.Logo, req.CNPJ, req.Segment)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, sponsor)
}

// Update godoc
// @Summary Update a sponsor
// @Tags sponsors
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Param body body SponsorRequest true "Sponsor data"
// @Success 200 {object} helpers.APIResponse "data contains the updated sponsor"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sponsors/{sponsorID} [put]
func (c *SponsorController) Update(w http.ResponseWriter, r *http.Request) {
	sponsorID := r.PathValue("sponsorID")
	if !uuidRegex.MatchString(sponsorID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de patrocinador inválido")
		return
	}
	var req SponsorRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	sponsor, err := c.Service.Update(r.Context(), actorID, sponsorID, req.Name, req.Logo, req.CNPJ, req.Segment)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "patrocinador não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, sponsor)
}

// List godoc
// @Summary List all sponsors
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of sponsors"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sponsors [get]
func (c *SponsorController) List(w http.ResponseWriter, r *http.Request) {
	sponsors, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if sponsors == nil {
		sponsors = []*domain.Sponsor{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, sponsors)
}

// ListByEvent godoc
// @Summary List sponsors associated with an event
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of sponsors"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/sponsors [get]
func (c *SponsorController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	sponsors, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if sponsors == nil {
		sponsors = []*domain.Sponsor{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, sponsors)
}

// Associate godoc
// @Summary Associate a sponsor with an event
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Success 204 "sponsor associated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/sponsors/{sponsorID} [post]
func (c *SponsorController) Associate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sponsorID := r.PathValue("sponsorID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(sponsorID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Associate(r.Context(), actorID, eventID, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento ou patrocinador não encontrado")
			return
		}
		if errors.Is(err, domain.ErrDuplicate) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "patrocinador já associado a este evento")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Disassociate godoc
// @Summary Remove a sponsor from an event
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Success 204 "sponsor disassociated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/sponsors/{sponsorID} [delete]
func (c *SponsorController) Disassociate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	sponsorID := r.PathValue("sponsorID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(sponsorID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Disassociate(r.Context(), actorID, eventID, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "associação não encontrada")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Delete godoc
// @Summary Delete a sponsor
// @Tags sponsors
// @Produce json
// @Security BearerAuth
// @Param sponsorID path string true "Sponsor ID (UUID)"
// @Success 204 "sponsor deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/sponsors/{sponsorID} [delete]
func (c *SponsorController) Delete(w http.ResponseWriter, r *http.Request) {
	sponsorID := r.PathValue("sponsorID")
	if !uuidRegex.MatchString(sponsorID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de patrocinador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Delete(r.Context(), actorID, sponsorID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "patrocinador não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
