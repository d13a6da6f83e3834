package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type SupporterController struct {
	Logger  *slog.Logger
	Service domain.SupporterService
}

func NewSupporterController(logger *slog.Logger, svc domain.SupporterService) *SupporterController {
	return &SupporterController{
		Logger:  logger,
		Service: svc,
	}
}

// SupporterRequest is the request body for supporter create and update.
type SupporterRequest struct {
	Name string `json:"name" validate:"required"`
	Logo string `json:"logo"`
	CNPJ string `json:"cnpj"`
}

// Create godoc
// @Summary Create a supporter
// @Tags supporters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SupporterRequest true "Supporter data"
// @Success 201 {object} helpers.APIResponse "data contains the created supporter"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/supporters [post]
func (c *SupporterController) Create(w http.ResponseWriter, r *http.Request) {
	var req SupporterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	supporter, err := c.Service.Create(r.Context(), actorID, req.Name, req.Logo, req.CNPJ)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, supporter)
}

// Update godoc
// @Summary Update a supporter
// @Tags supporters
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param supporterID path string true "Supporter ID (UUID)"
// @Param body body SupporterRequest true "Supporter data"
// @Success 200 {object} helpers.APIResponse "data contains the updated supporter"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/supporters/{supporterID} [put]
func (c *SupporterController) Update(w http.ResponseWriter, r *http.Request) {
	supporterID := r.PathValue("supporterID")
	if !uuidRegex.MatchString(supporterID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de apoiador inválido")
		return
	}
	var req SupporterRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	supporter, err := c.Service.Update(r.Context(), actorID, supporterID, req.Name, req.Logo, req.CNPJ)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "apoiador não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, supporter)
}

// List godoc
// @Summary List all supporters
// @Tags supporters
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of supporters"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/supporters [get]
func (c *SupporterController) List(w http.ResponseWriter, r *http.Request) {
	supporters, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if supporters == nil {
		supporters = []*domain.Supporter{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, supporters)
}

// ListByEvent godoc
// @Summary List supporters associated with an event
// @Tags supporters
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of supporters"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/supporters [get]
func (c *SupporterController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	supporters, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if supporters == nil {
		supporters = []*domain.Supporter{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, supporters)
}

// Associate godoc
// @Summary Associate a supporter with an event
// @Tags supporters
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param supporterID path string true "Supporter ID (UUID)"
// @Success 204 "supporter associated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/supporters/{supporterID} [post]
func (c *SupporterController) Associate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	supporterID := r.PathValue("supporterID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(supporterID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Associate(r.Context(), actorID, eventID, supporterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento ou apoiador não encontrado")
			return
		}
		if errors.Is(err, domain.ErrDuplicate) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "apoiador já associado a este evento")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Disassociate godoc
// @Summary Remove a supporter from an event
// @Tags supporters
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param supporterID path string true "Supporter ID (UUID)"
// @Success 204 "supporter disassociated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/supporters/{supporterID} [delete]
func (c *SupporterController) Disassociate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	supporterID := r.PathValue("supporterID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(supporterID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Disassociate(r.Context(), actorID, eventID, supporterID); err != nil {
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
// @Summary Delete a supporter
// @Tags supporters
// @Produce json
// @Security BearerAuth
// @Param supporterID path string true "Supporter ID (UUID)"
// @Success 204 "supporter deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/supporters/{supporterID} [delete]
func (c *SupporterController) Delete(w http.ResponseWriter, r *http.Request) {
	supporterID := r.PathValue("supporterID")
	if !uuidRegex.MatchString(supporterID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de apoiador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Delete(r.Context(), actorID, supporterID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "apoiador não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
