package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type SpeakerController struct {
	Logger  *slog.Logger
	Service domain.SpeakerService
}

func NewSpeakerController(logger *slog.Logger, svc domain.SpeakerService) *SpeakerController {
	return &SpeakerController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateSpeakerRequest is the request body for POST /admin/speakers
type CreateSpeakerRequest struct {
	UserID      string `json:"user_id" validate:"required,uuid"`
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

// UpdateSpeakerRequest is the request body for PUT /admin/speakers/{speakerID}
type UpdateSpeakerRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Photo       string `json:"photo"`
}

// Create godoc
// @Summary Create a speaker profile
// @Description Creates the speaker profile for an existing user. Each user has at most one profile.
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateSpeakerRequest true "Speaker data"
// @Success 201 {object} helpers.APIResponse "data contains the created speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/speakers [post]
func (c *SpeakerController) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	speaker, err := c.Service.Create(r.Context(), actorID, req.UserID, req.Name, req.Description, req.Photo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "usuário não encontrado")
			return
		}
		if errors.Is(err, domain.ErrDuplicate) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "usuário já possui perfil de palestrante")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, speaker)
}

// Update godoc
// @Summary Update a speaker profile
// @Tags speakers
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID (UUID)"
// @Param body body UpdateSpeakerRequest true "Speaker data"
// @Success 200 {object} helpers.APIResponse "data contains the updated speaker"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/speakers/{speakerID} [put]
func (c *SpeakerController) Update(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if !uuidRegex.MatchString(speakerID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de palestrante inválido")
		return
	}
	var req UpdateSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	speaker, err := c.Service.Update(r.Context(), actorID, speakerID, req.Name, req.Description, req.Photo)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "palestrante não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, speaker)
}

// List godoc
// @Summary List all speakers
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Success 200 {object} helpers.APIResponse "data is an array of speakers"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/speakers [get]
func (c *SpeakerController) List(w http.ResponseWriter, r *http.Request) {
	speakers, err := c.Service.List(r.Context())
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if speakers == nil {
		speakers = []*domain.Speaker{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, speakers)
}

// ListByEvent godoc
// @Summary List speakers associated with an event
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data is an array of speakers"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/speakers [get]
func (c *SpeakerController) ListByEvent(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	speakers, err := c.Service.ListByEvent(r.Context(), eventID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento não encontrado")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	if speakers == nil {
		speakers = []*domain.Speaker{}
	}
	h.WriteJSONSuccess(w, http.StatusOK, speakers)
}

// Associate godoc
// @Summary Associate a speaker with an event
// @Description Links the speaker to the event and mirrors them into the attendance list as participant_type "speaker".
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 204 "speaker associated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 409 {object} helpers.APIResponse "error.code: conflict"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/speakers/{speakerID} [post]
func (c *SpeakerController) Associate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	speakerID := r.PathValue("speakerID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(speakerID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Associate(r.Context(), actorID, eventID, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento ou palestrante não encontrado")
			return
		}
		if errors.Is(err, domain.ErrDuplicate) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "palestrante já associado a este evento")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Disassociate godoc
// @Summary Remove a speaker from an event
// @Description Unlinks the speaker from the event. The mirrored enrollment is removed only while its participant type is still "speaker".
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 204 "speaker disassociated"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/speakers/{speakerID} [delete]
func (c *SpeakerController) Disassociate(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	speakerID := r.PathValue("speakerID")
	if !uuidRegex.MatchString(eventID) || !uuidRegex.MatchString(speakerID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Disassociate(r.Context(), actorID, eventID, speakerID); err != nil {
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
// @Summary Delete a speaker profile
// @Description Deletes a speaker profile. Fails while the speaker is still associated with any event.
// @Tags speakers
// @Produce json
// @Security BearerAuth
// @Param speakerID path string true "Speaker ID (UUID)"
// @Success 204 "speaker deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/speakers/{speakerID} [delete]
func (c *SpeakerController) Delete(w http.ResponseWriter, r *http.Request) {
	speakerID := r.PathValue("speakerID")
	if !uuidRegex.MatchString(speakerID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de palestrante inválido")
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	if err := c.Service.Delete(r.Context(), actorID, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "palestrante não encontrado")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusConflict, h.ErrCodeConflict, "palestrante está associado a eventos")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
