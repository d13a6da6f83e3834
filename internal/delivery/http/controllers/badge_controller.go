package controllers

import (
	"errors"
	"log/slog"
	"net/http"

	h "eventdesk/internal/delivery/http/helpers"
	"eventdesk/internal/delivery/http/middleware"
	"eventdesk/internal/domain"
)

type BadgeController struct {
	Logger  *slog.Logger
	Service domain.BadgeService
}

func NewBadgeController(logger *slog.Logger, svc domain.BadgeService) *BadgeController {
	return &BadgeController{
		Logger:  logger,
		Service: svc,
	}
}

// PrintBadgesRequest is the request body for POST /admin/events/{eventID}/badges
type PrintBadgesRequest struct {
	EnrollmentIDs []string `json:"enrollment_ids" validate:"required,min=1,dive,uuid"`
	PrinterIP     string   `json:"printer_ip" validate:"required,ip"`
	PrinterPort   int      `json:"printer_port" validate:"required,min=1,max=65535"`
}

// PrintBadgesResponse is the response body for POST /admin/events/{eventID}/badges
type PrintBadgesResponse struct {
	Printed int `json:"printed"`
}

// Print godoc
// @Summary Print badges for enrollments
// @Description Sends one badge per enrollment to the badge printer at the given address on the operator's network. Delivery is best-effort: the printer gives no acknowledgement.
// @Tags badges
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Param body body PrintBadgesRequest true "Enrollments and printer address"
// @Success 200 {object} helpers.APIResponse "data contains the number of badges sent"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /admin/events/{eventID}/badges [post]
func (c *BadgeController) Print(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if !uuidRegex.MatchString(eventID) {
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "identificador de evento inválido")
		return
	}
	var req PrintBadgesRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	actorID, _ := middleware.UserIDFromContext(r.Context())

	printed, err := c.Service.PrintBadges(r.Context(), actorID, eventID, req.EnrollmentIDs, req.PrinterIP, req.PrinterPort)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "evento ou inscrição não encontrada")
			return
		}
		if errors.Is(err, domain.ErrInvalidInput) {
			h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, "dados de impressão inválidos")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "erro interno")
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, PrintBadgesResponse{Printed: printed})
}
