package export_user_calendar

import (
	"bytes"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
)

const (
	msgMissingUserID = "отсутствует ID пользователя"

	contentType = "text/calendar; charset=utf-8"
	fileName    = "appointments.ics"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/users/me/appointments.ics
// Активные записи пользователя в формате iCalendar
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	// Буферизуем, чтобы при ошибке отдать JSON, а не обрезанный календарь
	var buf bytes.Buffer
	if err := h.service.ExportUserCalendar(r.Context(), userID, &buf); err != nil {
		h.logger.Error("GET /users/me/appointments.ics - Failed to export calendar: user_id=%d, error=%v", userID, err)
		handlers.RespondInternalError(w)
		return
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+fileName+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())

	h.logger.Info("GET /users/me/appointments.ics - Calendar exported: user_id=%d, bytes=%d", userID, buf.Len())
}
