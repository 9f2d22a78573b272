package create_review

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reviews"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reviews/models"
)

const (
	msgMissingUserID        = "отсутствует ID пользователя"
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgInvalidInput         = "оценка должна быть от 1 до 5, комментарий до 1000 символов"
	msgNotFound             = "запись не найдена"
	msgForbidden            = "доступ запрещен"
	msgNotCompleted         = "отзыв можно оставить только после завершенного визита"
	msgAlreadyExists        = "отзыв на эту запись уже оставлен"
)

type Handler struct {
	service ReviewService
	logger  Logger
}

func NewHandler(service ReviewService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments/{appointmentId}/review
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.GetUserID(r.Context())
	if !ok {
		handlers.RespondUnauthorized(w, msgMissingUserID)
		return
	}

	appointmentID, err := handlers.PathInt64(r, "appointmentId")
	if err != nil {
		h.logger.Warn("POST /appointments/{id}/review - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req models.CreateReviewRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments/{id}/review - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}
	req.UserID = userID
	req.AppointmentID = appointmentID

	review, err := h.service.Create(r.Context(), &req)
	if err != nil {
		switch {
		case errors.Is(err, reviews.ErrAppointmentNotFound):
			h.logger.Warn("POST /appointments/{id}/review - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, reviews.ErrAccessDenied):
			h.logger.Warn("POST /appointments/{id}/review - Access denied: appointment_id=%d, user_id=%d", appointmentID, userID)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, reviews.ErrAppointmentNotCompleted):
			h.logger.Warn("POST /appointments/{id}/review - Appointment not completed: appointment_id=%d", appointmentID)
			handlers.RespondBadRequest(w, msgNotCompleted)

		case errors.Is(err, reviews.ErrReviewAlreadyExists):
			h.logger.Warn("POST /appointments/{id}/review - Review already exists: appointment_id=%d", appointmentID)
			handlers.RespondConflict(w, msgAlreadyExists)

		case errors.Is(err, reviews.ErrInvalidInput):
			h.logger.Warn("POST /appointments/{id}/review - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)

		default:
			h.logger.Error("POST /appointments/{id}/review - Failed to create review: appointment_id=%d, error=%v", appointmentID, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	h.logger.Info("POST /appointments/{id}/review - Review created successfully: review_id=%d, appointment_id=%d",
		review.ID, appointmentID)
	handlers.RespondJSON(w, http.StatusCreated, review)
}
