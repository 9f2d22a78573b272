package list_reviews

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reviews"
	"github.com/m04kA/SMC-AppointmentService/internal/service/reviews/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidPaging     = "некорректные параметры страницы"
	msgBusinessNotFound  = "бизнес не найден"
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

// Handle GET /api/v1/businesses/{businessId}/reviews
// Query params: page, pageSize
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reviews - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	page, err := handlers.QueryInt(r, "page", 1)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reviews - Invalid page: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}
	pageSize, err := handlers.QueryInt(r, "pageSize", 20)
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/reviews - Invalid page size: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPaging)
		return
	}

	result, err := h.service.ListByBusiness(r.Context(), &models.ListReviewsRequest{
		BusinessID: businessID,
		Page:       page,
		PageSize:   pageSize,
	})
	if err != nil {
		if errors.Is(err, reviews.ErrBusinessNotFound) {
			h.logger.Warn("GET /businesses/{id}/reviews - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)
			return
		}
		h.logger.Error("GET /businesses/{id}/reviews - Failed to list reviews: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/reviews - Reviews retrieved successfully: business_id=%d, count=%d",
		businessID, len(result.Reviews))
	handlers.RespondJSON(w, http.StatusOK, result)
}
