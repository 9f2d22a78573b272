package list_businesses

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses"
	"github.com/m04kA/SMC-AppointmentService/internal/service/businesses/models"
)

const (
	msgInvalidPage     = "некорректный номер страницы"
	msgInvalidPageSize = "некорректный размер страницы"
	msgInvalidInput    = "некорректные параметры запроса"
)

type Handler struct {
	service BusinessService
	logger  Logger
}

func NewHandler(service BusinessService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses
// Query params: page, pageSize, q (поиск по названию)
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	page, err := handlers.QueryInt(r, "page", 1)
	if err != nil {
		h.logger.Warn("GET /businesses - Invalid page: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPage)
		return
	}

	pageSize, err := handlers.QueryInt(r, "pageSize", 20)
	if err != nil {
		h.logger.Warn("GET /businesses - Invalid page size: %v", err)
		handlers.RespondBadRequest(w, msgInvalidPageSize)
		return
	}

	result, err := h.service.List(r.Context(), &models.ListBusinessesRequest{
		Page:     page,
		PageSize: pageSize,
		Query:    handlers.QueryString(r, "q"),
	})
	if err != nil {
		if errors.Is(err, businesses.ErrInvalidInput) {
			h.logger.Warn("GET /businesses - Invalid input: %v", err)
			handlers.RespondBadRequest(w, msgInvalidInput)
			return
		}
		h.logger.Error("GET /businesses - Failed to list businesses: %v", err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses - Businesses retrieved successfully: page=%d, count=%d, total=%d",
		result.Page, len(result.Businesses), result.Total)
	handlers.RespondJSON(w, http.StatusOK, result)
}
