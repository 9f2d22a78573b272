package get_policy

import (
	"errors"
	"net/http"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy"
	"github.com/m04kA/SMC-AppointmentService/internal/service/policy/models"
)

const (
	msgInvalidBusinessID = "некорректный ID бизнеса"
	msgInvalidServiceID  = "некорректный ID услуги"
	msgBusinessNotFound  = "бизнес не найден"
)

type Handler struct {
	service PolicyService
	logger  Logger
}

func NewHandler(service PolicyService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/businesses/{businessId}/policy
// Query params: serviceId (optional). Возвращает действующую политику:
// услуги -> бизнеса -> значения по умолчанию.
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	businessID, err := handlers.PathInt64(r, "businessId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/policy - Invalid business ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidBusinessID)
		return
	}

	serviceID, err := handlers.QueryInt64(r, "serviceId")
	if err != nil {
		h.logger.Warn("GET /businesses/{id}/policy - Invalid service ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidServiceID)
		return
	}

	result, err := h.service.GetWithHierarchy(r.Context(), &models.GetPolicyRequest{
		BusinessID: businessID,
		ServiceID:  serviceID,
	})
	if err != nil {
		if errors.Is(err, policy.ErrBusinessNotFound) {
			h.logger.Warn("GET /businesses/{id}/policy - Business not found: business_id=%d", businessID)
			handlers.RespondNotFound(w, msgBusinessNotFound)
			return
		}
		h.logger.Error("GET /businesses/{id}/policy - Failed to get policy: business_id=%d, error=%v", businessID, err)
		handlers.RespondInternalError(w)
		return
	}

	h.logger.Info("GET /businesses/{id}/policy - Policy retrieved successfully: business_id=%d, is_default=%t",
		businessID, result.IsDefault)
	handlers.RespondJSON(w, http.StatusOK, result)
}
