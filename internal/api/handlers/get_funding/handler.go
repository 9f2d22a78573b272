package get_funding

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-AppointmentService/internal/api/handlers"
	"github.com/m04kA/SMC-AppointmentService/internal/service/funding"
)

const (
	msgInvalidName = "некорректное имя сбора"
	msgNotFound    = "сбор не найден"
)

type Handler struct {
	service FundingService
	logger  Logger
}

func NewHandler(service FundingService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle GET /api/v1/funding/{name}
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(mux.Vars(r)["name"])
	if name == "" {
		handlers.RespondBadRequest(w, msgInvalidName)
		return
	}

	counter, err := h.service.Get(r.Context(), name)
	if err != nil {
		switch {
		case errors.Is(err, funding.ErrCounterNotFound):
			h.logger.Warn("GET /funding/{name} - Counter not found: name=%s", name)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, funding.ErrInvalidInput):
			handlers.RespondBadRequest(w, msgInvalidName)

		default:
			h.logger.Error("GET /funding/{name} - Failed to get counter: name=%s, error=%v", name, err)
			handlers.RespondInternalError(w)
		}
		return
	}

	handlers.RespondJSON(w, http.StatusOK, counter)
}
