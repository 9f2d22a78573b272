package create_appointment

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/api/middleware"
	createAppointment "github.com/m04kA/SMC-AppointmentService/internal/usecase/create_appointment"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *createAppointment.Request) (*createAppointment.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*createAppointment.Response)
	return resp, args.Error(1)
}

const validBody = `{"businessId":3,"serviceId":5,"date":"2025-03-12","startTime":"9:00"}`

func post(uc CreateAppointmentUseCase, body string, withUser bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/appointments", strings.NewReader(body))
	if withUser {
		req = req.WithContext(middleware.WithUserID(req.Context(), 20))
	}
	rec := httptest.NewRecorder()
	NewHandler(uc, logger.NewNop()).Handle(rec, req)
	return rec
}

func TestHandle_Created(t *testing.T) {
	uc := &useCaseMock{}
	start := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *createAppointment.Request) bool {
		return req.UserID == 20 && req.StartTime == types.TimeString("09:00")
	})).Return(&createAppointment.Response{
		ID:              100,
		UserID:          20,
		BusinessID:      3,
		ServiceID:       5,
		Date:            time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		StartTime:       "09:00",
		StartAt:         start,
		EndAt:           start.Add(time.Hour),
		DurationMinutes: 60,
		Status:          "pending",
		ServiceName:     "Haircut",
	}, nil)

	rec := post(uc, validBody, true)

	require.Equal(t, http.StatusCreated, rec.Code)
	var body AppointmentResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, int64(100), body.ID)
	assert.Equal(t, "2025-03-12T09:00:00Z", body.StartAt)
	assert.Equal(t, "pending", body.Status)
	uc.AssertExpectations(t)
}

func TestHandle_RequestErrors(t *testing.T) {
	uc := &useCaseMock{}

	assert.Equal(t, http.StatusUnauthorized, post(uc, validBody, false).Code)
	assert.Equal(t, http.StatusBadRequest, post(uc, `{"businessId":`, true).Code)
	assert.Equal(t, http.StatusBadRequest, post(uc, `{"businessId":3,"serviceId":5,"date":"12.03.2025","startTime":"09:00"}`, true).Code)
	assert.Equal(t, http.StatusBadRequest, post(uc, `{"businessId":3,"serviceId":5,"date":"2025-03-12","startTime":"9am"}`, true).Code)

	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{createAppointment.ErrSlotNotAvailable, http.StatusConflict},
		{createAppointment.ErrBusinessNotFound, http.StatusNotFound},
		{createAppointment.ErrServiceNotFound, http.StatusNotFound},
		{createAppointment.ErrBusinessClosed, http.StatusBadRequest},
		{createAppointment.ErrInvalidDate, http.StatusBadRequest},
		{createAppointment.ErrDateTooFarInFuture, http.StatusBadRequest},
		{createAppointment.ErrInvalidTimeSlot, http.StatusBadRequest},
		{createAppointment.ErrTooLateToBook, http.StatusBadRequest},
		{createAppointment.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		uc := &useCaseMock{}
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

		assert.Equal(t, tt.code, post(uc, validBody, true).Code, tt.err.Error())
	}
}
