package get_available_slots

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	getAvailableSlots "github.com/m04kA/SMC-AppointmentService/internal/usecase/get_available_slots"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

type useCaseMock struct {
	mock.Mock
}

func (m *useCaseMock) Execute(ctx context.Context, req *getAvailableSlots.Request) (*getAvailableSlots.Response, error) {
	args := m.Called(ctx, req)
	resp, _ := args.Get(0).(*getAvailableSlots.Response)
	return resp, args.Error(1)
}

var now = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func serve(uc GetAvailableSlotsUseCase, target string) *httptest.ResponseRecorder {
	h := NewHandler(uc, time.UTC, logger.NewNop())
	h.now = func() time.Time { return now }

	r := mux.NewRouter()
	r.HandleFunc("/businesses/{businessId}/available-slots", h.Handle)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestParseDate(t *testing.T) {
	got, err := ParseDate("2025-03-12", now)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC), got)

	got, err = ParseDate("tomorrow", now)
	require.NoError(t, err)
	y, m, d := got.Date()
	assert.Equal(t, []int{2025, 3, 11}, []int{y, int(m), d})

	_, err = ParseDate("qwxz", now)
	assert.Error(t, err)
}

func TestHandle_Success(t *testing.T) {
	uc := &useCaseMock{}
	start := time.Date(2025, 3, 12, 9, 0, 0, 0, time.UTC)
	uc.On("Execute", mock.Anything, mock.MatchedBy(func(req *getAvailableSlots.Request) bool {
		return req.BusinessID == 3 && req.ServiceID == 5 && req.Date.Day() == 12
	})).Return(&getAvailableSlots.Response{
		Date:            time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC),
		BusinessID:      3,
		ServiceID:       5,
		DurationMinutes: 60,
		Slots:           []getAvailableSlots.Slot{{StartTime: types.TimeString("09:00"), StartAt: start, EndAt: start.Add(time.Hour)}},
	}, nil)

	rec := serve(uc, "/businesses/3/available-slots?serviceId=5&date=2025-03-12")

	require.Equal(t, http.StatusOK, rec.Code)
	var body AvailableSlotsResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.Equal(t, "2025-03-12", body.Date)
	require.Len(t, body.Slots, 1)
	assert.Equal(t, "09:00", body.Slots[0].StartTime)
	assert.Equal(t, "2025-03-12T10:00:00Z", body.Slots[0].EndAt)
	assert.False(t, body.Degraded)
	uc.AssertExpectations(t)
}

func TestHandle_BadRequests(t *testing.T) {
	uc := &useCaseMock{}

	for _, target := range []string{
		"/businesses/x/available-slots?serviceId=5&date=2025-03-12",
		"/businesses/3/available-slots?date=2025-03-12",
		"/businesses/3/available-slots?serviceId=abc&date=2025-03-12",
		"/businesses/3/available-slots?serviceId=5",
		"/businesses/3/available-slots?serviceId=5&date=qwxz",
	} {
		rec := serve(uc, target)
		assert.Equal(t, http.StatusBadRequest, rec.Code, target)
	}
	uc.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestHandle_ErrorMapping(t *testing.T) {
	tests := []struct {
		err  error
		code int
	}{
		{getAvailableSlots.ErrBusinessNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrServiceNotFound, http.StatusNotFound},
		{getAvailableSlots.ErrInvalidDate, http.StatusBadRequest},
		{getAvailableSlots.ErrDateTooFarInFuture, http.StatusBadRequest},
		{getAvailableSlots.ErrInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		uc := &useCaseMock{}
		uc.On("Execute", mock.Anything, mock.Anything).Return(nil, tt.err)

		rec := serve(uc, "/businesses/3/available-slots?serviceId=5&date=2025-03-12")

		assert.Equal(t, tt.code, rec.Code, tt.err.Error())
	}
}
