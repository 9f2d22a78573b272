package appointments

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	appointmentRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/appointment"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	"github.com/m04kA/SMC-AppointmentService/internal/service/appointments/models"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
)

const (
	ownerID    int64 = 10
	customerID int64 = 20
	strangerID int64 = 30
)

type mockAppointments struct{ mock.Mock }

func (m *mockAppointments) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	args := m.Called(ctx, id)
	a, _ := args.Get(0).(*domain.Appointment)
	return a, args.Error(1)
}

func (m *mockAppointments) GetByUserID(ctx context.Context, userID int64, status *domain.AppointmentStatus) ([]*domain.Appointment, error) {
	args := m.Called(ctx, userID, status)
	items, _ := args.Get(0).([]*domain.Appointment)
	return items, args.Error(1)
}

func (m *mockAppointments) GetByBusinessWithFilter(ctx context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	args := m.Called(ctx, filter)
	items, _ := args.Get(0).([]*domain.Appointment)
	return items, args.Error(1)
}

func (m *mockAppointments) UpdateStatus(ctx context.Context, id int64, status domain.AppointmentStatus) error {
	return m.Called(ctx, id, status).Error(0)
}

func (m *mockAppointments) Cancel(ctx context.Context, id int64, reason *string) error {
	return m.Called(ctx, id, reason).Error(0)
}

type stubBusinesses map[int64]*domain.Business

func (s stubBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if b, ok := s[id]; ok {
		return b, nil
	}
	return nil, businessRepo.ErrBusinessNotFound
}

type recordingOutbox struct {
	events []*domain.OutboxEvent
	err    error
}

func (r *recordingOutbox) Insert(_ context.Context, evt *domain.OutboxEvent) error {
	if r.err != nil {
		return r.err
	}
	r.events = append(r.events, evt)
	return nil
}

type passThroughTx struct{}

func (passThroughTx) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

var fixedNow = time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

func newService(repo *mockAppointments, outbox *recordingOutbox) *Service {
	svc := NewService(
		repo,
		stubBusinesses{1: {ID: 1, OwnerID: ownerID}},
		outbox,
		passThroughTx{},
		time.UTC,
		logger.NewNop(),
	)
	svc.now = func() time.Time { return fixedNow }
	return svc
}

func sampleAppointment(status domain.AppointmentStatus) *domain.Appointment {
	start := time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC)
	return &domain.Appointment{
		ID:          7,
		BusinessID:  1,
		ServiceID:   2,
		UserID:      customerID,
		StartTime:   start,
		EndTime:     start.Add(time.Hour),
		Status:      status,
		ServiceName: "Haircut",
	}
}

func TestGetByID_Access(t *testing.T) {
	tests := []struct {
		name    string
		userID  int64
		wantErr error
	}{
		{"customer", customerID, nil},
		{"owner", ownerID, nil},
		{"stranger", strangerID, ErrAccessDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointments{}
			repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(domain.StatusPending), nil)

			resp, err := newService(repo, &recordingOutbox{}).GetByID(context.Background(), 7, tt.userID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "2025-03-12", resp.Date)
			assert.Equal(t, "10:00", resp.StartTime)
			assert.Equal(t, 60, resp.DurationMinutes)
		})
	}
}

func TestGetByID_NotFound(t *testing.T) {
	repo := &mockAppointments{}
	repo.On("GetByID", mock.Anything, int64(9)).Return(nil, appointmentRepo.ErrAppointmentNotFound)

	_, err := newService(repo, &recordingOutbox{}).GetByID(context.Background(), 9, customerID)

	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestGetUserAppointments(t *testing.T) {
	repo := &mockAppointments{}
	confirmed := domain.StatusConfirmed
	repo.On("GetByUserID", mock.Anything, customerID, &confirmed).
		Return([]*domain.Appointment{sampleAppointment(domain.StatusConfirmed)}, nil)

	resp, err := newService(repo, &recordingOutbox{}).GetUserAppointments(context.Background(),
		&models.GetUserAppointmentsRequest{UserID: customerID, Status: ptr.Ptr("confirmed")})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)

	_, err = newService(repo, &recordingOutbox{}).GetUserAppointments(context.Background(),
		&models.GetUserAppointmentsRequest{UserID: customerID, Status: ptr.Ptr("no_show")})
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestGetBusinessAppointments_DateFilter(t *testing.T) {
	repo := &mockAppointments{}
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	repo.On("GetByBusinessWithFilter", mock.Anything, mock.MatchedBy(func(f domain.AppointmentsFilter) bool {
		return f.BusinessID == 1 &&
			f.From != nil && f.From.Equal(day) &&
			f.To != nil && f.To.Equal(day.AddDate(0, 0, 1)) &&
			!f.IncludeCancelled
	})).Return([]*domain.Appointment{sampleAppointment(domain.StatusPending)}, nil)

	resp, err := newService(repo, &recordingOutbox{}).GetBusinessAppointments(context.Background(),
		&models.GetBusinessAppointmentsRequest{UserID: ownerID, BusinessID: 1, StartDate: &day, EndDate: &day})

	require.NoError(t, err)
	assert.Len(t, resp.Appointments, 1)
}

func TestGetBusinessAppointments_Errors(t *testing.T) {
	day := time.Date(2025, 3, 12, 0, 0, 0, 0, time.UTC)
	before := day.AddDate(0, 0, -1)

	tests := []struct {
		name string
		req  models.GetBusinessAppointmentsRequest
		want error
	}{
		{"not owner", models.GetBusinessAppointmentsRequest{UserID: customerID, BusinessID: 1}, ErrAccessDenied},
		{"unknown business", models.GetBusinessAppointmentsRequest{UserID: ownerID, BusinessID: 2}, ErrBusinessNotFound},
		{"reversed range", models.GetBusinessAppointmentsRequest{UserID: ownerID, BusinessID: 1, StartDate: &day, EndDate: &before}, ErrInvalidTimeRange},
		{"bad status", models.GetBusinessAppointmentsRequest{UserID: ownerID, BusinessID: 1, Status: ptr.Ptr("done")}, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newService(&mockAppointments{}, &recordingOutbox{}).GetBusinessAppointments(context.Background(), &tt.req)
			assert.ErrorIs(t, err, tt.want)
		})
	}
}

func TestCancel_ByCustomerRecordsEvent(t *testing.T) {
	repo := &mockAppointments{}
	outbox := &recordingOutbox{}
	repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(domain.StatusConfirmed), nil)
	repo.On("Cancel", mock.Anything, int64(7), ptr.Ptr("sick")).Return(nil)

	resp, err := newService(repo, outbox).Cancel(context.Background(), 7,
		&models.CancelAppointmentRequest{UserID: customerID, CancellationReason: ptr.Ptr("  sick ")})

	require.NoError(t, err)
	assert.Equal(t, "cancelled", resp.Status)
	require.NotNil(t, resp.CancelledAt)

	require.Len(t, outbox.events, 1)
	assert.Equal(t, domain.EventAppointmentCancelled, outbox.events[0].EventType)
	assert.Equal(t, "7", outbox.events[0].AggregateID)

	var payload domain.AppointmentEventPayload
	require.NoError(t, json.Unmarshal(outbox.events[0].Payload, &payload))
	assert.Equal(t, "cancelled", payload.Status)
}

func TestCancel_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status domain.AppointmentStatus
		userID int64
		want   error
	}{
		{"stranger", domain.StatusPending, strangerID, ErrAccessDenied},
		{"already cancelled", domain.StatusCancelled, customerID, ErrCannotCancel},
		{"completed", domain.StatusCompleted, ownerID, ErrCannotCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointments{}
			outbox := &recordingOutbox{}
			repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(tt.status), nil)

			_, err := newService(repo, outbox).Cancel(context.Background(), 7, &models.CancelAppointmentRequest{UserID: tt.userID})

			assert.ErrorIs(t, err, tt.want)
			assert.Empty(t, outbox.events)
			repo.AssertNotCalled(t, "Cancel", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestCancel_OutboxFailureIsInternal(t *testing.T) {
	repo := &mockAppointments{}
	repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(domain.StatusPending), nil)
	repo.On("Cancel", mock.Anything, int64(7), (*string)(nil)).Return(nil)

	_, err := newService(repo, &recordingOutbox{err: errors.New("db down")}).Cancel(context.Background(), 7,
		&models.CancelAppointmentRequest{UserID: ownerID})

	assert.ErrorIs(t, err, ErrInternal)
}

func TestUpdateStatus(t *testing.T) {
	repo := &mockAppointments{}
	outbox := &recordingOutbox{}
	repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(domain.StatusPending), nil)
	repo.On("UpdateStatus", mock.Anything, int64(7), domain.StatusConfirmed).Return(nil)

	resp, err := newService(repo, outbox).UpdateStatus(context.Background(), 7,
		&models.UpdateStatusRequest{UserID: ownerID, Status: "confirmed"})

	require.NoError(t, err)
	assert.Equal(t, "confirmed", resp.Status)
	require.Len(t, outbox.events, 1)
	assert.Equal(t, domain.EventAppointmentStatusChanged, outbox.events[0].EventType)
}

func TestUpdateStatus_Errors(t *testing.T) {
	tests := []struct {
		name   string
		status string
		userID int64
		want   error
	}{
		{"customer cannot change status", "confirmed", customerID, ErrAccessDenied},
		{"skip confirmation", "completed", ownerID, ErrInvalidTransition},
		{"back to pending", "pending", ownerID, ErrInvalidTransition},
		{"unknown status", "archived", ownerID, ErrInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockAppointments{}
			repo.On("GetByID", mock.Anything, int64(7)).Return(sampleAppointment(domain.StatusPending), nil)

			_, err := newService(repo, &recordingOutbox{}).UpdateStatus(context.Background(), 7,
				&models.UpdateStatusRequest{UserID: tt.userID, Status: tt.status})

			assert.ErrorIs(t, err, tt.want)
			repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestExportUserCalendar(t *testing.T) {
	repo := &mockAppointments{}
	repo.On("GetByUserID", mock.Anything, customerID, (*domain.AppointmentStatus)(nil)).
		Return([]*domain.Appointment{sampleAppointment(domain.StatusConfirmed)}, nil)

	var buf bytes.Buffer
	err := newService(repo, &recordingOutbox{}).ExportUserCalendar(context.Background(), customerID, &buf)

	require.NoError(t, err)
	assert.Contains(t, buf.String(), "BEGIN:VEVENT")
	assert.Contains(t, buf.String(), "appointment-7@"+CalendarUIDDomain)
}
