package get_available_slots

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
)

// 2025-03-10 - понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeBusinesses struct {
	hours    []domain.BusinessHours
	hoursErr error
}

func (f *fakeBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if id != 1 {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &domain.Business{ID: 1, OwnerID: 10}, nil
}

func (f *fakeBusinesses) GetHours(_ context.Context, _ int64) ([]domain.BusinessHours, error) {
	return f.hours, f.hoursErr
}

type fakeServices map[int64]*domain.Service

func (f fakeServices) GetByID(_ context.Context, businessID, id int64) (*domain.Service, error) {
	if s, ok := f[id]; ok && s.BusinessID == businessID {
		return s, nil
	}
	return nil, catalogRepo.ErrServiceNotFound
}

type fakeAppointments struct {
	items  []*domain.Appointment
	err    error
	filter domain.AppointmentsFilter
}

func (f *fakeAppointments) GetByBusinessWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	return f.items, f.err
}

type fakePolicies struct {
	policy *domain.BookingPolicy
}

func (f fakePolicies) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingPolicy, error) {
	if f.policy == nil {
		return nil, policyRepo.ErrPolicyNotFound
	}
	return f.policy, nil
}

type recordingMetrics struct {
	outcomes []string
}

func (m *recordingMetrics) ObserveSlotComputation(_ int64, outcome string, _ int) {
	m.outcomes = append(m.outcomes, outcome)
}

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type fixture struct {
	businesses   *fakeBusinesses
	appointments *fakeAppointments
	policies     fakePolicies
	metrics      *recordingMetrics
	now          time.Time
}

func newFixture() *fixture {
	return &fixture{
		businesses: &fakeBusinesses{hours: []domain.BusinessHours{
			{ID: 1, BusinessID: 1, DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"},
			{ID: 2, BusinessID: 1, DayOfWeek: 1, StartTime: "9am", EndTime: "12:00"},
			{ID: 3, BusinessID: 1, DayOfWeek: 4, StartTime: "22:00", EndTime: "01:00"},
		}},
		appointments: &fakeAppointments{},
		metrics:      &recordingMetrics{},
		now:          monday.Add(-24 * time.Hour),
	}
}

func (f *fixture) useCase() *UseCase {
	uc := NewUseCase(
		f.businesses,
		fakeServices{
			5: {ID: 5, BusinessID: 1, DurationMinutes: 60, IsActive: true},
			6: {ID: 6, BusinessID: 1, DurationMinutes: 30, IsActive: false},
		},
		f.appointments,
		f.policies,
		f.metrics,
		time.UTC,
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime(f.now)
	return uc
}

func labels(resp *Response) []string {
	out := make([]string, len(resp.Slots))
	for i, s := range resp.Slots {
		out[i] = s.StartTime.String()
	}
	return out
}

func TestExecute_FiltersBookedSlots(t *testing.T) {
	f := newFixture()
	f.appointments.items = []*domain.Appointment{{
		StartTime: monday.Add(10 * time.Hour),
		EndTime:   monday.Add(11 * time.Hour),
		Status:    domain.StatusConfirmed,
	}}

	resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday})

	require.NoError(t, err)
	assert.Equal(t, []string{"09:00", "11:00"}, labels(resp))
	assert.False(t, resp.Degraded)
	assert.Equal(t, []string{OutcomeOK}, f.metrics.outcomes)

	// Запрашиваются записи, пересекающие слоты дня, включая время после полуночи
	require.NotNil(t, f.appointments.filter.From)
	assert.True(t, f.appointments.filter.From.Equal(monday))
	assert.True(t, f.appointments.filter.To.Equal(monday.AddDate(0, 0, 2)))
	assert.True(t, f.appointments.filter.Overlapping)
}

func TestExecute_TodayRespectsMinNotice(t *testing.T) {
	f := newFixture()
	f.now = monday.Add(8*time.Hour + 15*time.Minute)
	f.policies.policy = &domain.BookingPolicy{ID: 1, BusinessID: 1, MinBookingNoticeMinutes: 90}

	resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday})

	require.NoError(t, err)
	// 08:15 + 90 минут = 09:45
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, labels(resp))
}

func TestExecute_CrossMidnight(t *testing.T) {
	f := newFixture()
	friday := monday.AddDate(0, 0, 4)

	resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: friday})

	require.NoError(t, err)
	assert.Equal(t, []string{"22:00", "22:30", "23:00", "23:30", "00:00"}, labels(resp))
	assert.True(t, resp.Slots[4].StartAt.Equal(friday.AddDate(0, 0, 1)))
}

func TestExecute_ClosedDay(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, 2)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.Nil(t, resp.Diagnostic)
	assert.Equal(t, []string{OutcomeClosed}, f.metrics.outcomes)
}

func TestExecute_MalformedHoursYieldDiagnostic(t *testing.T) {
	f := newFixture()

	resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, 1)})

	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
	assert.False(t, resp.Degraded)
	require.NotNil(t, resp.Diagnostic)
	assert.Contains(t, *resp.Diagnostic, "malformed")
}

func TestExecute_DegradesOnStorageFailure(t *testing.T) {
	t.Run("hours", func(t *testing.T) {
		f := newFixture()
		f.businesses.hoursErr = errors.New("timeout")

		resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday})

		require.NoError(t, err)
		assert.True(t, resp.Degraded)
		assert.NotNil(t, resp.Slots)
		assert.Empty(t, resp.Slots)
		assert.Equal(t, []string{OutcomeDegraded}, f.metrics.outcomes)
	})

	t.Run("appointments", func(t *testing.T) {
		f := newFixture()
		f.appointments.err = errors.New("timeout")

		resp, err := f.useCase().Execute(context.Background(), &Request{BusinessID: 1, ServiceID: 5, Date: monday})

		require.NoError(t, err)
		assert.True(t, resp.Degraded)
		assert.Empty(t, resp.Slots)
	})
}

func TestExecute_Errors(t *testing.T) {
	tests := []struct {
		name   string
		req    Request
		policy *domain.BookingPolicy
		want   error
	}{
		{"missing date", Request{BusinessID: 1, ServiceID: 5}, nil, ErrInvalidInput},
		{"unknown business", Request{BusinessID: 2, ServiceID: 5, Date: monday}, nil, ErrBusinessNotFound},
		{"unknown service", Request{BusinessID: 1, ServiceID: 7, Date: monday}, nil, ErrServiceNotFound},
		{"inactive service", Request{BusinessID: 1, ServiceID: 6, Date: monday}, nil, ErrServiceNotFound},
		{"past date", Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, -2)}, nil, ErrInvalidDate},
		{
			"beyond advance window",
			Request{BusinessID: 1, ServiceID: 5, Date: monday.AddDate(0, 0, 7)},
			&domain.BookingPolicy{ID: 1, AdvanceBookingDays: 3},
			ErrDateTooFarInFuture,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.policies.policy = tt.policy

			_, err := f.useCase().Execute(context.Background(), &tt.req)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
