package create_appointment

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	businessRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/business"
	catalogRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/catalog"
	policyRepo "github.com/m04kA/SMC-AppointmentService/internal/infra/storage/policy"
	"github.com/m04kA/SMC-AppointmentService/pkg/logger"
	"github.com/m04kA/SMC-AppointmentService/pkg/ptr"
	"github.com/m04kA/SMC-AppointmentService/pkg/types"
)

// 2025-03-10 - понедельник
var monday = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

type fakeBusinesses struct{}

func (fakeBusinesses) GetByID(_ context.Context, id int64) (*domain.Business, error) {
	if id != 1 {
		return nil, businessRepo.ErrBusinessNotFound
	}
	return &domain.Business{ID: 1, OwnerID: 10}, nil
}

func (fakeBusinesses) GetHours(_ context.Context, _ int64) ([]domain.BusinessHours, error) {
	return []domain.BusinessHours{
		{ID: 1, BusinessID: 1, DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"},
		{ID: 2, BusinessID: 1, DayOfWeek: 6, StartTime: "22:00", EndTime: "01:00"},
	}, nil
}

type fakeServices struct{}

func (fakeServices) GetByID(_ context.Context, businessID, id int64) (*domain.Service, error) {
	if businessID != 1 || id != 5 {
		return nil, catalogRepo.ErrServiceNotFound
	}
	return &domain.Service{ID: 5, BusinessID: 1, Name: "Haircut", DurationMinutes: 60, Price: ptr.Ptr(25.0), IsActive: true}, nil
}

type fakeAppointments struct {
	existing []*domain.Appointment
	filter   domain.AppointmentsFilter
	created  *domain.Appointment
}

func (f *fakeAppointments) Create(_ context.Context, appt *domain.Appointment) (*domain.Appointment, error) {
	copied := *appt
	copied.ID = 100
	f.created = &copied
	return &copied, nil
}

func (f *fakeAppointments) GetByBusinessWithFilter(_ context.Context, filter domain.AppointmentsFilter) ([]*domain.Appointment, error) {
	f.filter = filter
	return f.existing, nil
}

type noPolicies struct{}

func (noPolicies) GetWithHierarchy(_ context.Context, _ int64, _ *int64) (*domain.BookingPolicy, error) {
	return nil, policyRepo.ErrPolicyNotFound
}

type recordingOutbox struct {
	events []*domain.OutboxEvent
}

func (r *recordingOutbox) Insert(_ context.Context, evt *domain.OutboxEvent) error {
	r.events = append(r.events, evt)
	return nil
}

type fakeTx struct {
	err error
}

func (f fakeTx) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(ctx)
}

type countingMetrics struct {
	created int
}

func (m *countingMetrics) IncAppointmentsCreated(_ int64) { m.created++ }

type fixedTime time.Time

func (f fixedTime) Now() time.Time { return time.Time(f) }

type fixture struct {
	appointments *fakeAppointments
	outbox       *recordingOutbox
	metrics      *countingMetrics
	tx           fakeTx
	now          time.Time
}

func newFixture() *fixture {
	return &fixture{
		appointments: &fakeAppointments{},
		outbox:       &recordingOutbox{},
		metrics:      &countingMetrics{},
		now:          monday.Add(-24 * time.Hour),
	}
}

func (f *fixture) execute(req *Request) (*Response, error) {
	uc := NewUseCase(
		fakeBusinesses{},
		fakeServices{},
		f.appointments,
		noPolicies{},
		f.outbox,
		f.tx,
		f.metrics,
		time.UTC,
		logger.NewNop(),
	)
	uc.timeProvider = fixedTime(f.now)
	return uc.Execute(context.Background(), req)
}

func request(start string) *Request {
	return &Request{UserID: 20, BusinessID: 1, ServiceID: 5, Date: monday, StartTime: types.TimeString(start)}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	f := newFixture()

	resp, err := f.execute(request("10.30"))

	require.NoError(t, err)
	assert.Equal(t, int64(100), resp.ID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, types.TimeString("10:30"), resp.StartTime)
	assert.True(t, resp.StartAt.Equal(monday.Add(10*time.Hour+30*time.Minute)))
	assert.True(t, resp.EndAt.Equal(monday.Add(11*time.Hour+30*time.Minute)))
	assert.Equal(t, 60, resp.DurationMinutes)
	assert.Equal(t, "Haircut", resp.ServiceName)

	assert.True(t, f.appointments.filter.ForUpdate)
	require.Len(t, f.outbox.events, 1)
	assert.Equal(t, domain.EventAppointmentCreated, f.outbox.events[0].EventType)
	assert.Equal(t, "100", f.outbox.events[0].AggregateID)
	assert.Equal(t, 1, f.metrics.created)
}

func TestExecute_RejectsSlot(t *testing.T) {
	booked := &domain.Appointment{
		StartTime: monday.Add(10 * time.Hour),
		EndTime:   monday.Add(11 * time.Hour),
		Status:    domain.StatusConfirmed,
	}

	tests := []struct {
		name     string
		start    string
		date     time.Time
		now      time.Time
		existing []*domain.Appointment
		want     error
	}{
		{"overlaps existing", "09:30", monday, monday.Add(-time.Hour), []*domain.Appointment{booked}, ErrSlotNotAvailable},
		{"off the grid", "09:15", monday, monday.Add(-time.Hour), nil, ErrInvalidTimeSlot},
		{"does not fit before closing", "11:30", monday, monday.Add(-time.Hour), nil, ErrInvalidTimeSlot},
		{"closed day", "10:00", monday.AddDate(0, 0, 1), monday, nil, ErrBusinessClosed},
		{"inside notice window", "09:30", monday, monday.Add(9 * time.Hour), nil, ErrTooLateToBook},
		{"past date", "10:00", monday, monday.AddDate(0, 0, 1), nil, ErrInvalidDate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.now = tt.now
			f.appointments.existing = tt.existing
			req := request(tt.start)
			req.Date = tt.date

			_, err := f.execute(req)

			assert.ErrorIs(t, err, tt.want)
			assert.Nil(t, f.appointments.created)
			assert.Empty(t, f.outbox.events)
			assert.Zero(t, f.metrics.created)
		})
	}
}

func TestExecute_PostMidnightSlot(t *testing.T) {
	sunday := monday.AddDate(0, 0, -1)
	bookedAfterMidnight := &domain.Appointment{
		StartTime: monday,
		EndTime:   monday.Add(time.Hour),
		Status:    domain.StatusPending,
	}

	t.Run("free slot is created on the next calendar date", func(t *testing.T) {
		f := newFixture()
		f.now = sunday.Add(-24 * time.Hour)
		req := request("00:00")
		req.Date = sunday

		resp, err := f.execute(req)

		require.NoError(t, err)
		assert.True(t, resp.StartAt.Equal(monday))
		assert.True(t, resp.EndAt.Equal(monday.Add(time.Hour)))

		// Блокируются записи всего диапазона слотов, а не только начинающиеся в этот день
		require.NotNil(t, f.appointments.filter.To)
		assert.True(t, f.appointments.filter.From.Equal(sunday))
		assert.True(t, f.appointments.filter.To.Equal(sunday.AddDate(0, 0, 2)))
		assert.True(t, f.appointments.filter.Overlapping)
	})

	for _, start := range []string{"00:00", "23:30"} {
		t.Run("booked slot rejects "+start, func(t *testing.T) {
			f := newFixture()
			f.now = sunday.Add(-24 * time.Hour)
			f.appointments.existing = []*domain.Appointment{bookedAfterMidnight}
			req := request(start)
			req.Date = sunday

			_, err := f.execute(req)

			assert.ErrorIs(t, err, ErrSlotNotAvailable)
			assert.Nil(t, f.appointments.created)
		})
	}
}

func TestExecute_TouchingAppointmentIsFine(t *testing.T) {
	f := newFixture()
	f.appointments.existing = []*domain.Appointment{{
		StartTime: monday.Add(10 * time.Hour),
		EndTime:   monday.Add(11 * time.Hour),
		Status:    domain.StatusPending,
	}}

	_, err := f.execute(request("09:00"))

	require.NoError(t, err)
}

func TestExecute_SerializationConflictMeansTaken(t *testing.T) {
	f := newFixture()
	f.tx.err = &pq.Error{Code: "40001"}

	_, err := f.execute(request("10:00"))

	assert.ErrorIs(t, err, ErrSlotNotAvailable)
}

func TestExecute_InvalidInput(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(r *Request)
		want   error
	}{
		{"no user", func(r *Request) { r.UserID = 0 }, ErrInvalidInput},
		{"no start", func(r *Request) { r.StartTime = "" }, ErrInvalidInput},
		{"bad start", func(r *Request) { r.StartTime = "25:00" }, ErrInvalidInput},
		{"long notes", func(r *Request) { r.Notes = ptr.Ptr(strings.Repeat("x", 501)) }, ErrInvalidInput},
		{"unknown business", func(r *Request) { r.BusinessID = 2 }, ErrBusinessNotFound},
		{"unknown service", func(r *Request) { r.ServiceID = 6 }, ErrServiceNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := request("10:00")
			tt.mutate(req)

			_, err := newFixture().execute(req)

			assert.ErrorIs(t, err, tt.want)
		})
	}
}
