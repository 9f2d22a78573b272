package slots

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

func weekHours() []domain.BusinessHours {
	return []domain.BusinessHours{
		{ID: 1, BusinessID: 3, DayOfWeek: 0, StartTime: "09:00", EndTime: "12:00"},
		{ID: 2, BusinessID: 3, DayOfWeek: 1, StartTime: "10.00", EndTime: "11.00"},
		{ID: 3, BusinessID: 3, DayOfWeek: 4, StartTime: "22:00", EndTime: "01:00"},
		{ID: 4, BusinessID: 3, DayOfWeek: 5, StartTime: "nine", EndTime: "17:00"},
	}
}

func TestCompute_EndToEnd(t *testing.T) {
	res, err := Compute(Input{
		BusinessID: 3,
		Hours:      weekHours(),
		Appointments: []*domain.Appointment{
			appointment(monday, "10:00", "11:00", domain.StatusConfirmed),
			appointment(monday, "09:00", "10:00", domain.StatusCancelled),
		},
		Date:            monday,
		DurationMinutes: 60,
		StepMinutes:     DefaultStepMinutes,
	})

	require.NoError(t, err)
	assert.Equal(t, 0, res.DayIndex)
	assert.Equal(t, int64(1), res.Hours.ID)
	assert.Equal(t, []string{"09:00", "11:00"}, res.Labels())
}

func TestCompute_ClosedDay(t *testing.T) {
	wednesday := monday.AddDate(0, 0, 2)

	res, err := Compute(Input{BusinessID: 3, Hours: weekHours(), Date: wednesday, DurationMinutes: 30})

	require.NoError(t, err)
	assert.Equal(t, 2, res.DayIndex)
	assert.True(t, res.Hours.IsClosed)
	assert.Equal(t, "3-2", res.Hours.Key())
	assert.Empty(t, res.Slots)
}

func TestCompute_MalformedDayOnlyAffectsThatDay(t *testing.T) {
	saturday := monday.AddDate(0, 0, 5)

	res, err := Compute(Input{BusinessID: 3, Hours: weekHours(), Date: saturday, DurationMinutes: 30})
	assert.ErrorIs(t, err, ErrMalformedHours)
	assert.Empty(t, res.Slots)

	tuesday := monday.AddDate(0, 0, 1)
	res, err = Compute(Input{BusinessID: 3, Hours: weekHours(), Date: tuesday, DurationMinutes: 30})
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30"}, res.Labels())
}

func TestCompute_CrossMidnight(t *testing.T) {
	friday := monday.AddDate(0, 0, 4)

	res, err := Compute(Input{BusinessID: 3, Hours: weekHours(), Date: friday, DurationMinutes: 60})

	require.NoError(t, err)
	assert.Equal(t, []string{"22:00", "22:30", "23:00", "23:30", "00:00"}, res.Labels())
	assert.Equal(t, 1440, res.Slots[4].Offset)
}

func TestPick_PostMidnightSlotCannotBeBookedTwice(t *testing.T) {
	in := Input{
		BusinessID:      3,
		Hours:           []domain.BusinessHours{{BusinessID: 3, DayOfWeek: 0, StartTime: "22:00", EndTime: "01:00"}},
		Date:            monday,
		DurationMinutes: 60,
		StepMinutes:     DefaultStepMinutes,
	}

	slot, err := Pick(in, "00:00")
	require.NoError(t, err)
	assert.True(t, slot.Start.Equal(time.Date(2025, 3, 11, 0, 0, 0, 0, time.UTC)))

	in.Appointments = []*domain.Appointment{{StartTime: slot.Start, EndTime: slot.End, Status: domain.StatusPending}}

	res, err := Compute(in)
	require.NoError(t, err)
	assert.Equal(t, []string{"22:00", "22:30", "23:00"}, res.Labels())

	_, err = Pick(in, "00:00")
	assert.ErrorIs(t, err, ErrSlotTaken)
	_, err = Pick(in, "23:30")
	assert.ErrorIs(t, err, ErrSlotTaken)
}

func TestCompute_ZeroDuration(t *testing.T) {
	res, err := Compute(Input{BusinessID: 3, Hours: weekHours(), Date: monday})

	require.NoError(t, err)
	assert.NotNil(t, res.Slots)
	assert.Empty(t, res.Slots)
}

func TestCompute_Idempotent(t *testing.T) {
	in := Input{
		BusinessID:      3,
		Hours:           weekHours(),
		Appointments:    []*domain.Appointment{appointment(monday, "09:30", "10:00", domain.StatusPending)},
		Date:            monday,
		DurationMinutes: 30,
		StepMinutes:     DefaultStepMinutes,
	}

	first, err := Compute(in)
	require.NoError(t, err)
	second, err := Compute(in)
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestCompute_UsesLocationForCalendarDate(t *testing.T) {
	loc := time.FixedZone("UTC-5", -5*60*60)

	// The calendar date is taken as given, then anchored to loc.
	res, err := Compute(Input{
		BusinessID:      3,
		Hours:           weekHours(),
		Date:            monday,
		DurationMinutes: 60,
		Location:        loc,
	})

	require.NoError(t, err)
	assert.Equal(t, loc, res.Date.Location())
	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, loc), res.Slots[0].Start)
}

func TestCompute_SlotsAreAscendingAndWithinHours(t *testing.T) {
	res, err := Compute(Input{BusinessID: 3, Hours: weekHours(), Date: monday, DurationMinutes: 45})
	require.NoError(t, err)

	for i := 1; i < len(res.Slots); i++ {
		assert.Less(t, res.Slots[i-1].Offset, res.Slots[i].Offset)
	}
	for _, s := range res.Slots {
		assert.GreaterOrEqual(t, s.Offset, 9*60)
		assert.LessOrEqual(t, s.Offset+45, 12*60)
	}
}

func TestPick(t *testing.T) {
	in := Input{
		BusinessID:      3,
		Hours:           weekHours(),
		Appointments:    []*domain.Appointment{appointment(monday, "10:00", "11:00", domain.StatusConfirmed)},
		Date:            monday,
		DurationMinutes: 60,
		StepMinutes:     DefaultStepMinutes,
	}

	slot, err := Pick(in, "11:00")
	require.NoError(t, err)
	assert.True(t, slot.Start.Equal(at(monday, "11:00")))
	assert.True(t, slot.End.Equal(at(monday, "12:00")))

	_, err = Pick(in, "10:30")
	assert.ErrorIs(t, err, ErrSlotTaken)

	_, err = Pick(in, "10:15")
	assert.ErrorIs(t, err, ErrNotOnGrid)

	_, err = Pick(in, "11:30")
	assert.ErrorIs(t, err, ErrNotOnGrid)

	in.Date = monday.AddDate(0, 0, 2)
	_, err = Pick(in, "10:00")
	assert.ErrorIs(t, err, ErrDayClosed)

	in.Date = monday.AddDate(0, 0, 5)
	_, err = Pick(in, "10:00")
	assert.ErrorIs(t, err, ErrMalformedHours)
}
