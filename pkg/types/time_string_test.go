package types

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseMinutes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{name: "colon separator", input: "09:30", want: 570},
		{name: "dot separator", input: "09.30", want: 570},
		{name: "single digit hour", input: "9:05", want: 545},
		{name: "midnight", input: "00:00", want: 0},
		{name: "last minute", input: "23:59", want: 1439},
		{name: "end of day", input: "24:00", want: 1440},
		{name: "surrounding spaces", input: " 10:00 ", want: 600},
		{name: "empty", input: "", wantErr: true},
		{name: "no separator", input: "0930", wantErr: true},
		{name: "hour out of range", input: "25:00", wantErr: true},
		{name: "24 with minutes", input: "24:30", wantErr: true},
		{name: "minute out of range", input: "10:60", wantErr: true},
		{name: "one digit minute", input: "10:5", wantErr: true},
		{name: "letters", input: "ab:cd", wantErr: true},
		{name: "negative", input: "-1:00", wantErr: true},
		{name: "three digit hour", input: "100:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMinutes(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFromMinutes(t *testing.T) {
	assert.Equal(t, TimeString("00:00"), FromMinutes(0))
	assert.Equal(t, TimeString("09:05"), FromMinutes(545))
	assert.Equal(t, TimeString("23:30"), FromMinutes(1410))
	assert.Equal(t, TimeString("00:30"), FromMinutes(1470))
	assert.Equal(t, TimeString("01:00"), FromMinutes(1500))
}

func TestNewTimeStringFromString_Normalizes(t *testing.T) {
	ts, err := NewTimeStringFromString("9.00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("09:00"), ts)

	ts, err = NewTimeStringFromString("24:00")
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), ts)
}

func TestTimeString_AddMinutes(t *testing.T) {
	ts := TimeString("10:00")

	next, err := ts.AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("10:30"), next)

	end, err := TimeString("23:30").AddMinutes(30)
	require.NoError(t, err)
	assert.Equal(t, TimeString("24:00"), end)

	_, err = TimeString("23:30").AddMinutes(60)
	assert.ErrorIs(t, err, ErrTimeOverflow)

	_, err = TimeString("bad").AddMinutes(1)
	assert.ErrorIs(t, err, ErrInvalidTimeFormat)
}

func TestTimeString_Compare(t *testing.T) {
	assert.True(t, TimeString("09:00").IsBefore("10:00"))
	assert.False(t, TimeString("10:00").IsBefore("10:00"))
	assert.True(t, TimeString("11:00").IsAfter("10:59"))
	assert.False(t, TimeString("bad").IsAfter("10:00"))
}

func TestTimeString_On(t *testing.T) {
	loc := time.FixedZone("UTC+3", 3*60*60)
	date := time.Date(2025, 3, 10, 17, 45, 0, 0, loc)

	at, err := TimeString("09:30").On(date)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 3, 10, 9, 30, 0, 0, loc), at)
}

func TestTimeString_ScanValue(t *testing.T) {
	var ts TimeString
	require.NoError(t, ts.Scan([]byte("08:15")))
	assert.Equal(t, TimeString("08:15"), ts)

	require.NoError(t, ts.Scan(time.Date(0, 1, 1, 14, 5, 0, 0, time.UTC)))
	assert.Equal(t, TimeString("14:05"), ts)

	assert.Error(t, ts.Scan(42))

	v, err := TimeString("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)
}
