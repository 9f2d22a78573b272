package main

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func decodeOutput(t *testing.T, buf *bytes.Buffer) pipelineOutput {
	t.Helper()
	var out pipelineOutput
	require.NoError(t, json.NewDecoder(buf).Decode(&out))
	return out
}

func TestComputeSlots(t *testing.T) {
	input := `{
		"businessId": 1,
		"timezone": "UTC",
		"date": "2025-03-12",
		"durationMinutes": 60,
		"hours": [{"dayOfWeek": 2, "startTime": "09:00", "endTime": "12:00"}],
		"appointments": [
			{"startTime": "2025-03-12T10:00:00Z", "endTime": "2025-03-12T11:00:00Z"},
			{"startTime": "2025-03-12T09:00:00Z", "endTime": "2025-03-12T10:00:00Z", "status": "cancelled"}
		]
	}`

	var buf bytes.Buffer
	require.NoError(t, computeSlots(strings.NewReader(input), &buf))

	out := decodeOutput(t, &buf)
	assert.Equal(t, "2025-03-12", out.Date)
	assert.Equal(t, 2, out.DayOfWeek)
	assert.Empty(t, out.Diagnostic)

	labels := make([]string, len(out.Slots))
	for i, s := range out.Slots {
		labels[i] = s.StartTime
	}
	assert.Equal(t, []string{"09:00", "11:00"}, labels)
	assert.Equal(t, "2025-03-12T12:00:00Z", out.Slots[1].EndAt)
}

func TestComputeSlots_MissingDayIsClosed(t *testing.T) {
	input := `{"businessId": 1, "date": "2025-03-13", "durationMinutes": 30,
		"hours": [{"dayOfWeek": 2, "startTime": "09:00", "endTime": "12:00"}]}`

	var buf bytes.Buffer
	require.NoError(t, computeSlots(strings.NewReader(input), &buf))

	out := decodeOutput(t, &buf)
	assert.True(t, out.Hours.IsClosed)
	assert.Empty(t, out.Slots)
}

func TestComputeSlots_MalformedHoursGiveDiagnostic(t *testing.T) {
	input := `{"businessId": 1, "date": "2025-03-12", "durationMinutes": 60,
		"hours": [{"dayOfWeek": 2, "startTime": "9am", "endTime": "12:00"}]}`

	var buf bytes.Buffer
	require.NoError(t, computeSlots(strings.NewReader(input), &buf))

	out := decodeOutput(t, &buf)
	assert.NotEmpty(t, out.Diagnostic)
	assert.Empty(t, out.Slots)
}

func TestComputeSlots_InvalidInput(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"bad json", `{`},
		{"unknown field", `{"date": "2025-03-12", "durationMinutes": 60, "extra": true}`},
		{"bad date", `{"date": "12.03.2025", "durationMinutes": 60}`},
		{"bad timezone", `{"timezone": "Mars/Olympus", "date": "2025-03-12", "durationMinutes": 60}`},
		{"no duration", `{"date": "2025-03-12"}`},
		{"bad status", `{"date": "2025-03-12", "durationMinutes": 60,
			"appointments": [{"startTime": "2025-03-12T10:00:00Z", "endTime": "2025-03-12T11:00:00Z", "status": "lost"}]}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			assert.Error(t, computeSlots(strings.NewReader(tt.input), &buf))
		})
	}
}
