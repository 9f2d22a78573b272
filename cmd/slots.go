package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
	"github.com/m04kA/SMC-AppointmentService/internal/slots"
)

// pipelineInput описание дня для офлайн расчёта слотов
type pipelineInput struct {
	BusinessID      int64                 `json:"businessId"`
	Timezone        string                `json:"timezone"`
	Date            string                `json:"date"` // YYYY-MM-DD
	DurationMinutes int                   `json:"durationMinutes"`
	Hours           []pipelineHours       `json:"hours"`
	Appointments    []pipelineAppointment `json:"appointments"`
}

type pipelineHours struct {
	DayOfWeek int    `json:"dayOfWeek"` // 0 = понедельник
	StartTime string `json:"startTime"`
	EndTime   string `json:"endTime"`
	IsClosed  bool   `json:"isClosed"`
}

type pipelineAppointment struct {
	StartTime time.Time `json:"startTime"` // RFC3339
	EndTime   time.Time `json:"endTime"`
	Status    string    `json:"status,omitempty"`
}

type pipelineOutput struct {
	Date       string         `json:"date"`
	DayOfWeek  int            `json:"dayOfWeek"`
	Hours      pipelineHours  `json:"hours"`
	Slots      []pipelineSlot `json:"slots"`
	Diagnostic string         `json:"diagnostic,omitempty"`
}

type pipelineSlot struct {
	StartTime string `json:"startTime"`
	StartAt   string `json:"startAt"`
	EndAt     string `json:"endAt"`
}

func runSlots(cmd *cobra.Command, args []string) error {
	var in io.Reader = os.Stdin
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		in = f
	}

	return computeSlots(in, cmd.OutOrStdout())
}

// computeSlots читает описание дня, прогоняет его через расчёт слотов и пишет результат в JSON
func computeSlots(r io.Reader, w io.Writer) error {
	var input pipelineInput
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&input); err != nil {
		return fmt.Errorf("failed to decode input: %w", err)
	}

	loc := time.UTC
	if input.Timezone != "" {
		var err error
		if loc, err = time.LoadLocation(input.Timezone); err != nil {
			return fmt.Errorf("invalid timezone %q: %w", input.Timezone, err)
		}
	}

	date, err := time.ParseInLocation(domain.DateFormat, input.Date, loc)
	if err != nil {
		return fmt.Errorf("invalid date %q: %w", input.Date, err)
	}
	if input.DurationMinutes <= 0 {
		return errors.New("durationMinutes must be positive")
	}

	hours := make([]domain.BusinessHours, len(input.Hours))
	for i, h := range input.Hours {
		hours[i] = domain.BusinessHours{
			BusinessID: input.BusinessID,
			DayOfWeek:  h.DayOfWeek,
			StartTime:  h.StartTime,
			EndTime:    h.EndTime,
			IsClosed:   h.IsClosed,
		}
	}

	appointments := make([]*domain.Appointment, len(input.Appointments))
	for i, a := range input.Appointments {
		status := domain.StatusConfirmed
		if a.Status != "" {
			parsed, ok := domain.ParseAppointmentStatus(a.Status)
			if !ok {
				return fmt.Errorf("appointment %d: invalid status %q", i, a.Status)
			}
			status = parsed
		}
		appointments[i] = &domain.Appointment{
			BusinessID: input.BusinessID,
			StartTime:  a.StartTime,
			EndTime:    a.EndTime,
			Status:     status,
		}
	}

	result, err := slots.Compute(slots.Input{
		BusinessID:      input.BusinessID,
		Hours:           hours,
		Appointments:    appointments,
		Date:            date,
		DurationMinutes: input.DurationMinutes,
		StepMinutes:     slots.DefaultStepMinutes,
		Location:        loc,
	})

	out := pipelineOutput{
		Date:      result.Date.Format(domain.DateFormat),
		DayOfWeek: result.DayIndex,
		Hours: pipelineHours{
			DayOfWeek: result.Hours.DayOfWeek,
			StartTime: result.Hours.StartTime,
			EndTime:   result.Hours.EndTime,
			IsClosed:  result.Hours.IsClosed,
		},
		Slots: make([]pipelineSlot, 0, len(result.Slots)),
	}
	switch {
	case errors.Is(err, slots.ErrMalformedHours):
		// Некорректные часы дают пустой день, а не ошибку
		out.Diagnostic = err.Error()
	case err != nil:
		return err
	}

	for _, s := range result.Slots {
		out.Slots = append(out.Slots, pipelineSlot{
			StartTime: s.Label,
			StartAt:   s.Start.Format(time.RFC3339),
			EndAt:     s.End.Format(time.RFC3339),
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}
