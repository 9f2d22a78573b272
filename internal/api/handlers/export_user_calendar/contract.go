package export_user_calendar

import (
	"context"
	"io"
)

type AppointmentService interface {
	ExportUserCalendar(ctx context.Context, userID int64, w io.Writer) error
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
