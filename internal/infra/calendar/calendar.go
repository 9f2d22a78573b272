// Package calendar renders appointments as an iCalendar feed.
package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	ical "github.com/emersion/go-ical"

	"github.com/m04kA/SMC-AppointmentService/internal/domain"
)

// ContentType is the media type of the rendered feed
const ContentType = "text/calendar; charset=utf-8"

const productID = "-//SMC//AppointmentService//EN"

// Options controls feed rendering.
type Options struct {
	// Name is shown by calendar clients as the feed title.
	Name string
	// UIDDomain qualifies event UIDs, e.g. "appointments.example.com".
	UIDDomain string
	// Now is used as DTSTAMP.
	Now time.Time
}

// Encode writes appointments as VEVENTs. Cancelled appointments are kept with
// STATUS:CANCELLED so subscribed clients remove them.
func Encode(w io.Writer, appointments []*domain.Appointment, opts Options) error {
	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)
	if opts.Name != "" {
		cal.Props.SetText("X-WR-CALNAME", opts.Name)
	}

	now := opts.Now
	if now.IsZero() {
		now = time.Now()
	}

	for _, a := range appointments {
		if a == nil {
			continue
		}
		cal.Children = append(cal.Children, toEvent(a, opts.UIDDomain, now).Component)
	}

	if err := ical.NewEncoder(w).Encode(cal); err != nil {
		return fmt.Errorf("calendar: encode: %w", err)
	}
	return nil
}

func toEvent(a *domain.Appointment, uidDomain string, now time.Time) *ical.Event {
	event := ical.NewEvent()
	event.Props.SetText(ical.PropUID, uid(a.ID, uidDomain))
	event.Props.SetDateTime(ical.PropDateTimeStamp, now.UTC())
	event.Props.SetDateTime(ical.PropDateTimeStart, a.StartTime.UTC())
	event.Props.SetDateTime(ical.PropDateTimeEnd, a.EndTime.UTC())
	event.Props.SetText(ical.PropSummary, summary(a))
	event.Props.SetText(ical.PropStatus, status(a.Status))
	if a.Notes != nil && *a.Notes != "" {
		event.Props.SetText(ical.PropDescription, *a.Notes)
	}
	if !a.UpdatedAt.IsZero() {
		event.Props.SetDateTime(ical.PropLastModified, a.UpdatedAt.UTC())
	}
	return event
}

func uid(id int64, domainName string) string {
	if domainName == "" {
		domainName = "smc-appointmentservice"
	}
	return fmt.Sprintf("appointment-%d@%s", id, domainName)
}

func summary(a *domain.Appointment) string {
	name := strings.TrimSpace(a.ServiceName)
	if name == "" {
		name = "Appointment"
	}
	return name
}

// status maps the appointment state onto VEVENT STATUS values
func status(s domain.AppointmentStatus) string {
	switch s {
	case domain.StatusCancelled:
		return "CANCELLED"
	case domain.StatusPending:
		return "TENTATIVE"
	default:
		return "CONFIRMED"
	}
}
