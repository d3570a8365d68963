package gcal

import (
	"context"
	"fmt"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

const (
	// provisionalPrefix tags events awaiting manual validation. Renaming
	// an event to the validated marker is done by hand in the calendar.
	provisionalPrefix = "[PROVISOIRE] "

	// provisionalColorID is the grey Google Calendar color, so pending
	// requests stand apart from confirmed stays at a glance.
	provisionalColorID = "9"

	// Fixed civil check-in/check-out hours. The event carries the civil
	// timezone rather than a UTC conversion, so the wall-clock times
	// survive DST transitions.
	checkinHour  = 15
	checkoutHour = 10

	// defaultWriteTimeout bounds event creation. Past it the request is
	// abandoned even though the API call may still land.
	defaultWriteTimeout = 10 * time.Second
)

// ProvisionalBooking describes the pending-booking event to create.
type ProvisionalBooking struct {
	ApartmentID   string
	ApartmentName string
	Stay          civildate.Range
	Description   string
}

// Writer creates, updates, and deletes booking events on a calendar.
type Writer struct {
	svc     *calendar.Service
	timeout time.Duration
}

// NewWriter creates a Writer with the default operation timeout.
func NewWriter(svc *calendar.Service) *Writer {
	return &Writer{svc: svc, timeout: defaultWriteTimeout}
}

// NewWriterWithTimeout creates a Writer with an explicit creation timeout.
func NewWriterWithTimeout(svc *calendar.Service, timeout time.Duration) *Writer {
	if timeout <= 0 {
		timeout = defaultWriteTimeout
	}
	return &Writer{svc: svc, timeout: timeout}
}

// buildProvisionalEvent assembles the calendar event for a pending
// booking: grey, tagged [PROVISOIRE], arrival 15:00 / departure 10:00
// civil time, with private metadata for out-of-band reconciliation.
func buildProvisionalEvent(b ProvisionalBooking) *calendar.Event {
	return &calendar.Event{
		Summary:     provisionalPrefix + b.ApartmentName,
		Description: b.Description,
		Start: &calendar.EventDateTime{
			DateTime: b.Stay.Start.At(checkinHour, 0).Format(time.RFC3339),
			TimeZone: civildate.Zone.String(),
		},
		End: &calendar.EventDateTime{
			DateTime: b.Stay.End.At(checkoutHour, 0).Format(time.RFC3339),
			TimeZone: civildate.Zone.String(),
		},
		ColorId: provisionalColorID,
		ExtendedProperties: &calendar.EventExtendedProperties{
			Private: map[string]string{
				"status":      "pending",
				"apartmentId": b.ApartmentID,
			},
		},
	}
}

// CreateProvisional inserts the pending-booking event and returns its
// event ID. Not idempotent: two calls create two events; operators
// reconcile duplicates by hand.
func (w *Writer) CreateProvisional(ctx context.Context, calendarID string, b ProvisionalBooking) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	created, err := w.svc.Events.Insert(calendarID, buildProvisionalEvent(b)).Context(ctx).Do()
	if err != nil {
		return "", classifyAPIError(calendarID, err)
	}
	if created.Id == "" {
		return "", &QueryError{CalendarID: calendarID, Err: fmt.Errorf("insert returned no event ID")}
	}
	return created.Id, nil
}

// UpdateEvent patches the summary and/or description of an existing
// event. Empty fields are left untouched.
func (w *Writer) UpdateEvent(ctx context.Context, calendarID, eventID, summary, description string) error {
	patch := &calendar.Event{}
	if summary != "" {
		patch.Summary = summary
	}
	if description != "" {
		patch.Description = description
	}
	if _, err := w.svc.Events.Patch(calendarID, eventID, patch).Context(ctx).Do(); err != nil {
		return classifyAPIError(calendarID, err)
	}
	return nil
}

// DeleteEvent removes an event from the calendar.
func (w *Writer) DeleteEvent(ctx context.Context, calendarID, eventID string) error {
	if err := w.svc.Events.Delete(calendarID, eventID).Context(ctx).Do(); err != nil {
		return classifyAPIError(calendarID, err)
	}
	return nil
}
