package gcal

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"google.golang.org/api/googleapi"
)

// ErrWriteTimeout marks an event write abandoned after the operation
// timeout. The API call may still complete on Google's side, leaving an
// orphan event for operators to reconcile.
var ErrWriteTimeout = errors.New("calendar write timed out")

// NotFoundError means the calendar ID does not exist or the service
// account cannot see it.
type NotFoundError struct {
	CalendarID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("calendar %q not found: check the calendar ID and that the service account has access", e.CalendarID)
}

// PermissionError means the service account lacks the required rights on
// the calendar (read for queries, "make changes to events" for writes).
type PermissionError struct {
	CalendarID string
}

func (e *PermissionError) Error() string {
	return fmt.Sprintf("permission denied on calendar %q: check the service account's sharing rights", e.CalendarID)
}

// QueryError wraps any other failure from the Calendar API.
type QueryError struct {
	CalendarID string
	Err        error
}

func (e *QueryError) Error() string {
	return fmt.Sprintf("calendar %q query failed: %v", e.CalendarID, e.Err)
}

func (e *QueryError) Unwrap() error { return e.Err }

// classifyAPIError maps a Calendar API failure onto the local taxonomy.
func classifyAPIError(calendarID string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return fmt.Errorf("calendar %q: %w", calendarID, ErrWriteTimeout)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch apiErr.Code {
		case http.StatusNotFound:
			return &NotFoundError{CalendarID: calendarID}
		case http.StatusForbidden:
			return &PermissionError{CalendarID: calendarID}
		}
	}
	return &QueryError{CalendarID: calendarID, Err: err}
}
