package gcal

import (
	"context"
	"errors"
	"net/http"
	"reflect"
	"testing"
	"time"

	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/googleapi"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

// fakeLister returns a canned event list or error.
type fakeLister struct {
	events []*calendar.Event
	err    error
	calls  int
}

func (f *fakeLister) ListEvents(ctx context.Context, calendarID string, timeMin, timeMax time.Time) ([]*calendar.Event, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.events, nil
}

func allDay(summary, start, end string) *calendar.Event {
	return &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{Date: start},
		End:     &calendar.EventDateTime{Date: end},
	}
}

func timed(summary, start, end string) *calendar.Event {
	return &calendar.Event{
		Summary: summary,
		Start:   &calendar.EventDateTime{DateTime: start},
		End:     &calendar.EventDateTime{DateTime: end},
	}
}

func sortedDays(t *testing.T, set DaySet) []string {
	t.Helper()
	var out []string
	for _, d := range set.Sorted() {
		out = append(out, d.String())
	}
	return out
}

func TestOccupiedDays(t *testing.T) {
	tests := []struct {
		name   string
		events []*calendar.Event
		want   []string
	}{
		{
			name:   "all-day validated stay, exclusive end",
			events: []*calendar.Event{allDay("[Sejour validé] Dupont", "2026-02-11", "2026-02-13")},
			want:   []string{"2026-02-11", "2026-02-12"},
		},
		{
			name:   "provisional hold never occupies",
			events: []*calendar.Event{allDay("[PROVISOIRE] Le Petit Sport Chalet 1", "2026-02-11", "2026-02-20")},
			want:   nil,
		},
		{
			name:   "unrelated event ignored",
			events: []*calendar.Event{allDay("Ménage", "2026-02-11", "2026-02-12")},
			want:   nil,
		},
		{
			name:   "marker match tolerates leading whitespace",
			events: []*calendar.Event{allDay("  [Sejour validé] Martin", "2026-02-11", "2026-02-12")},
			want:   []string{"2026-02-11"},
		},
		{
			name: "timed event projects to Paris civil days",
			events: []*calendar.Event{
				timed("[Sejour validé] Durand", "2026-02-11T23:00:00+01:00", "2026-02-13T09:00:00+01:00"),
			},
			want: []string{"2026-02-11", "2026-02-12"},
		},
		{
			name: "late UTC instant stays on the Paris day",
			// 23:30 UTC on Feb 11 is already 00:30 Feb 12 in Paris.
			events: []*calendar.Event{
				timed("[Sejour validé] Durand", "2026-02-11T23:30:00Z", "2026-02-13T09:00:00Z"),
			},
			want: []string{"2026-02-12"},
		},
		{
			name: "mixed representation skipped",
			events: []*calendar.Event{
				{
					Summary: "[Sejour validé] Mixte",
					Start:   &calendar.EventDateTime{Date: "2026-02-11"},
					End:     &calendar.EventDateTime{DateTime: "2026-02-13T10:00:00+01:00"},
				},
			},
			want: nil,
		},
		{
			name: "missing end skipped",
			events: []*calendar.Event{
				{Summary: "[Sejour validé] Seul", Start: &calendar.EventDateTime{Date: "2026-02-11"}},
			},
			want: nil,
		},
		{
			name: "overlapping stays union without duplicates",
			events: []*calendar.Event{
				allDay("[Sejour validé] A", "2026-02-11", "2026-02-13"),
				allDay("[Sejour validé] B", "2026-02-12", "2026-02-14"),
			},
			want: []string{"2026-02-11", "2026-02-12", "2026-02-13"},
		},
		{
			name:   "empty stay occupies nothing",
			events: []*calendar.Event{allDay("[Sejour validé] Vide", "2026-02-11", "2026-02-11")},
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeLister{events: tt.events})
			set, err := r.OccupiedDays(context.Background(), "cal@example.com", time.Now(), time.Time{})
			if err != nil {
				t.Fatalf("OccupiedDays() error = %v", err)
			}
			if got := sortedDays(t, set); !reflect.DeepEqual(got, tt.want) {
				t.Errorf("OccupiedDays() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestOccupiedDaysIdempotent(t *testing.T) {
	lister := &fakeLister{events: []*calendar.Event{
		allDay("[Sejour validé] A", "2026-02-11", "2026-02-14"),
		timed("[Sejour validé] B", "2026-03-01T16:00:00+01:00", "2026-03-03T10:00:00+01:00"),
	}}
	r := NewResolver(lister)

	first, err := r.OccupiedDays(context.Background(), "cal", time.Now(), time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	second, err := r.OccupiedDays(context.Background(), "cal", time.Now(), time.Time{})
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Errorf("same window, same calendar: %v != %v", first, second)
	}
}

func TestOccupiedDaysErrorClassification(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want func(error) bool
	}{
		{
			name: "404 becomes NotFoundError",
			err:  &googleapi.Error{Code: http.StatusNotFound},
			want: func(err error) bool {
				var e *NotFoundError
				return errors.As(err, &e) && e.CalendarID == "cal@example.com"
			},
		},
		{
			name: "403 becomes PermissionError",
			err:  &googleapi.Error{Code: http.StatusForbidden},
			want: func(err error) bool {
				var e *PermissionError
				return errors.As(err, &e)
			},
		},
		{
			name: "other failures wrap as QueryError",
			err:  errors.New("connection reset"),
			want: func(err error) bool {
				var e *QueryError
				return errors.As(err, &e)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewResolver(&fakeLister{err: tt.err})
			_, err := r.OccupiedDays(context.Background(), "cal@example.com", time.Now(), time.Time{})
			if err == nil || !tt.want(err) {
				t.Errorf("OccupiedDays() error = %v, wrong kind", err)
			}
		})
	}
}

func TestDaySetSorted(t *testing.T) {
	set := DaySet{
		civildate.Date("2026-02-13"): {},
		civildate.Date("2026-02-11"): {},
		civildate.Date("2026-02-12"): {},
	}
	want := []civildate.Date{"2026-02-11", "2026-02-12", "2026-02-13"}
	if got := set.Sorted(); !reflect.DeepEqual(got, want) {
		t.Errorf("Sorted() = %v, want %v", got, want)
	}
}
