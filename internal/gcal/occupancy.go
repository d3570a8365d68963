package gcal

import (
	"context"
	"sort"
	"strings"
	"time"

	"google.golang.org/api/calendar/v3"

	"github.com/petit-sport/booking-backend/internal/civildate"
)

// validatedMarker is the summary prefix that makes an event count as a
// confirmed stay. Provisional holds ([PROVISOIRE] ...) and anything else
// on the calendar never block availability.
const validatedMarker = "[Sejour validé"

// DaySet is a set of occupied civil days. Iteration order is undefined;
// use Sorted for a stable view.
type DaySet map[civildate.Date]struct{}

// Has reports whether day is in the set.
func (s DaySet) Has(day civildate.Date) bool {
	_, ok := s[day]
	return ok
}

// Sorted returns the days in chronological order.
func (s DaySet) Sorted() []civildate.Date {
	days := make([]civildate.Date, 0, len(s))
	for d := range s {
		days = append(days, d)
	}
	sort.Slice(days, func(i, j int) bool { return days[i] < days[j] })
	return days
}

// Resolver turns raw calendar events into the set of occupied civil days.
type Resolver struct {
	client EventLister
}

// NewResolver creates an occupancy resolver over the given event source.
func NewResolver(client EventLister) *Resolver {
	return &Resolver{client: client}
}

// OccupiedDays returns every civil day occupied by a validated stay in the
// window [timeMin, timeMax). A zero timeMax means "unbounded future".
//
// Stays are half-open [arrival, departure): the departure day is free for
// the next arrival. No retry is attempted; transient failures surface to
// the caller.
func (r *Resolver) OccupiedDays(ctx context.Context, calendarID string, timeMin, timeMax time.Time) (DaySet, error) {
	events, err := r.client.ListEvents(ctx, calendarID, timeMin, timeMax)
	if err != nil {
		return nil, classifyAPIError(calendarID, err)
	}

	occupied := make(DaySet)
	for _, ev := range events {
		stay, ok := stayInterval(ev)
		if !ok {
			continue
		}
		for _, day := range stay.Days() {
			occupied[day] = struct{}{}
		}
	}
	return occupied, nil
}

// stayInterval derives the canonical [arrival, departure) civil-day range
// from an event, or reports false for events that do not count: wrong
// summary marker, missing bounds, or mixed all-day/timed representations.
func stayInterval(ev *calendar.Event) (civildate.Range, bool) {
	if ev == nil || !strings.HasPrefix(strings.TrimSpace(ev.Summary), validatedMarker) {
		return civildate.Range{}, false
	}
	if ev.Start == nil || ev.End == nil {
		return civildate.Range{}, false
	}

	switch {
	case ev.Start.Date != "" && ev.End.Date != "":
		// All-day events already carry civil dates with an exclusive
		// end, straight from the API.
		start, err := civildate.Parse(truncateDate(ev.Start.Date))
		if err != nil {
			return civildate.Range{}, false
		}
		end, err := civildate.Parse(truncateDate(ev.End.Date))
		if err != nil {
			return civildate.Range{}, false
		}
		return civildate.NewRange(start, end), true

	case ev.Start.DateTime != "" && ev.End.DateTime != "":
		// Timed events project onto the Paris civil day, not the UTC
		// day, so a 23:30 arrival stays on the right date.
		start, err := time.Parse(time.RFC3339, ev.Start.DateTime)
		if err != nil {
			return civildate.Range{}, false
		}
		end, err := time.Parse(time.RFC3339, ev.End.DateTime)
		if err != nil {
			return civildate.Range{}, false
		}
		return civildate.NewRange(civildate.FromTime(start), civildate.FromTime(end)), true
	}

	// One side all-day, one side timed: not enough information to
	// classify safely.
	return civildate.Range{}, false
}

// truncateDate keeps the YYYY-MM-DD prefix of an API date value.
func truncateDate(s string) string {
	if len(s) > 10 {
		return s[:10]
	}
	return s
}
