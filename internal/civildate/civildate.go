// Package civildate implements calendar-day values in the site's fixed
// civil timezone (Europe/Paris). Occupancy and pricing never reason about
// timestamps directly: every instant is projected down to its civil day at
// the boundary, and all day arithmetic happens on these values.
package civildate

import (
	"fmt"
	"time"
)

// Layout is the wire format for civil dates (ISO, zero-padded).
const Layout = "2006-01-02"

// zoneName is the reference timezone for the whole system. Guests book in
// French local time regardless of where they browse from.
const zoneName = "Europe/Paris"

// Zone is the fixed civil timezone, loaded once at startup.
var Zone = mustLoadZone(zoneName)

func mustLoadZone(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(fmt.Sprintf("civildate: cannot load timezone %q: %v", name, err))
	}
	return loc
}

// Date identifies one calendar day as a YYYY-MM-DD string. Because the
// format is zero-padded ISO order, two Dates compare correctly with the
// ordinary string operators.
type Date string

// Parse validates s as a YYYY-MM-DD civil date.
func Parse(s string) (Date, error) {
	t, err := time.Parse(Layout, s)
	if err != nil {
		return "", fmt.Errorf("invalid civil date %q: %w", s, err)
	}
	// Round-trip guards against inputs like 2026-2-3 that time.Parse
	// would not accept anyway, and non-canonical padding.
	if t.Format(Layout) != s {
		return "", fmt.Errorf("invalid civil date %q: not in YYYY-MM-DD form", s)
	}
	return Date(s), nil
}

// FromTime projects an instant onto its calendar day in the civil timezone.
// An event at 23:30 Paris time lands on that Paris day even when its UTC
// date is already the next one.
func FromTime(t time.Time) Date {
	return Date(t.In(Zone).Format(Layout))
}

// String returns the YYYY-MM-DD form.
func (d Date) String() string { return string(d) }

// IsZero reports whether d is the empty value.
func (d Date) IsZero() bool { return d == "" }

// time returns the day at midnight UTC. UTC is deliberate: day arithmetic
// must not be perturbed by DST transitions in the civil zone.
func (d Date) time() time.Time {
	t, err := time.Parse(Layout, string(d))
	if err != nil {
		panic(fmt.Sprintf("civildate: malformed Date %q", string(d)))
	}
	return t
}

// AddDays returns the day n days after d (n may be negative).
func (d Date) AddDays(n int) Date {
	return Date(d.time().AddDate(0, 0, n).Format(Layout))
}

// Next returns the following day.
func (d Date) Next() Date { return d.AddDays(1) }

// DaysUntil returns the number of days from d to other; negative when
// other precedes d.
func (d Date) DaysUntil(other Date) int {
	return int(other.time().Sub(d.time()) / (24 * time.Hour))
}

// At returns the instant at the given civil wall-clock time on day d,
// in the fixed civil timezone.
func (d Date) At(hour, min int) time.Time {
	t := d.time()
	return time.Date(t.Year(), t.Month(), t.Day(), hour, min, 0, 0, Zone)
}

// Range is a half-open span of civil days [Start, End) describing a stay:
// the arrival day is occupied, the departure day is not (guests leave in
// the morning and the day is free for the next arrival).
type Range struct {
	Start Date
	End   Date
}

// NewRange builds a stay range, normalizing inverted bounds to an empty
// range anchored at Start.
func NewRange(start, end Date) Range {
	if end < start {
		end = start
	}
	return Range{Start: start, End: end}
}

// IsEmpty reports whether the range covers zero nights.
func (r Range) IsEmpty() bool { return r.Start >= r.End }

// Nights returns the number of occupied nights in the range.
func (r Range) Nights() int {
	if r.IsEmpty() {
		return 0
	}
	return r.Start.DaysUntil(r.End)
}

// Days enumerates every occupied day of the range in chronological order.
// The departure day is excluded.
func (r Range) Days() []Date {
	if r.IsEmpty() {
		return nil
	}
	days := make([]Date, 0, r.Nights())
	for d := r.Start; d < r.End; d = d.Next() {
		days = append(days, d)
	}
	return days
}

// Contains reports whether day is one of the occupied nights.
func (r Range) Contains(day Date) bool {
	return r.Start <= day && day < r.End
}
