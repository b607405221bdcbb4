// Package calendar derives the viewer's calendar view from an event
// snapshot: the RSVP'd subset grouped by local calendar day, with
// display truncation, upcoming/past partitions and a month grid.
package calendar

import (
	"time"

	"github.com/cbruun/campus-events/internal/event"
)

// MaxVisiblePerDay caps how many events a day cell shows; the remainder
// is reported only as a count ("+N more").
const MaxVisiblePerDay = 3

// Day is one calendar day with the events on it, in snapshot order.
type Day struct {
	Key     string        // "2006-01-02", local-normalized
	Events  []event.Event // all events that day
	Visible []event.Event // first MaxVisiblePerDay
	More    int           // how many were truncated
}

// Projection is the calendar view of a snapshot.
type Projection struct {
	Days     map[string]Day
	Upcoming []event.Event // start day >= today, snapshot order
	Past     []event.Event // start day < today, snapshot order
}

// RSVPed returns the subset of the snapshot the viewer RSVP'd to, in
// snapshot order.
func RSVPed(events []event.Event) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.UserRSVPed {
			out = append(out, e)
		}
	}
	return out
}

// Project builds the calendar view of the RSVP'd subset of a snapshot.
// Events without a resolvable start date are dropped; they cannot be
// placed on a day. "Today" is derived from now in local time.
func Project(events []event.Event, now time.Time) Projection {
	p := Projection{Days: make(map[string]Day)}
	today := event.StartOfDay(now)

	for _, e := range RSVPed(events) {
		if e.StartDate.IsZero() {
			continue
		}
		key := event.DayKey(e.StartDate)
		day := p.Days[key]
		day.Key = key
		day.Events = append(day.Events, e)
		p.Days[key] = day

		if event.StartOfDay(e.StartDate).Before(today) {
			p.Past = append(p.Past, e)
		} else {
			p.Upcoming = append(p.Upcoming, e)
		}
	}

	for key, day := range p.Days {
		day.Visible = day.Events
		if len(day.Events) > MaxVisiblePerDay {
			day.Visible = day.Events[:MaxVisiblePerDay]
			day.More = len(day.Events) - MaxVisiblePerDay
		}
		p.Days[key] = day
	}

	return p
}

// On returns the day entry for a timestamp's calendar day, if any.
func (p Projection) On(t time.Time) (Day, bool) {
	day, ok := p.Days[event.DayKey(t)]
	return day, ok
}

// MonthGrid returns the day cells for a month view: the month's days
// preceded by trailing days of the previous month so the grid starts on
// Sunday, and followed by leading days of the next month so the length
// is a multiple of seven.
func MonthGrid(year int, month time.Month) []time.Time {
	first := time.Date(year, month, 1, 0, 0, 0, 0, time.Local)

	var cells []time.Time
	for i := int(first.Weekday()); i > 0; i-- {
		cells = append(cells, first.AddDate(0, 0, -i))
	}
	for d := first; d.Month() == month; d = d.AddDate(0, 0, 1) {
		cells = append(cells, d)
	}
	for len(cells)%7 != 0 {
		cells = append(cells, cells[len(cells)-1].AddDate(0, 0, 1))
	}
	return cells
}
