// Package query provides pure filtering and sorting over an event
// snapshot.
//
// Filter predicates are conjunctive: an event passes only if it matches
// every active criterion. The free-text query is the one OR: it matches
// when any of title, description or location contains the text. Inputs
// are never mutated; Apply returns a fresh slice.
package query

import (
	"sort"
	"strings"
	"time"

	"github.com/cbruun/campus-events/internal/event"
)

// Sort selects one of the three total orders.
type Sort string

const (
	// SortSoon orders ascending by start date.
	SortSoon Sort = "soon"
	// SortNew orders descending by creation time, falling back to the
	// start date for rows without one.
	SortNew Sort = "new"
	// SortPopular orders descending by like count.
	SortPopular Sort = "popular"
)

// Filter represents event filtering criteria. Nil/zero fields are
// inactive. Priced and RSVPRequired are tri-state: nil ignores the
// dimension, true requires it, false requires its absence.
type Filter struct {
	// Category is an exact match against the event's primary category.
	Category string

	// Query is a case-insensitive substring matched across title,
	// description and location.
	Query string

	// Date range over the event start date, both bounds inclusive.
	StartDate *time.Time
	EndDate   *time.Time

	// Priced: true keeps only events with price > 0, false only free
	// ones.
	Priced *bool

	// RSVPRequired: true keeps only events that require an RSVP, false
	// only those that don't.
	RSVPRequired *bool

	Sort Sort
}

// IsEmpty checks if the filter has any active criteria. An empty filter
// matches all events.
func (f *Filter) IsEmpty() bool {
	return f.Category == "" &&
		strings.TrimSpace(f.Query) == "" &&
		f.StartDate == nil &&
		f.EndDate == nil &&
		f.Priced == nil &&
		f.RSVPRequired == nil
}

// Matches checks if an event passes all active criteria.
func (f *Filter) Matches(e event.Event) bool {
	if f.Category != "" && e.PrimaryCategory() != f.Category {
		return false
	}

	if q := strings.ToLower(strings.TrimSpace(f.Query)); q != "" {
		if !strings.Contains(strings.ToLower(e.Title), q) &&
			!strings.Contains(strings.ToLower(e.Description), q) &&
			!strings.Contains(strings.ToLower(e.Location), q) {
			return false
		}
	}

	if f.StartDate != nil {
		// An unparseable start date cannot satisfy a bound.
		if e.StartDate.IsZero() || e.StartDate.Before(*f.StartDate) {
			return false
		}
	}
	if f.EndDate != nil {
		if e.StartDate.IsZero() || e.StartDate.After(*f.EndDate) {
			return false
		}
	}

	if f.Priced != nil && e.Priced() != *f.Priced {
		return false
	}
	if f.RSVPRequired != nil && e.RSVPRequired != *f.RSVPRequired {
		return false
	}

	return true
}

// Apply filters and sorts a snapshot. The result is always a new slice;
// the input keeps its order and contents. Sorting is stable: events with
// equal sort keys preserve their snapshot order.
func Apply(events []event.Event, f Filter) []event.Event {
	out := make([]event.Event, 0, len(events))
	if f.IsEmpty() {
		out = append(out, events...)
	} else {
		for _, e := range events {
			if f.Matches(e) {
				out = append(out, e)
			}
		}
	}

	sortEvents(out, f.Sort)
	return out
}

// sortEvents applies one of the three stable total orders in place.
func sortEvents(events []event.Event, order Sort) {
	switch order {
	case SortNew:
		sort.SliceStable(events, func(i, j int) bool {
			return sortTime(events[i]).After(sortTime(events[j]))
		})
	case SortPopular:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].Likes > events[j].Likes
		})
	case SortSoon:
		fallthrough
	default:
		sort.SliceStable(events, func(i, j int) bool {
			return events[i].StartDate.Before(events[j].StartDate)
		})
	}
}

// sortTime is the "new" sort key: creation time when known, start date
// otherwise.
func sortTime(e event.Event) time.Time {
	if !e.CreatedAt.IsZero() {
		return e.CreatedAt
	}
	return e.StartDate
}

// Categories returns the distinct primary categories present in the
// snapshot, in first-seen order. Useful for building filter choices.
func Categories(events []event.Event) []string {
	seen := make(map[string]bool)
	var out []string
	for _, e := range events {
		c := e.PrimaryCategory()
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}
