package query

import "github.com/cbruun/campus-events/internal/event"

// CreatedBy returns the events the viewer created, in snapshot order.
func CreatedBy(events []event.Event, viewerID string) []event.Event {
	if viewerID == "" {
		return nil
	}
	var out []event.Event
	for _, e := range events {
		if e.CreatorID == viewerID {
			out = append(out, e)
		}
	}
	return out
}

// Attending returns the events the viewer RSVP'd to but did not create,
// in snapshot order. Creator identity is a reference, not ownership, so
// a creator who also RSVP'd still shows the event under CreatedBy only.
func Attending(events []event.Event, viewerID string) []event.Event {
	var out []event.Event
	for _, e := range events {
		if e.UserRSVPed && e.CreatorID != viewerID {
			out = append(out, e)
		}
	}
	return out
}
