// Package event defines the campus event model, the backend wire
// representation, and the pure mapping between the two.
//
// Internally events use time.Time and a normalized category list. The
// backend speaks a looser dialect: numeric ids, a singular eventType plus
// an optional categories array, RSVP id lists instead of counts, and date
// strings in the "YYYY-MM-DD HH:MM:SS" shape. All of that translation
// lives here so the rest of the client never sees a wire object.
package event

import "time"

// Event represents a campus event as seen by the current viewer.
// Likes/RSVPs carry viewer-relative flags alongside the totals.
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	Location     string    `json:"location"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date,omitzero"`
	Categories   []string  `json:"categories"`
	Price        float64   `json:"price,omitempty"`
	RSVPRequired bool      `json:"rsvp_required"`
	Private      bool      `json:"private"`
	CreatorID    string    `json:"creator_id"`
	Likes        int       `json:"likes"`
	UserLiked    bool      `json:"user_liked"`
	RSVPs        int       `json:"rsvps"`
	UserRSVPed   bool      `json:"user_rsvped"`
	ImageURL     string    `json:"image_url,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitzero"`
	UpdatedAt    time.Time `json:"updated_at,omitzero"`
}

// PrimaryCategory returns the canonical category: the first entry of the
// category list, or empty if the event has none.
func (e *Event) PrimaryCategory() string {
	if len(e.Categories) == 0 {
		return ""
	}
	return e.Categories[0]
}

// Priced reports whether the event costs money (price strictly positive).
func (e *Event) Priced() bool {
	return e.Price > 0
}

// Draft holds the fields a user supplies when creating a new event.
// The server assigns the id; likes and RSVPs start at zero.
type Draft struct {
	Title        string
	Description  string
	Location     string
	StartDate    time.Time
	EndDate      time.Time // optional; defaults to StartDate on the wire
	Categories   []string
	Price        float64
	RSVPRequired bool
	Private      bool
	ImageBase64  string // optional raw base64 payload, no data: prefix
}

// Patch is a partial update merged into a stored event. Nil fields are
// left untouched, so a patch can flip a single flag without rewriting
// the record.
type Patch struct {
	Title        *string
	Description  *string
	Location     *string
	StartDate    *time.Time
	EndDate      *time.Time
	Categories   []string
	Price        *float64
	RSVPRequired *bool
	Private      *bool
	Likes        *int
	UserLiked    *bool
	RSVPs        *int
	UserRSVPed   *bool
	ImageURL     *string
}

// ApplyTo merges the patch into a copy of the event and returns the copy.
// The original is never modified.
func (p Patch) ApplyTo(e Event) Event {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Description != nil {
		e.Description = *p.Description
	}
	if p.Location != nil {
		e.Location = *p.Location
	}
	if p.StartDate != nil {
		e.StartDate = *p.StartDate
	}
	if p.EndDate != nil {
		e.EndDate = *p.EndDate
	}
	if p.Categories != nil {
		e.Categories = append([]string(nil), p.Categories...)
	}
	if p.Price != nil {
		e.Price = *p.Price
	}
	if p.RSVPRequired != nil {
		e.RSVPRequired = *p.RSVPRequired
	}
	if p.Private != nil {
		e.Private = *p.Private
	}
	if p.Likes != nil {
		e.Likes = *p.Likes
	}
	if p.UserLiked != nil {
		e.UserLiked = *p.UserLiked
	}
	if p.RSVPs != nil {
		e.RSVPs = *p.RSVPs
	}
	if p.UserRSVPed != nil {
		e.UserRSVPed = *p.UserRSVPed
	}
	if p.ImageURL != nil {
		e.ImageURL = *p.ImageURL
	}
	return e
}
