package event

import (
	"encoding/json"
	"time"
)

// WireEvent is the backend's event object. Every field is optional;
// older rows and alternate ingestion paths leave different subsets
// unset, so FromWire documents an explicit default for each.
type WireEvent struct {
	ID          json.Number `json:"id"`
	Title       string      `json:"title"`
	Description string      `json:"description"`
	Location    string      `json:"location"`

	// Date fields, in descending priority. Most rows carry startDate
	// only; the others survive from earlier backend revisions.
	Date      string `json:"date,omitempty"`
	StartDate string `json:"startDate,omitempty"`
	StartsAt  string `json:"startsAt,omitempty"`
	Datetime  string `json:"datetime,omitempty"`
	Start     string `json:"start,omitempty"`

	EndDate   string `json:"endDate,omitempty"`
	CreatedAt string `json:"createdAt,omitempty"`

	// Category is the singular eventType column; Categories is the
	// auxiliary array. Either or both may be present.
	Category   string   `json:"category,omitempty"`
	Categories []string `json:"categories,omitempty"`

	Likes        *int          `json:"likes,omitempty"`
	RSVPs        []json.Number `json:"rsvps,omitempty"` // account ids, count = length
	UserLiked    bool          `json:"userLiked,omitempty"`
	UserRSVPed   bool          `json:"userRsvped,omitempty"`
	Price        *float64      `json:"price,omitempty"`
	RSVPRequired bool          `json:"rsvpRequired,omitempty"`
	EventAccess  string        `json:"eventAccess,omitempty"`
	CreatorID    json.Number   `json:"creatorID,omitempty"`
	ImageURL     string        `json:"imageUrl,omitempty"`
}

// ResolveStart picks the representative date string for a wire event
// using the field priority date > startDate > startsAt > datetime >
// start, and parses it. Returns the zero time when no field is set or
// none parses.
func (w *WireEvent) ResolveStart() time.Time {
	for _, s := range []string{w.Date, w.StartDate, w.StartsAt, w.Datetime, w.Start} {
		if s == "" {
			continue
		}
		if t := ParseWireTime(s); !t.IsZero() {
			return t
		}
	}
	return time.Time{}
}

// FromWire maps a backend event object into the internal model.
//
// Defaults for missing fields: likes 0, rsvps 0, price 0 (free),
// categories fall back to the singular category, createdAt falls back
// to the start date, private only when eventAccess is exactly
// "Private". Flags absent from the payload are false.
func FromWire(w WireEvent) Event {
	categories := w.Categories
	if len(categories) == 0 && w.Category != "" {
		categories = []string{w.Category}
	} else if w.Category != "" && !containsCategory(categories, w.Category) {
		// The singular column is canonical; keep it first.
		categories = append([]string{w.Category}, categories...)
	}

	likes := 0
	if w.Likes != nil {
		likes = *w.Likes
	}

	price := 0.0
	if w.Price != nil {
		price = *w.Price
	}

	start := w.ResolveStart()
	created := ParseWireTime(w.CreatedAt)
	if created.IsZero() {
		created = start
	}
	end := ParseWireTime(w.EndDate)
	updated := end
	if updated.IsZero() {
		updated = start
	}

	return Event{
		ID:           w.ID.String(),
		Title:        w.Title,
		Description:  w.Description,
		Location:     w.Location,
		StartDate:    start,
		EndDate:      end,
		Categories:   append([]string(nil), categories...),
		Price:        price,
		RSVPRequired: w.RSVPRequired,
		Private:      w.EventAccess == "Private",
		CreatorID:    w.CreatorID.String(),
		Likes:        likes,
		UserLiked:    w.UserLiked,
		RSVPs:        len(w.RSVPs),
		UserRSVPed:   w.UserRSVPed,
		ImageURL:     w.ImageURL,
		CreatedAt:    created,
		UpdatedAt:    updated,
	}
}

func containsCategory(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
