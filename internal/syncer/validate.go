package syncer

import (
	"fmt"
	"strings"
	"time"

	"github.com/cbruun/campus-events/internal/event"
)

// ValidationError reports a draft rejected before any network call. The
// message is suitable for inline display at the point of entry.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ValidateDraft checks a draft client-side. Required: non-empty title,
// description and location; a start date not in the past; at least one
// category. Price, when set, must be non-negative.
func ValidateDraft(d event.Draft, now time.Time) error {
	if strings.TrimSpace(d.Title) == "" {
		return &ValidationError{Field: "title", Message: "Title is required."}
	}
	if strings.TrimSpace(d.Description) == "" {
		return &ValidationError{Field: "description", Message: "Description is required."}
	}
	if strings.TrimSpace(d.Location) == "" {
		return &ValidationError{Field: "location", Message: "Location is required."}
	}
	if d.StartDate.IsZero() {
		return &ValidationError{Field: "startDate", Message: "Start date is required."}
	}
	if d.StartDate.Before(now) {
		return &ValidationError{Field: "startDate", Message: "Start date cannot be in the past."}
	}
	if len(d.Categories) == 0 {
		return &ValidationError{Field: "categories", Message: "Select at least one category."}
	}
	for _, c := range d.Categories {
		if strings.TrimSpace(c) == "" {
			return &ValidationError{Field: "categories", Message: "Categories cannot be empty."}
		}
	}
	if d.Price < 0 {
		return &ValidationError{Field: "price", Message: fmt.Sprintf("Price cannot be negative (got %g).", d.Price)}
	}
	return nil
}
