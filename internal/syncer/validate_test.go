package syncer

import (
	"errors"
	"testing"
	"time"

	"github.com/cbruun/campus-events/internal/event"
)

func validDraft(now time.Time) event.Draft {
	return event.Draft{
		Title:       "T",
		Description: "D",
		Location:    "L",
		StartDate:   now.AddDate(0, 0, 1),
		Categories:  []string{"Math"},
	}
}

func TestValidateDraft(t *testing.T) {
	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.Local)

	tests := []struct {
		name      string
		mutate    func(*event.Draft)
		wantField string
	}{
		{
			name:   "valid draft passes",
			mutate: func(d *event.Draft) {},
		},
		{
			name:      "missing title",
			mutate:    func(d *event.Draft) { d.Title = "  " },
			wantField: "title",
		},
		{
			name:      "missing description",
			mutate:    func(d *event.Draft) { d.Description = "" },
			wantField: "description",
		},
		{
			name:      "missing location",
			mutate:    func(d *event.Draft) { d.Location = "" },
			wantField: "location",
		},
		{
			name:      "missing start date",
			mutate:    func(d *event.Draft) { d.StartDate = time.Time{} },
			wantField: "startDate",
		},
		{
			name:      "start date in the past",
			mutate:    func(d *event.Draft) { d.StartDate = now.AddDate(0, 0, -1) },
			wantField: "startDate",
		},
		{
			name:      "no categories",
			mutate:    func(d *event.Draft) { d.Categories = nil },
			wantField: "categories",
		},
		{
			name:      "blank category",
			mutate:    func(d *event.Draft) { d.Categories = []string{" "} },
			wantField: "categories",
		},
		{
			name:      "negative price",
			mutate:    func(d *event.Draft) { d.Price = -5 },
			wantField: "price",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			draft := validDraft(now)
			tt.mutate(&draft)

			err := ValidateDraft(draft, now)
			if tt.wantField == "" {
				if err != nil {
					t.Errorf("expected valid draft, got %v", err)
				}
				return
			}

			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %v", err)
			}
			if verr.Field != tt.wantField {
				t.Errorf("expected field %q, got %q (%s)", tt.wantField, verr.Field, verr.Message)
			}
		})
	}
}
