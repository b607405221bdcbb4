package event

import (
	"testing"
	"time"
)

func TestPrimaryCategory(t *testing.T) {
	e := Event{Categories: []string{"Math", "Social"}}
	if got := e.PrimaryCategory(); got != "Math" {
		t.Errorf("PrimaryCategory() = %q, want %q", got, "Math")
	}

	empty := Event{}
	if got := empty.PrimaryCategory(); got != "" {
		t.Errorf("PrimaryCategory() on empty = %q, want empty", got)
	}
}

func TestPriced(t *testing.T) {
	tests := []struct {
		name   string
		price  float64
		priced bool
	}{
		{name: "zero is free", price: 0, priced: false},
		{name: "positive is priced", price: 12.50, priced: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := Event{Price: tt.price}
			if e.Priced() != tt.priced {
				t.Errorf("Priced() = %t, want %t", e.Priced(), tt.priced)
			}
		})
	}
}

func TestPatchApplyTo(t *testing.T) {
	start := time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)
	orig := Event{
		ID:          "1",
		Title:       "Original",
		Description: "Desc",
		Location:    "Quad",
		StartDate:   start,
		Likes:       3,
		UserLiked:   false,
	}

	liked := true
	likes := 4
	patched := Patch{UserLiked: &liked, Likes: &likes}.ApplyTo(orig)

	// Patched fields change...
	if !patched.UserLiked || patched.Likes != 4 {
		t.Errorf("patch not applied: liked=%t likes=%d", patched.UserLiked, patched.Likes)
	}
	// ...unspecified fields are preserved...
	if patched.Title != "Original" || patched.Location != "Quad" || !patched.StartDate.Equal(start) {
		t.Error("patch modified unspecified fields")
	}
	// ...and the original is untouched.
	if orig.UserLiked || orig.Likes != 3 {
		t.Error("ApplyTo mutated its input")
	}
}

func TestPatchApplyTo_CategoriesCopied(t *testing.T) {
	orig := Event{ID: "1", Categories: []string{"Math"}}
	next := Patch{Categories: []string{"Sports", "Social"}}.ApplyTo(orig)

	next.Categories[0] = "changed"
	if orig.Categories[0] != "Math" {
		t.Error("patched categories alias the patch input")
	}
}
