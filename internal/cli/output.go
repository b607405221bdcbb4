package cli

import (
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"github.com/cbruun/campus-events/internal/calendar"
	"github.com/cbruun/campus-events/internal/event"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
)

// WriteEvents writes an event list in the specified format.
func WriteEvents(w io.Writer, events []event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, events)
	case FormatText:
		return writeEventsText(w, events)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteEventDetail writes a single event in the specified format.
func WriteEventDetail(w io.Writer, evt event.Event, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, evt)
	case FormatText:
		return writeEventDetailText(w, evt)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeJSON(w io.Writer, v interface{}) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

func writeEventsText(w io.Writer, events []event.Event) error {
	if len(events) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	fmt.Fprintf(w, "Found %d event(s):\n\n", len(events))
	for _, evt := range events {
		line := fmt.Sprintf("[%s] %s", evt.ID, evt.Title)
		if !evt.StartDate.IsZero() {
			line += " — " + evt.StartDate.Format("Mon Jan 2 2006 15:04")
		}
		if evt.Location != "" {
			line += " @ " + evt.Location
		}
		fmt.Fprintln(w, line)

		var tags []string
		if c := evt.PrimaryCategory(); c != "" {
			tags = append(tags, c)
		}
		if evt.Priced() {
			tags = append(tags, fmt.Sprintf("$%.2f", evt.Price))
		} else {
			tags = append(tags, "free")
		}
		if evt.RSVPRequired {
			tags = append(tags, "RSVP required")
		}
		if evt.Private {
			tags = append(tags, "private")
		}
		tags = append(tags, fmt.Sprintf("%d likes", evt.Likes), fmt.Sprintf("%d going", evt.RSVPs))
		if evt.UserLiked {
			tags = append(tags, "liked")
		}
		if evt.UserRSVPed {
			tags = append(tags, "going")
		}
		fmt.Fprintf(w, "    %s\n", strings.Join(tags, " | "))
	}
	return nil
}

func writeEventDetailText(w io.Writer, evt event.Event) error {
	fmt.Fprintf(w, "%s\n", evt.Title)
	fmt.Fprintf(w, "ID:         %s\n", evt.ID)
	if !evt.StartDate.IsZero() {
		fmt.Fprintf(w, "Starts:     %s\n", evt.StartDate.Format("Mon Jan 2 2006 15:04"))
	}
	if !evt.EndDate.IsZero() {
		fmt.Fprintf(w, "Ends:       %s\n", evt.EndDate.Format("Mon Jan 2 2006 15:04"))
	}
	if evt.Location != "" {
		fmt.Fprintf(w, "Location:   %s\n", evt.Location)
	}
	if len(evt.Categories) > 0 {
		fmt.Fprintf(w, "Categories: %s\n", strings.Join(evt.Categories, ", "))
	}
	if evt.Priced() {
		fmt.Fprintf(w, "Price:      $%.2f\n", evt.Price)
	} else {
		fmt.Fprintf(w, "Price:      free\n")
	}
	fmt.Fprintf(w, "Likes:      %d (you: %t)\n", evt.Likes, evt.UserLiked)
	fmt.Fprintf(w, "RSVPs:      %d (you: %t)\n", evt.RSVPs, evt.UserRSVPed)
	if desc := StripHTML(evt.Description); desc != "" {
		fmt.Fprintf(w, "\n%s\n", desc)
	}
	return nil
}

// WriteCalendar renders the month grid with the projected events.
func WriteCalendar(w io.Writer, proj calendar.Projection, year int, month time.Month, format OutputFormat) error {
	if format == FormatJSON {
		keys := make([]string, 0, len(proj.Days))
		for k := range proj.Days {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		days := make([]calendar.Day, 0, len(keys))
		for _, k := range keys {
			days = append(days, proj.Days[k])
		}
		return writeJSON(w, map[string]interface{}{
			"days":     days,
			"upcoming": proj.Upcoming,
			"past":     proj.Past,
		})
	}

	fmt.Fprintf(w, "%s %d\n\n", month, year)
	for _, cell := range calendar.MonthGrid(year, month) {
		day, ok := proj.On(cell)
		if !ok || cell.Month() != month {
			continue
		}
		fmt.Fprintf(w, "%s:\n", day.Key)
		for _, evt := range day.Visible {
			fmt.Fprintf(w, "  - %s", evt.Title)
			if evt.Location != "" {
				fmt.Fprintf(w, " @ %s", evt.Location)
			}
			fmt.Fprintln(w)
		}
		if day.More > 0 {
			fmt.Fprintf(w, "  +%d more\n", day.More)
		}
	}

	fmt.Fprintf(w, "\nUpcoming: %d event(s), past: %d event(s)\n", len(proj.Upcoming), len(proj.Past))
	return nil
}

// StripHTML flattens rich-text markup into plain text for terminal
// display. Unparseable input is returned trimmed but otherwise as-is.
func StripHTML(s string) string {
	if !strings.Contains(s, "<") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.Join(strings.Fields(doc.Text()), " ")
}

// encodeImageFile reads an image from disk and returns its raw base64
// payload, the shape the backend stores.
func encodeImageFile(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("reading image: %w", err)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
