package activity

import (
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout the portal uses for every date/time cell
const TimestampLayout = "2006/01/02 15:04"

// Record represents one activity that offers meals and has a parsed registration window
type Record struct {
	ID            int               `json:"id"`
	Name          string            `json:"name"`
	Location      string            `json:"location,omitempty"`
	ActivityStart string            `json:"activity_start,omitempty"`
	ActivityEnd   string            `json:"activity_end,omitempty"`
	RegisterStart time.Time         `json:"register_start"`
	RegisterEnd   time.Time         `json:"register_end"`
	MealsProvided bool              `json:"meals_provided"`
	ShareURL      string            `json:"share_url,omitempty"`
	URL           string            `json:"url"`
	Extra         map[string]string `json:"extra,omitempty"` // unrecognized labels, display only
}

// Link returns the best link for the activity: the share link when the page has one,
// otherwise the URL the page was fetched from.
func (r *Record) Link() string {
	if r.ShareURL != "" {
		return r.ShareURL
	}
	return r.URL
}

// ParseTimestamp parses a portal timestamp in loc.
// Surrounding whitespace is ignored; a nil loc means UTC.
func ParseTimestamp(text string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.UTC
	}
	text = strings.TrimSpace(text)
	t, err := time.ParseInLocation(TimestampLayout, text, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing timestamp %q: %w", text, err)
	}
	return t, nil
}

// FormatTimestamp formats t with TimestampLayout. The zero time formats as "".
func FormatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}
