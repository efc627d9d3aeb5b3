package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
	"github.com/pfrederiksen/activity-scan/internal/calendar"
	"github.com/pfrederiksen/activity-scan/internal/report"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// OutputResult contains data to be output
type OutputResult struct {
	ScannedAt  time.Time          `json:"scanned_at"`
	StartID    int                `json:"start_id"`
	EndID      int                `json:"end_id"`
	Total      int                `json:"total"`
	Attempted  int                `json:"attempted"`
	Included   int                `json:"included"`
	Excluded   int                `json:"excluded"`
	Failed     int                `json:"failed"`
	Cancelled  bool               `json:"cancelled"`
	OnlyNew    bool               `json:"only_new,omitempty"`
	Activities []*activity.Record `json:"activities"`
}

// WriteOutput writes the result in the specified format
func WriteOutput(w io.Writer, result *OutputResult, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, result)
	case FormatText:
		return writeText(w, result)
	case FormatICS:
		return calendar.WriteICS(w, result.Activities, calendar.CalendarName, result.ScannedAt)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// writeJSON outputs results as JSON
func writeJSON(w io.Writer, result *OutputResult) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(result)
}

// writeText outputs the report table followed by a one-line summary
func writeText(w io.Writer, result *OutputResult) error {
	if err := report.Write(w, result.Activities); err != nil {
		return err
	}

	fmt.Fprintf(w, "\nScanned %d of %d activities: %d included, %d excluded, %d failed\n",
		result.Attempted, result.Total, result.Included, result.Excluded, result.Failed)
	if result.OnlyNew {
		fmt.Fprintf(w, "Showing %d new since the last scan\n", len(result.Activities))
	}
	if result.Cancelled {
		fmt.Fprintln(w, "Scan interrupted; results are partial.")
	}
	return nil
}
