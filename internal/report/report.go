// Package report renders qualifying activities as a pipe-delimited table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/pfrederiksen/activity-scan/internal/activity"
)

// NoResultsMessage is written instead of a table when nothing qualified
const NoResultsMessage = "No qualifying activities found."

// Columns is the fixed column order of the table
var Columns = []string{
	"Activity",
	"Location",
	"Activity Start",
	"Activity End",
	"Registration Start",
	"Registration End",
	"Meals Provided",
}

// Render returns the table for records, or NoResultsMessage when there are none
func Render(records []*activity.Record) string {
	if len(records) == 0 {
		return NoResultsMessage + "\n"
	}

	sep := make([]string, len(Columns))
	for i := range sep {
		sep[i] = "---"
	}

	lines := make([]string, 0, len(records)+2)
	lines = append(lines, row(Columns), row(sep))
	for _, rec := range records {
		lines = append(lines, row(cells(rec)))
	}
	return strings.Join(lines, "\n") + "\n"
}

// Write writes the table for records to w
func Write(w io.Writer, records []*activity.Record) error {
	_, err := io.WriteString(w, Render(records))
	return err
}

func cells(rec *activity.Record) []string {
	meals := "No"
	if rec.MealsProvided {
		meals = "Yes"
	}
	return []string{
		activityCell(rec),
		rec.Location,
		rec.ActivityStart,
		rec.ActivityEnd,
		activity.FormatTimestamp(rec.RegisterStart),
		activity.FormatTimestamp(rec.RegisterEnd),
		meals,
	}
}

// activityCell links the name to the activity page as a markdown link
func activityCell(rec *activity.Record) string {
	name := rec.Name
	if name == "" {
		name = fmt.Sprintf("Activity %d", rec.ID)
	}
	if link := rec.Link(); link != "" {
		return fmt.Sprintf("[%s](%s)", name, link)
	}
	return name
}

func row(values []string) string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = escape(v)
	}
	return "| " + strings.Join(escaped, " | ") + " |"
}

// escape keeps a value on one line and inside its cell; empty values become a single blank
func escape(v string) string {
	v = strings.Join(strings.Fields(v), " ")
	if v == "" {
		return " "
	}
	return strings.ReplaceAll(v, "|", `\|`)
}
