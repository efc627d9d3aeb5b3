package calendar

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
)

// DefaultDuration is used for the event length when a record has no registration end
const DefaultDuration = time.Hour

// CalendarName is the X-WR-CALNAME written by the CLI
const CalendarName = "Activities with meals"

// WriteICS writes an iCalendar document with one VEVENT per record to w. Each event
// covers the record's registration window. stamp is written as DTSTAMP.
func WriteICS(w io.Writer, records []*activity.Record, name string, stamp time.Time) error {
	var ics strings.Builder

	ics.WriteString("BEGIN:VCALENDAR\r\n")
	ics.WriteString("VERSION:2.0\r\n")
	ics.WriteString("PRODID:-//activity-scan//activity-scan//EN\r\n")
	ics.WriteString("CALSCALE:GREGORIAN\r\n")
	ics.WriteString("METHOD:PUBLISH\r\n")
	if name != "" {
		fmt.Fprintf(&ics, "X-WR-CALNAME:%s\r\n", escapeICS(name))
	}

	for _, rec := range records {
		writeEvent(&ics, rec, stamp)
	}

	ics.WriteString("END:VCALENDAR\r\n")

	_, err := io.WriteString(w, ics.String())
	return err
}

func writeEvent(ics *strings.Builder, rec *activity.Record, stamp time.Time) {
	ics.WriteString("BEGIN:VEVENT\r\n")

	fmt.Fprintf(ics, "UID:activity-%d@activity-scan\r\n", rec.ID)
	fmt.Fprintf(ics, "DTSTAMP:%s\r\n", formatICSTime(stamp))

	start := rec.RegisterStart
	end := rec.RegisterEnd
	if end.IsZero() || end.Before(start) {
		end = start.Add(DefaultDuration)
	}
	fmt.Fprintf(ics, "DTSTART:%s\r\n", formatICSTime(start))
	fmt.Fprintf(ics, "DTEND:%s\r\n", formatICSTime(end))

	name := rec.Name
	if name == "" {
		name = fmt.Sprintf("Activity %d", rec.ID)
	}
	fmt.Fprintf(ics, "SUMMARY:%s\r\n", escapeICS("Registration: "+name))

	var desc []string
	if rec.ActivityStart != "" {
		when := rec.ActivityStart
		if rec.ActivityEnd != "" {
			when += " - " + rec.ActivityEnd
		}
		desc = append(desc, "Activity: "+when)
	}
	if rec.MealsProvided {
		desc = append(desc, "Meals provided")
	}
	if link := rec.Link(); link != "" {
		desc = append(desc, "Register at: "+link)
	}
	if len(desc) > 0 {
		fmt.Fprintf(ics, "DESCRIPTION:%s\r\n", escapeICS(strings.Join(desc, "\n")))
	}

	if rec.Location != "" {
		fmt.Fprintf(ics, "LOCATION:%s\r\n", escapeICS(rec.Location))
	}
	if link := rec.Link(); link != "" {
		fmt.Fprintf(ics, "URL:%s\r\n", link)
	}

	ics.WriteString("STATUS:CONFIRMED\r\n")
	ics.WriteString("SEQUENCE:0\r\n")
	ics.WriteString("TRANSP:TRANSPARENT\r\n")
	ics.WriteString("END:VEVENT\r\n")
}

// formatICSTime formats a time.Time as an iCalendar datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	// Replace special characters according to RFC 5545
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
