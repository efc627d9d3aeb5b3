// Package activity provides the record type for a single registration-portal activity.
//
// A Record is built from one activity detail page once both registration timestamps and
// the meals flag were read. Timestamps on the portal use the fixed layout "2006/01/02 15:04"
// in the portal's local time zone. The package also tracks which activities were reported
// by earlier scans through snapshot-based diffing keyed by activity ID.
package activity
