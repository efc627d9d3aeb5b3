// Package calendar exports qualifying activities as an iCalendar (.ics) feed with one
// event per registration window.
package calendar
