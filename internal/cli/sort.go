package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/activity-scan/internal/activity"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByCompletion SortOrder = "completion"
	SortByID         SortOrder = "id"
	SortByRegister   SortOrder = "register"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByCompletion, SortByID, SortByRegister:
		return order, nil
	case "":
		return SortByCompletion, nil
	default:
		return "", fmt.Errorf("invalid sort: %s (must be 'completion', 'id' or 'register')", s)
	}
}

// sortRecords sorts records in place. Completion order leaves them untouched.
func sortRecords(records []*activity.Record, order SortOrder) {
	switch order {
	case SortByID:
		sort.SliceStable(records, func(i, j int) bool {
			return records[i].ID < records[j].ID
		})
	case SortByRegister:
		sort.SliceStable(records, func(i, j int) bool {
			if !records[i].RegisterStart.Equal(records[j].RegisterStart) {
				return records[i].RegisterStart.Before(records[j].RegisterStart)
			}
			// If registration opens at the same time, sort by ID
			return records[i].ID < records[j].ID
		})
	}
}
