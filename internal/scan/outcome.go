package scan

import (
	"errors"

	"github.com/pfrederiksen/activity-scan/internal/activity"
)

// ErrOutsideWindow marks a record that parsed fine but is not open or opening soon
var ErrOutsideWindow = errors.New("registration outside eligibility window")

// Kind tags an Outcome
type Kind int

const (
	Included Kind = iota + 1
	Excluded
	FetchFailed
)

func (k Kind) String() string {
	switch k {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	case FetchFailed:
		return "fetch_failed"
	default:
		return "unknown"
	}
}

// Outcome is the result of attempting one activity ID
type Outcome struct {
	ID     int
	Kind   Kind
	Record *activity.Record // set only for Included
	Reason error            // skip reason for Excluded, cause for FetchFailed
}

func included(id int, rec *activity.Record) Outcome {
	return Outcome{ID: id, Kind: Included, Record: rec}
}

func excluded(id int, reason error) Outcome {
	return Outcome{ID: id, Kind: Excluded, Reason: reason}
}

func fetchFailed(id int, cause error) Outcome {
	return Outcome{ID: id, Kind: FetchFailed, Reason: cause}
}
