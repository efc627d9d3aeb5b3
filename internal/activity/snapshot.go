package activity

import "time"

// Snapshot records the activities reported by earlier scans
type Snapshot struct {
	Activities map[int]*Record `json:"activities"` // keyed by Record.ID
	UpdatedAt  string          `json:"updated_at"` // RFC3339 timestamp
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{
		Activities: make(map[int]*Record),
	}
}

// Has reports whether the activity was already reported
func (s *Snapshot) Has(id int) bool {
	if s == nil {
		return false
	}
	_, ok := s.Activities[id]
	return ok
}

// Merge adds records to the snapshot, replacing entries with the same ID
func (s *Snapshot) Merge(records []*Record, at time.Time) {
	if s.Activities == nil {
		s.Activities = make(map[int]*Record)
	}
	for _, rec := range records {
		s.Activities[rec.ID] = rec
	}
	s.UpdatedAt = at.UTC().Format(time.RFC3339)
}

// Diff returns the records in current that are not in previous, preserving the order of current
func Diff(previous *Snapshot, current []*Record) []*Record {
	fresh := make([]*Record, 0, len(current))
	for _, rec := range current {
		if !previous.Has(rec.ID) {
			fresh = append(fresh, rec)
		}
	}
	return fresh
}
