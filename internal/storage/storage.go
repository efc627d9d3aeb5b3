package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
)

const snapshotFile = "snapshot.json"

// Storage handles persistence of activity snapshots
type Storage struct {
	dataDir string
}

// New creates a new Storage instance
func New(dataDir string) (*Storage, error) {
	// Expand ~ to home directory
	if strings.HasPrefix(dataDir, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("getting home directory: %w", err)
		}
		dataDir = filepath.Join(home, dataDir[2:])
	}

	if err := os.MkdirAll(dataDir, 0755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	return &Storage{
		dataDir: dataDir,
	}, nil
}

// Path returns the snapshot file location
func (s *Storage) Path() string {
	return filepath.Join(s.dataDir, snapshotFile)
}

// LoadSnapshot loads the snapshot from disk; a missing file yields an empty snapshot
func (s *Storage) LoadSnapshot() (*activity.Snapshot, error) {
	data, err := os.ReadFile(s.Path())
	if err != nil {
		if os.IsNotExist(err) {
			return activity.NewSnapshot(), nil
		}
		return nil, fmt.Errorf("reading snapshot: %w", err)
	}

	var snapshot activity.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("parsing snapshot: %w", err)
	}

	if snapshot.Activities == nil {
		snapshot.Activities = make(map[int]*activity.Record)
	}

	return &snapshot, nil
}

// SaveSnapshot writes the snapshot to disk atomically
func (s *Storage) SaveSnapshot(snapshot *activity.Snapshot) error {
	if snapshot.UpdatedAt == "" {
		snapshot.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	}

	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding snapshot: %w", err)
	}

	tmp := s.Path() + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("writing snapshot: %w", err)
	}
	if err := os.Rename(tmp, s.Path()); err != nil {
		return fmt.Errorf("replacing snapshot: %w", err)
	}

	return nil
}

// RecordReported merges records into the stored snapshot and saves it
func (s *Storage) RecordReported(records []*activity.Record, at time.Time) error {
	snapshot, err := s.LoadSnapshot()
	if err != nil {
		return err
	}
	snapshot.Merge(records, at)
	return s.SaveSnapshot(snapshot)
}
