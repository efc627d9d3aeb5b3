// Package storage provides JSON-based persistence for activity snapshots.
//
// The storage package keeps one snapshot file (snapshot.json) listing the activities
// earlier scans reported, so a later scan can report only new ones.
// The default storage location is ~/.local/share/activity-scan/.
package storage
