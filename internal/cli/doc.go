// Package cli implements the command-line interface for activity-scan.
//
// The cli package provides the Cobra-based command that scans a range of activity IDs on
// the registration portal and reports activities offering meals whose registration is open
// or opens within a week. Settings come from flags, ACTIVITY_SCAN_* environment variables
// or a .env file (via viper and godotenv). It wires the scraper, scan, report, storage,
// logger and metrics packages together, maps SIGINT/SIGTERM to cancelling the scan, and
// exits 130 when a scan was cut short.
package cli
