// Package scan drives one pass over a range of activity IDs.
//
// A Coordinator owns a fixed pool of workers. IDs are admitted in ascending order, each
// worker runs a Task (fetch, extract, filter) per ID, and outcomes are collected in
// completion order. Per-ID failures never stop a scan. Cancel (or cancelling the context
// given to Run) stops admission immediately; tasks already in flight finish on their own,
// bounded by the per-request timeout, and Run returns whatever was collected.
package scan
