// Package scraper provides HTTP fetching and HTML parsing for activity detail pages.
//
// The Client fetches the portal's "apply" activity-query endpoint for one activity ID and
// returns the raw page. Extract turns a raw page into an activity.Record. Pages that do not
// describe an activity worth considering (the "no active data" marker, no grid_data table,
// missing or unparsable registration timestamps, no meals) are reported with sentinel skip
// errors rather than as failures.
package scraper
