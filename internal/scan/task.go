package scan

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
	"github.com/pfrederiksen/activity-scan/internal/filter"
	"github.com/pfrederiksen/activity-scan/internal/metrics"
	"github.com/pfrederiksen/activity-scan/internal/scraper"
)

// Fetcher returns the raw detail page for an activity ID
type Fetcher interface {
	Fetch(ctx context.Context, id int) ([]byte, error)
}

// Extractor turns a raw page into a record or a skip reason
type Extractor interface {
	Extract(raw []byte) (*activity.Record, error)
}

// ErrNotStarted is the reason given when ctx was already done before the network call
var ErrNotStarted = errors.New("task not started")

// Task fetches, extracts and filters a single activity
type Task struct {
	Fetcher   Fetcher
	Extractor Extractor
	Window    filter.Window
	Timeout   time.Duration
	Now       func() time.Time
	URLFor    func(id int) string
	Metrics   *metrics.Scan
}

// Run attempts one activity ID and never returns an error: every failure becomes an Outcome.
//
// ctx is checked before the network call only. The request itself runs detached from ctx's
// cancellation and is bounded by Timeout, so an in-flight response is never cut off by Cancel.
func (t *Task) Run(ctx context.Context, id int) Outcome {
	if err := ctx.Err(); err != nil {
		return fetchFailed(id, fmt.Errorf("%w: %w", ErrNotStarted, err))
	}

	reqCtx := context.WithoutCancel(ctx)
	if t.Timeout > 0 {
		var cancel context.CancelFunc
		reqCtx, cancel = context.WithTimeout(reqCtx, t.Timeout)
		defer cancel()
	}

	t.Metrics.TaskStarted()
	defer t.Metrics.TaskDone()

	start := time.Now()
	raw, err := t.Fetcher.Fetch(reqCtx, id)
	t.Metrics.ObserveFetch(time.Since(start))
	if err != nil {
		return fetchFailed(id, err)
	}

	rec, err := t.Extractor.Extract(raw)
	if err != nil {
		if scraper.IsSkip(err) {
			return excluded(id, err)
		}
		if errors.Is(err, scraper.ErrMalformedPage) {
			return fetchFailed(id, err)
		}
		return fetchFailed(id, fmt.Errorf("extracting: %w", err))
	}

	rec.ID = id
	if t.URLFor != nil {
		rec.URL = t.URLFor(id)
	}

	if !t.Window.IsEligible(rec.RegisterStart, rec.RegisterEnd, t.now()) {
		return excluded(id, ErrOutsideWindow)
	}
	return included(id, rec)
}

func (t *Task) now() time.Time {
	if t.Now != nil {
		return t.Now()
	}
	return time.Now()
}
