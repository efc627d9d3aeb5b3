package scan

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
	"github.com/pfrederiksen/activity-scan/internal/logger"
	"github.com/pfrederiksen/activity-scan/internal/metrics"
	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"
)

// ErrAlreadyRun is returned when Run is called a second time
var ErrAlreadyRun = errors.New("scan already run")

// State is the coordinator's lifecycle position
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateCancelRequested
	StateDraining
	StateFinished
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateCancelRequested:
		return "cancel_requested"
	case StateDraining:
		return "draining"
	case StateFinished:
		return "finished"
	default:
		return "unknown"
	}
}

// Result is what a scan collected. Records are in completion order.
type Result struct {
	StartID    int                `json:"start_id"`
	EndID      int                `json:"end_id"`
	Records    []*activity.Record `json:"activities"`
	Attempted  int                `json:"attempted"`
	Included   int                `json:"included"`
	Excluded   int                `json:"excluded"`
	Failed     int                `json:"failed"`
	Cancelled  bool               `json:"cancelled"`
	StartedAt  time.Time          `json:"started_at"`
	FinishedAt time.Time          `json:"finished_at"`
}

// Total returns the number of IDs in the scanned range
func (r *Result) Total() int {
	return Config{StartID: r.StartID, EndID: r.EndID}.Size()
}

func (r *Result) add(out Outcome) {
	r.Attempted++
	switch out.Kind {
	case Included:
		r.Included++
		r.Records = append(r.Records, out.Record)
	case Excluded:
		r.Excluded++
	case FetchFailed:
		r.Failed++
	}
}

// Option configures a Coordinator
type Option func(*Coordinator)

// WithLogger sets the logger; the default discards everything
func WithLogger(log logrus.FieldLogger) Option {
	return func(c *Coordinator) {
		c.log = log
	}
}

// WithMetrics reports task outcomes and fetch latency into m
func WithMetrics(m *metrics.Scan) Option {
	return func(c *Coordinator) {
		c.metrics = m
	}
}

// WithObserver registers fn to be called for every outcome.
// fn runs on the collecting goroutine, one call at a time.
func WithObserver(fn func(Outcome)) Option {
	return func(c *Coordinator) {
		c.observer = fn
	}
}

// WithClock overrides the time source used for eligibility decisions
func WithClock(now func() time.Time) Option {
	return func(c *Coordinator) {
		c.now = now
	}
}

// Coordinator runs one scan over a bounded worker pool
type Coordinator struct {
	cfg      Config
	task     *Task
	log      logrus.FieldLogger
	metrics  *metrics.Scan
	observer func(Outcome)
	now      func() time.Time
	limiter  *rate.Limiter

	state      atomic.Int32
	ran        atomic.Bool
	cancelOnce sync.Once
	cancelCh   chan struct{}
}

// New validates cfg and creates a Coordinator. If fetcher also has an
// ActivityURL(int) string method, records carry that URL.
func New(cfg Config, fetcher Fetcher, extractor Extractor, opts ...Option) (*Coordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if fetcher == nil || extractor == nil {
		return nil, errors.New("fetcher and extractor are required")
	}

	c := &Coordinator{
		cfg:      cfg,
		log:      logger.Discard(),
		now:      time.Now,
		cancelCh: make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	if cfg.Rate > 0 {
		c.limiter = rate.NewLimiter(rate.Limit(cfg.Rate), 1)
	}

	c.task = &Task{
		Fetcher:   fetcher,
		Extractor: extractor,
		Window:    cfg.Window,
		Timeout:   cfg.Timeout,
		Now:       c.now,
		Metrics:   c.metrics,
	}
	if u, ok := fetcher.(interface{ ActivityURL(int) string }); ok {
		c.task.URLFor = u.ActivityURL
	}
	return c, nil
}

// State returns the current lifecycle state
func (c *Coordinator) State() State {
	return State(c.state.Load())
}

// Cancel stops admission of new tasks. It is idempotent and safe to call from any goroutine,
// before, during or after Run.
func (c *Coordinator) Cancel() {
	c.cancelOnce.Do(func() {
		close(c.cancelCh)
		if c.state.CompareAndSwap(int32(StateRunning), int32(StateCancelRequested)) {
			c.log.Info("cancel requested, no new tasks will be admitted")
		}
	})
}

func (c *Coordinator) cancelled() bool {
	select {
	case <-c.cancelCh:
		return true
	default:
		return false
	}
}

// Run scans the configured range and returns the collected result. Cancelling ctx has the
// same effect as calling Cancel. Cancellation is not an error: the partial result is
// returned with Cancelled set.
func (c *Coordinator) Run(ctx context.Context) (*Result, error) {
	if !c.ran.CompareAndSwap(false, true) {
		return nil, ErrAlreadyRun
	}
	c.state.CompareAndSwap(int32(StateIdle), int32(StateRunning))
	if ctx.Err() != nil {
		c.Cancel()
	}
	if c.cancelled() {
		c.state.CompareAndSwap(int32(StateRunning), int32(StateCancelRequested))
	}

	res := &Result{
		StartID:   c.cfg.StartID,
		EndID:     c.cfg.EndID,
		Records:   make([]*activity.Record, 0),
		StartedAt: c.now(),
	}

	// admitCtx keeps ctx's values but is cancelled only through Cancel
	admitCtx, stopAdmit := context.WithCancel(context.WithoutCancel(ctx))
	defer stopAdmit()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			c.Cancel()
		case <-c.cancelCh:
		case <-done:
			return
		}
		stopAdmit()
	}()

	c.log.WithFields(logrus.Fields{
		"start_id": c.cfg.StartID,
		"end_id":   c.cfg.EndID,
		"workers":  c.cfg.Workers,
	}).Info("scan started")

	jobs := c.dispatch(admitCtx)
	results := make(chan Outcome, c.cfg.Workers)

	var wg sync.WaitGroup
	for i := 0; i < c.cfg.Workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for id := range jobs {
				if c.cancelled() {
					continue
				}
				out := c.task.Run(admitCtx, id)
				if errors.Is(out.Reason, ErrNotStarted) {
					continue
				}
				results <- out
			}
		}()
	}
	go func() {
		wg.Wait()
		close(results)
	}()

	for out := range results {
		res.add(out)
		c.metrics.RecordOutcome(out.Kind.String())
		c.logOutcome(out)
		if c.observer != nil {
			c.observer(out)
		}
		if c.cfg.ProgressEvery > 0 && res.Attempted%c.cfg.ProgressEvery == 0 {
			c.logProgress(res)
		}
	}

	// A cancel that lands after the last ID was admitted still marks the scan cancelled
	res.Cancelled = res.Attempted < c.cfg.Size() || c.cancelled()
	res.FinishedAt = c.now()
	c.state.Store(int32(StateFinished))

	c.log.WithFields(logrus.Fields{
		"attempted": res.Attempted,
		"included":  res.Included,
		"excluded":  res.Excluded,
		"failed":    res.Failed,
		"cancelled": res.Cancelled,
	}).Info("scan finished")

	return res, nil
}

// dispatch admits IDs in ascending order until the range is exhausted or Cancel is called
func (c *Coordinator) dispatch(admitCtx context.Context) <-chan int {
	jobs := make(chan int)
	go func() {
		defer close(jobs)
		defer c.drain()

		for id := c.cfg.StartID; ; id++ {
			if c.cancelled() {
				return
			}
			if c.limiter != nil {
				if err := c.limiter.Wait(admitCtx); err != nil {
					return
				}
			}
			select {
			case jobs <- id:
			case <-c.cancelCh:
				return
			}
			// EndID may be math.MaxInt, so stop before incrementing past it
			if id == c.cfg.EndID {
				return
			}
		}
	}()
	return jobs
}

// drain moves a cancelled scan into Draining once admission has stopped
func (c *Coordinator) drain() {
	if c.state.CompareAndSwap(int32(StateCancelRequested), int32(StateDraining)) {
		c.log.Info("draining in-flight tasks")
	}
}

func (c *Coordinator) logOutcome(out Outcome) {
	entry := c.log.WithField("act_id", out.ID)
	switch out.Kind {
	case Included:
		entry.WithField("name", out.Record.Name).Info("qualifying activity found")
	case Excluded:
		entry.WithField("reason", out.Reason.Error()).Debug("activity excluded")
	case FetchFailed:
		entry.WithError(out.Reason).Warn("failed to fetch activity")
	}
}

func (c *Coordinator) logProgress(res *Result) {
	c.log.WithFields(logrus.Fields{
		"attempted": res.Attempted,
		"total":     c.cfg.Size(),
		"included":  res.Included,
		"excluded":  res.Excluded,
		"failed":    res.Failed,
	}).Info("scan progress")
}
