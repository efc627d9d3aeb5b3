package scan

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/filter"
	"github.com/pfrederiksen/activity-scan/internal/scraper"
)

const (
	DefaultStartID       = 14000
	DefaultEndID         = 20000
	DefaultWorkers       = 10
	DefaultProgressEvery = 100
)

// ErrInvalidConfig wraps every validation failure
var ErrInvalidConfig = errors.New("invalid scan config")

// Config is the immutable configuration of one scan
type Config struct {
	BaseURL       string
	StartID       int
	EndID         int // inclusive
	Workers       int
	Timeout       time.Duration // per request
	Rate          float64       // admitted tasks per second, 0 = unlimited
	Window        filter.Window
	ProgressEvery int // log progress every N outcomes, 0 = never
}

// DefaultConfig returns the configuration used when nothing is overridden
func DefaultConfig() Config {
	return Config{
		BaseURL:       scraper.DefaultBaseURL,
		StartID:       DefaultStartID,
		EndID:         DefaultEndID,
		Workers:       DefaultWorkers,
		Timeout:       scraper.DefaultTimeout,
		Window:        filter.DefaultWindow(),
		ProgressEvery: DefaultProgressEvery,
	}
}

// Size returns the number of IDs in the range
func (c Config) Size() int {
	if c.EndID < c.StartID {
		return 0
	}
	if c.EndID-c.StartID == math.MaxInt {
		return math.MaxInt
	}
	return c.EndID - c.StartID + 1
}

// Validate checks the configuration before a scan starts
func (c Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("%w: base URL is required", ErrInvalidConfig)
	}
	u, err := url.Parse(c.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("%w: base URL %q is not an absolute URL", ErrInvalidConfig, c.BaseURL)
	}
	if c.StartID < 0 {
		return fmt.Errorf("%w: start id %d is negative", ErrInvalidConfig, c.StartID)
	}
	if c.StartID > c.EndID {
		return fmt.Errorf("%w: start id %d is after end id %d", ErrInvalidConfig, c.StartID, c.EndID)
	}
	if c.EndID-c.StartID == math.MaxInt {
		return fmt.Errorf("%w: range %d-%d holds more IDs than can be counted", ErrInvalidConfig, c.StartID, c.EndID)
	}
	if c.Workers <= 0 {
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrInvalidConfig, c.Workers)
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("%w: timeout must be positive, got %v", ErrInvalidConfig, c.Timeout)
	}
	if c.Rate < 0 {
		return fmt.Errorf("%w: rate must not be negative, got %v", ErrInvalidConfig, c.Rate)
	}
	if c.Window.Days < 0 {
		return fmt.Errorf("%w: window days must not be negative, got %d", ErrInvalidConfig, c.Window.Days)
	}
	if c.ProgressEvery < 0 {
		return fmt.Errorf("%w: progress interval must not be negative, got %d", ErrInvalidConfig, c.ProgressEvery)
	}
	return nil
}
