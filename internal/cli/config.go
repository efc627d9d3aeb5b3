package cli

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/pfrederiksen/activity-scan/internal/filter"
	"github.com/pfrederiksen/activity-scan/internal/logger"
	"github.com/pfrederiksen/activity-scan/internal/scan"
	"github.com/pfrederiksen/activity-scan/internal/scraper"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	envPrefix       = "ACTIVITY_SCAN"
	defaultDataDir  = "~/.local/share/activity-scan"
	defaultTimezone = "Asia/Taipei"
)

// Options is everything a run needs, resolved from flags, environment and .env
type Options struct {
	Scan        scan.Config
	Location    *time.Location
	Format      OutputFormat
	Sort        SortOrder
	DataDir     string
	OnlyNew     bool
	LogLevel    string
	LogFormat   logger.Format
	NoColor     bool
	MetricsAddr string
}

func defineFlags(flags *pflag.FlagSet) {
	def := scan.DefaultConfig()

	flags.String("base-url", def.BaseURL, "Portal endpoint to query")
	flags.Int("start-id", def.StartID, "First activity ID to scan")
	flags.Int("end-id", def.EndID, "Last activity ID to scan (inclusive)")
	flags.Int("workers", def.Workers, "Number of concurrent fetches")
	flags.Duration("timeout", def.Timeout, "Per-request timeout")
	flags.Float64("rate", 0, "Maximum requests per second (0 = unlimited)")
	flags.Int("window-days", def.Window.Days, "Report registrations opening within this many days")
	flags.Int("progress-every", def.ProgressEvery, "Log progress every N activities (0 = never)")
	flags.String("timezone", defaultTimezone, "Time zone of timestamps on the portal")
	flags.String("format", string(FormatText), "Output format: text, json or ics")
	flags.String("sort", string(SortByCompletion), "Row order: completion, id or register")
	flags.String("data-dir", defaultDataDir, "Data directory for the reported-activities snapshot (empty disables)")
	flags.Bool("only-new", false, "Only report activities not reported by an earlier scan")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("log-format", string(logger.FormatText), "Log format: text or json")
	flags.Bool("no-color", false, "Disable colored log output")
	flags.String("metrics-addr", "", "Serve prometheus metrics on this address while scanning (e.g. :9090)")
}

// newViper binds flags to a viper instance that also reads ACTIVITY_SCAN_* variables
func newViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(flags); err != nil {
		return nil, fmt.Errorf("binding flags: %w", err)
	}
	return v, nil
}

// loadDotEnv loads path into the environment; a missing file is not an error
func loadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// loadOptions resolves and validates the run options
func loadOptions(v *viper.Viper) (*Options, error) {
	opts := &Options{
		Scan: scan.Config{
			BaseURL:       strings.TrimSpace(v.GetString("base-url")),
			StartID:       v.GetInt("start-id"),
			EndID:         v.GetInt("end-id"),
			Workers:       v.GetInt("workers"),
			Timeout:       v.GetDuration("timeout"),
			Rate:          v.GetFloat64("rate"),
			Window:        filter.Window{Days: v.GetInt("window-days")},
			ProgressEvery: v.GetInt("progress-every"),
		},
		DataDir:     strings.TrimSpace(v.GetString("data-dir")),
		OnlyNew:     v.GetBool("only-new"),
		LogLevel:    v.GetString("log-level"),
		LogFormat:   logger.Format(strings.ToLower(v.GetString("log-format"))),
		NoColor:     v.GetBool("no-color"),
		MetricsAddr: strings.TrimSpace(v.GetString("metrics-addr")),
	}
	if opts.Scan.BaseURL == "" {
		opts.Scan.BaseURL = scraper.DefaultBaseURL
	}

	if err := opts.Scan.Validate(); err != nil {
		return nil, err
	}

	format := OutputFormat(strings.ToLower(v.GetString("format")))
	switch format {
	case FormatText, FormatJSON, FormatICS:
	default:
		return nil, fmt.Errorf("invalid format: %s (must be 'text', 'json' or 'ics')", v.GetString("format"))
	}
	opts.Format = format

	order, err := parseSortOrder(v.GetString("sort"))
	if err != nil {
		return nil, err
	}
	opts.Sort = order

	loc, err := time.LoadLocation(v.GetString("timezone"))
	if err != nil {
		return nil, fmt.Errorf("loading timezone: %w", err)
	}
	opts.Location = loc

	if opts.OnlyNew && opts.DataDir == "" {
		return nil, errors.New("--only-new requires --data-dir")
	}

	return opts, nil
}
