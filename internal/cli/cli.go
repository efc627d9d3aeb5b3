package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pfrederiksen/activity-scan/internal/activity"
	"github.com/pfrederiksen/activity-scan/internal/logger"
	"github.com/pfrederiksen/activity-scan/internal/metrics"
	"github.com/pfrederiksen/activity-scan/internal/scan"
	"github.com/pfrederiksen/activity-scan/internal/scraper"
	"github.com/pfrederiksen/activity-scan/internal/storage"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

const (
	ExitSuccess     = 0
	ExitError       = 1
	ExitInterrupted = 130
)

// ErrInterrupted is returned after a cancelled scan has printed its partial report
var ErrInterrupted = errors.New("scan interrupted")

// NewRootCmd creates the root command
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "activity-scan",
		Short: "Find portal activities that provide meals and open registration soon",
		Long: `A CLI tool that scans a range of activity IDs on the university activity
registration portal and lists activities that provide meals and whose registration
is open now or opens within the next week.

Every flag can also be set through an ACTIVITY_SCAN_* environment variable
(e.g. ACTIVITY_SCAN_WORKERS=20) or a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	defineFlags(cmd.Flags())

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		v, err := newViper(cmd.Flags())
		if err != nil {
			return err
		}
		opts, err := loadOptions(v)
		if err != nil {
			return err
		}
		return runScan(cmd.Context(), opts, cmd.OutOrStdout(), cmd.ErrOrStderr())
	}

	return cmd
}

// runScan is the main command logic
func runScan(ctx context.Context, opts *Options, stdout, stderr io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	log, err := logger.New(logger.Options{
		Level:   opts.LogLevel,
		Format:  opts.LogFormat,
		Output:  stderr,
		NoColor: opts.NoColor,
	})
	if err != nil {
		return err
	}

	var store *storage.Storage
	if opts.DataDir != "" {
		store, err = storage.New(opts.DataDir)
		if err != nil {
			return fmt.Errorf("initializing storage: %w", err)
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	scanMetrics := metrics.NewScan(reg)

	if opts.MetricsAddr != "" {
		stop := serveMetrics(opts.MetricsAddr, reg, log)
		defer stop()
	}

	client := scraper.New(opts.Scan.BaseURL, opts.Scan.Timeout)
	coordinator, err := scan.New(opts.Scan, client, scraper.NewExtractor(opts.Location),
		scan.WithLogger(log),
		scan.WithMetrics(scanMetrics),
	)
	if err != nil {
		return err
	}

	ctx, stopSignals := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stopSignals()

	result, err := coordinator.Run(ctx)
	if err != nil {
		return fmt.Errorf("running scan: %w", err)
	}

	records := result.Records
	if opts.OnlyNew {
		previous, err := store.LoadSnapshot()
		if err != nil {
			return fmt.Errorf("loading snapshot: %w", err)
		}
		records = activity.Diff(previous, records)
		log.WithField("new", len(records)).Debug("filtered previously reported activities")
	}
	records = append([]*activity.Record(nil), records...)
	sortRecords(records, opts.Sort)

	out := &OutputResult{
		ScannedAt:  result.FinishedAt.UTC(),
		StartID:    result.StartID,
		EndID:      result.EndID,
		Total:      result.Total(),
		Attempted:  result.Attempted,
		Included:   result.Included,
		Excluded:   result.Excluded,
		Failed:     result.Failed,
		Cancelled:  result.Cancelled,
		OnlyNew:    opts.OnlyNew,
		Activities: records,
	}
	if out.Activities == nil {
		out.Activities = []*activity.Record{}
	}
	if err := WriteOutput(stdout, out, opts.Format); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}

	if result.Cancelled {
		return ErrInterrupted
	}

	// Partial scans never update the snapshot
	if store != nil {
		if err := store.RecordReported(result.Records, result.FinishedAt); err != nil {
			return fmt.Errorf("saving snapshot: %w", err)
		}
		log.WithField("path", store.Path()).Debug("snapshot saved")
	}

	return nil
}

// serveMetrics exposes reg on addr until the returned stop function is called
func serveMetrics(addr string, reg *prometheus.Registry, log logrus.FieldLogger) func() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", metrics.Handler(reg))

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		log.WithField("addr", addr).Info("serving metrics")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("metrics server failed")
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			log.WithError(err).Warn("metrics server shutdown")
		}
	}
}

// ExitCode maps an error returned by the root command to a process exit code
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitSuccess
	case errors.Is(err, ErrInterrupted):
		return ExitInterrupted
	default:
		return ExitError
	}
}

// Execute runs the CLI
func Execute() {
	if err := loadDotEnv(".env"); err != nil {
		fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
	}

	err := NewRootCmd().Execute()
	if err != nil && !errors.Is(err, ErrInterrupted) {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
	os.Exit(ExitCode(err))
}
