package cli

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/pfrederiksen/activity-scan/internal/scan"
	"github.com/spf13/pflag"
)

func parseOptions(t *testing.T, args ...string) (*Options, error) {
	t.Helper()

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	defineFlags(flags)
	if err := flags.Parse(args); err != nil {
		t.Fatalf("parsing flags: %v", err)
	}

	v, err := newViper(flags)
	if err != nil {
		t.Fatalf("newViper() error = %v", err)
	}
	return loadOptions(v)
}

func TestLoadOptions_Defaults(t *testing.T) {
	opts, err := parseOptions(t)
	if err != nil {
		t.Fatalf("loadOptions() error = %v", err)
	}

	def := scan.DefaultConfig()
	if opts.Scan.BaseURL != def.BaseURL || opts.Scan.StartID != 14000 || opts.Scan.EndID != 20000 {
		t.Errorf("range = %s %d-%d", opts.Scan.BaseURL, opts.Scan.StartID, opts.Scan.EndID)
	}
	if opts.Scan.Workers != 10 || opts.Scan.Timeout != 10*time.Second || opts.Scan.Window.Days != 7 {
		t.Errorf("scan config = %+v", opts.Scan)
	}
	if opts.Format != FormatText || opts.Sort != SortByCompletion {
		t.Errorf("format = %s, sort = %s", opts.Format, opts.Sort)
	}
	if opts.Location.String() != "Asia/Taipei" {
		t.Errorf("Location = %s, want Asia/Taipei", opts.Location)
	}
}

func TestLoadOptions_FlagsOverrideEnv(t *testing.T) {
	t.Setenv("ACTIVITY_SCAN_WORKERS", "4")
	t.Setenv("ACTIVITY_SCAN_END_ID", "14100")

	opts, err := parseOptions(t, "--workers", "8")
	if err != nil {
		t.Fatalf("loadOptions() error = %v", err)
	}

	if opts.Scan.Workers != 8 {
		t.Errorf("Workers = %d, want 8 from flag", opts.Scan.Workers)
	}
	if opts.Scan.EndID != 14100 {
		t.Errorf("EndID = %d, want 14100 from env", opts.Scan.EndID)
	}
}

func TestLoadOptions_Invalid(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"bad format", []string{"--format", "xml"}},
		{"bad sort", []string{"--sort", "name"}},
		{"bad timezone", []string{"--timezone", "Mars/Olympus"}},
		{"only-new without data dir", []string{"--only-new", "--data-dir", ""}},
		{"start after end", []string{"--start-id", "20", "--end-id", "10"}},
		{"negative rate", []string{"--rate", "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := parseOptions(t, tt.args...); err == nil {
				t.Error("loadOptions() expected error, got nil")
			}
		})
	}
}

func TestLoadOptions_InvalidRangeIsConfigError(t *testing.T) {
	_, err := parseOptions(t, "--start-id", "20", "--end-id", "10")
	if !errors.Is(err, scan.ErrInvalidConfig) {
		t.Errorf("error = %v, want ErrInvalidConfig", err)
	}
}

func TestLoadDotEnv(t *testing.T) {
	// Register cleanup, then clear so godotenv is allowed to set it
	t.Setenv("ACTIVITY_SCAN_START_ID", "")
	os.Unsetenv("ACTIVITY_SCAN_START_ID")

	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("ACTIVITY_SCAN_START_ID=15000\n"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := loadDotEnv(path); err != nil {
		t.Fatalf("loadDotEnv() error = %v", err)
	}

	opts, err := parseOptions(t)
	if err != nil {
		t.Fatalf("loadOptions() error = %v", err)
	}
	if opts.Scan.StartID != 15000 {
		t.Errorf("StartID = %d, want 15000 from .env", opts.Scan.StartID)
	}
}

func TestLoadDotEnv_Missing(t *testing.T) {
	if err := loadDotEnv(filepath.Join(t.TempDir(), ".env")); err != nil {
		t.Errorf("loadDotEnv() error = %v, want nil for missing file", err)
	}
}
