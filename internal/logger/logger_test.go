package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		logAt   logrus.Level
		want    bool // should log
		wantErr bool
	}{
		{name: "default is info", level: "", logAt: logrus.InfoLevel, want: true},
		{name: "debug below default", level: "", logAt: logrus.DebugLevel, want: false},
		{name: "debug enabled", level: "debug", logAt: logrus.DebugLevel, want: true},
		{name: "warn threshold drops info", level: "warn", logAt: logrus.InfoLevel, want: false},
		{name: "error passes warn threshold", level: "warn", logAt: logrus.ErrorLevel, want: true},
		{name: "invalid level", level: "loud", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			log, err := New(Options{Level: tt.level, Output: &buf, NoColor: true})
			if tt.wantErr {
				if err == nil {
					t.Fatal("New() expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("New() unexpected error: %v", err)
			}

			log.Log(tt.logAt, "test message")

			if logged := buf.Len() > 0; logged != tt.want {
				t.Errorf("logged = %v, want %v", logged, tt.want)
			}
		})
	}
}

func TestNew_JSONFormat(t *testing.T) {
	var buf bytes.Buffer
	log, err := New(Options{Format: FormatJSON, Output: &buf})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	log.WithField("act_id", 14001).WithError(errors.New("boom")).Warn("fetch failed")

	var decoded map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("output is not JSON: %v (%q)", err, buf.String())
	}
	if decoded["msg"] != "fetch failed" {
		t.Errorf("msg = %v", decoded["msg"])
	}
	if decoded["act_id"] != float64(14001) {
		t.Errorf("act_id = %v", decoded["act_id"])
	}
	if decoded["error"] != "boom" {
		t.Errorf("error = %v", decoded["error"])
	}
}

func TestNew_UnknownFormat(t *testing.T) {
	if _, err := New(Options{Format: "xml"}); err == nil {
		t.Error("New() expected error for unknown format")
	}
}

func TestColoredFormatter_Plain(t *testing.T) {
	f := NewColoredFormatter()
	f.DisableColors = true

	entry := &logrus.Entry{
		Time:    time.Date(2024, 1, 10, 8, 0, 0, 0, time.UTC),
		Level:   logrus.WarnLevel,
		Message: "fetch failed",
		Data: logrus.Fields{
			"attempt":       1,
			"act_id":        14001,
			logrus.ErrorKey: errors.New("timeout"),
		},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}

	want := `2024-01-10T08:00:00Z WARNING fetch failed act_id=14001 error="timeout" attempt=1` + "\n"
	if string(out) != want {
		t.Errorf("Format() =\n%q\nwant\n%q", out, want)
	}
}

func TestColoredFormatter_Colors(t *testing.T) {
	f := NewColoredFormatter()

	entry := &logrus.Entry{
		Time:    time.Now(),
		Level:   logrus.ErrorLevel,
		Message: "boom",
		Data:    logrus.Fields{},
	}

	out, err := f.Format(entry)
	if err != nil {
		t.Fatalf("Format() error = %v", err)
	}
	if !strings.Contains(string(out), "\x1b[") {
		t.Errorf("Format() output has no ANSI escapes: %q", out)
	}
}

func TestDefaultFieldSorting(t *testing.T) {
	keys := defaultFieldSorting([]string{"zeta", "error", "alpha", "act_id"})
	want := []string{"act_id", "error", "alpha", "zeta"}

	for i := range want {
		if keys[i] != want[i] {
			t.Fatalf("defaultFieldSorting() = %v, want %v", keys, want)
		}
	}
}

func TestDiscard(t *testing.T) {
	log := Discard()
	log.Error("dropped")
	if log.Out == nil {
		t.Error("Discard() logger has nil output")
	}
}
