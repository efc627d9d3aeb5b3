package filter

import (
	"testing"
	"time"
)

func date(y int, m time.Month, d, hh, mm int) time.Time {
	return time.Date(y, m, d, hh, mm, 0, 0, time.UTC)
}

func TestIsEligible(t *testing.T) {
	now := date(2024, 1, 10, 0, 0)

	tests := []struct {
		name  string
		start time.Time
		end   time.Time
		want  bool
	}{
		{
			name:  "opens exactly now",
			start: date(2024, 1, 10, 0, 0),
			end:   date(2024, 1, 12, 0, 0),
			want:  true,
		},
		{
			name:  "opens in 5 days",
			start: date(2024, 1, 15, 0, 0),
			end:   date(2024, 1, 20, 0, 0),
			want:  true,
		},
		{
			name:  "opens in 10 days",
			start: date(2024, 1, 20, 0, 0),
			end:   date(2024, 1, 25, 0, 0),
			want:  false,
		},
		{
			name:  "closed more than a week ago",
			start: date(2024, 1, 1, 0, 0),
			end:   date(2024, 1, 5, 0, 0),
			want:  false,
		},
		{
			name:  "closes exactly now",
			start: date(2024, 1, 1, 0, 0),
			end:   date(2024, 1, 10, 0, 0),
			want:  true,
		},
		{
			name:  "closed one minute ago",
			start: date(2024, 1, 9, 0, 0),
			end:   date(2024, 1, 9, 23, 59),
			want:  false,
		},
		{
			name:  "opens exactly 7 days out",
			start: date(2024, 1, 17, 0, 0),
			end:   date(2024, 1, 18, 0, 0),
			want:  true,
		},
		{
			name:  "opens 7 days and 23 hours out",
			start: date(2024, 1, 17, 23, 0),
			end:   date(2024, 1, 18, 0, 0),
			want:  true,
		},
		{
			name:  "opens exactly 8 days out",
			start: date(2024, 1, 18, 0, 0),
			end:   date(2024, 1, 19, 0, 0),
			want:  false,
		},
		{
			name:  "opens later today",
			start: date(2024, 1, 10, 18, 0),
			end:   date(2024, 1, 11, 0, 0),
			want:  true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsEligible(tt.start, tt.end, now); got != tt.want {
				t.Errorf("IsEligible(%v, %v, %v) = %v, want %v", tt.start, tt.end, now, got, tt.want)
			}
		})
	}
}

func TestWindow_IsEligible_CustomDays(t *testing.T) {
	now := date(2024, 1, 10, 0, 0)
	start := date(2024, 1, 13, 0, 0)
	end := date(2024, 1, 14, 0, 0)

	if !(Window{Days: 3}).IsEligible(start, end, now) {
		t.Error("3-day window should include a start 3 days out")
	}
	if (Window{Days: 2}).IsEligible(start, end, now) {
		t.Error("2-day window should exclude a start 3 days out")
	}
	if !(Window{Days: 0}).IsEligible(date(2024, 1, 10, 12, 0), end, now) {
		t.Error("0-day window should still include a start later today")
	}
}

func TestDaysUntil(t *testing.T) {
	now := date(2024, 1, 10, 12, 0)

	tests := []struct {
		name string
		t    time.Time
		want int
	}{
		{"same instant", now, 0},
		{"one hour ahead", now.Add(time.Hour), 0},
		{"exactly one day ahead", now.Add(24 * time.Hour), 1},
		{"just under two days ahead", now.Add(48*time.Hour - time.Minute), 1},
		{"one hour behind floors to -1", now.Add(-time.Hour), -1},
		{"exactly one day behind", now.Add(-24 * time.Hour), -1},
		{"25 hours behind", now.Add(-25 * time.Hour), -2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DaysUntil(now, tt.t); got != tt.want {
				t.Errorf("DaysUntil() = %d, want %d", got, tt.want)
			}
		})
	}
}
