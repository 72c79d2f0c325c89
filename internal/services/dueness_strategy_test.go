package services

import (
	"testing"
	"time"

	"cashflow/internal/core"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 12, 0, 0, 0, time.UTC)
}

func TestDailyChecker(t *testing.T) {
	checker := DailyChecker{}
	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, date(2026, 3, 10), true},
		{"ran today", date(2026, 3, 10), date(2026, 3, 10), false},
		{"ran yesterday", date(2026, 3, 9), date(2026, 3, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, time.Time{}); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestWeeklyChecker(t *testing.T) {
	checker := WeeklyChecker{}
	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, date(2026, 3, 10), true},
		{"six days ago", date(2026, 3, 4), date(2026, 3, 10), false},
		{"seven days ago", date(2026, 3, 3), date(2026, 3, 10), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, time.Time{}); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestMonthlyChecker(t *testing.T) {
	checker := MonthlyChecker{}
	start := date(2026, 1, 31)
	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, date(2026, 3, 1), true},
		{"same month", date(2026, 3, 5), date(2026, 3, 20), false},
		{"new month before target day", date(2026, 1, 31), date(2026, 3, 15), false},
		{"new month at target day", date(2026, 1, 31), date(2026, 3, 31), true},
		{"february clamps day 31 to 28", date(2026, 1, 31), date(2026, 2, 28), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, start); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestYearlyChecker(t *testing.T) {
	checker := YearlyChecker{}
	start := date(2025, 6, 15)
	tests := []struct {
		name    string
		lastRun time.Time
		now     time.Time
		want    bool
	}{
		{"never run", time.Time{}, date(2026, 1, 1), true},
		{"same year", date(2026, 6, 15), date(2026, 12, 1), false},
		{"new year before month", date(2025, 6, 15), date(2026, 5, 1), false},
		{"new year at target day", date(2025, 6, 15), date(2026, 6, 15), true},
		{"new year past month", date(2025, 6, 15), date(2026, 8, 1), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checker.IsDue(tt.lastRun, tt.now, start); got != tt.want {
				t.Errorf("IsDue = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDuenessChecker(t *testing.T) {
	for _, freq := range []core.Frequency{core.FrequencyDaily, core.FrequencyWeekly, core.FrequencyMonthly, core.FrequencyYearly} {
		if _, err := GetDuenessChecker(freq); err != nil {
			t.Errorf("GetDuenessChecker(%s): %v", freq, err)
		}
	}
	if _, err := GetDuenessChecker(core.Frequency("fortnightly")); err == nil {
		t.Error("expected error for unknown frequency")
	}
}
