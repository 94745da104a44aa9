package timezone

import (
	"testing"
	"time"
)

func TestLocationFallsBackToDefault(t *testing.T) {
	loc := Location("Not/AZone")
	if loc.String() != DefaultTimezone {
		t.Fatalf("expected %s, got %s", DefaultTimezone, loc)
	}
}

func TestStartOfDayUsesLocalCalendarDay(t *testing.T) {
	loc := Location(DefaultTimezone)

	// 01:30 UTC on the 20th is still the 19th in São Paulo (UTC-3).
	utc := time.Date(2026, 10, 20, 1, 30, 0, 0, time.UTC)
	got := StartOfDay(utc, loc)

	if got.Day() != 19 || got.Hour() != 0 || got.Location() != loc {
		t.Fatalf("unexpected start of day: %s", got)
	}
}

func TestMonthRange(t *testing.T) {
	loc := Location(DefaultTimezone)
	start, end := MonthRange(2026, time.December, loc)
	if start.Month() != time.December || end.Month() != time.January || end.Year() != 2027 {
		t.Fatalf("unexpected range %s - %s", start, end)
	}
}
