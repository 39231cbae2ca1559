package util

import (
	"testing"
	"time"
)

func TestParseDay(t *testing.T) {
	got, ok := ParseDay("2024-10-10")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := time.Date(2024, 10, 10, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Fatalf("unexpected day %v", got)
	}
}

func TestDayTruncation(t *testing.T) {
	ts := time.Date(2024, 10, 10, 17, 45, 12, 0, time.UTC)
	if got := Day(ts); got.Hour() != 0 || FormatDay(got) != "2024-10-10" {
		t.Fatalf("unexpected truncation %v", got)
	}
}

func TestParseTimeRFC3339(t *testing.T) {
	s := "2024-10-10T10:10:10Z"
	got, ok := ParseTime(s)
	if !ok {
		t.Fatalf("expected ok")
	}
	if got.UTC().Format(time.RFC3339) != s {
		t.Fatalf("unexpected time %v", got)
	}
}

func TestSplitWindows(t *testing.T) {
	from := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2024, 1, 25, 0, 0, 0, 0, time.UTC)

	wins := SplitWindows(from, to, 10)
	if len(wins) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(wins))
	}
	if !wins[0].From.Equal(from) {
		t.Fatalf("first window should start at from")
	}
	if !wins[len(wins)-1].To.Equal(to) {
		t.Fatalf("last window should end at to")
	}
	for i := 1; i < len(wins); i++ {
		if !wins[i].From.After(wins[i-1].To) {
			t.Fatalf("windows must not overlap: %v vs %v", wins[i-1], wins[i])
		}
	}
}

func TestSplitWindowsEmptyRange(t *testing.T) {
	day := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	if wins := SplitWindows(day, day, 10); wins != nil {
		t.Fatalf("expected nil for empty range, got %v", wins)
	}
}
