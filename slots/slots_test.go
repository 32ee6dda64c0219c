// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package slots

import (
	"testing"
	"time"

	"github.com/danielhkuo/meetslot/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func cfg(startD, endD time.Time, startH, endH, endM, minutes int) models.SlotConfig {
	return models.SlotConfig{
		StartDate:   startD,
		EndDate:     endD,
		StartTime:   models.TimeOfDay{Hour: startH},
		EndTime:     models.TimeOfDay{Hour: endH, Minute: endM},
		SlotMinutes: minutes,
	}
}

func TestGenerateStandupScenario(t *testing.T) {
	// Two days, 09:00-10:00 window, 30-minute slots -> four options
	got := Generate(cfg(day(2024, 1, 1), day(2024, 1, 2), 9, 10, 0, 30))

	want := []models.Slot{
		{Start: time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)},
		{Start: time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC), End: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)},
		{Start: time.Date(2024, 1, 2, 9, 0, 0, 0, time.UTC), End: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC)},
		{Start: time.Date(2024, 1, 2, 9, 30, 0, 0, time.UTC), End: time.Date(2024, 1, 2, 10, 0, 0, 0, time.UTC)},
	}
	if len(got) != len(want) {
		t.Fatalf("Expected %d slots, got %d", len(want), len(got))
	}
	for i := range want {
		if !got[i].Start.Equal(want[i].Start) || !got[i].End.Equal(want[i].End) {
			t.Errorf("Slot %d: expected %v-%v, got %v-%v", i, want[i].Start, want[i].End, got[i].Start, got[i].End)
		}
	}
}

func TestGenerateTruncatesFinalInterval(t *testing.T) {
	// 09:00-10:15 with 30-minute slots: the last slot of each day is 15 minutes
	got := Generate(cfg(day(2024, 1, 1), day(2024, 1, 1), 9, 10, 15, 30))

	if len(got) != 3 {
		t.Fatalf("Expected 3 slots, got %d", len(got))
	}
	last := got[2]
	if d := last.End.Sub(last.Start); d != 15*time.Minute {
		t.Errorf("Expected truncated 15m final slot, got %v", d)
	}
	if !last.End.Equal(time.Date(2024, 1, 1, 10, 15, 0, 0, time.UTC)) {
		t.Errorf("Final slot must not cross the window end, got %v", last.End)
	}
}

func TestGenerateProperties(t *testing.T) {
	c := cfg(day(2024, 3, 1), day(2024, 3, 5), 9, 17, 0, 45)
	got := Generate(c)

	if len(got) == 0 {
		t.Fatal("Expected non-empty slot sequence")
	}
	maxLen := time.Duration(c.SlotMinutes) * time.Minute
	for i, s := range got {
		if !s.Start.Before(s.End) {
			t.Errorf("Slot %d: start %v not before end %v", i, s.Start, s.End)
		}
		if s.End.Sub(s.Start) > maxLen {
			t.Errorf("Slot %d longer than slot length: %v", i, s.End.Sub(s.Start))
		}
		if i == 0 {
			continue
		}
		prev := got[i-1]
		if s.Start.Before(prev.Start) {
			t.Errorf("Slots out of order at %d", i)
		}
		sameDay := prev.Start.YearDay() == s.Start.YearDay()
		if sameDay && !s.Start.Equal(prev.End) {
			t.Errorf("Gap or overlap within a day at slot %d: prev end %v, start %v", i, prev.End, s.Start)
		}
	}
}

func TestGenerateDeterministic(t *testing.T) {
	c := cfg(day(2024, 6, 10), day(2024, 6, 12), 8, 12, 30, 50)
	a := Generate(c)
	b := Generate(c)
	if len(a) != len(b) {
		t.Fatalf("Runs differ in length: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Slot %d differs between runs", i)
		}
	}
}

func TestSignature(t *testing.T) {
	c := cfg(day(2024, 1, 1), day(2024, 1, 2), 9, 10, 0, 30)
	want := "2024-01-01|2024-01-02|09:00|10:00|30"
	if got := Signature(c); got != want {
		t.Errorf("Expected signature %q, got %q", want, got)
	}

	changed := c
	changed.SlotMinutes = 60
	if Signature(changed) == Signature(c) {
		t.Error("Signature must change when the slot length changes")
	}
}

func TestLabel(t *testing.T) {
	start := time.Date(2024, 1, 1, 9, 0, 0, 0, time.UTC) // a Monday
	end := time.Date(2024, 1, 1, 9, 30, 0, 0, time.UTC)
	want := "01/01 (Mon) 09:00 - 09:30"
	if got := Label(start, end); got != want {
		t.Errorf("Expected label %q, got %q", want, got)
	}
}
