package schedule

import (
	"testing"
	"time"
)

func TestOverlaps(t *testing.T) {
	base := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	cases := []struct {
		name                       string
		start1, end1, start2, end2 time.Time
		want                       bool
	}{
		{"identical", base, base.Add(4 * time.Hour), base, base.Add(4 * time.Hour), true},
		{"partial", base, base.Add(4 * time.Hour), base.Add(2 * time.Hour), base.Add(6 * time.Hour), true},
		{"contained", base, base.Add(8 * time.Hour), base.Add(2 * time.Hour), base.Add(3 * time.Hour), true},
		{"back to back", base, base.Add(4 * time.Hour), base.Add(4 * time.Hour), base.Add(8 * time.Hour), false},
		{"disjoint", base, base.Add(2 * time.Hour), base.Add(5 * time.Hour), base.Add(7 * time.Hour), false},
	}
	for _, tc := range cases {
		if got := Overlaps(tc.start1, tc.end1, tc.start2, tc.end2); got != tc.want {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.want, got)
		}
	}
}

func TestTemplateWindow(t *testing.T) {
	tpl := Template{DayOfWeek: 1, StartMinute: 10 * 60, EndMinute: 14 * 60}
	date := time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC) // a Monday

	if !MatchesTemplateDay(tpl, date) {
		t.Fatal("expected Monday template to match a Monday date")
	}
	start, end := TemplateWindow(tpl, date)
	if start.Hour() != 10 || end.Hour() != 14 {
		t.Fatalf("unexpected window: %v - %v", start, end)
	}
	if MatchesTemplateDay(tpl, date.AddDate(0, 0, 1)) {
		t.Fatal("expected Tuesday not to match a Monday template")
	}
}
