package schedule

import "time"

// Overlaps reports whether two half-open intervals intersect.
func Overlaps(start1, end1, start2, end2 time.Time) bool {
	return start1.Before(end2) && start2.Before(end1)
}

// MatchesTemplateDay reports whether a concrete date falls on the template's
// weekday.
func MatchesTemplateDay(t Template, date time.Time) bool {
	return int(date.Weekday()) == t.DayOfWeek
}

// TemplateWindow resolves the template's time-of-day pattern onto a concrete
// date.
func TemplateWindow(t Template, date time.Time) (time.Time, time.Time) {
	day := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	start := day.Add(time.Duration(t.StartMinute) * time.Minute)
	end := day.Add(time.Duration(t.EndMinute) * time.Minute)
	return start, end
}
