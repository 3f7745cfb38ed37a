package shared

import "time"

// ParseDate accepts RFC3339 or YYYY-MM-DD.
func ParseDate(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	if parsed, err := time.Parse(time.RFC3339, value); err == nil {
		return parsed, nil
	}
	return time.Parse("2006-01-02", value)
}

// ParseRange reads from/to, defaulting to the trailing 30 days.
func ParseRange(fromRaw, toRaw string) (time.Time, time.Time, error) {
	to, err := ParseDate(toRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if to.IsZero() {
		to = time.Now()
	}
	from, err := ParseDate(fromRaw)
	if err != nil {
		return time.Time{}, time.Time{}, err
	}
	if from.IsZero() {
		from = to.AddDate(0, 0, -30)
	}
	return from, to, nil
}
