package timelog

import "time"

// Duration is reported in whole minutes; partial minutes are dropped.
func DurationMinutes(checkIn, checkOut time.Time) int {
	if !checkOut.After(checkIn) {
		return 0
	}
	return int(checkOut.Sub(checkIn) / time.Minute)
}

// LateMinutes is how many whole minutes the check-in trails the scheduled
// start. Zero for on-time or early arrivals.
func LateMinutes(scheduledStart, checkIn time.Time) int {
	if !checkIn.After(scheduledStart) {
		return 0
	}
	return int(checkIn.Sub(scheduledStart) / time.Minute)
}

// EarlyLeaveMinutes is how many whole minutes the check-out precedes the
// scheduled end. Zero for full or overrun shifts.
func EarlyLeaveMinutes(scheduledEnd, checkOut time.Time) int {
	if !checkOut.Before(scheduledEnd) {
		return 0
	}
	return int(scheduledEnd.Sub(checkOut) / time.Minute)
}
