package reminders

import "time"

// All calendar math is done in UTC. Entity dates arrive from the document
// store as UTC timestamps.

func SameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// IsTomorrow reports whether t falls on the calendar day after now. The
// match is exact: today and the day after tomorrow never qualify.
func IsTomorrow(t, now time.Time) bool {
	return SameDay(t, now.AddDate(0, 0, 1))
}

func SameMonth(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.Month() == b.Month()
}

// WeekBounds returns the half-open interval [start, end) of the week
// containing now. Weeks start on Sunday at 00:00 UTC.
func WeekBounds(now time.Time) (start, end time.Time) {
	d := now.UTC()
	midnight := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
	start = midnight.AddDate(0, 0, -int(d.Weekday()))
	return start, start.AddDate(0, 0, 7)
}

func inWindow(t, from, to time.Time) bool {
	t = t.UTC()
	return !t.Before(from) && t.Before(to)
}
