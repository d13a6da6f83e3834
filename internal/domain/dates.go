package domain

import "time"

// Date-range filters are interpreted as local calendar-day boundaries, not
// UTC instants: a filter day covers 00:00:00.000 through 23:59:59.999...
// inclusive. Predicates therefore use [StartOfDay(from), EndOfDayExclusive(to)).

// StartOfDay returns midnight at the start of t's calendar day, in t's
// location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDayExclusive returns midnight at the start of the day after t's
// calendar day. Using it as an exclusive upper bound keeps the whole final
// day, including 23:59:59.999999999, inside the range.
func EndOfDayExclusive(t time.Time) time.Time {
	return StartOfDay(t).AddDate(0, 0, 1)
}
