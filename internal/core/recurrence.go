package core

import "time"

// ExpandToYearEnd projects a start date into one date per calendar
// month from the start's month through December of the same year
// inclusive. The day of month is clamped to each target month's last
// valid day, so a January 31 start produces February 29 in a leap
// year rather than an invalid date. The year is held fixed; the range
// cannot roll over by construction.
func ExpandToYearEnd(start Date) []Date {
	out := make([]Date, 0, 13-start.Month())
	for m := start.Month(); m <= 12; m++ {
		day := start.Day()
		if last := lastDayOfMonth(start.Year(), m); day > last {
			day = last
		}
		out = append(out, NewDate(start.Year(), m, day))
	}
	return out
}

// lastDayOfMonth uses the day-zero-of-next-month idiom.
func lastDayOfMonth(year, month int) int {
	return time.Date(year, time.Month(month)+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
