// Package workday implements the working-day date arithmetic that deadline
// synthesis is built on. Saturdays and Sundays are skipped entirely; the
// functions are pure and never consult the wall clock.
package workday

import "time"

// AddWorkingDays advances start by exactly n weekdays. Weekend days are not
// counted. n = 0 returns start unchanged; if start falls on a weekend the
// count begins from the following Monday.
func AddWorkingDays(start time.Time, n int) time.Time {
	d := start
	for i := 0; i < n; i++ {
		d = d.AddDate(0, 0, 1)
		for isWeekend(d) {
			d = d.AddDate(0, 0, 1)
		}
	}
	return d
}

// DeadlineDate returns the date n working days after end, truncated to the
// date component in end's location.
func DeadlineDate(end time.Time, n int) time.Time {
	d := AddWorkingDays(end, n)
	return Date(d)
}

// Date strips the time-of-day component, keeping the location.
func Date(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func isWeekend(t time.Time) bool {
	wd := t.Weekday()
	return wd == time.Saturday || wd == time.Sunday
}
