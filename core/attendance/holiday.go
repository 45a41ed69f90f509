package attendance

// Mark idempotently flags a calendar date as a holiday.
func (h HolidaySet) Mark(date string) {
	h[date] = true
}

// IsHoliday reports whether the date has been marked.
func (h HolidaySet) IsHoliday(date string) bool {
	return h[date]
}

// IsMarkable reports whether sessions may be graded on the given weekday and
// date: never on a holiday, never before the schedule's start date, and only
// when the day has at least one session. ISO dates compare lexicographically.
func IsMarkable(sched Schedule, holidays HolidaySet, day, date string) bool {
	if holidays.IsHoliday(date) {
		return false
	}
	if sched.StartDate != "" && date < sched.StartDate {
		return false
	}
	return len(sched.SessionsOn(day)) > 0
}
