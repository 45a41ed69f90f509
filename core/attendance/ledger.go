package attendance

import (
	"math"
	"strconv"
	"strings"
)

// SessionKey builds the identity under which a session occurrence is marked
// at most once. It deliberately carries no calendar date: a weekly-recurring
// slot is one occurrence under this scheme.
func SessionKey(subject, day, start, end string) string {
	return strings.Join([]string{subject, day, start, end}, "|")
}

// Mark grades one session occurrence. The first marking of a session key
// adds hours to the subject's totals and records the outcome; any repeat
// returns ErrAlreadyMarked and leaves the ledger untouched.
func (l Ledger) Mark(subject, day, start, end string, present bool, hours float64) error {
	key := SessionKey(subject, day, start, end)

	entry, ok := l[subject]
	if !ok {
		entry = &Entry{Marked: make(map[string]bool)}
		l[subject] = entry
	}
	if entry.Marked == nil {
		entry.Marked = make(map[string]bool)
	}
	if _, marked := entry.Marked[key]; marked {
		return ErrAlreadyMarked
	}

	entry.Total += hours
	if present {
		entry.Present += hours
	}
	entry.Marked[key] = present
	return nil
}

// RemoveSubject deletes the subject's entry entirely.
func (l Ledger) RemoveSubject(subject string) {
	delete(l, subject)
}

// Percent returns the attendance percentage rounded to 2 decimal places.
// A nil entry or zero total yields 0 rather than dividing by zero.
func (e *Entry) Percent() float64 {
	if e == nil || e.Total == 0 {
		return 0
	}
	return math.Round(e.Present/e.Total*100*100) / 100
}

// Percent reports the subject's attendance percentage, 0 when unknown.
func (l Ledger) Percent(subject string) float64 {
	return l[subject].Percent()
}

// FormatPercent renders a percentage the way the summary view displays it ("72.50").
func FormatPercent(pct float64) string {
	return strconv.FormatFloat(pct, 'f', 2, 64)
}
