package attendance

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var ErrInvalidClockTime = errors.New("invalid clock time, want HH:MM")

// ClockTime is a wall-clock time of day; no date, no timezone.
type ClockTime struct {
	Hour   int
	Minute int
}

// ParseClock parses a 24-hour "HH:MM" string.
func ParseClock(s string) (ClockTime, error) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) < 2 {
		return ClockTime{}, ErrInvalidClockTime
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return ClockTime{}, ErrInvalidClockTime
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return ClockTime{}, ErrInvalidClockTime
	}
	return ClockTime{Hour: hour, Minute: minute}, nil
}

// Format12h renders the time on a 12-hour clock with an AM/PM suffix.
// Hours 0 and 12 both render as 12.
func (t ClockTime) Format12h() string {
	ampm := "AM"
	if t.Hour >= 12 {
		ampm = "PM"
	}
	hour := t.Hour % 12
	if hour == 0 {
		hour = 12
	}
	return fmt.Sprintf("%d:%02d %s", hour, t.Minute, ampm)
}

func (t ClockTime) minutes() int {
	return t.Hour*60 + t.Minute
}

// SessionDuration returns the session length in hours. A non-positive
// difference means the session crosses midnight and gets 24h added.
func SessionDuration(start, end ClockTime) float64 {
	diff := float64(end.minutes()-start.minutes()) / 60
	if diff <= 0 {
		diff += 24
	}
	return diff
}

// SessionDurationHours computes the duration between two "HH:MM" strings.
func SessionDurationHours(start, end string) (float64, error) {
	st, err := ParseClock(start)
	if err != nil {
		return 0, err
	}
	et, err := ParseClock(end)
	if err != nil {
		return 0, err
	}
	return SessionDuration(st, et), nil
}

// FormatClock converts a 24-hour "HH:MM" string to its 12-hour display form.
func FormatClock(s string) (string, error) {
	t, err := ParseClock(s)
	if err != nil {
		return "", err
	}
	return t.Format12h(), nil
}
