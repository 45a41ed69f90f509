package attendance

import (
	"fmt"
	"math"
	"strconv"
)

// DefaultCriteria is the pass threshold used when a schedule has none
// configured. The recommendation texts quote whichever threshold was used.
const DefaultCriteria float64 = 75

const (
	StatusNoData     = "No attendance data available"
	StatusEarnBunks  = "Attend more classes to have the option to bunk later"
	statusAttendFmt  = "Attend %d more %s to reach %s%%"
	statusBunkFmt    = "You can bunk %d %s and still maintain %s%%"
)

// Status is the evaluated standing of one subject against a threshold.
type Status struct {
	Percent  float64
	Required int // additional fully-attended classes needed to reach the threshold
	Bunkable int // classes that may be missed while staying at or above it
	Text     string
}

// Evaluate derives percentage and recommendation from a ledger entry.
// The required/bunkable figures assume each future class contributes
// exactly 1 hour; real session durations vary.
func Evaluate(entry *Entry, threshold float64) Status {
	if entry == nil || entry.Total == 0 {
		return Status{Text: StatusNoData}
	}

	frac := threshold / 100
	pct := entry.Percent()
	thresholdStr := strconv.FormatFloat(threshold, 'f', -1, 64)

	if pct < threshold {
		required := int(math.Ceil((frac*entry.Total - entry.Present) / frac))
		return Status{
			Percent:  pct,
			Required: required,
			Text:     fmt.Sprintf(statusAttendFmt, required, pluralClass(required), thresholdStr),
		}
	}

	bunkable := int(math.Floor(entry.Present - frac*entry.Total))
	if bunkable > 0 {
		return Status{
			Percent:  pct,
			Bunkable: bunkable,
			Text:     fmt.Sprintf(statusBunkFmt, bunkable, pluralClass(bunkable), thresholdStr),
		}
	}
	return Status{Percent: pct, Text: StatusEarnBunks}
}

func pluralClass(n int) string {
	if n > 1 {
		return "classes"
	}
	return "class"
}
