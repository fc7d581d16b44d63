package formmap

import (
	"fmt"
	"time"
)

// DateParts is a calendar date decomposed for separate PDF targets.
// The year is Buddhist era (Gregorian + 543), four digits.
type DateParts struct {
	Day   string
	Month string
	Year  string
}

// BuddhistDateParts decomposes a date into the parts the regulator forms
// expect: 2025-10-11 becomes {Day: "11", Month: "10", Year: "2568"}.
func BuddhistDateParts(t time.Time) DateParts {
	return DateParts{
		Day:   fmt.Sprintf("%d", t.Day()),
		Month: fmt.Sprintf("%d", int(t.Month())),
		Year:  fmt.Sprintf("%d", t.Year()+543),
	}
}
