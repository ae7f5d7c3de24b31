package tracks

import (
	"fmt"
	"time"
)

// DateLayout is the bet date format
const DateLayout = "2006-01-02"

// Today returns the bet date string for now
func Today(now time.Time) string {
	return now.Format(DateLayout)
}

// ParseDate validates a YYYY-MM-DD bet date
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid bet date %q: %w", s, err)
	}
	return t, nil
}
