package ledger

import (
	"fmt"
	"strings"
	"time"
)

// DateParts are denormalized fields stored with every transaction so that
// read-side bucketing never has to parse dates.
type DateParts struct {
	Year      int
	Month     int
	Day       int
	Week      int
	YearMonth string
}

// ExtractDateParts derives the partition fields from the calendar date of t in
// its own location. Week counts Sunday-started weeks, with the week containing
// January 1st numbered 1.
func ExtractDateParts(t time.Time) DateParts {
	year, month, day := t.Date()
	jan1 := time.Date(year, time.January, 1, 0, 0, 0, 0, t.Location())
	offset := int(jan1.Weekday())

	return DateParts{
		Year:      year,
		Month:     int(month),
		Day:       day,
		Week:      (t.YearDay()-1+offset)/7 + 1,
		YearMonth: fmt.Sprintf("%04d-%02d", year, int(month)),
	}
}

var dateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
	time.RFC3339Nano,
}

// ParseDate parses a transaction's effective date. Plain dates are taken as
// midnight UTC; timestamps keep their offset so the calendar day the user saw
// is the one partitioned on.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, fmt.Errorf("date is required")
	}

	for _, layout := range dateLayouts {
		parsed, err := time.Parse(layout, value)
		if err == nil {
			return parsed, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}
