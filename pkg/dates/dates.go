package dates

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// Layout is the wire and storage format for calendar dates.
const Layout = "2006-01-02"

// Date is a calendar date without a time component, held as "YYYY-MM-DD".
// The zero value "" means "no date". ISO dates in this form compare
// chronologically under plain string comparison.
type Date string

// Parse validates s as a calendar date.
func Parse(s string) (Date, error) {
	if _, err := time.Parse(Layout, s); err != nil {
		return "", fmt.Errorf("invalid date %q: %w", s, err)
	}
	return Date(s), nil
}

// FromTime truncates t to its calendar date.
func FromTime(t time.Time) Date {
	return Date(t.Format(Layout))
}

// Today returns the current calendar date.
func Today() Date {
	return FromTime(time.Now())
}

// Time returns the date at midnight UTC. Zero dates return the zero time.
func (d Date) Time() time.Time {
	if d == "" {
		return time.Time{}
	}
	t, _ := time.Parse(Layout, string(d))
	return t
}

// IsZero reports whether d carries no date.
func (d Date) IsZero() bool { return d == "" }

func (d Date) Before(other Date) bool { return d < other }
func (d Date) After(other Date) bool  { return d > other }

// AddMonths advances the date by n calendar months using native date
// normalization: day-of-month overflow spills into the following month
// (2024-01-31 + 1 month = 2024-03-02), mirroring how the payment schedule
// has always rolled over.
func (d Date) AddMonths(n int) Date {
	return FromTime(d.Time().AddDate(0, n, 0))
}

// YearMonth returns the calendar bucket a date belongs to.
func (d Date) YearMonth() (year int, month int) {
	t := d.Time()
	return t.Year(), int(t.Month())
}

// Scan implements sql.Scanner so a nullable TEXT column maps onto the zero
// Date.
func (d *Date) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*d = ""
	case string:
		*d = Date(v)
	case []byte:
		*d = Date(v)
	case time.Time:
		*d = FromTime(v)
	default:
		return fmt.Errorf("cannot scan %T into dates.Date", src)
	}
	return nil
}

// Value implements driver.Valuer; zero dates are stored as NULL.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}
