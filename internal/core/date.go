package core

import (
	"fmt"
	"time"
)

// DateFormat is the ISO-8601 day format used everywhere a date crosses a
// boundary: persisted records, the wire payload, and CSV files.
const DateFormat = "2006-01-02"

// Date is a calendar day with no time-of-day component.
type Date struct {
	time.Time
}

// NewDate creates a Date from year, one-based month, and day.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// DateOf truncates an instant to its calendar day.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), t.Month(), t.Day())
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateFormat, s)
	if err != nil {
		return Date{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	return d.Format(DateFormat)
}

// Equal reports whether two dates are the same calendar day.
func (d Date) Equal(x Date) bool {
	return d.Time.Equal(x.Time)
}

func (d Date) MarshalJSON() ([]byte, error) {
	return []byte(`"` + d.String() + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := string(data)
	if len(s) < 2 || s[0] != '"' || s[len(s)-1] != '"' {
		return fmt.Errorf("date is not a string: %s", s)
	}
	parsed, err := ParseDate(s[1 : len(s)-1])
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// PeriodKey identifies one calendar month's budget configuration as a
// YYYY-MM string.
type PeriodKey string

// PeriodOf builds a PeriodKey from a year and a zero-based month. Overflow
// and underflow roll the year: month -1 becomes December of year-1, month 12
// becomes January of year+1.
func PeriodOf(year, month0 int) PeriodKey {
	for month0 < 0 {
		month0 += 12
		year--
	}
	for month0 > 11 {
		month0 -= 12
		year++
	}
	return PeriodKey(fmt.Sprintf("%04d-%02d", year, month0+1))
}

// CurrentPeriod returns the period of the real-world calendar month of now.
func CurrentPeriod(now time.Time) PeriodKey {
	return PeriodOf(now.Year(), int(now.Month())-1)
}

// PeriodOfDate returns the period the given day falls in.
func PeriodOfDate(d Date) PeriodKey {
	return PeriodOf(d.Year(), int(d.Month())-1)
}

func (p PeriodKey) String() string { return string(p) }

// Parse splits the key back into a year and zero-based month.
func (p PeriodKey) Parse() (year, month0 int, err error) {
	var month1 int
	if _, err := fmt.Sscanf(string(p), "%4d-%2d", &year, &month1); err != nil {
		return 0, 0, fmt.Errorf("parse period %q: %w", p, err)
	}
	if month1 < 1 || month1 > 12 {
		return 0, 0, fmt.Errorf("parse period %q: month out of range", p)
	}
	return year, month1 - 1, nil
}

// Contains reports whether the day falls within this calendar month.
func (p PeriodKey) Contains(d Date) bool {
	return PeriodOfDate(d) == p
}

// Shift returns the period n months away, rolling years as needed.
func (p PeriodKey) Shift(n int) PeriodKey {
	year, month0, err := p.Parse()
	if err != nil {
		return p
	}
	return PeriodOf(year, month0+n)
}
