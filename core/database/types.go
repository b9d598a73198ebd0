package database

import (
	"database/sql/driver"
	"fmt"
	"time"
)

// DateLayout is the layout of Date values.
const DateLayout = "2006-01-02"

// Date is a calendar day kept in canonical YYYY-MM-DD form.
// It is bound as text so DATE columns compare the same way on every driver.
// The zero value maps to NULL.
type Date string

// NewDate formats t as a Date.
func NewDate(t time.Time) Date {
	return Date(t.Format(DateLayout))
}

// Time parses the date. The zero Date yields the zero time.
func (d Date) Time() (time.Time, error) {
	if d == "" {
		return time.Time{}, nil
	}
	return time.Parse(DateLayout, string(d))
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// Scan implements sql.Scanner.
func (d *Date) Scan(value any) error {
	switch v := value.(type) {
	case nil:
		*d = ""
	case time.Time:
		if v.IsZero() {
			*d = ""
			return nil
		}
		*d = NewDate(v)
	case string:
		*d = normalizeDate(v)
	case []byte:
		*d = normalizeDate(string(v))
	default:
		return fmt.Errorf("cannot scan %T into Date", value)
	}
	return nil
}

// Value implements driver.Valuer.
func (d Date) Value() (driver.Value, error) {
	if d == "" {
		return nil, nil
	}
	return string(d), nil
}

func normalizeDate(s string) Date {
	if len(s) >= len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	return Date(s)
}
