package shard

import (
	"errors"
	"fmt"
	"strconv"
	"time"
)

// ErrInvalidDate is returned when a date carries fewer than four digits.
var ErrInvalidDate = errors.New("date must contain at least a four digit year")

const (
	// PersonTable is the reference table in the person store.
	PersonTable = "PERSON"
	// CounterTable is the single-row table holding the last allocated person codes.
	CounterTable = "LAST"
)

// Kind identifies a year-sharded entity.
type Kind int

const (
	// WaitList is the daily waiting list kept in the waitlist store.
	WaitList Kind = iota
	// TreatmentLog is the treatment log kept in the treatment store.
	TreatmentLog
)

// Prefix returns the table name prefix for the kind.
func (k Kind) Prefix() string {
	switch k {
	case WaitList:
		return "WAIT"
	case TreatmentLog:
		return "MTR"
	default:
		return ""
	}
}

// String implements fmt.Stringer.
func (k Kind) String() string {
	switch k {
	case WaitList:
		return "waitlist"
	case TreatmentLog:
		return "treatment"
	default:
		return "kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Table is a resolved physical table for one kind and year.
type Table struct {
	Kind Kind
	Year string
}

// Name returns the physical table name, e.g. WAIT2026.
func (t Table) Name() string {
	return t.Kind.Prefix() + t.Year
}

// String implements fmt.Stringer.
func (t Table) String() string {
	return t.Name()
}

// Counterpart returns the table of the same year in the other store.
func (t Table) Counterpart() Table {
	other := TreatmentLog
	if t.Kind == TreatmentLog {
		other = WaitList
	}
	return Table{Kind: other, Year: t.Year}
}

// Resolve maps a date in any accepted textual form onto the table of the given kind.
func Resolve(kind Kind, date string) (Table, error) {
	year, err := Year(date)
	if err != nil {
		return Table{}, err
	}
	return Table{Kind: kind, Year: year}, nil
}

// MustResolve is like Resolve but panics on malformed input.
// It is intended for constants and tests.
func MustResolve(kind Kind, date string) Table {
	t, err := Resolve(kind, date)
	if err != nil {
		panic(err)
	}
	return t
}

// ResolveTime maps a time value onto the table of the given kind.
func ResolveTime(kind Kind, t time.Time) Table {
	return Table{Kind: kind, Year: fmt.Sprintf("%04d", t.Year())}
}

// Year extracts the four digit year from a date string.
func Year(date string) (string, error) {
	digits := Digits(date)
	if len(digits) < 4 {
		return "", fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	return digits[:4], nil
}

// Digits returns s with every non-digit removed.
func Digits(s string) string {
	out := make([]rune, 0, len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			out = append(out, r)
		}
	}
	return string(out)
}
