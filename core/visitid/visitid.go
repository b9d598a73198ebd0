package visitid

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// ErrInvalidVisitDate is returned for dates that are not a valid calendar day.
var ErrInvalidVisitDate = errors.New("invalid visit date")

const (
	// DateLayout is the canonical date identifier layout.
	DateLayout  = "2006-01-02"
	fieldLayout = "2006-1-2"
)

// IDs is the identifier pair generated for a waiting-list entry.
type IDs struct {
	// Timestamp is YYYYMMDDHHMMSS (RESID1).
	Timestamp string `json:"resid1"`
	// Date is YYYY-MM-DD (RESID2).
	Date string `json:"resid2"`
}

// Clock supplies the current wall-clock time.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the system time in a fixed location.
type SystemClock struct {
	Location *time.Location
}

// Now implements Clock.
func (c SystemClock) Now() time.Time {
	if c.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Location)
}

// FixedClock always returns the same instant.
type FixedClock time.Time

// Now implements Clock.
func (c FixedClock) Now() time.Time {
	return time.Time(c)
}

// Parse reads a visit date. Accepted forms are compact (20260211), separated
// with or without zero padding (2026-02-11, 2026.2.11) and either of those
// followed by a time of day (2026-02-11T09:00:00, 20260211 0930). The time
// part is ignored.
func Parse(date string) (time.Time, error) {
	fields := strings.FieldsFunc(date, func(r rune) bool { return r < '0' || r > '9' })

	var y, m, d string
	switch {
	case len(fields) > 0 && len(fields[0]) == 8:
		y, m, d = fields[0][:4], fields[0][4:6], fields[0][6:]
	case len(fields) >= 3 && len(fields[0]) == 4 && len(fields[1]) <= 2 && len(fields[2]) <= 2:
		y, m, d = fields[0], fields[1], fields[2]
	default:
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidVisitDate, date)
	}

	t, err := time.Parse(fieldLayout, y+"-"+m+"-"+d)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q", ErrInvalidVisitDate, date)
	}
	return t, nil
}

// Canonical normalizes a visit date to YYYY-MM-DD.
func Canonical(date string) (string, error) {
	t, err := Parse(date)
	if err != nil {
		return "", err
	}
	return t.Format(DateLayout), nil
}

// Generate builds the identifier pair for a textual visit date.
func Generate(visitDate string, now time.Time) (IDs, error) {
	visit, err := Parse(visitDate)
	if err != nil {
		return IDs{}, err
	}
	return FromTime(visit, now), nil
}

// FromTime builds the identifier pair for a visit date value.
func FromTime(visit, now time.Time) IDs {
	y, m, d := visit.Date()
	return IDs{
		Timestamp: fmt.Sprintf("%04d%02d%02d%02d%02d%02d", y, int(m), d, now.Hour(), now.Minute(), now.Second()),
		Date:      fmt.Sprintf("%04d-%02d-%02d", y, int(m), d),
	}
}
