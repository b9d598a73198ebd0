package frontdesk

import (
	"errors"
	"fmt"
)

var (
	// ErrPartialCreate reports a check-in whose wait entry was written but
	// whose treatment record was not.
	ErrPartialCreate = errors.New("partial check-in")
	// ErrCascadeFailure marks a secondary delete that failed after the
	// primary delete succeeded. It is logged, never returned.
	ErrCascadeFailure = errors.New("cascade delete failed")
)

// PartialCreateError describes a check-in left half-written. The wait entry
// stays in place and must be reconciled by an operator.
type PartialCreateError struct {
	PCode          int64
	VisitDate      string
	WaitTable      string
	TreatmentTable string
	Err            error
}

// Error implements error.
func (e *PartialCreateError) Error() string {
	return fmt.Sprintf("%s: pcode=%d visidate=%s written to %s but not %s: %v",
		ErrPartialCreate, e.PCode, e.VisitDate, e.WaitTable, e.TreatmentTable, e.Err)
}

// Unwrap exposes both ErrPartialCreate and the treatment store failure.
func (e *PartialCreateError) Unwrap() []error {
	return []error{ErrPartialCreate, e.Err}
}
