package database

import (
	"errors"
	"fmt"
	"strings"

	mysqldriver "github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

var (
	// ErrNotFound reports a missing person, wait entry or treatment record.
	ErrNotFound = errors.New("record not found")
	// ErrDuplicateKey reports a uniqueness violation on insert.
	ErrDuplicateKey = errors.New("duplicate key")
)

// MySQLDuplicateEntry is the server error number for a unique key violation.
const MySQLDuplicateEntry = 1062

// StoreError carries enough context to diagnose a failed store operation
// without re-running the statement.
type StoreError struct {
	Op    string
	Store StoreName
	Table string
	Key   string
	Err   error
}

// Error implements error.
func (e *StoreError) Error() string {
	var b strings.Builder
	b.WriteString(e.Op)
	b.WriteString(" on ")
	b.WriteString(string(e.Store))
	if e.Table != "" {
		b.WriteString("/")
		b.WriteString(e.Table)
	}
	if e.Key != "" {
		b.WriteString(" [")
		b.WriteString(e.Key)
		b.WriteString("]")
	}
	b.WriteString(": ")
	b.WriteString(e.Err.Error())
	return b.String()
}

// Unwrap exposes the classified cause.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// Wrap classifies err and attaches operation context. It returns nil for nil.
// An error that already names its table is returned unchanged.
func Wrap(op string, store StoreName, table, key string, err error) error {
	if err == nil {
		return nil
	}
	var se *StoreError
	if errors.As(err, &se) {
		if se.Table != "" || table == "" {
			return err
		}
		// Replace the generic store context with the caller's.
		err = se.Err
	}
	return &StoreError{Op: op, Store: store, Table: table, Key: key, Err: Classify(err)}
}

// NotFound builds a StoreError for a missing row.
func NotFound(op string, store StoreName, table, key string) error {
	return &StoreError{Op: op, Store: store, Table: table, Key: key, Err: ErrNotFound}
}

// Classify maps driver errors onto ErrNotFound and ErrDuplicateKey while
// keeping the original error in the chain.
func Classify(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrDuplicateKey):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case IsDuplicate(err):
		return fmt.Errorf("%w: %w", ErrDuplicateKey, err)
	default:
		return err
	}
}

// IsDuplicate reports whether err is a unique key violation from any supported driver.
func IsDuplicate(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysqldriver.MySQLError
	if errors.As(err, &me) && me.Number == MySQLDuplicateEntry {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "Duplicate entry")
}
