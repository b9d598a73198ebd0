package database_test

import (
	"errors"
	"fmt"
	"testing"

	"clinic-desk/core/database"

	mysqldriver "github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"MySQL duplicate", &mysqldriver.MySQLError{Number: 1062, Message: "Duplicate entry '1-2026-02-11' for key 'PRIMARY'"}, database.ErrDuplicateKey},
		{"GORM duplicate", gorm.ErrDuplicatedKey, database.ErrDuplicateKey},
		{"SQLite duplicate", errors.New("UNIQUE constraint failed: WAIT2026.pcode, WAIT2026.visidate"), database.ErrDuplicateKey},
		{"Record not found", gorm.ErrRecordNotFound, database.ErrNotFound},
		{"Wrapped not found", fmt.Errorf("lookup: %w", gorm.ErrRecordNotFound), database.ErrNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := database.Classify(tt.err)
			assert.ErrorIs(t, got, tt.want)
			// The driver error stays in the chain.
			assert.ErrorIs(t, got, tt.err)
		})
	}

	other := errors.New("connection refused")
	assert.Equal(t, other, database.Classify(other))
	assert.NoError(t, database.Classify(nil))
}

func TestWrap(t *testing.T) {
	err := database.Wrap("insert wait entry", database.Waitlist, "WAIT2026", "pcode=1 visidate=2026-02-11", gorm.ErrDuplicatedKey)
	assert.ErrorIs(t, err, database.ErrDuplicateKey)
	assert.Equal(t,
		"insert wait entry on waitlist/WAIT2026 [pcode=1 visidate=2026-02-11]: duplicate key: duplicated key not allowed",
		err.Error())

	// Already wrapped errors keep their original context.
	again := database.Wrap("outer", database.Person, "", "", err)
	assert.Equal(t, err, again)

	assert.NoError(t, database.Wrap("noop", database.Person, "", "", nil))
}

func TestNotFound(t *testing.T) {
	err := database.NotFound("get person", database.Person, "PERSON", "pcode=9")
	assert.ErrorIs(t, err, database.ErrNotFound)
	assert.Contains(t, err.Error(), "pcode=9")
}
