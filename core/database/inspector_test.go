package database_test

import (
	"testing"

	"clinic-desk/core/database"
	"clinic-desk/core/database/dbtest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetTableColumns(t *testing.T) {
	db := dbtest.Open(t, "inspect")
	dbtest.CreateWaitTable(t, db, "WAIT2026")

	columns, err := database.GetTableColumns(db, "WAIT2026")
	require.NoError(t, err)
	assert.Len(t, columns, 13)

	colMap := make(map[string]string)
	for _, col := range columns {
		colMap[col.Field] = col.Type
	}
	assert.Equal(t, "blob", colMap["roomnm"])
	assert.Equal(t, "date", colMap["visidate"])

	// PRAGMA table_info returns an empty result for a missing table.
	cols, err := database.GetTableColumns(db, "WAIT1999")
	assert.NoError(t, err)
	assert.Empty(t, cols)
}

func TestMissingColumns(t *testing.T) {
	db := dbtest.Open(t, "inspect")
	dbtest.CreateWaitTable(t, db, "WAIT2026")

	missing, err := database.MissingColumns(db, "WAIT2026", []string{"pcode", "VISIDATE", "nurse"})
	require.NoError(t, err)
	assert.Equal(t, []string{"nurse"}, missing)

	missing, err = database.MissingColumns(db, "WAIT1999", []string{"pcode"})
	require.NoError(t, err)
	assert.Equal(t, []string{"pcode"}, missing)
}
