package database_test

import (
	"testing"

	"clinic-desk/core/charset"
	"clinic-desk/core/database"

	"github.com/stretchr/testify/assert"
)

func TestAssignments_Insert(t *testing.T) {
	stmt, args := database.NewAssignments(charset.EntityWaitEntry).
		Bind("pcode", 1).
		Bind("visidate", "2026-02-11").
		Raw("roomcode", "'1'").
		Text("roomnm", "가").
		Text("resid2", "2026-02-11").
		Insert("WAIT2026")

	assert.Equal(t,
		"INSERT INTO WAIT2026 (pcode, visidate, roomcode, roomnm, resid2) VALUES (?, ?, '1', X'B0A1', ?)",
		stmt)
	assert.Equal(t, []any{1, "2026-02-11", "2026-02-11"}, args)
}

func TestAssignments_Update(t *testing.T) {
	a := database.NewAssignments(charset.EntityPerson).
		Text("pname", "가").
		Text("memo1", "").
		Bind("searchid", "abc")
	assert.Equal(t, 3, a.Len())

	stmt, args := a.Update("PERSON", "pcode = ?", 7)
	assert.Equal(t, "UPDATE PERSON SET pname = X'B0A1', memo1 = NULL, searchid = ? WHERE pcode = ?", stmt)
	assert.Equal(t, []any{"abc", 7}, args)
}
