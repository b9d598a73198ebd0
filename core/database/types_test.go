package database_test

import (
	"testing"
	"time"

	"clinic-desk/core/database"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDate_Scan(t *testing.T) {
	var d database.Date

	require.NoError(t, d.Scan(time.Date(2026, 2, 11, 0, 0, 0, 0, time.Local)))
	assert.Equal(t, database.Date("2026-02-11"), d)

	require.NoError(t, d.Scan("2026-02-12 00:00:00"))
	assert.Equal(t, database.Date("2026-02-12"), d)

	require.NoError(t, d.Scan([]byte("2026-02-13")))
	assert.Equal(t, database.Date("2026-02-13"), d)

	require.NoError(t, d.Scan(nil))
	assert.Equal(t, database.Date(""), d)

	assert.Error(t, d.Scan(42))
}

func TestDate_Value(t *testing.T) {
	v, err := database.Date("").Value()
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = database.Date("2026-02-11").Value()
	require.NoError(t, err)
	assert.Equal(t, "2026-02-11", v)
}
