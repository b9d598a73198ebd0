// Package dbtest provides in-memory SQLite stores shaped like the clinic
// databases for use in tests.
package dbtest

import (
	"fmt"
	"strings"
	"sync/atomic"
	"testing"

	"clinic-desk/core/charset"
	"clinic-desk/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

var seq atomic.Int64

// Open creates a private in-memory SQLite database with a single pooled
// connection, so concurrent callers queue on the pool like they would on a
// small production pool.
func Open(t testing.TB, name string) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", sanitize(t.Name()+"_"+name), seq.Add(1))
	db, err := database.Connect(database.DriverSQLite, database.StoreConfig{Name: dsn, PoolSize: 1, TimeoutSeconds: 5})
	if err != nil {
		t.Fatalf("failed to open test database %s: %v", name, err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// Mock opens a gorm handle over go-sqlmock with the MySQL dialector, for
// tests that pin the exact statement text sent to the server.
func Mock(t testing.TB) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{TranslateError: true})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}
	return gormDB, mock
}

// Stores creates three independent in-memory stores with the person schema
// in place. Yearly tables are created with CreateWaitTable and CreateTreatmentTable.
func Stores(t testing.TB) *database.StoreSet {
	t.Helper()
	person := Open(t, "person")
	CreatePersonTables(t, person)
	return database.NewStoreSet(person, Open(t, "waitlist"), Open(t, "treatment"))
}

// CreatePersonTables creates PERSON and the LAST counter row.
func CreatePersonTables(t testing.TB, db *gorm.DB) {
	t.Helper()
	mustExec(t, db, `CREATE TABLE PERSON (
		pcode INTEGER PRIMARY KEY,
		fcode INTEGER,
		pname BLOB,
		pbirth DATE,
		pidnum VARCHAR(13),
		pidnum2 VARCHAR(13),
		oldidnum VARCHAR(20),
		sex BLOB,
		relation VARCHAR(10),
		relation2 BLOB,
		crippled VARCHAR(1),
		vinform DATE,
		agree VARCHAR(1),
		lastcheck DATE,
		perinfo VARCHAR(1),
		cardcheck DATE,
		jaehan VARCHAR(1),
		searchid VARCHAR(20),
		pccheck VARCHAR(1),
		psnidt DATE,
		psnid VARCHAR(20),
		memo1 BLOB,
		memo2 BLOB
	)`)
	mustExec(t, db, "CREATE TABLE `LAST` (pcode INTEGER, fcode INTEGER)")
	mustExec(t, db, "INSERT INTO `LAST` (pcode, fcode) VALUES (0, 0)")
}

// CreateWaitTable creates a yearly waiting-list table.
func CreateWaitTable(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	mustExec(t, db, fmt.Sprintf(`CREATE TABLE %s (
		pcode INTEGER NOT NULL,
		visidate DATE NOT NULL,
		resid1 VARCHAR(14),
		resid2 VARCHAR(10),
		goodoc VARCHAR(10),
		roomcode VARCHAR(10),
		roomnm BLOB,
		deptcode VARCHAR(10),
		deptnm BLOB,
		doctrcode VARCHAR(10),
		doctrnm BLOB,
		d_alarm VARCHAR(1),
		psn VARCHAR(20),
		PRIMARY KEY (pcode, visidate)
	)`, table))
}

// CreateTreatmentTable creates a yearly treatment-log table.
func CreateTreatmentTable(t testing.TB, db *gorm.DB, table string) {
	t.Helper()
	mustExec(t, db, fmt.Sprintf(`CREATE TABLE %s (
		seq INTEGER PRIMARY KEY AUTOINCREMENT,
		pcode INTEGER NOT NULL,
		visidate DATE NOT NULL,
		visitime DATETIME,
		pname VARCHAR(40),
		pbirth DATE,
		age VARCHAR(20),
		phonenum VARCHAR(20),
		sex VARCHAR(2),
		serial INTEGER,
		n INTEGER,
		gubun VARCHAR(10),
		reserved VARCHAR(1),
		fin VARCHAR(1),
		temperatur VARCHAR(5)
	)`, table))
}

// SeedPerson inserts a minimal PERSON row with opaque columns encoded inline.
func SeedPerson(t testing.TB, db *gorm.DB, pcode int64, name, birth, sex string) {
	t.Helper()
	stmt, args := database.NewAssignments(charset.EntityPerson).
		Bind("pcode", pcode).
		Bind("fcode", pcode).
		Text("pname", name).
		Bind("pbirth", database.Date(birth)).
		Text("sex", sex).
		Insert("PERSON")
	if err := db.Exec(stmt, args...).Error; err != nil {
		t.Fatalf("failed to seed person %d: %v", pcode, err)
	}
}

func mustExec(t testing.TB, db *gorm.DB, statement string) {
	t.Helper()
	if err := db.Exec(statement).Error; err != nil {
		t.Fatalf("failed to exec %q: %v", statement, err)
	}
}

func sanitize(s string) string {
	return strings.Map(func(r rune) rune {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' {
			return r
		}
		return '_'
	}, s)
}
