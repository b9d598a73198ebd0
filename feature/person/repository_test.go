package person_test

import (
	"context"
	"regexp"
	"sync"
	"testing"

	"clinic-desk/core/database"
	"clinic-desk/core/database/dbtest"
	"clinic-desk/feature/person"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupRepo(t *testing.T) (*person.Repository, *database.StoreSet) {
	stores := dbtest.Stores(t)
	return person.NewRepository(stores), stores
}

func TestRepository_CreateAllocatesCodes(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	first, err := repo.Create(ctx, &person.Person{Name: "홍길동", Birth: "1990-05-20", Sex: "남", Memo1: "알레르기"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), first.PCode)
	assert.Equal(t, int64(1), first.FCode)

	second, err := repo.Create(ctx, &person.Person{Name: "김영희"})
	require.NoError(t, err)
	assert.Equal(t, int64(2), second.PCode)

	codes, err := repo.LastCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(2), codes.PCode)
	assert.Equal(t, int64(2), codes.FCode)

	got, err := repo.Get(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", got.Name)
	assert.Equal(t, "남", got.Sex)
	assert.Equal(t, "알레르기", got.Memo1)
	assert.Empty(t, got.Memo2)
	assert.Equal(t, database.Date("1990-05-20"), got.Birth)
}

func TestRepository_ConcurrentCreateUniqueCodes(t *testing.T) {
	ctx := context.Background()
	repo, _ := setupRepo(t)

	const workers = 8
	var wg sync.WaitGroup
	codes := make(chan int64, workers)
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			p, err := repo.Create(ctx, &person.Person{Name: "환자"})
			if err != nil {
				errs <- err
				return
			}
			codes <- p.PCode
		}()
	}
	wg.Wait()
	close(codes)
	close(errs)

	for err := range errs {
		t.Fatalf("create failed: %v", err)
	}
	seen := make(map[int64]bool)
	for c := range codes {
		assert.False(t, seen[c], "pcode %d allocated twice", c)
		seen[c] = true
	}
	assert.Len(t, seen, workers)

	last, err := repo.LastCodes(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(workers), last.PCode)
}

func TestRepository_Search(t *testing.T) {
	ctx := context.Background()
	repo, stores := setupRepo(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")
	dbtest.SeedPerson(t, stores.Person(), 2, "김길동", "1985-01-02", "남")
	dbtest.SeedPerson(t, stores.Person(), 3, "이영희", "1990-05-20", "여")

	byName, err := repo.Search(ctx, "  길동 ", "")
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, int64(1), byName[0].PCode)
	assert.Equal(t, int64(2), byName[1].PCode)

	byBirth, err := repo.Search(ctx, "", "19900520")
	require.NoError(t, err)
	assert.Len(t, byBirth, 2)

	both, err := repo.Search(ctx, "영희", "1990-05-20")
	require.NoError(t, err)
	require.Len(t, both, 1)
	assert.Equal(t, "이영희", both[0].Name)

	none, err := repo.Search(ctx, "", "")
	require.NoError(t, err)
	assert.Empty(t, none)

	_, err = repo.Search(ctx, "", "1990")
	assert.Error(t, err)
}

func TestRepository_ListPagination(t *testing.T) {
	ctx := context.Background()
	repo, stores := setupRepo(t)
	for i := int64(1); i <= 5; i++ {
		dbtest.SeedPerson(t, stores.Person(), i, "환자", "2000-01-01", "여")
	}

	page, err := repo.List(ctx, 2, 2)
	require.NoError(t, err)
	require.Len(t, page.Data, 2)
	assert.Equal(t, int64(3), page.Data[0].PCode)
	assert.Equal(t, int64(5), page.Pagination.Total)
	assert.Equal(t, 3, page.Pagination.TotalPages)
	assert.True(t, page.Pagination.HasNextPage)
	assert.True(t, page.Pagination.HasPreviousPage)

	last, err := repo.List(ctx, 3, 2)
	require.NoError(t, err)
	assert.Len(t, last.Data, 1)
	assert.False(t, last.Pagination.HasNextPage)
}

func TestRepository_Names(t *testing.T) {
	ctx := context.Background()
	repo, stores := setupRepo(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")
	dbtest.SeedPerson(t, stores.Person(), 2, "이영희", "1990-05-20", "여")

	names, err := repo.Names(ctx, []int64{1, 2, 99})
	require.NoError(t, err)
	assert.Equal(t, map[int64]string{1: "홍길동", 2: "이영희"}, names)

	empty, err := repo.Names(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestRepository_Snapshot(t *testing.T) {
	ctx := context.Background()
	repo, stores := setupRepo(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")

	snap, err := repo.Snapshot(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "홍길동", snap.Name)
	assert.Equal(t, "남", snap.Sex)
	assert.Equal(t, database.Date("1990-05-20"), snap.Birth)

	_, err = repo.Snapshot(ctx, 2)
	assert.ErrorIs(t, err, database.ErrNotFound)
}

func TestRepository_UpdateAndDelete(t *testing.T) {
	ctx := context.Background()
	repo, stores := setupRepo(t)
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")

	name, memo, searchID := "홍길순", "", "HGS01"
	updated, err := repo.Update(ctx, 1, person.Update{Name: &name, Memo1: &memo, SearchID: &searchID})
	require.NoError(t, err)
	assert.Equal(t, "홍길순", updated.Name)
	assert.Equal(t, "HGS01", updated.SearchID)
	assert.Empty(t, updated.Memo1)

	found, err := repo.BySearchID(ctx, "HGS01")
	require.NoError(t, err)
	assert.Len(t, found, 1)

	_, err = repo.Update(ctx, 9, person.Update{Name: &name})
	assert.ErrorIs(t, err, database.ErrNotFound)

	require.NoError(t, repo.Delete(ctx, 1))
	assert.ErrorIs(t, repo.Delete(ctx, 1), database.ErrNotFound)
}

func TestRepository_CreateStatements(t *testing.T) {
	db, mock := dbtest.Mock(t)
	repo := person.NewRepository(database.NewStoreSet(db, nil, nil))

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT `pcode`,`fcode` FROM `LAST` LIMIT .* FOR UPDATE").
		WillReturnRows(sqlmock.NewRows([]string{"pcode", "fcode"}).AddRow(41, 40))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE `LAST` SET pcode = ?, fcode = ?")).
		WithArgs(int64(42), int64(41)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO PERSON (pcode, fcode, pname, pbirth")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	p, err := repo.Create(context.Background(), &person.Person{Name: "가"})
	require.NoError(t, err)
	assert.Equal(t, int64(42), p.PCode)
	assert.Equal(t, int64(41), p.FCode)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_SearchStatement(t *testing.T) {
	db, mock := dbtest.Mock(t)
	repo := person.NewRepository(database.NewStoreSet(db, nil, nil))

	// The name is matched on its EUC-KR octets through an inline literal.
	mock.ExpectQuery(regexp.QuoteMeta("FROM PERSON WHERE INSTR(pname, X'B1E6B5BF') > 0 ORDER BY pcode")).
		WillReturnRows(sqlmock.NewRows([]string{"pcode", "pname"}).AddRow(1, []byte{0xC8, 0xAB, 0xB1, 0xE6, 0xB5, 0xBF}))

	people, err := repo.Search(context.Background(), "길동", "")
	require.NoError(t, err)
	require.Len(t, people, 1)
	assert.Equal(t, "홍길동", people[0].Name)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRepository_CreateCollidesWithExistingCode(t *testing.T) {
	repo, stores := setupRepo(t)
	// A row inserted behind the counter's back.
	dbtest.SeedPerson(t, stores.Person(), 1, "홍길동", "1990-05-20", "남")

	_, err := repo.Create(context.Background(), &person.Person{Name: "김영희"})
	assert.ErrorIs(t, err, database.ErrDuplicateKey)

	// The failed transaction leaves the counter untouched.
	codes, err := repo.LastCodes(context.Background())
	require.NoError(t, err)
	assert.Zero(t, codes.PCode)
}
