package person

import (
	"context"
	"fmt"
	"strings"

	"clinic-desk/core/charset"
	"clinic-desk/core/database"
	"clinic-desk/core/shard"
	"clinic-desk/core/visitid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	selectColumns = "pcode, fcode, pname, pbirth, pidnum, pidnum2, oldidnum, sex, relation, relation2, crippled, vinform, agree, lastcheck, perinfo, cardcheck, jaehan, searchid, pccheck, psnidt, psnid, memo1, memo2"

	// maxNameLength is the width of the PNAME column in characters.
	maxNameLength = 40
)

// Repository accesses the person store.
type Repository struct {
	stores *database.StoreSet
}

// NewRepository creates a repository over the person store of stores.
func NewRepository(stores *database.StoreSet) *Repository {
	return &Repository{stores: stores}
}

func pcodeKey(pcode int64) string {
	return fmt.Sprintf("pcode=%d", pcode)
}

func (r *Repository) query(ctx context.Context, op, key, where string, params ...any) ([]Person, error) {
	statement := fmt.Sprintf("SELECT %s FROM %s", selectColumns, shard.PersonTable)
	if where != "" {
		statement += " WHERE " + where
	}
	statement += " ORDER BY pcode"

	var rows []row
	if err := r.stores.Query(ctx, database.Person, &rows, statement, params...); err != nil {
		return nil, database.Wrap(op, database.Person, shard.PersonTable, key, err)
	}
	out := make([]Person, 0, len(rows))
	for _, rw := range rows {
		out = append(out, rw.person())
	}
	return out, nil
}

// Get returns one person.
func (r *Repository) Get(ctx context.Context, pcode int64) (*Person, error) {
	people, err := r.query(ctx, "get person", pcodeKey(pcode), "pcode = ?", pcode)
	if err != nil {
		return nil, err
	}
	if len(people) == 0 {
		return nil, database.NotFound("get person", database.Person, shard.PersonTable, pcodeKey(pcode))
	}
	return &people[0], nil
}

// Snapshot returns the fields of a person copied into the treatment log.
func (r *Repository) Snapshot(ctx context.Context, pcode int64) (*Snapshot, error) {
	var rows []struct {
		PCode  int64         `gorm:"column:pcode"`
		PName  []byte        `gorm:"column:pname"`
		PBirth database.Date `gorm:"column:pbirth"`
		Sex    []byte        `gorm:"column:sex"`
	}
	statement := fmt.Sprintf("SELECT pcode, pname, pbirth, sex FROM %s WHERE pcode = ?", shard.PersonTable)
	if err := r.stores.Query(ctx, database.Person, &rows, statement, pcode); err != nil {
		return nil, database.Wrap("read person", database.Person, shard.PersonTable, pcodeKey(pcode), err)
	}
	if len(rows) == 0 {
		return nil, database.NotFound("read person", database.Person, shard.PersonTable, pcodeKey(pcode))
	}
	return &Snapshot{
		PCode: rows[0].PCode,
		Name:  charset.Decode(rows[0].PName),
		Birth: rows[0].PBirth,
		Sex:   charset.Decode(rows[0].Sex),
	}, nil
}

// Names returns the decoded names of the given persons keyed by pcode.
// Unknown codes are absent from the result.
func (r *Repository) Names(ctx context.Context, pcodes []int64) (map[int64]string, error) {
	names := make(map[int64]string, len(pcodes))
	if len(pcodes) == 0 {
		return names, nil
	}

	var rows []struct {
		PCode int64  `gorm:"column:pcode"`
		PName []byte `gorm:"column:pname"`
	}
	statement := fmt.Sprintf("SELECT pcode, pname FROM %s WHERE pcode IN ?", shard.PersonTable)
	if err := r.stores.Query(ctx, database.Person, &rows, statement, pcodes); err != nil {
		return nil, database.Wrap("read person names", database.Person, shard.PersonTable, "", err)
	}
	for _, rw := range rows {
		names[rw.PCode] = charset.Decode(rw.PName)
	}
	return names, nil
}

// List returns one page of persons ordered by pcode.
func (r *Repository) List(ctx context.Context, page, limit int) (*Page, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 10
	}

	var total int64
	countStatement := fmt.Sprintf("SELECT COUNT(*) FROM %s", shard.PersonTable)
	if err := r.stores.Query(ctx, database.Person, &total, countStatement); err != nil {
		return nil, database.Wrap("count persons", database.Person, shard.PersonTable, "", err)
	}

	statement := fmt.Sprintf("SELECT %s FROM %s ORDER BY pcode LIMIT ? OFFSET ?", selectColumns, shard.PersonTable)
	var rows []row
	if err := r.stores.Query(ctx, database.Person, &rows, statement, limit, (page-1)*limit); err != nil {
		return nil, database.Wrap("list persons", database.Person, shard.PersonTable, "", err)
	}
	data := make([]Person, 0, len(rows))
	for _, rw := range rows {
		data = append(data, rw.person())
	}

	totalPages := int((total + int64(limit) - 1) / int64(limit))
	return &Page{
		Data: data,
		Pagination: Pagination{
			Total:           total,
			CurrentPage:     page,
			ItemsPerPage:    limit,
			TotalPages:      totalPages,
			HasNextPage:     int64(page*limit) < total,
			HasPreviousPage: page > 1,
		},
	}, nil
}

// Search finds persons whose name contains name and/or whose birth date is
// birthdate. The name is matched on its encoded octets. With neither
// criterion the result is empty.
func (r *Repository) Search(ctx context.Context, name, birthdate string) ([]Person, error) {
	var conditions []string
	var params []any

	if needle := normalizeName(name); needle != "" {
		conditions = append(conditions, fmt.Sprintf("INSTR(pname, %s) > 0", charset.LiteralText(needle)))
	}
	if birthdate != "" {
		day, err := visitid.Canonical(birthdate)
		if err != nil {
			return nil, err
		}
		conditions = append(conditions, "pbirth = ?")
		params = append(params, day)
	}
	if len(conditions) == 0 {
		return []Person{}, nil
	}
	return r.query(ctx, "search persons", "", strings.Join(conditions, " AND "), params...)
}

// normalizeName trims, upper-cases and truncates a search term to the column width.
func normalizeName(name string) string {
	runes := []rune(strings.ToUpper(strings.TrimSpace(name)))
	if len(runes) > maxNameLength {
		runes = runes[:maxNameLength]
	}
	return string(runes)
}

// BySearchID returns the persons registered under a search id.
func (r *Repository) BySearchID(ctx context.Context, searchID string) ([]Person, error) {
	return r.query(ctx, "get person by search id", "searchid="+searchID, "searchid = ?", searchID)
}

// LastCodes reads the counter row without locking it.
func (r *Repository) LastCodes(ctx context.Context) (*Codes, error) {
	db, err := r.stores.DB(ctx, database.Person)
	if err != nil {
		return nil, err
	}
	var codes Codes
	if err := db.Table(shard.CounterTable).Select("pcode", "fcode").Take(&codes).Error; err != nil {
		return nil, database.Wrap("read person counter", database.Person, shard.CounterTable, "", err)
	}
	return &codes, nil
}

// Create allocates the next person and family codes and inserts p.
// The counter row is locked from the read until the insert commits, so
// concurrent creates never receive the same code.
func (r *Repository) Create(ctx context.Context, p *Person) (*Person, error) {
	db, err := r.stores.DB(ctx, database.Person)
	if err != nil {
		return nil, err
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		var codes Codes
		if err := tx.Table(shard.CounterTable).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("pcode", "fcode").
			Take(&codes).Error; err != nil {
			return database.Wrap("lock person counter", database.Person, shard.CounterTable, "", err)
		}

		codes.PCode++
		codes.FCode++
		if err := tx.Exec(fmt.Sprintf("UPDATE `%s` SET pcode = ?, fcode = ?", shard.CounterTable), codes.PCode, codes.FCode).Error; err != nil {
			return database.Wrap("advance person counter", database.Person, shard.CounterTable, "", err)
		}

		p.PCode = codes.PCode
		p.FCode = codes.FCode
		statement, args := insertAssignments(p).Insert(shard.PersonTable)
		if err := tx.Exec(statement, args...).Error; err != nil {
			return database.Wrap("insert person", database.Person, shard.PersonTable, pcodeKey(p.PCode), err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return p, nil
}

func insertAssignments(p *Person) *database.Assignments {
	return database.NewAssignments(charset.EntityPerson).
		Bind("pcode", p.PCode).
		Bind("fcode", p.FCode).
		Text("pname", p.Name).
		Bind("pbirth", p.Birth).
		Bind("pidnum", p.IDNum).
		Bind("pidnum2", p.IDNum2).
		Bind("oldidnum", p.OldIDNum).
		Text("sex", p.Sex).
		Bind("relation", p.Relation).
		Text("relation2", p.Relation2).
		Bind("crippled", p.Crippled).
		Bind("vinform", p.VInform).
		Bind("agree", p.Agree).
		Bind("lastcheck", p.LastCheck).
		Bind("perinfo", p.PerInfo).
		Bind("cardcheck", p.CardCheck).
		Bind("jaehan", p.Jaehan).
		Bind("searchid", p.SearchID).
		Bind("pccheck", p.PCCheck).
		Bind("psnidt", p.PSNIDT).
		Bind("psnid", p.PSNID).
		Text("memo1", p.Memo1).
		Text("memo2", p.Memo2)
}

// Update changes the given fields of a person and returns the stored row.
func (r *Repository) Update(ctx context.Context, pcode int64, u Update) (*Person, error) {
	if _, err := r.Get(ctx, pcode); err != nil {
		return nil, err
	}

	a := updateAssignments(u)
	if a.Len() == 0 {
		return r.Get(ctx, pcode)
	}

	statement, args := a.Update(shard.PersonTable, "pcode = ?", pcode)
	if _, err := r.stores.Exec(ctx, database.Person, statement, args...); err != nil {
		return nil, database.Wrap("update person", database.Person, shard.PersonTable, pcodeKey(pcode), err)
	}
	return r.Get(ctx, pcode)
}

func updateAssignments(u Update) *database.Assignments {
	a := database.NewAssignments(charset.EntityPerson)
	text := func(column string, v *string) {
		if v != nil {
			a.Text(column, strings.TrimSpace(*v))
		}
	}
	bind := func(column string, v *string) {
		if v == nil {
			return
		}
		if *v == "" {
			a.Bind(column, nil)
			return
		}
		a.Bind(column, *v)
	}

	text("pname", u.Name)
	bind("pbirth", u.Birth)
	bind("pidnum", u.IDNum)
	bind("pidnum2", u.IDNum2)
	bind("oldidnum", u.OldIDNum)
	text("sex", u.Sex)
	bind("relation", u.Relation)
	text("relation2", u.Relation2)
	bind("crippled", u.Crippled)
	bind("vinform", u.VInform)
	bind("agree", u.Agree)
	bind("lastcheck", u.LastCheck)
	bind("perinfo", u.PerInfo)
	bind("cardcheck", u.CardCheck)
	bind("jaehan", u.Jaehan)
	bind("searchid", u.SearchID)
	bind("pccheck", u.PCCheck)
	bind("psnidt", u.PSNIDT)
	bind("psnid", u.PSNID)
	text("memo1", u.Memo1)
	text("memo2", u.Memo2)
	return a
}

// Delete removes a person. It returns ErrNotFound when no row matched.
func (r *Repository) Delete(ctx context.Context, pcode int64) error {
	statement := fmt.Sprintf("DELETE FROM %s WHERE pcode = ?", shard.PersonTable)
	n, err := r.stores.Exec(ctx, database.Person, statement, pcode)
	if err != nil {
		return database.Wrap("delete person", database.Person, shard.PersonTable, pcodeKey(pcode), err)
	}
	if n == 0 {
		return database.NotFound("delete person", database.Person, shard.PersonTable, pcodeKey(pcode))
	}
	return nil
}
