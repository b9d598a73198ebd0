package person

import (
	"clinic-desk/core/charset"
	"clinic-desk/core/database"
)

// Person is a patient in the reference table.
type Person struct {
	PCode     int64         `json:"pcode"`
	FCode     int64         `json:"fcode"`
	Name      string        `json:"pname"`
	Birth     database.Date `json:"pbirth" swaggertype:"string" example:"1990-05-20"`
	IDNum     string        `json:"pidnum"`
	IDNum2    string        `json:"pidnum2"`
	OldIDNum  string        `json:"oldidnum"`
	Sex       string        `json:"sex"`
	Relation  string        `json:"relation"`
	Relation2 string        `json:"relation2"`
	Crippled  string        `json:"crippled"`
	VInform   database.Date `json:"vinform" swaggertype:"string"`
	Agree     string        `json:"agree"`
	LastCheck database.Date `json:"lastcheck" swaggertype:"string"`
	PerInfo   string        `json:"perinfo"`
	CardCheck database.Date `json:"cardcheck" swaggertype:"string"`
	Jaehan    string        `json:"jaehan"`
	SearchID  string        `json:"searchid"`
	PCCheck   string        `json:"pccheck"`
	PSNIDT    database.Date `json:"psnidt" swaggertype:"string"`
	PSNID     string        `json:"psnid"`
	Memo1     string        `json:"memo1"`
	Memo2     string        `json:"memo2"`
}

// Update lists the fields to change. Nil fields are left alone; an empty
// encoded field is cleared to NULL.
type Update struct {
	Name      *string `json:"pname,omitempty"`
	Birth     *string `json:"pbirth,omitempty"`
	IDNum     *string `json:"pidnum,omitempty"`
	IDNum2    *string `json:"pidnum2,omitempty"`
	OldIDNum  *string `json:"oldidnum,omitempty"`
	Sex       *string `json:"sex,omitempty"`
	Relation  *string `json:"relation,omitempty"`
	Relation2 *string `json:"relation2,omitempty"`
	Crippled  *string `json:"crippled,omitempty"`
	VInform   *string `json:"vinform,omitempty"`
	Agree     *string `json:"agree,omitempty"`
	LastCheck *string `json:"lastcheck,omitempty"`
	PerInfo   *string `json:"perinfo,omitempty"`
	CardCheck *string `json:"cardcheck,omitempty"`
	Jaehan    *string `json:"jaehan,omitempty"`
	SearchID  *string `json:"searchid,omitempty"`
	PCCheck   *string `json:"pccheck,omitempty"`
	PSNIDT    *string `json:"psnidt,omitempty"`
	PSNID     *string `json:"psnid,omitempty"`
	Memo1     *string `json:"memo1,omitempty"`
	Memo2     *string `json:"memo2,omitempty"`
}

// text maps the free-text columns onto the person's values.
func (p *Person) text() map[string]*string {
	return map[string]*string{
		"pname":     &p.Name,
		"pidnum":    &p.IDNum,
		"pidnum2":   &p.IDNum2,
		"oldidnum":  &p.OldIDNum,
		"sex":       &p.Sex,
		"relation":  &p.Relation,
		"relation2": &p.Relation2,
		"crippled":  &p.Crippled,
		"agree":     &p.Agree,
		"perinfo":   &p.PerInfo,
		"jaehan":    &p.Jaehan,
		"searchid":  &p.SearchID,
		"pccheck":   &p.PCCheck,
		"psnid":     &p.PSNID,
		"memo1":     &p.Memo1,
		"memo2":     &p.Memo2,
	}
}

// text maps the free-text columns onto the values the update sets. Unset
// fields map to nil.
func (u Update) text() map[string]*string {
	return map[string]*string{
		"pname":     u.Name,
		"pidnum":    u.IDNum,
		"pidnum2":   u.IDNum2,
		"oldidnum":  u.OldIDNum,
		"sex":       u.Sex,
		"relation":  u.Relation,
		"relation2": u.Relation2,
		"crippled":  u.Crippled,
		"agree":     u.Agree,
		"perinfo":   u.PerInfo,
		"jaehan":    u.Jaehan,
		"searchid":  u.SearchID,
		"pccheck":   u.PCCheck,
		"psnid":     u.PSNID,
		"memo1":     u.Memo1,
		"memo2":     u.Memo2,
	}
}

// Pagination describes one page of a list.
type Pagination struct {
	Total           int64 `json:"total"`
	CurrentPage     int   `json:"currentPage"`
	ItemsPerPage    int   `json:"itemsPerPage"`
	TotalPages      int   `json:"totalPages"`
	HasNextPage     bool  `json:"hasNextPage"`
	HasPreviousPage bool  `json:"hasPreviousPage"`
}

// Page is a list result with its pagination.
type Page struct {
	Data       []Person   `json:"data"`
	Pagination Pagination `json:"pagination"`
}

// Codes are the last allocated person and family codes.
type Codes struct {
	PCode int64 `json:"pcode" gorm:"column:pcode"`
	FCode int64 `json:"fcode" gorm:"column:fcode"`
}

// Snapshot is the subset of a person copied into other stores.
type Snapshot struct {
	PCode int64
	Name  string
	Birth database.Date
	Sex   string
}

type row struct {
	PCode     int64         `gorm:"column:pcode"`
	FCode     *int64        `gorm:"column:fcode"`
	PName     []byte        `gorm:"column:pname"`
	PBirth    database.Date `gorm:"column:pbirth"`
	PIDNum    *string       `gorm:"column:pidnum"`
	PIDNum2   *string       `gorm:"column:pidnum2"`
	OldIDNum  *string       `gorm:"column:oldidnum"`
	Sex       []byte        `gorm:"column:sex"`
	Relation  *string       `gorm:"column:relation"`
	Relation2 []byte        `gorm:"column:relation2"`
	Crippled  *string       `gorm:"column:crippled"`
	VInform   database.Date `gorm:"column:vinform"`
	Agree     *string       `gorm:"column:agree"`
	LastCheck database.Date `gorm:"column:lastcheck"`
	PerInfo   *string       `gorm:"column:perinfo"`
	CardCheck database.Date `gorm:"column:cardcheck"`
	Jaehan    *string       `gorm:"column:jaehan"`
	SearchID  *string       `gorm:"column:searchid"`
	PCCheck   *string       `gorm:"column:pccheck"`
	PSNIDT    database.Date `gorm:"column:psnidt"`
	PSNID     *string       `gorm:"column:psnid"`
	Memo1     []byte        `gorm:"column:memo1"`
	Memo2     []byte        `gorm:"column:memo2"`
}

func (r row) person() Person {
	p := Person{
		PCode:     r.PCode,
		Name:      charset.Decode(r.PName),
		Birth:     r.PBirth,
		IDNum:     str(r.PIDNum),
		IDNum2:    str(r.PIDNum2),
		OldIDNum:  str(r.OldIDNum),
		Sex:       charset.Decode(r.Sex),
		Relation:  str(r.Relation),
		Relation2: charset.Decode(r.Relation2),
		Crippled:  str(r.Crippled),
		VInform:   r.VInform,
		Agree:     str(r.Agree),
		LastCheck: r.LastCheck,
		PerInfo:   str(r.PerInfo),
		CardCheck: r.CardCheck,
		Jaehan:    str(r.Jaehan),
		SearchID:  str(r.SearchID),
		PCCheck:   str(r.PCCheck),
		PSNIDT:    r.PSNIDT,
		PSNID:     str(r.PSNID),
		Memo1:     charset.Decode(r.Memo1),
		Memo2:     charset.Decode(r.Memo2),
	}
	if r.FCode != nil {
		p.FCode = *r.FCode
	}
	return p
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
