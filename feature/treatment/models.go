package treatment

import (
	"errors"
	"time"

	"clinic-desk/core/database"
)

// ErrEmptyUpdate is returned when an update carries no fields.
var ErrEmptyUpdate = errors.New("update has no fields")

// Record is one row of the treatment log.
type Record struct {
	Seq         int64         `json:"seq"`
	PCode       int64         `json:"pcode"`
	VisitDate   database.Date `json:"visidate" swaggertype:"string" example:"2026-02-11"`
	VisitTime   *time.Time    `json:"visitime,omitempty"`
	PName       string        `json:"pname"`
	PBirth      database.Date `json:"pbirth" swaggertype:"string" example:"1990-05-20"`
	Age         string        `json:"age"`
	PhoneNum    string        `json:"phonenum"`
	Sex         string        `json:"sex"`
	Serial      int           `json:"serial"`
	N           int           `json:"n"`
	Gubun       string        `json:"gubun"`
	Reserved    string        `json:"reserved"`
	Fin         string        `json:"fin"`
	Temperature string        `json:"temperatur"`
}

// Update lists the fields to change. Nil fields are left alone.
type Update struct {
	VisitTime   *time.Time `json:"visitime,omitempty"`
	PName       *string    `json:"pname,omitempty"`
	PBirth      *string    `json:"pbirth,omitempty"`
	Age         *string    `json:"age,omitempty"`
	PhoneNum    *string    `json:"phonenum,omitempty"`
	Sex         *string    `json:"sex,omitempty"`
	Gubun       *string    `json:"gubun,omitempty"`
	Reserved    *string    `json:"reserved,omitempty"`
	Fin         *string    `json:"fin,omitempty"`
	Temperature *string    `json:"temperatur,omitempty"`
}

// row mirrors the table layout.
type row struct {
	Seq        int64         `gorm:"column:seq;primaryKey;autoIncrement"`
	PCode      int64         `gorm:"column:pcode"`
	VisitDate  database.Date `gorm:"column:visidate"`
	VisitTime  *time.Time    `gorm:"column:visitime"`
	PName      *string       `gorm:"column:pname"`
	PBirth     database.Date `gorm:"column:pbirth"`
	Age        *string       `gorm:"column:age"`
	PhoneNum   *string       `gorm:"column:phonenum"`
	Sex        *string       `gorm:"column:sex"`
	Serial     *int          `gorm:"column:serial"`
	N          *int          `gorm:"column:n"`
	Gubun      *string       `gorm:"column:gubun"`
	Reserved   *string       `gorm:"column:reserved"`
	Fin        *string       `gorm:"column:fin"`
	Temperatur *string       `gorm:"column:temperatur"`
}

func newRow(r *Record) row {
	return row{
		PCode:      r.PCode,
		VisitDate:  r.VisitDate,
		VisitTime:  r.VisitTime,
		PName:      &r.PName,
		PBirth:     r.PBirth,
		Age:        &r.Age,
		PhoneNum:   &r.PhoneNum,
		Sex:        &r.Sex,
		Serial:     &r.Serial,
		N:          &r.N,
		Gubun:      &r.Gubun,
		Reserved:   &r.Reserved,
		Fin:        &r.Fin,
		Temperatur: &r.Temperature,
	}
}

func (r row) record() Record {
	return Record{
		Seq:         r.Seq,
		PCode:       r.PCode,
		VisitDate:   r.VisitDate,
		VisitTime:   r.VisitTime,
		PName:       str(r.PName),
		PBirth:      r.PBirth,
		Age:         str(r.Age),
		PhoneNum:    str(r.PhoneNum),
		Sex:         str(r.Sex),
		Serial:      num(r.Serial),
		N:           num(r.N),
		Gubun:       str(r.Gubun),
		Reserved:    str(r.Reserved),
		Fin:         str(r.Fin),
		Temperature: str(r.Temperatur),
	}
}

func str(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func num(n *int) int {
	if n == nil {
		return 0
	}
	return *n
}
