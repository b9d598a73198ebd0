package waitlist

import (
	"clinic-desk/core/charset"
	"clinic-desk/core/database"
)

// Entry is one patient on the waiting list for a visit date.
type Entry struct {
	PCode      int64         `json:"pcode"`
	VisitDate  database.Date `json:"visidate" swaggertype:"string" example:"2026-02-11"`
	ResID1     string        `json:"resid1"`
	ResID2     string        `json:"resid2"`
	GoodDoc    string        `json:"goodoc"`
	RoomCode   string        `json:"roomcode"`
	RoomName   string        `json:"roomnm"`
	DeptCode   string        `json:"deptcode"`
	DeptName   string        `json:"deptnm"`
	DoctorCode string        `json:"doctrcode"`
	DoctorName string        `json:"doctrnm"`
	Alarm      string        `json:"d_alarm"`
	PSN        string        `json:"psn"`

	// DisplayName is the patient name joined from the person store.
	DisplayName string `json:"displayname"`
}

// Assignment is the room/department/doctor triple given to a new entry.
type Assignment struct {
	RoomCode   string
	RoomName   string
	DeptCode   string
	DeptName   string
	DoctorCode string
	DoctorName string
}

// row mirrors the table layout. Opaque name columns arrive as raw bytes.
type row struct {
	PCode     int64         `gorm:"column:pcode"`
	VisitDate database.Date `gorm:"column:visidate"`
	ResID1    *string       `gorm:"column:resid1"`
	ResID2    *string       `gorm:"column:resid2"`
	GoodDoc   *string       `gorm:"column:goodoc"`
	RoomCode  *string       `gorm:"column:roomcode"`
	RoomNM    []byte        `gorm:"column:roomnm"`
	DeptCode  *string       `gorm:"column:deptcode"`
	DeptNM    []byte        `gorm:"column:deptnm"`
	DoctrCode *string       `gorm:"column:doctrcode"`
	DoctrNM   []byte        `gorm:"column:doctrnm"`
	DAlarm    *string       `gorm:"column:d_alarm"`
	PSN       *string       `gorm:"column:psn"`
}

func (r row) entry() Entry {
	return Entry{
		PCode:      r.PCode,
		VisitDate:  r.VisitDate,
		ResID1:     deref(r.ResID1),
		ResID2:     deref(r.ResID2),
		GoodDoc:    deref(r.GoodDoc),
		RoomCode:   deref(r.RoomCode),
		RoomName:   charset.Decode(r.RoomNM),
		DeptCode:   deref(r.DeptCode),
		DeptName:   charset.Decode(r.DeptNM),
		DoctorCode: deref(r.DoctrCode),
		DoctorName: charset.Decode(r.DoctrNM),
		Alarm:      deref(r.DAlarm),
		PSN:        deref(r.PSN),
	}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
