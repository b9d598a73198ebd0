package frontdesk

import (
	"time"
	_ "time/tzdata"

	"clinic-desk/feature/waitlist"
)

// Config holds the front-desk defaults applied to new check-ins.
type Config struct {
	// RoomCode is the default consultation room code.
	RoomCode string `mapstructure:"room_code" default:"1"`
	// RoomName is the default consultation room name.
	RoomName string `mapstructure:"room_name" default:"제1진료실"`
	// DeptCode is the default department code.
	DeptCode string `mapstructure:"dept_code" default:"14"`
	// DeptName is the default department name.
	DeptName string `mapstructure:"dept_name" default:"가정의학과"`
	// DoctorCode is the default doctor code.
	DoctorCode string `mapstructure:"doctor_code" default:"63221"`
	// DoctorName is the default doctor name.
	DoctorName string `mapstructure:"doctor_name" default:"한유석"`
	// Category is the treatment category (gubun) written on new records.
	Category string `mapstructure:"category" default:"요양"`
	// Timezone is the clinic's local time zone used for identifiers.
	Timezone string `mapstructure:"timezone" default:"Asia/Seoul"`
}

// DefaultConfig returns the configuration used when nothing is overridden.
func DefaultConfig() Config {
	return Config{
		RoomCode:   "1",
		RoomName:   "제1진료실",
		DeptCode:   "14",
		DeptName:   "가정의학과",
		DoctorCode: "63221",
		DoctorName: "한유석",
		Category:   "요양",
		Timezone:   "Asia/Seoul",
	}
}

// Assignment returns the default room/department/doctor triple.
func (c Config) Assignment() waitlist.Assignment {
	return waitlist.Assignment{
		RoomCode:   c.RoomCode,
		RoomName:   c.RoomName,
		DeptCode:   c.DeptCode,
		DeptName:   c.DeptName,
		DoctorCode: c.DoctorCode,
		DoctorName: c.DoctorName,
	}
}

// Location loads the configured time zone, falling back to the local zone.
func (c Config) Location() *time.Location {
	if c.Timezone == "" {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}
