package person

import (
	"fmt"
	"time"

	"clinic-desk/core/visitid"
)

// Age renders the whole-month age between birth and today as "<y>y <m>m".
// An empty or unreadable birth date gives "".
func Age(birth string, today time.Time) string {
	if birth == "" {
		return ""
	}
	b, err := visitid.Parse(birth)
	if err != nil {
		return ""
	}

	by, bm, bd := b.Date()
	ty, tm, td := today.Date()
	months := (ty-by)*12 + int(tm-bm)
	if td < bd {
		months--
	}
	if months < 0 {
		months = 0
	}
	return fmt.Sprintf("%dy %dm", months/12, months%12)
}
