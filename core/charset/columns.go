package charset

import (
	"sort"
	"strings"
)

// Mode tells how a column's text is carried across the driver boundary.
type Mode int

const (
	// Transparent columns declare a charset and are transcoded by the server.
	Transparent Mode = iota
	// Opaque columns hold raw EUC-KR octets and need the explicit codec.
	Opaque
)

// String implements fmt.Stringer.
func (m Mode) String() string {
	if m == Opaque {
		return "opaque"
	}
	return "transparent"
}

// Entity names a table family whose columns are listed in the mode table.
type Entity string

const (
	EntityPerson    Entity = "person"
	EntityWaitEntry Entity = "waitlist"
	EntityTreatment Entity = "treatment"
)

type column struct {
	entity Entity
	name   string
}

// columnModes lists every legacy text column. Unlisted columns are transparent.
var columnModes = map[column]Mode{
	{EntityPerson, "pname"}:     Opaque,
	{EntityPerson, "relation2"}: Opaque,
	{EntityPerson, "memo1"}:     Opaque,
	{EntityPerson, "memo2"}:     Opaque,
	{EntityPerson, "sex"}:       Opaque,

	{EntityWaitEntry, "roomnm"}:  Opaque,
	{EntityWaitEntry, "deptnm"}:  Opaque,
	{EntityWaitEntry, "doctrnm"}: Opaque,

	{EntityTreatment, "pname"}:    Transparent,
	{EntityTreatment, "sex"}:      Transparent,
	{EntityTreatment, "gubun"}:    Transparent,
	{EntityTreatment, "age"}:      Transparent,
	{EntityTreatment, "phonenum"}: Transparent,
}

// ModeOf returns the encoding mode of a column. Column names are case-insensitive.
func ModeOf(entity Entity, name string) Mode {
	if m, ok := columnModes[column{entity, strings.ToLower(name)}]; ok {
		return m
	}
	return Transparent
}

// OpaqueColumns returns the opaque columns of an entity in name order.
func OpaqueColumns(entity Entity) []string {
	var out []string
	for c, m := range columnModes {
		if c.entity == entity && m == Opaque {
			out = append(out, c.name)
		}
	}
	sort.Strings(out)
	return out
}

// Value prepares a value for the given column. Opaque columns get their inline
// literal and ok=true, meaning the caller must splice the result into the
// statement text instead of binding it.
func Value(entity Entity, name, text string) (literal string, ok bool) {
	if ModeOf(entity, name) != Opaque {
		return "", false
	}
	if text == "" {
		return "NULL", true
	}
	return LiteralText(text), true
}
