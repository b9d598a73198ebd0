package database

import (
	"strings"

	"clinic-desk/core/charset"
)

// Assignments collects column values for an INSERT or UPDATE where some values
// are bound parameters and others are spliced into the statement text.
type Assignments struct {
	entity  charset.Entity
	columns []string
	exprs   []string
	args    []any
}

// NewAssignments starts an assignment list for columns of the given entity.
func NewAssignments(entity charset.Entity) *Assignments {
	return &Assignments{entity: entity}
}

// Bind adds a bound parameter.
func (a *Assignments) Bind(column string, value any) *Assignments {
	a.columns = append(a.columns, column)
	a.exprs = append(a.exprs, "?")
	a.args = append(a.args, value)
	return a
}

// Raw adds a literal SQL expression. The expression must not contain placeholders.
func (a *Assignments) Raw(column, expr string) *Assignments {
	a.columns = append(a.columns, column)
	a.exprs = append(a.exprs, expr)
	return a
}

// Text adds a text value, inlining it as a byte literal when the column is opaque.
func (a *Assignments) Text(column, value string) *Assignments {
	if lit, ok := charset.Value(a.entity, column, value); ok {
		return a.Raw(column, lit)
	}
	return a.Bind(column, value)
}

// Len returns the number of assigned columns.
func (a *Assignments) Len() int {
	return len(a.columns)
}

// Insert renders an INSERT statement for table.
func (a *Assignments) Insert(table string) (string, []any) {
	var b strings.Builder
	b.WriteString("INSERT INTO ")
	b.WriteString(table)
	b.WriteString(" (")
	b.WriteString(strings.Join(a.columns, ", "))
	b.WriteString(") VALUES (")
	b.WriteString(strings.Join(a.exprs, ", "))
	b.WriteString(")")
	return b.String(), append([]any(nil), a.args...)
}

// Update renders an UPDATE statement for table with the given WHERE clause.
func (a *Assignments) Update(table, where string, whereArgs ...any) (string, []any) {
	sets := make([]string, len(a.columns))
	for i, c := range a.columns {
		sets[i] = c + " = " + a.exprs[i]
	}
	statement := "UPDATE " + table + " SET " + strings.Join(sets, ", ") + " WHERE " + where
	args := append(append([]any(nil), a.args...), whereArgs...)
	return statement, args
}

func lowerKeys(m map[string]any) map[string]any {
	out := make(map[string]any, len(m))
	for k, v := range m {
		out[strings.ToLower(k)] = v
	}
	return out
}
