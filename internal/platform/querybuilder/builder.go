// Package querybuilder renders the small subset of SQL the repositories
// need: plain SELECTs with AND-ed conditions, INSERT with an optional
// ON CONFLICT suffix, UPDATE, and DELETE. Placeholders are numbered in
// lib/pq style.
package querybuilder

import (
	"fmt"
	"strconv"
	"strings"
)

// sqlWriter accumulates the statement text and its bind arguments.
// arg() hands back the placeholder for the value it just registered,
// so condition and clause renderers never track indexes themselves.
type sqlWriter struct {
	sql  strings.Builder
	args []any
}

func (w *sqlWriter) write(s string) {
	w.sql.WriteString(s)
}

func (w *sqlWriter) arg(v any) string {
	w.args = append(w.args, v)
	return "$" + strconv.Itoa(len(w.args))
}

// Condition is one boolean term of a WHERE clause.
type Condition struct {
	render func(w *sqlWriter)
}

func Eq(column string, value any) Condition {
	return Condition{render: func(w *sqlWriter) {
		w.write(column)
		w.write(" = ")
		w.write(w.arg(value))
	}}
}

// In renders an IN list. An empty list renders a never-true term so a
// query over zero keys returns zero rows instead of failing.
func In(column string, values []any) Condition {
	return Condition{render: func(w *sqlWriter) {
		if len(values) == 0 {
			w.write("1=0")
			return
		}
		w.write(column)
		w.write(" IN (")
		for i, v := range values {
			if i > 0 {
				w.write(", ")
			}
			w.write(w.arg(v))
		}
		w.write(")")
	}}
}

func IsNull(column string) Condition {
	return Condition{render: func(w *sqlWriter) {
		w.write(column)
		w.write(" IS NULL")
	}}
}

func (w *sqlWriter) writeWhere(conditions []Condition) {
	for i, c := range conditions {
		if i == 0 {
			w.write(" WHERE ")
		} else {
			w.write(" AND ")
		}
		c.render(w)
	}
}

// writeRaw appends a caller-supplied fragment, renumbering any `?`
// placeholders against the fragment's own argument list.
func (w *sqlWriter) writeRaw(fragment string, fragmentArgs []any) {
	if len(fragmentArgs) == 0 {
		w.write(fragment)
		return
	}

	next := 0
	for _, r := range fragment {
		if r == '?' && next < len(fragmentArgs) {
			w.write(w.arg(fragmentArgs[next]))
			next++
			continue
		}
		w.sql.WriteRune(r)
	}
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	groupBy []string
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (b *SelectBuilder) From(table string) *SelectBuilder {
	b.table = table
	return b
}

func (b *SelectBuilder) Where(conditions ...Condition) *SelectBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *SelectBuilder) GroupBy(parts ...string) *SelectBuilder {
	b.groupBy = append(b.groupBy, parts...)
	return b
}

func (b *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	b.orderBy = append(b.orderBy, parts...)
	return b
}

func (b *SelectBuilder) Limit(limit int) *SelectBuilder {
	b.limit = limit
	return b
}

func (b *SelectBuilder) ToSQL() (string, []any, error) {
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("select needs columns")
	}
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("select needs a table")
	}

	w := &sqlWriter{}
	w.write("SELECT ")
	w.write(strings.Join(b.columns, ", "))
	w.write(" FROM ")
	w.write(b.table)
	w.writeWhere(b.where)
	if len(b.groupBy) > 0 {
		w.write(" GROUP BY ")
		w.write(strings.Join(b.groupBy, ", "))
	}
	if len(b.orderBy) > 0 {
		w.write(" ORDER BY ")
		w.write(strings.Join(b.orderBy, ", "))
	}
	if b.limit > 0 {
		w.write(" LIMIT ")
		w.write(strconv.Itoa(b.limit))
	}

	return w.sql.String(), w.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	rows    [][]any
	suffix  string
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (b *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	b.columns = append([]string(nil), columns...)
	return b
}

func (b *InsertBuilder) Values(values ...any) *InsertBuilder {
	b.rows = append(b.rows, append([]any(nil), values...))
	return b
}

// Suffix appends raw SQL after the VALUES list, typically an ON CONFLICT
// clause.
func (b *InsertBuilder) Suffix(sql string) *InsertBuilder {
	b.suffix = strings.TrimSpace(sql)
	return b
}

func (b *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("insert needs a table")
	}
	if len(b.columns) == 0 {
		return "", nil, fmt.Errorf("insert needs columns")
	}
	if len(b.rows) == 0 {
		return "", nil, fmt.Errorf("insert needs values")
	}

	w := &sqlWriter{}
	w.write("INSERT INTO ")
	w.write(b.table)
	w.write(" (")
	w.write(strings.Join(b.columns, ", "))
	w.write(") VALUES ")

	for rowIdx, row := range b.rows {
		if len(row) != len(b.columns) {
			return "", nil, fmt.Errorf("insert row %d has %d values for %d columns", rowIdx, len(row), len(b.columns))
		}
		if rowIdx > 0 {
			w.write(", ")
		}
		w.write("(")
		for colIdx, value := range row {
			if colIdx > 0 {
				w.write(", ")
			}
			w.write(w.arg(value))
		}
		w.write(")")
	}

	if b.suffix != "" {
		w.write(" ")
		w.writeRaw(b.suffix, nil)
	}

	return w.sql.String(), w.args, nil
}

type assignment struct {
	column string
	value  any
	// rawExpr, when non-empty, is rendered verbatim (with its own args)
	// instead of binding value.
	rawExpr  string
	exprArgs []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (b *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, value: value})
	return b
}

func (b *UpdateBuilder) SetExpr(column, expr string, args ...any) *UpdateBuilder {
	b.sets = append(b.sets, assignment{column: column, rawExpr: expr, exprArgs: args})
	return b
}

func (b *UpdateBuilder) Where(conditions ...Condition) *UpdateBuilder {
	b.where = append(b.where, conditions...)
	return b
}

func (b *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("update needs a table")
	}
	if len(b.sets) == 0 {
		return "", nil, fmt.Errorf("update needs assignments")
	}

	w := &sqlWriter{}
	w.write("UPDATE ")
	w.write(b.table)
	w.write(" SET ")
	for i, s := range b.sets {
		if i > 0 {
			w.write(", ")
		}
		w.write(s.column)
		w.write(" = ")
		if s.rawExpr != "" {
			w.writeRaw(s.rawExpr, s.exprArgs)
		} else {
			w.write(w.arg(s.value))
		}
	}
	w.writeWhere(b.where)

	return w.sql.String(), w.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (b *DeleteBuilder) Where(conditions ...Condition) *DeleteBuilder {
	b.where = append(b.where, conditions...)
	return b
}

// ToSQL refuses an unconditional DELETE; a full-table wipe is never what
// a repository means.
func (b *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(b.table) == "" {
		return "", nil, fmt.Errorf("delete needs a table")
	}
	if len(b.where) == 0 {
		return "", nil, fmt.Errorf("delete needs conditions")
	}

	w := &sqlWriter{}
	w.write("DELETE FROM ")
	w.write(b.table)
	w.writeWhere(b.where)

	return w.sql.String(), w.args, nil
}
