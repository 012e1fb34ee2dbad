package querybuilder

import (
	"fmt"
	"reflect"
	"strings"
)

// InsertModel builds an INSERT from a struct's `db` tags, in field order.
// Fields without a tag (or tagged "-") are skipped, which is how insert
// models leave id/created_at/updated_at to the database defaults.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	v := reflect.ValueOf(model)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return "", nil, fmt.Errorf("insert model is nil")
		}
		v = v.Elem()
	}
	if v.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("insert model must be a struct, got %s", v.Kind())
	}

	var columns []string
	var values []any
	for _, field := range reflect.VisibleFields(v.Type()) {
		if field.PkgPath != "" || field.Anonymous {
			continue
		}
		column, _, _ := strings.Cut(field.Tag.Get("db"), ",")
		column = strings.TrimSpace(column)
		if column == "" || column == "-" {
			continue
		}
		columns = append(columns, column)
		values = append(values, v.FieldByIndex(field.Index).Interface())
	}
	if len(columns) == 0 {
		return "", nil, fmt.Errorf("insert model has no db-tagged fields")
	}

	return InsertInto(table).
		Columns(columns...).
		Values(values...).
		Suffix(suffix).
		ToSQL()
}
