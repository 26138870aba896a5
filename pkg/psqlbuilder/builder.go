// Package psqlbuilder squirrel builders preconfigured for PostgreSQL ($n placeholders).
package psqlbuilder

import (
	"strings"

	"github.com/Masterminds/squirrel"
)

var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

func Select(columns ...string) squirrel.SelectBuilder {
	return psql.Select(columns...)
}

func Insert(table string) squirrel.InsertBuilder {
	return psql.Insert(table)
}

func Update(table string) squirrel.UpdateBuilder {
	return psql.Update(table)
}

func Delete(table string) squirrel.DeleteBuilder {
	return psql.Delete(table)
}

// ColumnList соединяет колонки для RETURNING
func ColumnList(columns []string) string {
	return strings.Join(columns, ", ")
}

// Prefixed добавляет к колонкам псевдоним таблицы: Prefixed("b", "id") -> "b.id"
func Prefixed(alias string, columns ...string) []string {
	out := make([]string, len(columns))
	for i, c := range columns {
		out[i] = alias + "." + c
	}
	return out
}
