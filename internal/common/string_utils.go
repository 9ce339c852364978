// Package common renders query fragments as SQL and names the window enums
package common

import (
	"fmt"
	"strings"
)

// EnumStringMap maps enum values to their names
type EnumStringMap map[int]string

// FormatEnum returns the name of value in mapping
func FormatEnum(value int, mapping EnumStringMap) string {
	if str, exists := mapping[value]; exists {
		return str
	}
	return fmt.Sprintf("unknown(%d)", value)
}

// FormatFunction renders a call such as SUM(price) or RANK()
func FormatFunction(name string, args ...string) string {
	return name + "(" + strings.Join(args, ", ") + ")"
}

// FormatSQLClause prefixes content with the upper-cased clause keyword.
// Empty content renders nothing.
func FormatSQLClause(clauseName, content string) string {
	if content == "" {
		return ""
	}
	return strings.ToUpper(clauseName) + " " + content
}

// FormatAlias renders "expression AS alias"
func FormatAlias(expression, alias string) string {
	if alias == "" {
		return expression
	}
	return expression + " AS " + alias
}

// FormatSort renders "column ASC" or "column DESC"
func FormatSort(column string, ascending bool) string {
	direction := OrderDescending
	if ascending {
		direction = OrderAscending
	}
	return column + " " + FormatOrderDirection(direction)
}
