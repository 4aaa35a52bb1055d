// Package naming derives identifiers (table names, foreign keys, accessor names, pivot tables)
// from entity and role names. Every generator goes through these functions so that independently
// generated files agree on the same names.
package naming

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/ettle/strcase"
	"github.com/jinzhu/inflection"
)

// Snake converts a string to snake_case: "OrderItem" -> "order_item".
func Snake(s string) string {
	return strcase.ToSnake(s)
}

// Camel converts a string to camelCase: "order_item" -> "orderItem".
func Camel(s string) string {
	return strcase.ToCamel(s)
}

// Studly converts a string to PascalCase: "order_item" -> "OrderItem".
func Studly(s string) string {
	return strcase.ToPascal(s)
}

// Capitalize uppercases the first letter and leaves the rest untouched.
func Capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}

// Lower lowercases the whole string: "OrderItem" -> "orderitem".
func Lower(s string) string {
	return strings.ToLower(s)
}

// Plural returns the English plural of a word.
func Plural(s string) string {
	if s == "" {
		return s
	}
	return inflection.Plural(s)
}

// TableName returns the table backing a model: snake_case of the plural form.
func TableName(model string) string {
	return Snake(Plural(model))
}

// ForeignKey returns the foreign key column for a role or model: "author" -> "author_id".
func ForeignKey(name string) string {
	return Snake(name) + "_id"
}

// PivotStems returns the two pivot stems for a many-to-many pair, sorted lexicographically.
// The order of the arguments never changes the result.
func PivotStems(a, b string) (string, string) {
	stems := []string{Snake(a), Snake(b)}
	sort.Strings(stems)
	return stems[0], stems[1]
}

// PivotTableName joins the sorted stems of two models: ("Tag", "Post") -> "post_tag".
func PivotTableName(a, b string) string {
	first, second := PivotStems(a, b)
	return first + "_" + second
}
