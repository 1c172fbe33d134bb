// Package sanitize implements the Identifier Sanitizer: the sole producer
// of schema.Identifier values from untrusted user input.
package sanitize

import (
	"strings"

	"github.com/skeema/normalizeworkbench/internal/schema"
)

// ColumnPrefix is prepended outside schema-creation contexts when a
// sanitized result would not otherwise begin with a valid leading character
// or its local name is a reserved word.
const ColumnPrefix = "col_"

// TablePrefix is prepended in schema-creation contexts instead of ColumnPrefix.
const TablePrefix = "tbl_"

var notAllowed = func(r rune) bool {
	if r >= 'A' && r <= 'Z' || r >= 'a' && r <= 'z' || r >= '0' && r <= '9' || r == '_' || r == '.' {
		return false
	}
	return true
}

// reservedWords is the fixed keyword list from spec.md §4.1. Adapted from
// the shape (and several entries) of tengo/keyword.go's reserved-word map,
// trimmed down to the ANSI-core list the spec names rather than tracking
// MySQL-version-specific reserved words.
var reservedWords = map[string]bool{}

func init() {
	for _, w := range []string{
		"TABLE", "SELECT", "INSERT", "UPDATE", "DELETE", "WHERE", "FROM",
		"CREATE", "ALTER", "DROP", "INDEX", "KEY", "PRIMARY", "FOREIGN",
		"GROUP", "BY", "ORDER", "ASC", "DESC", "HAVING", "JOIN", "LEFT",
		"RIGHT", "INNER", "ON", "AS", "COUNT", "SUM", "AVG", "MIN", "MAX",
		"AND", "OR", "NOT", "NULL", "IS", "LIKE",
	} {
		reservedWords[w] = true
	}
}

// IsReservedWord reports whether word (case-insensitively) is in the fixed
// reserved-keyword list.
func IsReservedWord(word string) bool {
	return reservedWords[strings.ToUpper(word)]
}

func isValidLead(r byte) bool {
	return r == '_' || (r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z')
}

// Context selects which fixed prefix is used when a sanitized result needs
// one prepended (step 2/3 of spec.md §4.1).
type Context int

const (
	// ColumnContext is the default: use ColumnPrefix.
	ColumnContext Context = iota
	// SchemaCreationContext is used when sanitizing a table name for DDL
	// purposes: use TablePrefix.
	SchemaCreationContext
)

func (c Context) prefix() string {
	if c == SchemaCreationContext {
		return TablePrefix
	}
	return ColumnPrefix
}

// Sanitize maps a user-supplied raw name to a safe Identifier per spec.md
// §4.1. Returns ("", false) if raw is empty.
func Sanitize(raw string, ctx Context) (schema.Identifier, bool) {
	if raw == "" {
		return "", false
	}

	// Step 1: fold spaces to underscore, then replace any disallowed
	// character with underscore. The '.' separator is preserved.
	folded := strings.ReplaceAll(raw, " ", "_")
	var b strings.Builder
	b.Grow(len(folded))
	for _, r := range folded {
		if notAllowed(r) {
			b.WriteRune('_')
		} else {
			b.WriteRune(r)
		}
	}
	result := b.String()
	if result == "" {
		result = "_"
	}

	// Step 2: ensure a valid leading character.
	if !isValidLead(result[0]) {
		result = ctx.prefix() + result
	}

	// Step 3: reserved-keyword check against the unqualified local name.
	local := result
	if idx := strings.IndexByte(result, '.'); idx >= 0 {
		local = result[idx+1:]
	}
	if IsReservedWord(local) {
		result = ctx.prefix() + result
	}

	// Step 4: escape any embedded backtick by doubling it. This is also
	// performed on output by Identifier.Quoted, but the raw Identifier
	// value itself must never silently carry an unescaped backtick.
	result = strings.ReplaceAll(result, "`", "``")

	return schema.Identifier(result), true
}

// SanitizeQualified sanitizes a possibly-qualified "table.column" reference
// by sanitizing each side independently and rejoining with '.'. Supplements
// the ad hoc qualifier-splitting the original implementation repeats inline
// at each call site.
func SanitizeQualified(raw string, ctx Context) (schema.Identifier, bool) {
	if raw == "" {
		return "", false
	}
	parts := strings.SplitN(raw, ".", 2)
	if len(parts) == 1 {
		return Sanitize(raw, ctx)
	}
	qualifier, okQ := Sanitize(parts[0], ctx)
	local, okL := Sanitize(parts[1], ColumnContext)
	if !okQ || !okL {
		return "", false
	}
	return schema.Identifier(string(qualifier) + "." + string(local)), true
}
