// Package render formats command output as compact token-oriented text:
// "key: value" fields and counted, comma-separated tables.
package render

import (
	"fmt"
	"regexp"
	"strings"
)

var (
	needsQuoting = regexp.MustCompile(`[,:"\\{}\[\]]`)
	looksNumeric = regexp.MustCompile(`^-?(?:0|[1-9]\d*)(?:\.\d+)?$`)
	keywords     = map[string]struct{}{
		"true":  {},
		"false": {},
		"null":  {},
	}
)

// Field renders one "key: value" line.
func Field(key, value string) string {
	return fmt.Sprintf("%s: %s", key, encodeValue(value))
}

// Table renders a named table: a header carrying the row count and column
// names, then one indented line per row.
func Table(name string, columns []string, rows [][]string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s[%d]{%s}:", name, len(rows), strings.Join(columns, ","))
	for _, row := range rows {
		encoded := make([]string, len(row))
		for i, cell := range row {
			encoded[i] = encodeValue(cell)
		}
		fmt.Fprintf(&b, "\n  %s", strings.Join(encoded, ","))
	}
	return b.String()
}

// encodeValue emits value bare when it is unambiguous and quotes it
// otherwise.
func encodeValue(value string) string {
	if value == "" {
		return `""`
	}

	if value != strings.TrimSpace(value) {
		return quote(value)
	}

	if strings.ContainsAny(value, "\n\r\t") {
		return quote(value)
	}

	if _, ok := keywords[strings.ToLower(value)]; ok {
		return quote(value)
	}

	if looksNumeric.MatchString(value) {
		return value
	}

	if needsQuoting.MatchString(value) {
		return quote(value)
	}

	if strings.HasPrefix(value, "-") {
		return quote(value)
	}

	return value
}

func quote(value string) string {
	escaped := strings.ReplaceAll(value, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	escaped = strings.ReplaceAll(escaped, "\n", `\n`)
	escaped = strings.ReplaceAll(escaped, "\r", `\r`)
	escaped = strings.ReplaceAll(escaped, "\t", `\t`)
	return `"` + escaped + `"`
}
