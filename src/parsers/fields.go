package parsers

import "strings"

// SplitDelimitedLine tokenizes one CSV line into raw string fields.
// Commas inside a quoted span are literal content, not separators, and
// one layer of enclosing quotes is stripped from each field. Malformed
// quoting degrades to best-effort splitting; the function never fails.
func SplitDelimitedLine(line string) []string {
	var fields []string
	var current strings.Builder
	inQuotes := false

	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	fields = append(fields, current.String())

	for i, f := range fields {
		fields[i] = trimEnclosingQuotes(f)
	}
	return fields
}

func trimEnclosingQuotes(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return s
}
