package parser

import (
	"strings"
	"unicode"
)

// splitLines returns the non-empty lines of text with surrounding whitespace
// removed. Tabs are kept because they may be leading empty fields.
func splitLines(text string) []string {
	raw := strings.Split(text, "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimFunc(line, func(r rune) bool {
			return r != '\t' && (unicode.IsSpace(r) || r == '\uFEFF')
		})
		if strings.Trim(line, "\t") == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

// detectDelimiter picks tab when the header line contains one, comma otherwise.
func detectDelimiter(header string) rune {
	if strings.ContainsRune(header, '\t') {
		return '\t'
	}
	return ','
}

// splitFields splits a line on delim. Double quotes toggle a literal span in
// which delim is not a separator; the quote characters are dropped.
func splitFields(line string, delim rune) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == delim && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, current.String())
}
