// Package csvrows turns uploaded spreadsheet text into header-keyed rows.
//
// The format is deliberately simple: one record per line, fields split on
// every comma, one pair of surrounding quotes stripped from each field.
// Quoted fields containing commas or newlines are not supported and will be
// split at the embedded comma.
package csvrows

import "strings"

// Row maps a header name to the value found in that column.
// A key is absent when the line had fewer values than there are headers.
type Row map[string]string

// Parse splits text into rows keyed by the first line's headers.
// Blank lines are skipped wherever they occur. Malformed lines never fail:
// extra values are dropped and missing values leave their keys unset.
// PRE: none
// POST: len(result) equals the number of non-blank lines after the header line
func Parse(text string) []Row {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return []Row{}
	}

	headers := splitLine(lines[0])
	rows := make([]Row, 0, len(lines)-1)
	for _, line := range lines[1:] {
		values := splitLine(line)
		row := make(Row, len(headers))
		for i, h := range headers {
			if i >= len(values) {
				break
			}
			row[h] = values[i]
		}
		rows = append(rows, row)
	}
	return rows
}

// Headers returns the cleaned header names of text, or nil when text has no lines.
func Headers(text string) []string {
	lines := nonBlankLines(text)
	if len(lines) == 0 {
		return nil
	}
	return splitLine(lines[0])
}

func nonBlankLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}

func splitLine(line string) []string {
	parts := strings.Split(line, ",")
	for i, p := range parts {
		parts[i] = unquote(strings.TrimSpace(p))
	}
	return parts
}

// unquote strips one leading and one trailing double quote, independently.
func unquote(s string) string {
	s = strings.TrimPrefix(s, `"`)
	s = strings.TrimSuffix(s, `"`)
	return strings.TrimSpace(s)
}
