// Package sanitize strips markup from user-provided lead text before it is
// stored and copied onto contacts and accounts.
package sanitize

import (
	"html"
	"regexp"
	"strings"
)

var (
	htmlTagRegex     = regexp.MustCompile(`<[^>]*>`)
	inlineSpaceRegex = regexp.MustCompile(`[ \t\f\v]+`)
)

// StripHTML removes tags, decodes entities and strips again so encoded tags
// do not survive.
func StripHTML(s string) string {
	result := htmlTagRegex.ReplaceAllString(s, "")
	result = html.UnescapeString(result)
	result = htmlTagRegex.ReplaceAllString(result, "")
	return strings.TrimSpace(result)
}

// Line sanitizes a single-line field such as a name or title. Whitespace
// runs, including newlines, collapse to one space.
func Line(s string) string {
	return strings.Join(strings.Fields(StripHTML(s)), " ")
}

// Text sanitizes free text such as a description. Line breaks are kept,
// other whitespace runs collapse and trailing spaces are trimmed per line.
func Text(s string) string {
	stripped := strings.ReplaceAll(StripHTML(s), "\r\n", "\n")
	lines := strings.Split(stripped, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(inlineSpaceRegex.ReplaceAllString(line, " "))
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
