package scrape

import (
	"regexp"
	"strings"
)

var whitespaceRe = regexp.MustCompile(`\s+`)

// CleanText collapses whitespace runs (spaces, tabs, newlines) into
// single spaces and trims the ends.
func CleanText(s string) string {
	return strings.TrimSpace(whitespaceRe.ReplaceAllString(s, " "))
}
