package services

import (
	"regexp"
	"strings"
)

// RE2's \s is ASCII only; the class adds \v, NEL and the Unicode separators
// (NBSP, em space, ...) so pasted or model-produced blank lines still count.
var blankLineRun = regexp.MustCompile(`\n[\s\v\x{85}\p{Z}]*\n+`)

// CleanSummary collapses every run of blank lines into a single blank line and
// trims the result.
func CleanSummary(text string) string {
	text = blankLineRun.ReplaceAllString(text, "\n\n")
	return strings.TrimSpace(text)
}
