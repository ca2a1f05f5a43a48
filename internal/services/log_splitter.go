package services

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/perfeval/backend/internal/models"
)

// employeeMarkerWord starts every employee record, as in "Employee E001 ...".
const employeeMarkerWord = "Employee"

type markerSpan struct {
	start      int
	employeeID string
}

// SplitEmployeeLogs cuts a raw multi-employee batch into one segment per record.
//
// A marker is "Employee", whitespace, then "E" and digits followed by whitespace
// or end of text. The first marker may sit anywhere on a word boundary; later
// markers must start a line. Text before the first marker is dropped and text
// with a malformed marker stays in the segment before it. SequenceIndex counts
// per employee within this batch.
func SplitEmployeeLogs(raw string) []models.EmployeeSegment {
	spans := scanMarkers(raw)
	segments := make([]models.EmployeeSegment, 0, len(spans))
	seen := make(map[string]int, len(spans))

	for i, span := range spans {
		end := len(raw)
		if i+1 < len(spans) {
			end = spans[i+1].start
		}
		text := strings.TrimSpace(raw[span.start:end])
		if text == "" {
			continue
		}
		segments = append(segments, models.EmployeeSegment{
			EmployeeID:    span.employeeID,
			SequenceIndex: seen[span.employeeID],
			Text:          text,
		})
		seen[span.employeeID]++
	}
	return segments
}

// scanMarkers walks the text once, left to right, and never revisits a byte
// except for the short whitespace/digit run after a candidate word.
func scanMarkers(raw string) []markerSpan {
	var spans []markerSpan
	for i := 0; i < len(raw); {
		j := strings.Index(raw[i:], employeeMarkerWord)
		if j < 0 {
			break
		}
		pos := i + j
		i = pos + len(employeeMarkerWord)

		if !markerBoundary(raw, pos, len(spans) == 0) {
			continue
		}
		if id, ok := matchMarkerID(raw, i); ok {
			spans = append(spans, markerSpan{start: pos, employeeID: id})
		}
	}
	return spans
}

func markerBoundary(raw string, pos int, first bool) bool {
	if pos == 0 || raw[pos-1] == '\n' {
		return true
	}
	if !first {
		return false
	}
	r, _ := utf8.DecodeLastRuneInString(raw[:pos])
	return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '_'
}

// matchMarkerID matches `\s+E\d+` at i followed by whitespace or end of text.
// Whitespace and digits are Unicode classes, so a pasted non-breaking space
// still separates the marker word from the id.
func matchMarkerID(raw string, i int) (string, bool) {
	k := skipSpace(raw, i)
	if k == i || k >= len(raw) || raw[k] != 'E' {
		return "", false
	}
	idStart := k
	k++
	digits := k
	for k < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[k:])
		if !unicode.IsDigit(r) {
			break
		}
		k += size
	}
	if k == digits {
		return "", false
	}
	if k < len(raw) && skipSpace(raw, k) == k {
		return "", false
	}
	return raw[idStart:k], true
}

// skipSpace returns the offset of the first non-space rune at or after i.
func skipSpace(raw string, i int) int {
	for i < len(raw) {
		r, size := utf8.DecodeRuneInString(raw[i:])
		if !unicode.IsSpace(r) {
			break
		}
		i += size
	}
	return i
}
