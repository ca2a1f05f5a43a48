// Package pdf renders evaluation reports as downloadable PDF documents.
package pdf

import (
	"bytes"
	"fmt"
	"strings"
	"time"

	"github.com/go-pdf/fpdf"
)

const (
	margin      = 50.0
	titleSize   = 16.0
	bodySize    = 12.0
	lineLeading = 18.0
)

// Title is the first line of every rendered report.
func Title(employeeID string) string {
	return "Performance Evaluation for Employee: " + employeeID
}

// Filename is the attachment name offered for download.
func Filename(employeeID string, at time.Time) string {
	return fmt.Sprintf("performance_summary_%s_%d.pdf", employeeID, at.Unix())
}

// Render lays out a Letter-size document: a bold title, a rule, then the report
// one line at a time in Helvetica. Long lines wrap at the right margin and a new
// page starts when the bottom margin is reached.
func Render(employeeID, report string) ([]byte, error) {
	doc := fpdf.New("P", "pt", "Letter", "")
	doc.SetAutoPageBreak(false, 0)
	doc.SetTitle(Title(employeeID), true)
	tr := doc.UnicodeTranslatorFromDescriptor("")

	width, height := doc.GetPageSize()
	doc.AddPage()

	doc.SetFont("Helvetica", "B", titleSize)
	doc.Text(margin, 40, tr(Title(employeeID)))
	doc.Line(margin, 50, width-margin, 50)
	doc.SetFont("Helvetica", "", bodySize)

	y := 80.0
	for _, line := range strings.Split(report, "\n") {
		for _, part := range wrap(doc, tr(strings.TrimRight(line, "\r")), width-2*margin) {
			doc.Text(margin, y, part)
			y += lineLeading
			if y > height-margin {
				doc.AddPage()
				doc.SetFont("Helvetica", "", bodySize)
				y = margin
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// wrap keeps blank lines so paragraph spacing survives.
func wrap(doc *fpdf.Fpdf, line string, maxWidth float64) []string {
	if strings.TrimSpace(line) == "" {
		return []string{""}
	}
	return doc.SplitText(line, maxWidth)
}
