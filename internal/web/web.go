// Package web holds the browser form served on "/".
package web

import (
	"embed"
	"html/template"
)

//go:embed templates/*.html
var templateFS embed.FS

// PlaceholderReport is shown instead of a report when the backend cannot be reached.
const PlaceholderReport = "Summary generation failed."

// Templates parses the embedded page templates.
func Templates() *template.Template {
	funcs := template.FuncMap{
		"inc": func(i int) int { return i + 1 },
	}
	return template.Must(template.New("").Funcs(funcs).ParseFS(templateFS, "templates/*.html"))
}

// IndexData is the view model of index.html.
type IndexData struct {
	Title       string
	Employees   []string
	SampleLogs  []string
	Placeholder string
}

func NewIndexData() IndexData {
	return IndexData{
		Title:       "AI Performance Insights",
		Employees:   Employees,
		SampleLogs:  []string{SampleLogs1, SampleLogs2},
		Placeholder: PlaceholderReport,
	}
}
