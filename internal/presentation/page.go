package presentation

import (
	"embed"
	"html/template"
	"io"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplate = template.Must(template.ParseFS(templateFS, "templates/page.html"))

// Page is everything the index page renders. Each panel carries its own error
// so one failing upstream never blanks the rest of the page.
type Page struct {
	Query string
	Units string

	Current       *CurrentPanel
	Forecast      []ForecastCard
	WeatherStatus string

	Records      []RecordRow
	RecordsError string
	Detail       *RecordDetail
	RangeStatus  string
}

// Imperial reports whether the units selector should preselect imperial.
func (p Page) Imperial() bool {
	return p.Units == "imperial"
}

// Render writes the full HTML page.
func Render(w io.Writer, p Page) error {
	return pageTemplate.ExecuteTemplate(w, "page.html", p)
}
