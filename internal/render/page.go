package render

import (
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

// DefaultTitle is the dashboard heading.
const DefaultTitle = "Oregon Precipitation, Wildfires, and Landslides"

//go:embed templates/dashboard.html.tmpl
var templateFS embed.FS

var pageTmpl = template.Must(
	template.New("dashboard.html.tmpl").
		Funcs(template.FuncMap{
			"inputNumber": inputNumber,
			"dollars":     FormatCurrency,
		}).
		ParseFS(templateFS, "templates/dashboard.html.tmpl"),
)

// PageData is everything the dashboard page shows. When Error is set the page
// shows the failure message instead of the map.
type PageData struct {
	Title    string
	State    domain.FilterState
	Counts   domain.Counts
	Map      Map
	LoadedAt time.Time
	Error    string
}

// Page writes the full dashboard HTML for data.
func Page(w io.Writer, data PageData) error {
	if data.Title == "" {
		data.Title = DefaultTitle
	}

	mapJSON, err := toJSON(data.Map)
	if err != nil {
		return err
	}

	view := struct {
		PageData
		MapJSON template.JS
	}{PageData: data, MapJSON: mapJSON}

	if err := pageTmpl.Execute(w, view); err != nil {
		return fmt.Errorf("execute dashboard template: %w", err)
	}
	return nil
}

func toJSON(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("marshal map: %w", err)
	}
	return template.JS(b), nil
}

// inputNumber formats v for a number input so that submitting it back parses
// to exactly v.
func inputNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
