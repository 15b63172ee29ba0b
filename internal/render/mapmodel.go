// Package render builds the dashboard map from a filtered view and writes it
// out as a Leaflet page.
package render

import (
	"fmt"
	"html"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

// Layer names shown in the layer control.
const (
	LayerWildfires  = "Wildfires"
	LayerLandslides = "Landslides"
)

// Options controls the map viewport and base tiles.
type Options struct {
	CenterLat float64
	CenterLon float64
	Zoom      int
	Tiles     string
}

// DefaultOptions centres the map on Oregon.
func DefaultOptions() Options {
	return Options{
		CenterLat: 44.1,
		CenterLon: -120.5,
		Zoom:      7,
		Tiles:     "CartoDB positron",
	}
}

// Map is the complete, JSON-serialisable map handed to the browser.
type Map struct {
	Center       [2]float64    `json:"center"` // [lat, lon]
	Zoom         int           `json:"zoom"`
	Tiles        string        `json:"tiles"`
	Polygons     []Polygon     `json:"polygons"`
	Layers       []MarkerLayer `json:"layers"`
	LayerControl LayerControl  `json:"layer_control"`
}

// Polygon is one filled county outline.
type Polygon struct {
	Region      string       `json:"region"`
	Group       int          `json:"group"`
	Locations   [][2]float64 `json:"locations"` // [lat, lon] pairs
	Color       string       `json:"color"`
	Weight      float64      `json:"weight"`
	FillColor   string       `json:"fill_color"`
	FillOpacity float64      `json:"fill_opacity"`
	Tier        string       `json:"tier"`
	Tooltip     string       `json:"tooltip"`
}

// MarkerLayer is a named, user-toggleable group of circle markers.
type MarkerLayer struct {
	Name    string   `json:"name"`
	Show    bool     `json:"show"`
	Markers []Marker `json:"markers"`
}

// Marker is a circle marker with an HTML popup.
type Marker struct {
	Location    [2]float64 `json:"location"` // [lat, lon]
	Radius      int        `json:"radius"`
	Color       string     `json:"color"`
	FillOpacity float64    `json:"fill_opacity"`
	Popup       string     `json:"popup"`
	PopupWidth  int        `json:"popup_max_width"`
}

// LayerControl lists the overlay layers the user can toggle on the map.
type LayerControl struct {
	Overlays []string `json:"overlays"`
}

// MarkerCount returns the number of markers across all layers.
func (m Map) MarkerCount() int {
	n := 0
	for _, l := range m.Layers {
		n += len(l.Markers)
	}
	return n
}

// Layer returns the named layer, if drawn.
func (m Map) Layer(name string) (MarkerLayer, bool) {
	for _, l := range m.Layers {
		if l.Name == name {
			return l, true
		}
	}
	return MarkerLayer{}, false
}

// BuildMap turns a view into a fresh map. Nothing is reused between calls.
// Marker layers are only added for the layers the sidebar leaves visible;
// the layer control then toggles whichever layers were added.
func BuildMap(v domain.View, opts Options) Map {
	m := Map{
		Center:   [2]float64{opts.CenterLat, opts.CenterLon},
		Zoom:     opts.Zoom,
		Tiles:    opts.Tiles,
		Polygons: make([]Polygon, 0, len(v.Regions)),
		Layers:   []MarkerLayer{},
	}

	for _, g := range v.Regions {
		m.Polygons = append(m.Polygons, buildPolygon(g))
	}

	if v.Visibility.Wildfires {
		layer := MarkerLayer{Name: LayerWildfires, Show: true, Markers: make([]Marker, 0, len(v.Wildfires))}
		for _, w := range v.Wildfires {
			layer.Markers = append(layer.Markers, circle(w.Lat, w.Lon, "orange", WildfirePopup(w)))
		}
		m.Layers = append(m.Layers, layer)
	}

	if v.Visibility.Landslides {
		layer := MarkerLayer{Name: LayerLandslides, Show: true, Markers: make([]Marker, 0, len(v.Landslides))}
		for _, l := range v.Landslides {
			layer.Markers = append(layer.Markers, circle(l.Lat, l.Lon, "blue", LandslidePopup(l)))
		}
		m.Layers = append(m.Layers, layer)
	}

	m.LayerControl.Overlays = make([]string, 0, len(m.Layers))
	for _, l := range m.Layers {
		m.LayerControl.Overlays = append(m.LayerControl.Overlays, l.Name)
	}
	return m
}

func buildPolygon(g domain.RegionGroup) Polygon {
	locs := make([][2]float64, len(g.Vertices))
	for i, v := range g.Vertices {
		locs[i] = [2]float64{v.Lat, v.Lon}
	}
	tier := g.Tier()
	return Polygon{
		Region:      g.Key.Region,
		Group:       g.Key.Group,
		Locations:   locs,
		Color:       "black",
		Weight:      0.3,
		FillColor:   tier.Color(),
		FillOpacity: 0.7,
		Tier:        tier.String(),
		Tooltip:     CountyTooltip(g),
	}
}

func circle(lat, lon float64, color, popup string) Marker {
	return Marker{
		Location:    [2]float64{lat, lon},
		Radius:      3,
		Color:       color,
		FillOpacity: 0.6,
		Popup:       popup,
		PopupWidth:  300,
	}
}

// CountyTooltip is the hover label of a county polygon.
func CountyTooltip(g domain.RegionGroup) string {
	return fmt.Sprintf("%s County<br>Avg Precip: %s in",
		html.EscapeString(TitleCase(g.Key.Region)), FormatPrecip(g.MeanPrecip))
}

// WildfirePopup is the click popup of a wildfire marker.
func WildfirePopup(w domain.WildfireRecord) string {
	return fmt.Sprintf("<strong>Wildfire</strong><br>Name: %s<br>Burn Index: %s",
		html.EscapeString(w.Name), FormatMeasure(w.Burn()))
}

// LandslidePopup is the click popup of a landslide marker.
func LandslidePopup(l domain.LandslideRecord) string {
	return fmt.Sprintf("<strong>Landslide</strong><br>Name: %s<br>Repair Cost: %s",
		html.EscapeString(l.Name), FormatCurrency(l.Cost()))
}
