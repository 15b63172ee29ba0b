package render

import (
	"strings"
	"testing"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr(v float64) *float64 { return &v }

func testView(fires, slides bool) domain.View {
	counties := []domain.CountyRecord{
		{Region: "hood river", Group: 1, Lat: 45.5, Lon: -121.8, AveragePrecip: ptr(60)},
		{Region: "hood river", Group: 1, Lat: 45.6, Lon: -121.7, AveragePrecip: ptr(62)},
		{Region: "hood river", Group: 1, Lat: 45.4, Lon: -121.6, AveragePrecip: ptr(64)},
		{Region: "malheur", Group: 1, Lat: 42.5, Lon: -117.5, AveragePrecip: ptr(9)},
		{Region: "malheur", Group: 1, Lat: 42.6, Lon: -117.4, AveragePrecip: ptr(9)},
		{Region: "malheur", Group: 1, Lat: 42.4, Lon: -117.3, AveragePrecip: ptr(9)},
	}
	return domain.View{
		Regions: domain.GroupRegions(counties),
		Wildfires: []domain.WildfireRecord{
			{Name: "Beachie Creek", BurnIndex: ptr(88), Lat: 44.8, Lon: -122.2},
			{Name: domain.UnknownName, BurnIndex: ptr(12.5), Lat: 43.1, Lon: -120.9},
		},
		Landslides: []domain.LandslideRecord{
			{Name: "Hwy 42 <slide>", RepairCost: ptr(1234567), Lat: 43.1, Lon: -123.9},
		},
		Visibility: domain.Visibility{Wildfires: fires, Landslides: slides},
	}
}

func TestBuildMap_Polygons(t *testing.T) {
	m := BuildMap(testView(true, true), DefaultOptions())

	assert.Equal(t, [2]float64{44.1, -120.5}, m.Center)
	assert.Equal(t, 7, m.Zoom)
	require.Len(t, m.Polygons, 2)

	hood := m.Polygons[0]
	assert.Equal(t, "hood river", hood.Region)
	assert.Equal(t, "#842681", hood.FillColor)
	assert.Equal(t, "dark", hood.Tier)
	assert.Equal(t, "black", hood.Color)
	assert.Equal(t, 0.3, hood.Weight)
	assert.Equal(t, 0.7, hood.FillOpacity)
	assert.Equal(t, "Hood River County<br>Avg Precip: 62.0 in", hood.Tooltip)
	assert.Equal(t, [2]float64{45.5, -121.8}, hood.Locations[0], "vertices as lat, lon in source order")

	assert.Equal(t, "#fef0d9", m.Polygons[1].FillColor)
}

func TestBuildMap_Markers(t *testing.T) {
	m := BuildMap(testView(true, true), DefaultOptions())

	fires, ok := m.Layer(LayerWildfires)
	require.True(t, ok)
	require.Len(t, fires.Markers, 2)
	assert.Equal(t, "orange", fires.Markers[0].Color)
	assert.Equal(t, 3, fires.Markers[0].Radius)
	assert.Equal(t, [2]float64{44.8, -122.2}, fires.Markers[0].Location)
	assert.Equal(t, "<strong>Wildfire</strong><br>Name: Beachie Creek<br>Burn Index: 88.0", fires.Markers[0].Popup)
	assert.Contains(t, fires.Markers[1].Popup, "Name: Unknown")

	slides, ok := m.Layer(LayerLandslides)
	require.True(t, ok)
	require.Len(t, slides.Markers, 1)
	assert.Equal(t, "blue", slides.Markers[0].Color)
	assert.Contains(t, slides.Markers[0].Popup, "$1,234,567")
	assert.Contains(t, slides.Markers[0].Popup, "Hwy 42 &lt;slide&gt;")

	assert.Equal(t, []string{LayerWildfires, LayerLandslides}, m.LayerControl.Overlays)
	assert.Equal(t, 3, m.MarkerCount())
}

func TestBuildMap_HiddenLayersDrawNoMarkers(t *testing.T) {
	m := BuildMap(testView(false, false), DefaultOptions())

	assert.Zero(t, m.MarkerCount())
	assert.Empty(t, m.Layers)
	assert.Empty(t, m.LayerControl.Overlays)
	assert.Len(t, m.Polygons, 2, "polygons still drawn")
}

func TestBuildMap_OneLayerHidden(t *testing.T) {
	m := BuildMap(testView(false, true), DefaultOptions())

	_, ok := m.Layer(LayerWildfires)
	assert.False(t, ok)
	assert.Equal(t, []string{LayerLandslides}, m.LayerControl.Overlays)
}

func TestBuildMap_EmptyView(t *testing.T) {
	m := BuildMap(domain.View{Visibility: domain.Visibility{Wildfires: true, Landslides: true}}, DefaultOptions())

	assert.Empty(t, m.Polygons)
	require.Len(t, m.Layers, 2)
	assert.Empty(t, m.Layers[0].Markers)
}

func TestCountyTooltip_Escapes(t *testing.T) {
	g := domain.RegionGroup{Key: domain.RegionKey{Region: "<b>x"}, MeanPrecip: 1}
	tip := CountyTooltip(g)
	assert.False(t, strings.Contains(strings.ToLower(tip), "<b>"))
	assert.Contains(t, tip, "&lt;")
	assert.True(t, strings.HasSuffix(tip, "Avg Precip: 1.0 in"))
}
