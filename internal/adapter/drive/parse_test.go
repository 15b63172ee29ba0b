package drive

import (
	"strings"
	"testing"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCounties(t *testing.T) {
	data := "" +
		",long,lat,group,order,region,subregion,AveragePrecip\n" +
		"1,-117.2,44.3,1,1,oregon,baker,18.25\n" +
		"2,-117.3,44.4,1,2,oregon,baker,18.25\n" +
		"3,-123.9,46.1,12.0,3,oregon,clatsop,NA\n"

	rows, err := ParseCounties(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "baker", rows[0].Region)
	assert.Equal(t, 1, rows[0].Group)
	assert.Equal(t, 44.3, rows[0].Lat)
	assert.Equal(t, -117.2, rows[0].Lon)
	require.NotNil(t, rows[0].AveragePrecip)
	assert.Equal(t, 18.25, *rows[0].AveragePrecip)

	assert.Equal(t, 12, rows[2].Group)
	assert.Nil(t, rows[2].AveragePrecip)
}

func TestParseCounties_MissingColumn(t *testing.T) {
	_, err := ParseCounties(strings.NewReader("subregion,group,lat,long\nbaker,1,44,-117\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AveragePrecip")
}

func TestParseCounties_MalformedNumber(t *testing.T) {
	data := "subregion,group,lat,long,AveragePrecip\nbaker,1,north,-117,12\n"
	_, err := ParseCounties(strings.NewReader(data))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "row 2")
	assert.Contains(t, err.Error(), "lat")
}

func TestParseCounties_Empty(t *testing.T) {
	_, err := ParseCounties(strings.NewReader(""))
	require.Error(t, err)
}

const wildfireCollection = `{
  "type": "FeatureCollection",
  "features": [
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-122.2, 44.8]},
     "properties": {"FireName": "Beachie Creek", "BurnIndex": 88.5}},
    {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-120.9, 43.1]},
     "properties": {"BurnIndex": null}},
    {"type": "Feature", "geometry": null,
     "properties": {"FireName": "  ", "BurnIndex": "41", "lat": 42.2, "lon": -121.7}},
    {"type": "Feature", "geometry": null, "properties": {"FireName": "Nowhere", "BurnIndex": 3}}
  ]
}`

func TestParseWildfires(t *testing.T) {
	rows, err := ParseWildfires(strings.NewReader(wildfireCollection))
	require.NoError(t, err)
	require.Len(t, rows, 3, "feature without any position is skipped")

	assert.Equal(t, "Beachie Creek", rows[0].Name)
	require.NotNil(t, rows[0].BurnIndex)
	assert.Equal(t, 88.5, *rows[0].BurnIndex)
	assert.Equal(t, 44.8, rows[0].Lat)
	assert.Equal(t, -122.2, rows[0].Lon)

	assert.Equal(t, domain.UnknownName, rows[1].Name)
	assert.Nil(t, rows[1].BurnIndex, "null burn index stays unset for cleaning")

	assert.Equal(t, domain.UnknownName, rows[2].Name)
	require.NotNil(t, rows[2].BurnIndex)
	assert.Equal(t, 41.0, *rows[2].BurnIndex)
	assert.Equal(t, 42.2, rows[2].Lat)
	assert.Equal(t, -121.7, rows[2].Lon)
}

func TestParseLandslides(t *testing.T) {
	data := `{"type": "FeatureCollection", "features": [
	  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-123.9, 43.1]},
	   "properties": {"SLIDE_NAME": "Hwy 42 MP 11", "REPAIR_COST": 1234567}},
	  {"type": "Feature", "geometry": {"type": "Point", "coordinates": [-123.5, 45.2]},
	   "properties": {"REPAIR_COST": "unknown"}}
	]}`

	rows, err := ParseLandslides(strings.NewReader(data))
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, "Hwy 42 MP 11", rows[0].Name)
	require.NotNil(t, rows[0].RepairCost)
	assert.Equal(t, 1234567.0, *rows[0].RepairCost)
	assert.Equal(t, domain.UnknownName, rows[1].Name)
	assert.Nil(t, rows[1].RepairCost)
}

func TestParseLandslides_InvalidJSON(t *testing.T) {
	_, err := ParseLandslides(strings.NewReader(`{"type": "FeatureCollection", "features": [`))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse landslides")
}
