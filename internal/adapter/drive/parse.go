package drive

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// County table column names.
const (
	colRegion = "subregion"
	colGroup  = "group"
	colLat    = "lat"
	colLon    = "long"
	colPrecip = "AveragePrecip"
)

// GeoJSON property names.
const (
	propBurnIndex  = "BurnIndex"
	propFireName   = "FireName"
	propRepairCost = "REPAIR_COST"
	propSlideName  = "SLIDE_NAME"
	propLat        = "lat"
	propLon        = "lon"
)

// ParseCounties reads the county vertex table. Empty, NA or NaN precipitation
// cells leave AveragePrecip unset; any other malformed number is an error.
func ParseCounties(r io.Reader) ([]domain.CountyRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read county header: %w", err)
	}
	cols, err := columnIndex(header, colRegion, colGroup, colLat, colLon, colPrecip)
	if err != nil {
		return nil, err
	}

	var rows []domain.CountyRecord
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read county row %d: %w", line, err)
		}

		row, err := parseCountyRow(rec, cols)
		if err != nil {
			return nil, fmt.Errorf("county row %d: %w", line, err)
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func parseCountyRow(rec []string, cols map[string]int) (domain.CountyRecord, error) {
	group, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colGroup]]), 64)
	if err != nil || group != math.Trunc(group) {
		return domain.CountyRecord{}, fmt.Errorf("invalid %s %q", colGroup, rec[cols[colGroup]])
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colLat]]), 64)
	if err != nil {
		return domain.CountyRecord{}, fmt.Errorf("invalid %s %q", colLat, rec[cols[colLat]])
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(rec[cols[colLon]]), 64)
	if err != nil {
		return domain.CountyRecord{}, fmt.Errorf("invalid %s %q", colLon, rec[cols[colLon]])
	}
	precip, err := parseOptionalFloat(rec[cols[colPrecip]])
	if err != nil {
		return domain.CountyRecord{}, fmt.Errorf("invalid %s %q", colPrecip, rec[cols[colPrecip]])
	}

	return domain.CountyRecord{
		Region:        strings.TrimSpace(rec[cols[colRegion]]),
		Group:         int(group),
		Lat:           lat,
		Lon:           lon,
		AveragePrecip: precip,
	}, nil
}

func columnIndex(header []string, names ...string) (map[string]int, error) {
	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))] = i
	}
	out := make(map[string]int, len(names))
	for _, n := range names {
		i, ok := idx[n]
		if !ok {
			return nil, fmt.Errorf("county table missing column %q", n)
		}
		out[n] = i
	}
	return out, nil
}

// parseOptionalFloat treats empty, NA and NaN as missing.
func parseOptionalFloat(s string) (*float64, error) {
	s = strings.TrimSpace(s)
	switch strings.ToLower(s) {
	case "", "na", "nan", "null":
		return nil, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil, err
	}
	return &v, nil
}

// ParseWildfires reads a wildfire feature collection.
func ParseWildfires(r io.Reader) ([]domain.WildfireRecord, error) {
	fc, err := readCollection(r)
	if err != nil {
		return nil, fmt.Errorf("parse wildfires: %w", err)
	}

	out := make([]domain.WildfireRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := location(f)
		if !ok {
			continue
		}
		out = append(out, domain.WildfireRecord{
			Name:      stringProp(f.Properties, propFireName),
			BurnIndex: numberProp(f.Properties, propBurnIndex),
			Lat:       pt.Lat(),
			Lon:       pt.Lon(),
		})
	}
	return out, nil
}

// ParseLandslides reads a landslide feature collection.
func ParseLandslides(r io.Reader) ([]domain.LandslideRecord, error) {
	fc, err := readCollection(r)
	if err != nil {
		return nil, fmt.Errorf("parse landslides: %w", err)
	}

	out := make([]domain.LandslideRecord, 0, len(fc.Features))
	for _, f := range fc.Features {
		pt, ok := location(f)
		if !ok {
			continue
		}
		out = append(out, domain.LandslideRecord{
			Name:       stringProp(f.Properties, propSlideName),
			RepairCost: numberProp(f.Properties, propRepairCost),
			Lat:        pt.Lat(),
			Lon:        pt.Lon(),
		})
	}
	return out, nil
}

func readCollection(r io.Reader) (*geojson.FeatureCollection, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return geojson.UnmarshalFeatureCollection(data)
}

// location prefers the point geometry and falls back to lat/lon properties.
// Features with neither carry no position and are skipped.
func location(f *geojson.Feature) (orb.Point, bool) {
	switch g := f.Geometry.(type) {
	case orb.Point:
		return g, true
	case orb.MultiPoint:
		if len(g) > 0 {
			return g[0], true
		}
	}

	lat := numberProp(f.Properties, propLat)
	lon := numberProp(f.Properties, propLon)
	if lat == nil || lon == nil {
		return orb.Point{}, false
	}
	return orb.Point{*lon, *lat}, true
}

// numberProp returns a numeric property, or nil when it is absent, null or
// not a number.
func numberProp(props geojson.Properties, key string) *float64 {
	switch v := props[key].(type) {
	case float64:
		if math.IsNaN(v) {
			return nil
		}
		return &v
	case int:
		f := float64(v)
		return &f
	case string:
		p, err := parseOptionalFloat(v)
		if err != nil {
			return nil
		}
		return p
	default:
		return nil
	}
}

// stringProp returns a name property, falling back to domain.UnknownName.
func stringProp(props geojson.Properties, key string) string {
	v, ok := props[key]
	if !ok || v == nil {
		return domain.UnknownName
	}
	var s string
	switch t := v.(type) {
	case string:
		s = t
	case float64:
		s = strconv.FormatFloat(t, 'f', -1, 64)
	default:
		s = fmt.Sprint(t)
	}
	if s = strings.TrimSpace(s); s == "" {
		return domain.UnknownName
	}
	return s
}
