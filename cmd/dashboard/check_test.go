package main

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

func ptr(v float64) *float64 { return &v }

func checkDatasets() *domain.Datasets {
	return &domain.Datasets{
		Counties: []domain.CountyRecord{
			{Region: "lane", Group: 1, Lat: 44.0, Lon: -123.0, AveragePrecip: ptr(40)},
			{Region: "lane", Group: 1, Lat: 44.5, Lon: -123.0, AveragePrecip: ptr(40)},
			{Region: "lane", Group: 1, Lat: 44.5, Lon: -122.0, AveragePrecip: ptr(40)},
			{Region: "lane", Group: 1, Lat: 44.0, Lon: -122.0},
		},
		Wildfires: []domain.WildfireRecord{
			{Name: "Holiday Farm", BurnIndex: ptr(72), Lat: 44.2, Lon: -122.5},
			{Name: "Far Away", BurnIndex: ptr(10), Lat: 35.0, Lon: -100.0},
			{Name: "No Index", Lat: 44.2, Lon: -122.5},
		},
		Landslides: []domain.LandslideRecord{
			{Name: "Hwy 126", RepairCost: ptr(5000), Lat: 44.1, Lon: -122.8},
			{Name: "Negative", RepairCost: ptr(-1), Lat: 44.1, Lon: -122.8},
		},
	}
}

func TestChecks(t *testing.T) {
	raw := checkDatasets()
	prepared := domain.Prepare(raw, 500, 42)

	tables := checkTables(raw)
	assert.True(t, tables.passed())

	cleaning := checkCleaning(raw, prepared)
	assert.True(t, cleaning.passed())
	assert.Len(t, cleaning.warnings, 3)

	regions := checkRegions(prepared)
	assert.True(t, regions.passed(), "three vertices remain after cleaning")

	coverage := checkCoverage(prepared)
	assert.True(t, coverage.passed())
	assert.Equal(t, []string{"1 sampled wildfires lie outside the county extent"}, coverage.warnings)
}

func TestChecks_EmptyTablesFail(t *testing.T) {
	raw := &domain.Datasets{}
	prepared := domain.Prepare(raw, 500, 42)

	phases := []*phase{
		checkTables(raw),
		checkCleaning(raw, prepared),
		checkRegions(prepared),
		checkCoverage(prepared),
	}

	var out bytes.Buffer
	assert.False(t, report(&out, phases, raw, prepared))
	assert.Contains(t, out.String(), "Tables loaded")
	assert.Contains(t, out.String(), "FAIL (3 errors)")
	assert.Contains(t, out.String(), "Check FAILED.")
}
