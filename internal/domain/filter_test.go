package domain

import (
	"testing"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilterCounties_KeepsGroupsByMean(t *testing.T) {
	var rows []CountyRecord
	rows = append(rows, square("alpha", 1, 10)...)
	rows = append(rows, square("bravo", 1, 40)...)
	rows = append(rows, square("charlie", 1, 60)...)
	rows = append(rows, square("delta", 1, 80)...)

	r := NewRange(FieldPrecipitation, 10, 80)
	r.SetMin(35)
	r.SetMax(70)

	got := GroupRegions(FilterCounties(rows, r))
	require.Len(t, got, 2)
	assert.Equal(t, "bravo", got[0].Key.Region)
	assert.InDelta(t, 40.0, got[0].MeanPrecip, 1e-9)
	assert.Equal(t, "charlie", got[1].Key.Region)
	assert.InDelta(t, 60.0, got[1].MeanPrecip, 1e-9)
}

func TestFilterCounties_GroupMeanNotRowValue(t *testing.T) {
	// Mean is 30; one vertex alone sits far outside the range.
	rows := []CountyRecord{
		{Region: "lane", Group: 3, Lat: 44, Lon: -123, AveragePrecip: ptr(10)},
		{Region: "lane", Group: 3, Lat: 44, Lon: -122, AveragePrecip: ptr(10)},
		{Region: "lane", Group: 3, Lat: 45, Lon: -122, AveragePrecip: ptr(10)},
		{Region: "lane", Group: 3, Lat: 45, Lon: -123, AveragePrecip: ptr(90)},
	}

	r := Range{Min: 25, Max: 35, DatasetMin: 0, DatasetMax: 100}
	got := FilterCounties(rows, r)
	assert.Equal(t, rows, got, "whole group kept on its mean")

	r = Range{Min: 85, Max: 95, DatasetMin: 0, DatasetMax: 100}
	assert.Empty(t, FilterCounties(rows, r), "outlying vertex must not keep the group")
}

func TestFilterCounties_UnionOfCompleteGroups(t *testing.T) {
	var rows []CountyRecord
	rows = append(rows, square("baker", 1, 18)...)
	rows = append(rows, square("baker", 2, 55)...)
	rows = append(rows, square("coos", 1, 72)...)
	rows = append(rows, CountyRecord{Region: "coos", Group: 1, Lat: 43, Lon: -124, AveragePrecip: ptr(72)})
	rows = append(rows, CountyRecord{Region: "coos", Group: 1, Lat: 43.2, Lon: -124.1, AveragePrecip: ptr(72)})

	total := map[RegionKey]int{}
	for _, r := range rows {
		total[r.Key()]++
	}

	for _, lo := range []float64{0, 18, 20, 55, 60, 72} {
		for _, hi := range []float64{18, 55, 60, 72, 100} {
			if lo > hi {
				continue
			}
			r := Range{Min: lo, Max: hi, DatasetMin: 0, DatasetMax: 100}
			seen := map[RegionKey]int{}
			for _, c := range FilterCounties(rows, r) {
				seen[c.Key()]++
			}
			for k, n := range seen {
				assert.Equal(t, total[k], n, "partial group %v for [%v, %v]", k, lo, hi)
			}
		}
	}
}

func TestFilterCounties_PreservesRowOrder(t *testing.T) {
	rows := []CountyRecord{
		{Region: "wasco", Group: 1, Lat: 1, AveragePrecip: ptr(12)},
		{Region: "benton", Group: 1, Lat: 2, AveragePrecip: ptr(60)},
		{Region: "wasco", Group: 1, Lat: 3, AveragePrecip: ptr(12)},
		{Region: "benton", Group: 1, Lat: 4, AveragePrecip: ptr(60)},
	}
	r := Range{Min: 0, Max: 100, DatasetMin: 0, DatasetMax: 100}

	got := FilterCounties(rows, r)
	require.Len(t, got, 4)
	for i := range rows {
		assert.Equal(t, rows[i].Lat, got[i].Lat)
	}
}

func TestFilterCounties_EmptyRangeIncludesExactValue(t *testing.T) {
	rows := append(square("polk", 1, 40), square("linn", 1, 41)...)
	r := Range{Min: 40, Max: 40, DatasetMin: 40, DatasetMax: 41}

	got := GroupRegions(FilterCounties(rows, r))
	require.Len(t, got, 1)
	assert.Equal(t, "polk", got[0].Key.Region)
}

func TestFilterPoints_Inclusive(t *testing.T) {
	fires := []WildfireRecord{
		{Name: "A", BurnIndex: ptr(10)},
		{Name: "B", BurnIndex: ptr(20)},
		{Name: "C", BurnIndex: ptr(30)},
	}
	got := FilterWildfires(fires, Range{Min: 10, Max: 20, DatasetMin: 10, DatasetMax: 30})
	require.Len(t, got, 2)
	assert.Equal(t, "A", got[0].Name)
	assert.Equal(t, "B", got[1].Name)

	slides := []LandslideRecord{
		{Name: "X", RepairCost: ptr(5000)},
		{Name: "Y", RepairCost: ptr(7500)},
	}
	got2 := FilterLandslides(slides, Range{Min: 7500, Max: 7500, DatasetMin: 5000, DatasetMax: 7500})
	require.Len(t, got2, 1)
	assert.Equal(t, "Y", got2[0].Name)

	assert.Empty(t, FilterLandslides(slides, Range{Min: 6000, Max: 7000, DatasetMin: 5000, DatasetMax: 7500}))
}

func TestGroupRegions_SortedByKey(t *testing.T) {
	var rows []CountyRecord
	rows = append(rows, square("wheeler", 1, 12)...)
	rows = append(rows, square("baker", 10, 20)...)
	rows = append(rows, square("baker", 2, 30)...)

	got := GroupRegions(rows)
	require.Len(t, got, 3)
	assert.Equal(t, RegionKey{"baker", 2}, got[0].Key)
	assert.Equal(t, RegionKey{"baker", 10}, got[1].Key)
	assert.Equal(t, RegionKey{"wheeler", 1}, got[2].Key)
	assert.Len(t, got[0].Vertices, 4)
}

func TestRegionGroup_RingAndBound(t *testing.T) {
	g := GroupRegions(square("clatsop", 1, 80))[0]

	ring := g.Ring()
	require.Len(t, ring, 4)
	assert.Equal(t, orb.Point{-121, 44}, ring[0])

	b := g.Bound()
	assert.Equal(t, orb.Point{-121, 44}, b.Min)
	assert.Equal(t, orb.Point{-120, 45}, b.Max)
	assert.Equal(t, TierDarkest, g.Tier())
}

func TestGroupRegions_ConstantValueMeanIsExact(t *testing.T) {
	for _, v := range []float64{0.1, 11.2, 48.6, 87.3, 123.45} {
		for n := 3; n <= 400; n += 37 {
			g := GroupRegions(ring("harney", 1, v, n))
			require.Len(t, g, 1)
			assert.Equal(t, v, g[0].MeanPrecip, "value %v over %d vertices", v, n)

			r := NewRange(FieldPrecipitation, v, v)
			assert.Len(t, FilterCounties(ring("harney", 1, v, n), r), n)
		}
	}
}
