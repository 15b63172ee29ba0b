package domain

import (
	"cmp"
	"slices"

	"github.com/paulmach/orb"
	"gonum.org/v1/gonum/floats"
)

// RegionGroup is one county polygon: its vertices in source order and the
// mean precipitation across them.
type RegionGroup struct {
	Key        RegionKey
	Vertices   []CountyRecord
	MeanPrecip float64
}

// Ring returns the polygon outline in orb (lon, lat) order.
func (g RegionGroup) Ring() orb.Ring {
	ring := make(orb.Ring, len(g.Vertices))
	for i, v := range g.Vertices {
		ring[i] = orb.Point{v.Lon, v.Lat}
	}
	return ring
}

// Bound returns the bounding box of the polygon.
func (g RegionGroup) Bound() orb.Bound {
	return g.Ring().Bound()
}

// Tier returns the colour tier of the group mean.
func (g RegionGroup) Tier() Tier {
	return TierFor(g.MeanPrecip)
}

// GroupRegions groups vertices by (Region, Group). Groups are ordered by key;
// vertices keep their source order.
func GroupRegions(rows []CountyRecord) []RegionGroup {
	index := make(map[RegionKey]int)
	var groups []RegionGroup
	for _, r := range rows {
		k := r.Key()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, RegionGroup{Key: k})
		}
		groups[i].Vertices = append(groups[i].Vertices, r)
	}

	for i := range groups {
		groups[i].MeanPrecip = meanPrecip(groups[i].Vertices)
	}

	slices.SortFunc(groups, func(a, b RegionGroup) int {
		if c := cmp.Compare(a.Key.Region, b.Key.Region); c != 0 {
			return c
		}
		return cmp.Compare(a.Key.Group, b.Key.Group)
	})
	return groups
}

// meanPrecip is clamped into the group's own vertex range, so a polygon with
// a constant value has exactly that mean and never falls outside bounds
// computed from the vertices.
func meanPrecip(rows []CountyRecord) float64 {
	if len(rows) == 0 {
		return 0
	}
	vals := make([]float64, len(rows))
	for i, r := range rows {
		vals[i] = r.Precip()
	}
	mean := floats.Sum(vals) / float64(len(vals))
	return min(max(mean, floats.Min(vals)), floats.Max(vals))
}

// FilterCounties keeps every vertex of the groups whose mean precipitation
// lies within r. The predicate is evaluated per group, never per row, so the
// result is always a union of complete polygons. Row order is preserved.
func FilterCounties(rows []CountyRecord, r Range) []CountyRecord {
	means := make(map[RegionKey]bool)
	for _, g := range GroupRegions(rows) {
		means[g.Key] = r.Contains(g.MeanPrecip)
	}
	return keep(rows, func(c CountyRecord) bool { return means[c.Key()] })
}

// FilterWildfires keeps incidents whose burn index lies within r.
func FilterWildfires(rows []WildfireRecord, r Range) []WildfireRecord {
	return keep(rows, func(w WildfireRecord) bool { return r.Contains(w.Burn()) })
}

// FilterLandslides keeps incidents whose repair cost lies within r.
func FilterLandslides(rows []LandslideRecord, r Range) []LandslideRecord {
	return keep(rows, func(l LandslideRecord) bool { return r.Contains(l.Cost()) })
}
