package domain

import (
	"time"

	"github.com/paulmach/orb"
)

// UnknownName is the display fallback for incidents without a name.
const UnknownName = "Unknown"

// CountyRecord is one boundary vertex of a county polygon.
type CountyRecord struct {
	Region string  `json:"region"`
	Group  int     `json:"group"`
	Lat    float64 `json:"lat"`
	Lon    float64 `json:"lon"`

	// AveragePrecip is nil when the source cell was empty.
	AveragePrecip *float64 `json:"average_precip,omitempty"`
}

// RegionKey identifies a single polygon.
type RegionKey struct {
	Region string
	Group  int
}

// Key returns the polygon this vertex belongs to.
func (c CountyRecord) Key() RegionKey {
	return RegionKey{Region: c.Region, Group: c.Group}
}

// Precip returns the vertex precipitation, or 0 when missing.
func (c CountyRecord) Precip() float64 {
	if c.AveragePrecip == nil {
		return 0
	}
	return *c.AveragePrecip
}

// WildfireRecord is a single wildfire incident.
type WildfireRecord struct {
	Name      string   `json:"name"`
	BurnIndex *float64 `json:"burn_index,omitempty"`
	Lat       float64  `json:"lat"`
	Lon       float64  `json:"lon"`
}

// Burn returns the burn index, or 0 when missing.
func (w WildfireRecord) Burn() float64 {
	if w.BurnIndex == nil {
		return 0
	}
	return *w.BurnIndex
}

// LandslideRecord is a single landslide incident.
type LandslideRecord struct {
	Name       string   `json:"name"`
	RepairCost *float64 `json:"repair_cost,omitempty"`
	Lat        float64  `json:"lat"`
	Lon        float64  `json:"lon"`
}

// Cost returns the repair cost, or 0 when missing.
func (l LandslideRecord) Cost() float64 {
	if l.RepairCost == nil {
		return 0
	}
	return *l.RepairCost
}

// Point returns the incident location in orb (lon, lat) order.
func (w WildfireRecord) Point() orb.Point { return orb.Point{w.Lon, w.Lat} }

// Point returns the incident location in orb (lon, lat) order.
func (l LandslideRecord) Point() orb.Point { return orb.Point{l.Lon, l.Lat} }

// Datasets is the immutable result of a successful load.
type Datasets struct {
	Counties   []CountyRecord
	Wildfires  []WildfireRecord
	Landslides []LandslideRecord
	LoadedAt   time.Time
}
