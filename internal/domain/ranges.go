package domain

import "gonum.org/v1/gonum/floats"

// Filterable numeric fields.
const (
	FieldPrecipitation = "precipitation"
	FieldBurnIndex     = "burn_index"
	FieldRepairCost    = "repair_cost"
)

// Range is the active [Min, Max] window for one numeric field together with
// the dataset-wide bounds it is clamped to.
type Range struct {
	Field      string  `json:"field"`
	Min        float64 `json:"min"`
	Max        float64 `json:"max"`
	DatasetMin float64 `json:"dataset_min"`
	DatasetMax float64 `json:"dataset_max"`
}

// NewRange returns a range spanning the full dataset bounds.
func NewRange(field string, lo, hi float64) Range {
	if lo > hi {
		lo, hi = hi, lo
	}
	return Range{Field: field, Min: lo, Max: hi, DatasetMin: lo, DatasetMax: hi}
}

// Contains reports whether v lies in [Min, Max] inclusive.
func (r Range) Contains(v float64) bool {
	return r.Min <= v && v <= r.Max
}

// Clamp limits v to the dataset bounds.
func (r Range) Clamp(v float64) float64 {
	switch {
	case v < r.DatasetMin:
		return r.DatasetMin
	case v > r.DatasetMax:
		return r.DatasetMax
	default:
		return v
	}
}

// SetMin clamps v into the dataset bounds and makes it the lower bound.
// Max follows when v passes it.
func (r *Range) SetMin(v float64) {
	r.Min = r.Clamp(v)
	if r.Min > r.Max {
		r.Max = r.Min
	}
}

// SetMax clamps v into the dataset bounds and makes it the upper bound.
// Min follows when v drops below it.
func (r *Range) SetMax(v float64) {
	r.Max = r.Clamp(v)
	if r.Max < r.Min {
		r.Min = r.Max
	}
}

// Reset restores the window to the dataset bounds.
func (r *Range) Reset() {
	r.Min = r.DatasetMin
	r.Max = r.DatasetMax
}

// IsFull reports whether the window spans the whole dataset.
func (r Range) IsFull() bool {
	return r.Min == r.DatasetMin && r.Max == r.DatasetMax
}

// Rebase moves the window onto the dataset bounds of b, keeping the current
// selection clamped into them. A full window stays full.
func (r Range) Rebase(b Range) Range {
	if r.DatasetMin == b.DatasetMin && r.DatasetMax == b.DatasetMax {
		return r
	}
	out := NewRange(r.Field, b.DatasetMin, b.DatasetMax)
	if !r.IsFull() {
		out.SetMin(r.Min)
		out.SetMax(r.Max)
	}
	return out
}

// Visibility holds the two sidebar layer toggles.
type Visibility struct {
	Wildfires  bool `json:"wildfires"`
	Landslides bool `json:"landslides"`
}

// FilterState is the per-session filter state. It is owned by a single
// session and passed explicitly through the pipeline.
type FilterState struct {
	Precip     Range      `json:"precip"`
	Burn       Range      `json:"burn"`
	Cost       Range      `json:"cost"`
	Visibility Visibility `json:"visibility"`
}

// DatasetBounds holds the bounds of each filterable field.
type DatasetBounds struct {
	Precip Range
	Burn   Range
	Cost   Range
}

// NewFilterState returns a state spanning every dataset bound with both
// layers visible.
func NewFilterState(b DatasetBounds) FilterState {
	s := FilterState{
		Precip:     b.Precip,
		Burn:       b.Burn,
		Cost:       b.Cost,
		Visibility: Visibility{Wildfires: true, Landslides: true},
	}
	s.Reset()
	return s
}

// Reset restores every range to its dataset bounds. Visibility is kept.
func (s *FilterState) Reset() {
	s.Precip.Reset()
	s.Burn.Reset()
	s.Cost.Reset()
}

// Rebase fits every range onto b, as after a dataset reload.
func (s FilterState) Rebase(b DatasetBounds) FilterState {
	s.Precip = s.Precip.Rebase(b.Precip)
	s.Burn = s.Burn.Rebase(b.Burn)
	s.Cost = s.Cost.Rebase(b.Cost)
	return s
}

// Bounds returns the minimum and maximum of values, or (0, 0) when empty.
func Bounds(values []float64) (lo, hi float64) {
	if len(values) == 0 {
		return 0, 0
	}
	return floats.Min(values), floats.Max(values)
}

// ComputeBounds derives the filter bounds from prepared tables.
func ComputeBounds(counties []CountyRecord, fires []WildfireRecord, slides []LandslideRecord) DatasetBounds {
	precip := make([]float64, len(counties))
	for i, c := range counties {
		precip[i] = c.Precip()
	}
	burn := make([]float64, len(fires))
	for i, f := range fires {
		burn[i] = f.Burn()
	}
	cost := make([]float64, len(slides))
	for i, l := range slides {
		cost[i] = l.Cost()
	}

	pLo, pHi := Bounds(precip)
	bLo, bHi := Bounds(burn)
	cLo, cHi := Bounds(cost)
	return DatasetBounds{
		Precip: NewRange(FieldPrecipitation, pLo, pHi),
		Burn:   NewRange(FieldBurnIndex, bLo, bHi),
		Cost:   NewRange(FieldRepairCost, cLo, cHi),
	}
}
