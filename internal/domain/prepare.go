package domain

// Prepared holds the cleaned and sampled tables together with the filter
// bounds derived from them. It is shared read-only by every session.
type Prepared struct {
	Counties   []CountyRecord
	Wildfires  []WildfireRecord
	Landslides []LandslideRecord
	Bounds     DatasetBounds
}

// Prepare cleans every table, samples both point tables down to sampleSize
// with seed, and computes the filter bounds over the result.
func Prepare(d *Datasets, sampleSize int, seed uint64) *Prepared {
	counties := CleanCounties(d.Counties)
	fires := Sample(CleanWildfires(d.Wildfires), sampleSize, seed)
	slides := Sample(CleanLandslides(d.Landslides), sampleSize, seed)

	return &Prepared{
		Counties:   counties,
		Wildfires:  fires,
		Landslides: slides,
		Bounds:     ComputeBounds(counties, fires, slides),
	}
}

// View is the visible subset of each dataset for one filter state.
type View struct {
	Regions    []RegionGroup
	Wildfires  []WildfireRecord
	Landslides []LandslideRecord
	Visibility Visibility
}

// Counts summarises a view for the sidebar.
type Counts struct {
	Counties   int `json:"counties"`
	Wildfires  int `json:"wildfires"`
	Landslides int `json:"landslides"`
}

// Apply filters the prepared tables with s. Filtered point tables are
// computed regardless of visibility; the renderer decides what to draw.
func Apply(p *Prepared, s FilterState) View {
	return View{
		Regions:    GroupRegions(FilterCounties(p.Counties, s.Precip)),
		Wildfires:  FilterWildfires(p.Wildfires, s.Burn),
		Landslides: FilterLandslides(p.Landslides, s.Cost),
		Visibility: s.Visibility,
	}
}

// Counts returns the number of distinct visible counties and the number of
// visible incidents per layer.
func (v View) Counts() Counts {
	regions := make(map[string]struct{}, len(v.Regions))
	for _, g := range v.Regions {
		regions[g.Key.Region] = struct{}{}
	}
	return Counts{
		Counties:   len(regions),
		Wildfires:  len(v.Wildfires),
		Landslides: len(v.Landslides),
	}
}
