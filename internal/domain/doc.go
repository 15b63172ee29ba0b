// Package domain models the three hazard datasets drawn on the Oregon map and
// the filter pipeline applied to them on every interaction.
//
// # Data Sources
//
// County precipitation arrives as a delimited table with one row per polygon
// vertex. Wildfire and landslide incidents arrive as GeoJSON feature
// collections with one point feature per incident. All three are loaded once
// per process and never mutated afterwards; filtering only selects which
// immutable records take part in a rendering pass.
//
// # County Polygons
//
// Rows sharing a (subregion, group) key trace one polygon outline in row order:
//
//	subregion,group,lat,long,AveragePrecip
//	baker,1,44.88,-117.02,18.3
//	baker,1,44.90,-117.05,18.3
//	...
//
// A county with islands or detached parts spans several groups. The group
// mean of AveragePrecip decides whether the whole polygon is drawn; a single
// outlying vertex never removes or keeps a polygon on its own.
//
// # Point Incidents
//
// Required measures:
//
//	Wildfires:  BurnIndex    (feature dropped when absent or null)
//	Landslides: REPAIR_COST  (feature dropped when absent, null, or negative)
//
// Optional names (FireName, SLIDE_NAME) fall back to "Unknown" at parse time.
//
// # Colour Tiers
//
// Mean precipitation in inches maps to five tiers by strict descending
// thresholds; a value equal to a threshold lands in the tier below it:
//
//	> 70  darkest   #3b0f70
//	> 50  dark      #842681
//	> 35  mid       #df65b0
//	> 20  light     #fbb4b9
//	else  lightest  #fef0d9
//
// # Sampling
//
// Both point datasets are cleaned, then sampled down to a fixed cap with a
// fixed seed so every process start shows the same markers. Filter bounds are
// computed over the sampled tables, not the raw downloads.
package domain
