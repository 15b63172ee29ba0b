package http

import (
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/couchcryptid/hazard-map-dashboard/internal/domain"
)

// Query parameters accepted by the dashboard.
const (
	paramPrecipMin      = "precip_min"
	paramPrecipMax      = "precip_max"
	paramBurnMin        = "burn_min"
	paramBurnMax        = "burn_max"
	paramCostMin        = "cost_min"
	paramCostMax        = "cost_max"
	paramShowWildfires  = "show_wildfires"
	paramShowLandslides = "show_landslides"

	// paramApply marks a sidebar form submission. Browsers omit unchecked
	// boxes, so with apply present a missing toggle means off.
	paramApply = "apply"
)

// applyQuery updates state from q. Values that do not parse are ignored;
// numeric values are clamped by the range model.
func applyQuery(state *domain.FilterState, q url.Values) {
	setRange(&state.Precip, q, paramPrecipMin, paramPrecipMax)
	setRange(&state.Burn, q, paramBurnMin, paramBurnMax)
	setRange(&state.Cost, q, paramCostMin, paramCostMax)

	submitted := q.Has(paramApply)
	if v, ok := toggle(q, paramShowWildfires, submitted); ok {
		state.Visibility.Wildfires = v
	}
	if v, ok := toggle(q, paramShowLandslides, submitted); ok {
		state.Visibility.Landslides = v
	}
}

func setRange(r *domain.Range, q url.Values, minKey, maxKey string) {
	if v, ok := number(q, minKey); ok {
		r.SetMin(v)
	}
	if v, ok := number(q, maxKey); ok {
		r.SetMax(v)
	}
}

func number(q url.Values, key string) (float64, bool) {
	raw := strings.TrimSpace(q.Get(key))
	if raw == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}

func toggle(q url.Values, key string, submitted bool) (bool, bool) {
	if !q.Has(key) {
		return false, submitted
	}
	switch strings.ToLower(strings.TrimSpace(q.Get(key))) {
	case "on", "yes":
		return true, true
	case "off", "no":
		return false, true
	}
	v, err := strconv.ParseBool(q.Get(key))
	if err != nil {
		return false, false
	}
	return v, true
}
