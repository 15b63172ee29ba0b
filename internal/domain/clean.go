package domain

// CleanCounties drops vertices without a precipitation value.
func CleanCounties(rows []CountyRecord) []CountyRecord {
	return keep(rows, func(c CountyRecord) bool { return c.AveragePrecip != nil })
}

// CleanWildfires drops incidents without a burn index.
func CleanWildfires(rows []WildfireRecord) []WildfireRecord {
	return keep(rows, func(w WildfireRecord) bool { return w.BurnIndex != nil })
}

// CleanLandslides drops incidents without a usable repair cost.
func CleanLandslides(rows []LandslideRecord) []LandslideRecord {
	return keep(rows, func(l LandslideRecord) bool {
		return l.RepairCost != nil && *l.RepairCost >= 0
	})
}

// keep returns the rows matching pred in their original order. The input
// slice is never modified.
func keep[T any](rows []T, pred func(T) bool) []T {
	out := make([]T, 0, len(rows))
	for _, r := range rows {
		if pred(r) {
			out = append(out, r)
		}
	}
	return out
}
