package domain

// Tier is one of five fixed precipitation colour buckets.
type Tier int

const (
	TierLightest Tier = iota
	TierLight
	TierMid
	TierDark
	TierDarkest
)

var tierColors = [...]string{
	TierLightest: "#fef0d9",
	TierLight:    "#fbb4b9",
	TierMid:      "#df65b0",
	TierDark:     "#842681",
	TierDarkest:  "#3b0f70",
}

var tierNames = [...]string{
	TierLightest: "lightest",
	TierLight:    "light",
	TierMid:      "mid",
	TierDark:     "dark",
	TierDarkest:  "darkest",
}

// TierFor maps a precipitation value to its tier. Thresholds are checked in
// descending order with strict comparisons, so 70, 50, 35 and 20 fall into
// the tier below.
func TierFor(v float64) Tier {
	switch {
	case v > 70:
		return TierDarkest
	case v > 50:
		return TierDark
	case v > 35:
		return TierMid
	case v > 20:
		return TierLight
	default:
		return TierLightest
	}
}

// Color returns the fill colour token of the tier.
func (t Tier) Color() string {
	if t < TierLightest || t > TierDarkest {
		return tierColors[TierLightest]
	}
	return tierColors[t]
}

func (t Tier) String() string {
	if t < TierLightest || t > TierDarkest {
		return "unknown"
	}
	return tierNames[t]
}
