package render

import (
	"math"
	"strconv"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var (
	titleCaser = cases.Title(language.English)
	printer    = message.NewPrinter(language.English)
)

// TitleCase capitalises each word of a lower-case region name,
// e.g. "hood river" -> "Hood River".
func TitleCase(s string) string {
	return titleCaser.String(s)
}

// FormatCurrency renders a dollar amount truncated to whole dollars with
// thousands separators, e.g. 1234567.89 -> "$1,234,567".
func FormatCurrency(v float64) string {
	return printer.Sprintf("$%d", int64(math.Trunc(v)))
}

// FormatPrecip renders a precipitation value with one decimal place.
func FormatPrecip(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}

// FormatMeasure renders a measure using the shortest exact representation,
// keeping at least one decimal for whole numbers ("45" -> "45.0").
func FormatMeasure(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return strconv.FormatFloat(v, 'f', 1, 64)
	}
	return strconv.FormatFloat(v, 'f', -1, 64)
}
