package search

import (
	"regexp"
	"strconv"
	"strings"
)

var pricePattern = regexp.MustCompile(`\$([\d,]+(?:\.\d+)?)`)

// ExtractPrice pulls the first dollar amount out of a snippet.
// Returns 0 when no price is present; prices are advisory only.
func ExtractPrice(text string) float64 {
	m := pricePattern.FindStringSubmatch(text)
	if m == nil {
		return 0
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m[1], ",", ""), 64)
	if err != nil {
		return 0
	}
	return v
}
