package search

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	nonPriceChars = regexp.MustCompile(`[^\d-]`)
	digitRuns     = regexp.MustCompile(`\d+`)
)

// ExactPriceMatch reports whether query names the given price.
//
// The price is reduced to its digits and hyphens. A value such as "500-800"
// is a range and matches any integer query inside it, bounds included;
// anything else must equal the trimmed query exactly. It is not used by the
// request handlers.
func ExactPriceMatch(query, price string) bool {
	normalized := nonPriceChars.ReplaceAllString(price, "")
	query = strings.TrimSpace(query)

	if strings.Contains(normalized, "-") {
		bounds := digitRuns.FindAllString(normalized, -1)
		if len(bounds) != 2 {
			return false
		}
		lo, err := strconv.ParseInt(bounds[0], 10, 64)
		if err != nil {
			return false
		}
		hi, err := strconv.ParseInt(bounds[1], 10, 64)
		if err != nil {
			return false
		}
		q, err := strconv.ParseInt(query, 10, 64)
		if err != nil {
			return false
		}
		return lo <= q && q <= hi
	}

	return query == normalized
}
