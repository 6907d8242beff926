// Package search selects restaurant recommendations from a loaded dataset.
package search

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/atinyakov/restofinder/internal/dataset"
	"github.com/atinyakov/restofinder/internal/models"
)

// MaxResults is the number of matches returned by Filter.
const MaxResults = 10

// Mode selects which field a query is matched against.
type Mode string

const (
	ModeName    Mode = "name"
	ModeCuisine Mode = "cuisine"
	ModePrice   Mode = "price"
	ModeRatings Mode = "ratings"
)

var (
	// ErrUnknownMode is returned for a search mode outside the supported set.
	ErrUnknownMode = errors.New("unknown search mode")
	// ErrInvalidPriceQuery is returned when a price query is not an integer.
	ErrInvalidPriceQuery = errors.New("price query is not an integer")
)

// Band is a half-open price range (Low, High]. Unbounded ends use math.MinInt64
// and math.MaxInt64.
type Band struct {
	Low  int64
	High int64
}

// Contains reports whether price falls inside the band.
func (b Band) Contains(price int64) bool {
	return price > b.Low && price <= b.High
}

// missingRatingsText is the textual form a missing rating is matched as.
const missingRatingsText = "nan"

// bandEdges are the upper bounds of the fixed price bands.
var bandEdges = []int64{500, 1000, 1500, 2000, 2500, 3000}

// PriceBand returns the band the threshold falls into.
func PriceBand(threshold int64) Band {
	low := int64(math.MinInt64)
	for _, edge := range bandEdges {
		if threshold <= edge {
			return Band{Low: low, High: edge}
		}
		low = edge
	}
	return Band{Low: low, High: math.MaxInt64}
}

// Filter returns up to MaxResults records of ds matching query in the given
// mode, in dataset order. The query is trimmed and lower-cased first.
//
// Name and cuisine match case-insensitive substrings, ratings match a
// substring of the rating's textual form and price selects the whole band the
// integer query falls into.
func Filter(ds *dataset.Dataset, query string, mode string) ([]models.Recommendation, error) {
	if !ds.HasPrice {
		// every result carries the price column
		return nil, fmt.Errorf("%w: %s", dataset.ErrMissingColumn, dataset.ColumnPrice)
	}

	query = strings.ToLower(strings.TrimSpace(query))

	var match func(r *models.Restaurant) bool
	switch Mode(mode) {
	case ModeName:
		match = func(r *models.Restaurant) bool {
			return r.Name != "" && strings.Contains(strings.ToLower(r.Name), query)
		}
	case ModeCuisine:
		match = func(r *models.Restaurant) bool {
			return r.Cuisine != "" && strings.Contains(strings.ToLower(r.Cuisine), query)
		}
	case ModeRatings:
		match = func(r *models.Restaurant) bool {
			text := r.RatingsText
			if text == "" {
				text = missingRatingsText
			}
			return strings.Contains(text, query)
		}
	case ModePrice:
		threshold, err := parseThreshold(query)
		if err != nil {
			return nil, err
		}
		band := PriceBand(threshold)
		match = func(r *models.Restaurant) bool {
			return band.Contains(r.PriceCleaned)
		}
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownMode, mode)
	}

	out := make([]models.Recommendation, 0, MaxResults)
	for i := range ds.Records {
		if len(out) == MaxResults {
			break
		}
		if match(&ds.Records[i]) {
			out = append(out, ds.Records[i].Recommend())
		}
	}
	return out, nil
}

// parseThreshold parses an integer price query. Integers beyond the int64
// range are clamped, which keeps them in the outermost bands.
func parseThreshold(query string) (int64, error) {
	n, err := strconv.ParseInt(query, 10, 64)
	if err == nil {
		return n, nil
	}
	var numErr *strconv.NumError
	if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
		if strings.HasPrefix(query, "-") {
			return math.MinInt64, nil
		}
		return math.MaxInt64, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrInvalidPriceQuery, query)
}
