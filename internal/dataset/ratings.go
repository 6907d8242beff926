package dataset

import (
	"math"
	"strconv"
	"strings"

	"github.com/atinyakov/restofinder/internal/models"
)

type ratingsKind int

const (
	ratingsInt ratingsKind = iota
	ratingsFloat
	ratingsText
)

// applyRatings fills the ratings fields of records from the raw cells.
//
// The textual form depends on the whole column, the way a data-frame infers a
// column type: a column of integers without blanks prints as "4", a numeric
// column prints floats as "4.0" or "4.5", and anything else keeps the raw text.
func applyRatings(records []models.Restaurant, raw []string) {
	kind := detectRatingsKind(raw)

	for i, cell := range raw {
		if cell == "" {
			continue
		}
		rec := &records[i]
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err == nil && !math.IsNaN(v) {
			rec.Ratings = v
			rec.HasRatings = true
		}

		switch kind {
		case ratingsInt:
			n, _ := strconv.ParseInt(strings.TrimSpace(cell), 10, 64)
			rec.RatingsText = strconv.FormatInt(n, 10)
		case ratingsFloat:
			rec.RatingsText = formatFloat(v)
		default:
			rec.RatingsText = cell
		}
	}
}

func detectRatingsKind(raw []string) ratingsKind {
	kind := ratingsInt
	for _, cell := range raw {
		if cell == "" {
			// blanks force a float column
			if kind == ratingsInt {
				kind = ratingsFloat
			}
			continue
		}
		s := strings.TrimSpace(cell)
		if kind == ratingsInt {
			if _, err := strconv.ParseInt(s, 10, 64); err == nil {
				continue
			}
			kind = ratingsFloat
		}
		if _, err := strconv.ParseFloat(s, 64); err != nil {
			return ratingsText
		}
	}
	return kind
}

// formatFloat renders v as the dataset exporter prints floats: the shortest round-trip
// digits, always with a fractional part, switching to exponent notation below
// 1e-4 and from 1e16.
func formatFloat(v float64) string {
	switch {
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	}

	e := strconv.FormatFloat(v, 'e', -1, 64)
	exp, _ := strconv.Atoi(e[strings.IndexByte(e, 'e')+1:])
	if v != 0 && (exp < -4 || exp >= 16) {
		return e
	}

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
