// Package dataset loads the restaurant CSV file into typed records.
//
// The file is treated as an external, unversioned source: its header is
// checked for the columns the search needs, malformed lines are skipped and
// a numeric price is derived from the free-form price text of every row.
package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/atinyakov/restofinder/internal/models"
)

// Column names expected in the dataset header.
const (
	ColumnName    = "name"
	ColumnCuisine = "cuisine"
	ColumnPrice   = "price"
	ColumnRatings = "ratings"
	ColumnLink    = "link"
)

var (
	// ErrMissingColumn is returned when a required column is absent from the header.
	ErrMissingColumn = errors.New("missing column")
	// ErrEmptyDataset is returned when the input has no header line.
	ErrEmptyDataset = errors.New("empty dataset")
)

// requiredColumns must all be present for a load to succeed. The price column
// is optional.
var requiredColumns = []string{ColumnName, ColumnCuisine, ColumnRatings, ColumnLink}

// missingValues are the cell values treated as absent, the same set
// spreadsheet and data-frame tools export for "not available".
var missingValues = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

// Error is the DatasetError: any failure to read or interpret the dataset file.
type Error struct {
	// Path is the file that failed to load.
	Path string
	// Err is the underlying cause.
	Err error
}

func (e *Error) Error() string {
	return fmt.Sprintf("dataset %s: %v", e.Path, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Dataset is the in-memory view of one load of the CSV file.
type Dataset struct {
	// Records holds the parsed rows in file order.
	Records []models.Restaurant
	// HasPrice reports whether the file had a price column. When false,
	// PriceCleaned is not populated.
	HasPrice bool
	// Skipped counts malformed lines that were dropped.
	Skipped int
}

// Load opens and parses the CSV file at path. Every error is returned as *Error.
func Load(path string) (*Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	ds, err := Parse(f)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	return ds, nil
}

// Parse reads CSV data with a header line from r.
func Parse(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, ErrEmptyDataset
	}
	if err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx := indexColumns(header)
	for _, col := range requiredColumns {
		if _, ok := idx[col]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, col)
		}
	}
	priceIdx, hasPrice := idx[ColumnPrice]

	ds := &Dataset{HasPrice: hasPrice}
	var rawRatings []string

	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		var perr *csv.ParseError
		if errors.As(err, &perr) {
			ds.Skipped++
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}
		if len(row) > len(header) {
			ds.Skipped++
			continue
		}

		cell := func(i int) string {
			if i < len(row) {
				return row[i]
			}
			return ""
		}

		rec := models.Restaurant{
			Name:    present(cell(idx[ColumnName])),
			Cuisine: present(cell(idx[ColumnCuisine])),
			Link:    present(cell(idx[ColumnLink])),
		}
		if hasPrice {
			rec.Price = present(cell(priceIdx))
			cleaned, err := CleanPrice(rec.Price)
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", lineOf(cr), err)
			}
			rec.PriceCleaned = cleaned
		}

		ds.Records = append(ds.Records, rec)
		rawRatings = append(rawRatings, present(cell(idx[ColumnRatings])))
	}

	applyRatings(ds.Records, rawRatings)
	return ds, nil
}

// CleanPrice keeps only the decimal digits of price and parses them.
// Text without digits yields 0.
func CleanPrice(price string) (int64, error) {
	var b strings.Builder
	for _, r := range price {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return 0, nil
	}
	v, err := strconv.ParseInt(b.String(), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("clean price %q: %w", price, err)
	}
	return v, nil
}

func indexColumns(header []string) map[string]int {
	idx := make(map[string]int, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		if _, dup := idx[name]; !dup {
			idx[name] = i
		}
	}
	return idx
}

func present(v string) string {
	if _, missing := missingValues[v]; missing {
		return ""
	}
	return v
}

func lineOf(cr *csv.Reader) int {
	line, _ := cr.FieldPos(0)
	return line
}
