package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/atinyakov/restofinder/internal/dataset"
	"github.com/atinyakov/restofinder/internal/metrics"
	"github.com/atinyakov/restofinder/internal/models"
	"github.com/atinyakov/restofinder/internal/search"
)

// SearchService answers recommendation queries against the dataset file.
// The file is read again on every call, so edits show up on the next search.
type SearchService struct {
	path string
	log  *zap.Logger
}

// NewSearchService creates a SearchService reading the CSV at path.
func NewSearchService(path string, log *zap.Logger) *SearchService {
	return &SearchService{path: path, log: log}
}

// Recommend loads the dataset and returns up to search.MaxResults matches.
// Failures are logged and produce an empty, non-nil slice.
func (s *SearchService) Recommend(ctx context.Context, query, mode string) []models.Recommendation {
	if err := ctx.Err(); err != nil {
		return []models.Recommendation{}
	}

	start := time.Now()
	ds, err := dataset.Load(s.path)
	if err != nil {
		metrics.RecordDatasetLoad(time.Since(start), 0, 0, err)
		s.log.Warn("failed to load dataset",
			zap.String("path", s.path),
			zap.String("mode", mode),
			zap.String("query", query),
			zap.Error(err),
		)
		metrics.RecordSearch(mode, 0, err)
		return []models.Recommendation{}
	}
	metrics.RecordDatasetLoad(time.Since(start), len(ds.Records), ds.Skipped, nil)
	if ds.Skipped > 0 {
		s.log.Debug("skipped malformed dataset lines", zap.Int("skipped", ds.Skipped))
	}

	results, err := search.Filter(ds, query, mode)
	metrics.RecordSearch(mode, len(results), err)
	if err != nil {
		s.log.Warn("search failed",
			zap.String("mode", mode),
			zap.String("query", query),
			zap.Error(err),
		)
		return []models.Recommendation{}
	}
	return results
}
