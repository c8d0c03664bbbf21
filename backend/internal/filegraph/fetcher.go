package filegraph

import (
	"context"

	"codegraph/backend/internal/vector"
	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Fetcher enumerates every distinct file stored in the vector index.
type Fetcher struct {
	index      vector.Index
	collection string
	logger     *zap.Logger
}

// NewFetcher creates a fetcher over the given index. The collection name
// is only used to annotate errors.
func NewFetcher(index vector.Index, collection string) *Fetcher {
	return &Fetcher{
		index:      index,
		collection: collection,
		logger:     logger.Get(),
	}
}

// FetchAll scrolls the whole collection and returns one FileRecord per
// distinct filename, first occurrence winning (the index may hold several
// chunks per file). An empty index yields an empty slice, not an error.
// Records missing a filename or embedding are skipped with a warning.
func (f *Fetcher) FetchAll(ctx context.Context) ([]FileRecord, error) {
	points, err := f.index.ScrollAll(ctx)
	if err != nil {
		return nil, apperrors.NewIndexUnavailable(f.collection, err)
	}

	seen := make(map[string]bool, len(points))
	records := make([]FileRecord, 0, len(points))

	for _, pt := range points {
		if pt.Filename == "" || len(pt.Embedding) == 0 {
			f.logger.Warn("Skipping malformed index record",
				zap.String("filename", pt.Filename),
				zap.Int("embedding_len", len(pt.Embedding)),
			)
			continue
		}
		if seen[pt.Filename] {
			continue
		}
		seen[pt.Filename] = true
		records = append(records, FileRecord{
			Filename:       pt.Filename,
			Embedding:      pt.Embedding,
			DocumentLength: pt.DocumentLength,
		})
	}

	f.logger.Debug("Fetched file records",
		zap.Int("points", len(points)),
		zap.Int("distinct_files", len(records)),
	)

	return records, nil
}
