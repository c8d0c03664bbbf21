package filegraph

import (
	"context"

	"codegraph/backend/internal/vector"
	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	"go.uber.org/zap"
)

// Resolver finds a file's nearest neighbors in the vector index.
type Resolver struct {
	index  vector.Index
	logger *zap.Logger
}

// NewResolver creates a resolver over the given index.
func NewResolver(index vector.Index) *Resolver {
	return &Resolver{
		index:  index,
		logger: logger.Get(),
	}
}

// Resolve queries the index with the file's own embedding, asking for
// k+1 results because the file itself typically ranks first with a
// near-perfect score. The self-match is dropped by filename; if the index
// did not return it, the top k of whatever came back is used instead.
// Order is preserved as returned (descending score, stable ties).
func (r *Resolver) Resolve(ctx context.Context, rec FileRecord, k int) (NeighborResult, error) {
	points, err := r.index.Search(ctx, rec.Embedding, uint64(k+1))
	if err != nil {
		return NeighborResult{}, apperrors.NewVectorQueryFailed(rec.Filename, err)
	}

	neighbors := make([]Neighbor, 0, k)
	for _, pt := range points {
		if pt.Filename == "" || pt.Filename == rec.Filename {
			continue
		}
		neighbors = append(neighbors, Neighbor{
			Filename: pt.Filename,
			Score:    pt.Score,
		})
		if len(neighbors) == k {
			break
		}
	}

	r.logger.Debug("Resolved neighbors",
		zap.String("filename", rec.Filename),
		zap.Int("neighbors", len(neighbors)),
	)

	return NeighborResult{
		SourceFilename: rec.Filename,
		Neighbors:      neighbors,
	}, nil
}
