package filegraph

import (
	"context"

	apperrors "codegraph/backend/pkg/errors"
	"codegraph/backend/pkg/logger"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// FileFetcher enumerates the distinct files known to the index.
type FileFetcher interface {
	FetchAll(ctx context.Context) ([]FileRecord, error)
}

// NeighborResolver finds a single file's nearest neighbors.
type NeighborResolver interface {
	Resolve(ctx context.Context, rec FileRecord, k int) (NeighborResult, error)
}

// GraphAssembler merges fetch and neighbor results into one graph.
type GraphAssembler interface {
	Assemble(sourceFiles []FileRecord, neighborResults []NeighborResult) Graph
}

// Service orchestrates fetch, neighbor resolution, and assembly for one
// graph request. Credential checks happen in the HTTP middleware before
// the service is ever invoked.
type Service struct {
	fetcher       FileFetcher
	resolver      NeighborResolver
	assembler     GraphAssembler
	neighborCount int
	concurrency   int
	logger        *zap.Logger
}

// NewService wires the collaborators together. neighborCount is the k of
// each nearest-neighbor query; concurrency bounds the parallel fan-out
// against the vector index.
func NewService(fetcher FileFetcher, resolver NeighborResolver, assembler GraphAssembler, neighborCount, concurrency int) *Service {
	return &Service{
		fetcher:       fetcher,
		resolver:      resolver,
		assembler:     assembler,
		neighborCount: neighborCount,
		concurrency:   concurrency,
		logger:        logger.Get(),
	}
}

// BuildGraph computes the similarity graph for the whole collection.
// Neighbor queries for distinct files run concurrently, bounded by the
// configured limit; results land in a slice indexed by fetch position so
// assembly order never depends on completion order. The call is
// all-or-nothing: the first failing query cancels the rest and nothing
// partial is assembled.
func (s *Service) BuildGraph(ctx context.Context) (Graph, error) {
	files, err := s.fetcher.FetchAll(ctx)
	if err != nil {
		return Graph{}, apperrors.NewUpstreamFailure("fetch", err)
	}

	results := make([]NeighborResult, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.concurrency)
	for i, rec := range files {
		g.Go(func() error {
			res, err := s.resolver.Resolve(gctx, rec, s.neighborCount)
			if err != nil {
				return err
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Graph{}, apperrors.NewUpstreamFailure("resolve", err)
	}

	graph := s.assembler.Assemble(files, results)

	s.logger.Info("Built similarity graph",
		zap.Int("files", len(files)),
		zap.Int("nodes", len(graph.Nodes)),
		zap.Int("edges", len(graph.Edges)),
	)

	return graph, nil
}
