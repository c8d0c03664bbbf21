package vector

import "context"

// Point is one stored vector with the payload fields the graph builder
// cares about. Score is only meaningful on Search results.
type Point struct {
	Filename       string
	Embedding      []float32
	DocumentLength int
	Score          float32
}

// Index is the query surface of the hosted vector database. The backend
// depends only on this shape, not on the store's internals.
type Index interface {
	// ScrollAll enumerates every stored point with payload and vectors.
	ScrollAll(ctx context.Context) ([]Point, error)
	// Search returns the nearest stored points to the query vector,
	// ordered by descending similarity score.
	Search(ctx context.Context, vec []float32, limit uint64) ([]Point, error)
	Close() error
}
