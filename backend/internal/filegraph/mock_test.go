package filegraph

import (
	"context"
	"errors"
	"sync"

	"codegraph/backend/internal/vector"
)

// mockIndex is a scripted vector.Index for tests.
type mockIndex struct {
	mu sync.Mutex

	scrollPoints []vector.Point
	scrollErr    error
	scrollCalls  int

	// searchByFirstDim maps the first component of the query vector to
	// a canned result set, which lets one mock serve many files.
	searchByFirstDim map[float32][]vector.Point
	searchErr        error
	searchCalls      int
	lastSearchLimit  uint64
}

func (m *mockIndex) ScrollAll(ctx context.Context) ([]vector.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.scrollCalls++
	if m.scrollErr != nil {
		return nil, m.scrollErr
	}
	return m.scrollPoints, nil
}

func (m *mockIndex) Search(ctx context.Context, vec []float32, limit uint64) ([]vector.Point, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.searchCalls++
	m.lastSearchLimit = limit
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if len(vec) == 0 {
		return nil, nil
	}
	return m.searchByFirstDim[vec[0]], nil
}

func (m *mockIndex) Close() error { return nil }

var errTransport = errors.New("connection refused")
