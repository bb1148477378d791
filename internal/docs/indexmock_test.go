package docs

import (
	"fmt"
	"sync/atomic"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search"
)

// mockIndex is a simple in-memory mock of the Index interface for testing
type mockIndex struct {
	hits        search.DocumentMatchCollection
	searchError error
	closeError  error
	closed      atomic.Bool
	lastRequest *bleve.SearchRequest
}

// newMockIndex creates a mock index returning one hit per field value
func newMockIndex(field string, values ...string) *mockIndex {
	m := &mockIndex{}
	for i, v := range values {
		m.hits = append(m.hits, &search.DocumentMatch{
			ID:     fmt.Sprintf("doc_%d", i),
			Fields: map[string]interface{}{field: v},
		})
	}
	return m
}

func (m *mockIndex) Search(req *bleve.SearchRequest) (*bleve.SearchResult, error) {
	if m.closed.Load() {
		return nil, fmt.Errorf("index closed")
	}
	m.lastRequest = req
	if m.searchError != nil {
		return nil, m.searchError
	}
	return &bleve.SearchResult{
		Request: req,
		Hits:    m.hits,
		Total:   uint64(len(m.hits)),
	}, nil
}

func (m *mockIndex) DocCount() (uint64, error) {
	if m.closed.Load() {
		return 0, fmt.Errorf("index closed")
	}
	return uint64(len(m.hits)), nil
}

func (m *mockIndex) Close() error {
	if m.closed.Load() {
		return fmt.Errorf("already closed")
	}
	m.closed.Store(true)
	return m.closeError
}
