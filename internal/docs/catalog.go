package docs

import (
	"fmt"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/analysis/analyzer/keyword"
	"github.com/blevesearch/bleve/v2/mapping"
)

// Index is the subset of bleve.Index the catalog needs, so tests can swap in a mock
type Index interface {
	Search(req *bleve.SearchRequest) (*bleve.SearchResult, error)
	DocCount() (uint64, error)
	Close() error
}

// Catalog field names
const (
	fieldKey      = "key"
	fieldCategory = "category"
	fieldName     = "name"
	fieldSource   = "source"
	fieldTitles   = "titles"
	fieldOrder    = "order"
)

// Catalog is an in-memory bleve index with one document per cache entry.
// It answers "which plugins/subsystems exist" style lookups in cache order.
type Catalog struct {
	index Index
	size  int
}

// NewCatalog indexes every entry of cache into a memory-only bleve index
func NewCatalog(cache *Cache) (*Catalog, error) {
	index, err := bleve.NewMemOnly(catalogMapping())
	if err != nil {
		return nil, fmt.Errorf("failed to create catalog index: %w", err)
	}

	batch := index.NewBatch()
	for i, entry := range cache.Entries() {
		doc := map[string]interface{}{
			fieldKey:      entry.Key,
			fieldCategory: entry.Category.String(),
			fieldName:     entry.Name,
			fieldSource:   entry.Source,
			fieldTitles:   entry.Sections.Titles(),
			fieldOrder:    float64(i),
		}
		if err := batch.Index(entry.Key, doc); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to add entry %s to batch: %w", entry.Key, err)
		}
	}
	if batch.Size() > 0 {
		if err := index.Batch(batch); err != nil {
			index.Close()
			return nil, fmt.Errorf("failed to index catalog: %w", err)
		}
	}

	return NewCatalogWithIndex(index, cache.Len()), nil
}

// NewCatalogWithIndex wraps an existing index holding size documents
func NewCatalogWithIndex(index Index, size int) *Catalog {
	return &Catalog{index: index, size: size}
}

func catalogMapping() mapping.IndexMapping {
	entryMapping := bleve.NewDocumentMapping()
	for _, field := range []string{fieldKey, fieldCategory, fieldName, fieldSource} {
		entryMapping.AddFieldMappingsAt(field, keywordFieldMapping())
	}
	entryMapping.AddFieldMappingsAt(fieldTitles, bleve.NewTextFieldMapping())
	entryMapping.AddFieldMappingsAt(fieldOrder, bleve.NewNumericFieldMapping())

	indexMapping := bleve.NewIndexMapping()
	indexMapping.DefaultMapping = entryMapping
	return indexMapping
}

// keywordFieldMapping indexes the whole value as a single term
func keywordFieldMapping() *mapping.FieldMapping {
	fm := bleve.NewTextFieldMapping()
	fm.Analyzer = keyword.Name
	return fm
}

// Names returns the entity names of every entry in category, in cache order
func (c *Catalog) Names(category Category) ([]string, error) {
	return c.lookup(category, fieldName)
}

// Keys returns the cache keys of every entry in category, in cache order
func (c *Catalog) Keys(category Category) ([]string, error) {
	return c.lookup(category, fieldKey)
}

func (c *Catalog) lookup(category Category, field string) ([]string, error) {
	query := bleve.NewTermQuery(category.String())
	query.SetField(fieldCategory)

	size := c.size
	if size < 1 {
		size = 1
	}
	req := bleve.NewSearchRequestOptions(query, size, 0, false)
	req.SortBy([]string{fieldOrder})
	req.Fields = []string{field}

	result, err := c.index.Search(req)
	if err != nil {
		return nil, fmt.Errorf("catalog lookup for %s failed: %w", category, err)
	}

	values := make([]string, 0, len(result.Hits))
	for _, hit := range result.Hits {
		if value, ok := hit.Fields[field].(string); ok {
			values = append(values, value)
		}
	}
	return values, nil
}

// DocCount returns the number of catalogued entries
func (c *Catalog) DocCount() (uint64, error) {
	return c.index.DocCount()
}

// Close releases the underlying index
func (c *Catalog) Close() error {
	return c.index.Close()
}
