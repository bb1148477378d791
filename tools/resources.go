package tools

import (
	"context"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/truenas/docs-mcp-server/internal/docs"
	"github.com/truenas/docs-mcp-server/internal/query"
)

const (
	IndexURI     = "truenas://index"
	DocURIPrefix = "truenas://docs/"

	markdownMIME     = "text/markdown"
	indexName        = "index"
	indexTitle       = "TrueNAS Documentation Index"
	indexDescription = "Table of contents of every available documentation resource"
)

// DocResources serves the documentation index and cache entries as MCP resources
type DocResources struct {
	engine *query.Engine
}

// NewDocResources creates the resource handlers
func NewDocResources(engine *query.Engine) *DocResources {
	return &DocResources{engine: engine}
}

// DocURI returns the resource URI of a cache key
func DocURI(key string) string {
	return DocURIPrefix + key
}

// ReadIndex renders the table of contents on every read
func (r *DocResources) ReadIndex(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	return textResource(req.Params.URI, r.engine.TableOfContents()), nil
}

// ReadDoc returns the stored content of the entry named by the URI
func (r *DocResources) ReadDoc(ctx context.Context, req *mcp.ReadResourceRequest) (*mcp.ReadResourceResult, error) {
	uri := req.Params.URI
	key, ok := strings.CutPrefix(uri, DocURIPrefix)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	entry, ok := r.engine.Cache().Get(key)
	if !ok {
		return nil, mcp.ResourceNotFoundError(uri)
	}
	return textResource(uri, entry.Content), nil
}

func textResource(uri, text string) *mcp.ReadResourceResult {
	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{
			{URI: uri, MIMEType: markdownMIME, Text: text},
		},
	}
}

// RegisterDocResources registers the index plus one resource per cache entry
func RegisterDocResources(server *mcp.Server, engine *query.Engine) int {
	r := NewDocResources(engine)

	server.AddResource(&mcp.Resource{
		URI:         IndexURI,
		Name:        indexName,
		Title:       indexTitle,
		Description: indexDescription,
		MIMEType:    markdownMIME,
	}, r.ReadIndex)

	entries := engine.Cache().Entries()
	for _, entry := range entries {
		server.AddResource(entryResource(entry), r.ReadDoc)
	}

	return len(entries) + 1
}

func entryResource(entry *docs.Entry) *mcp.Resource {
	title, description := query.Describe(entry)
	return &mcp.Resource{
		URI:         DocURI(entry.Key),
		Name:        entry.Key,
		Title:       title,
		Description: description,
		MIMEType:    markdownMIME,
	}
}
