package tools

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/truenas/docs-mcp-server/internal/query"
)

// OverviewInput defines input for truenas_overview tool
type OverviewInput struct{}

// PluginDocsInput defines input for truenas_plugin_docs tool
type PluginDocsInput struct {
	PluginName string `json:"plugin_name,omitempty" jsonschema:"Name of a specific plugin (e.g. smb, apps, certificate). Leave empty for general plugin documentation."`
	Topic      string `json:"topic,omitempty" jsonschema:"Specific topic to retrieve: service_types, patterns, categories or all (default all)"`
}

// APIDocsInput defines input for truenas_api_docs tool
type APIDocsInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"Specific API topic to retrieve: versioning, models, patterns, best_practices or all (default all)"`
}

// TestingDocsInput defines input for truenas_testing_docs tool
type TestingDocsInput struct {
	Topic string `json:"topic,omitempty" jsonschema:"Testing topic to retrieve: overview, patterns or all (default all)"`
}

// SubsystemDocsInput defines input for truenas_subsystem_docs tool
type SubsystemDocsInput struct {
	Subsystem string `json:"subsystem" jsonschema:"Name of the subsystem (e.g. alert, alembic). Leave empty to list available subsystems."`
}

// SearchDocsInput defines input for truenas_search_docs tool
type SearchDocsInput struct {
	Query string `json:"query" jsonschema:"Search query (keywords, method names, concepts)"`
}

// DocTools exposes the documentation queries as MCP tools
type DocTools struct {
	engine *query.Engine
}

// NewDocTools creates the documentation tool handlers
func NewDocTools(engine *query.Engine) *DocTools {
	return &DocTools{engine: engine}
}

// Overview handles truenas_overview
func (d *DocTools) Overview(ctx context.Context, req *mcp.CallToolRequest, input OverviewInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolOverview, nil)
}

// PluginDocs handles truenas_plugin_docs
func (d *DocTools) PluginDocs(ctx context.Context, req *mcp.CallToolRequest, input PluginDocsInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolPluginDocs, map[string]any{
		"plugin_name": input.PluginName,
		"topic":       input.Topic,
	})
}

// APIDocs handles truenas_api_docs
func (d *DocTools) APIDocs(ctx context.Context, req *mcp.CallToolRequest, input APIDocsInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolAPIDocs, map[string]any{"topic": input.Topic})
}

// TestingDocs handles truenas_testing_docs
func (d *DocTools) TestingDocs(ctx context.Context, req *mcp.CallToolRequest, input TestingDocsInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolTestingDocs, map[string]any{"topic": input.Topic})
}

// SubsystemDocs handles truenas_subsystem_docs
func (d *DocTools) SubsystemDocs(ctx context.Context, req *mcp.CallToolRequest, input SubsystemDocsInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolSubsystemDocs, map[string]any{"subsystem": input.Subsystem})
}

// SearchDocs handles truenas_search_docs
func (d *DocTools) SearchDocs(ctx context.Context, req *mcp.CallToolRequest, input SearchDocsInput) (*mcp.CallToolResult, any, error) {
	return d.call(ctx, query.ToolSearchDocs, map[string]any{"query": input.Query})
}

// call goes through the engine dispatcher so failures come back as text
func (d *DocTools) call(ctx context.Context, name string, args map[string]any) (*mcp.CallToolResult, any, error) {
	return textResult(d.engine.Call(ctx, name, args)), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

// RegisterDocTools registers the six documentation tools with the MCP server
func RegisterDocTools(server *mcp.Server, engine *query.Engine) int {
	d := NewDocTools(engine)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolOverview,
			Description: "Get an overview of the TrueNAS middleware architecture and repository structure",
		},
		d.Overview,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolPluginDocs,
			Description: "Get documentation for TrueNAS plugins (service types, patterns, specific plugins)",
		},
		d.PluginDocs,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolAPIDocs,
			Description: "Get API documentation (versioning, models, patterns, best practices)",
		},
		d.APIDocs,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolTestingDocs,
			Description: "Get testing documentation and patterns for TrueNAS integration tests",
		},
		d.TestingDocs,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolSubsystemDocs,
			Description: "Get documentation for specific TrueNAS subsystems (alert, alembic, etc.)",
		},
		d.SubsystemDocs,
	)

	mcp.AddTool(server,
		&mcp.Tool{
			Name:        query.ToolSearchDocs,
			Description: "Search across all TrueNAS documentation for specific keywords or topics",
		},
		d.SearchDocs,
	)

	return len(engine.ToolNames())
}
