package query_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truenas/docs-mcp-server/internal/docs"
	"github.com/truenas/docs-mcp-server/internal/query"
)

func TestCall(t *testing.T) {
	engine := fixtureEngine(t)
	ctx := context.Background()

	tests := []struct {
		name string
		tool string
		args map[string]any
		want string
	}{
		{
			name: "overview ignores arguments",
			tool: query.ToolOverview,
			args: map[string]any{"unused": 1},
			want: engine.Overview(),
		},
		{
			name: "plugin by name",
			tool: query.ToolPluginDocs,
			args: map[string]any{"plugin_name": "nfs"},
			want: "# NFS Plugin\n\n## Overview\nThe NFS plugin manages exports.\n",
		},
		{
			name: "plugin topic",
			tool: query.ToolPluginDocs,
			args: map[string]any{"topic": "patterns"},
			want: "## Common Plugin Patterns\n1. Validate input with ValidationErrors\n2. Emit events on change",
		},
		{
			name: "api topic",
			tool: query.ToolAPIDocs,
			args: map[string]any{"topic": "models"},
			want: "## API Models and Concepts\nPydantic models define the schemas.",
		},
		{
			name: "testing without arguments",
			tool: query.ToolTestingDocs,
			args: nil,
			want: engine.TestingDocs("all"),
		},
		{
			name: "subsystem listing",
			tool: query.ToolSubsystemDocs,
			args: map[string]any{"subsystem": ""},
			want: "Please specify a subsystem. Available: alembic, alert",
		},
		{
			name: "null argument treated as absent",
			tool: query.ToolSubsystemDocs,
			args: map[string]any{"subsystem": nil},
			want: "Please specify a subsystem. Available: alembic, alert",
		},
		{
			name: "search without query",
			tool: query.ToolSearchDocs,
			args: map[string]any{},
			want: "Please provide a search query",
		},
		{
			name: "search miss",
			tool: query.ToolSearchDocs,
			args: map[string]any{"query": "zzzznotfound"},
			want: "No results found for 'zzzznotfound'",
		},
		{
			name: "unknown tool",
			tool: "truenas_reboot",
			args: map[string]any{},
			want: "Unknown tool: truenas_reboot",
		},
		{
			name: "non-string argument",
			tool: query.ToolSearchDocs,
			args: map[string]any{"query": 42},
			want: `Error: argument "query" must be a string, got int`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, engine.Call(ctx, tt.tool, tt.args))
		})
	}
}

func TestCall_SearchScenarioC(t *testing.T) {
	engine := fixtureEngine(t)

	got := engine.Call(context.Background(), query.ToolSearchDocs, map[string]any{"query": "CRUD"})

	assert.Contains(t, got, "Found in Plugin Smb")
	assert.Contains(t, got, "CRUDService")
}

func TestCall_ErrorsBecomeText(t *testing.T) {
	cache, err := docs.Build(context.Background(), os.DirFS("testdata/docs"), docs.Options{})
	require.NoError(t, err)
	engine := query.New(cache, failingLister{})

	got := engine.Call(context.Background(), query.ToolSubsystemDocs, map[string]any{"subsystem": "vm"})
	assert.Equal(t, "Error: catalog unavailable", got)
}

func TestCall_RecoversPanics(t *testing.T) {
	engine := query.New(docs.NewCache(), nil)

	got := engine.Call(context.Background(), query.ToolPluginDocs, map[string]any{"plugin_name": "smb"})

	assert.Contains(t, got, "Error: ")
}

func TestCall_CanceledContext(t *testing.T) {
	engine := fixtureEngine(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	assert.Equal(t, "Error: context canceled", engine.Call(ctx, query.ToolOverview, nil))
}

func TestToolNames(t *testing.T) {
	engine := fixtureEngine(t)

	names := engine.ToolNames()
	assert.Equal(t, []string{
		"truenas_overview",
		"truenas_plugin_docs",
		"truenas_api_docs",
		"truenas_testing_docs",
		"truenas_subsystem_docs",
		"truenas_search_docs",
	}, names)

	names[0] = "mutated"
	assert.Equal(t, query.ToolOverview, engine.ToolNames()[0])
}
