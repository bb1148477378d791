package tools

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/truenas/docs-mcp-server/internal/docs"
	"github.com/truenas/docs-mcp-server/internal/query"
	"github.com/truenas/docs-mcp-server/internal/runtime"
)

func testEngine(t *testing.T) *query.Engine {
	t.Helper()
	cache, err := docs.Build(context.Background(), fstest.MapFS{
		"CLAUDE.md":             {Data: []byte("## Purpose\nMiddleware daemon.\n\n## Repository Structure\nsrc/ and tests/\n")},
		"plugins/smb/CLAUDE.md": {Data: []byte("# SMB\n\n## Overview\nThe SMB plugin manages Samba shares.\nExtends CRUDService.\n")},
		"alert/CLAUDE.md":       {Data: []byte("## Overview\nAlert sources.\n")},
	}, docs.Options{})
	require.NoError(t, err)

	catalog, err := docs.NewCatalog(cache)
	require.NoError(t, err)
	t.Cleanup(func() { catalog.Close() })

	return query.New(cache, catalog)
}

// connect registers everything on a fresh server and returns a connected client session
func connect(t *testing.T, engine *query.Engine, runner *runtime.Runner) *mcp.ClientSession {
	t.Helper()
	ctx := context.Background()

	server := mcp.NewServer(&mcp.Implementation{Name: "truenas-docs-tools", Version: "test"}, nil)
	RegisterDocTools(server, engine)
	RegisterDocResources(server, engine)
	if runner != nil {
		RegisterTestTools(server, runner, &runtime.Environment{HasDocker: true})
	}

	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	serverSession, err := server.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { serverSession.Close() })

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client", Version: "test"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })

	return session
}

func callText(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) string {
	t.Helper()
	res, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.Len(t, res.Content, 1)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected text content, got %T", res.Content[0])
	return text.Text
}

func TestRegisterDocTools(t *testing.T) {
	engine := testEngine(t)
	session := connect(t, engine, nil)

	res, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range res.Tools {
		names = append(names, tool.Name)
		assert.NotEmpty(t, tool.Description, "tool %s has no description", tool.Name)
	}
	assert.ElementsMatch(t, engine.ToolNames(), names)
}

func TestDocTools_OverMCP(t *testing.T) {
	session := connect(t, testEngine(t), nil)

	tests := []struct {
		name     string
		tool     string
		args     map[string]any
		contains []string
	}{
		{
			name:     "overview",
			tool:     query.ToolOverview,
			args:     map[string]any{},
			contains: []string{"Middleware daemon.\n\nsrc/ and tests/"},
		},
		{
			name:     "plugin",
			tool:     query.ToolPluginDocs,
			args:     map[string]any{"plugin_name": "smb"},
			contains: []string{"Samba shares"},
		},
		{
			name:     "missing plugin",
			tool:     query.ToolPluginDocs,
			args:     map[string]any{"plugin_name": "nonexistent"},
			contains: []string{"not found", "smb"},
		},
		{
			name:     "plugin overview missing",
			tool:     query.ToolPluginDocs,
			args:     map[string]any{"topic": "patterns"},
			contains: []string{"Plugin overview documentation not found"},
		},
		{
			name:     "api missing",
			tool:     query.ToolAPIDocs,
			args:     map[string]any{},
			contains: []string{"API documentation not found"},
		},
		{
			name:     "testing missing",
			tool:     query.ToolTestingDocs,
			args:     map[string]any{"topic": "overview"},
			contains: []string{"Testing documentation not found"},
		},
		{
			name:     "subsystem listing",
			tool:     query.ToolSubsystemDocs,
			args:     map[string]any{"subsystem": ""},
			contains: []string{"Please specify a subsystem. Available: alert"},
		},
		{
			name:     "search",
			tool:     query.ToolSearchDocs,
			args:     map[string]any{"query": "CRUD"},
			contains: []string{"# Search Results for 'crud'", "## Found in Plugin Smb", "CRUDService"},
		},
		{
			name:     "search miss",
			tool:     query.ToolSearchDocs,
			args:     map[string]any{"query": "zzzznotfound"},
			contains: []string{"No results found"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := callText(t, session, tt.tool, tt.args)
			for _, want := range tt.contains {
				assert.Contains(t, text, want)
			}
		})
	}
}

func TestDocTools_HandlersDirect(t *testing.T) {
	d := NewDocTools(testEngine(t))
	ctx := context.Background()

	res, out, err := d.SearchDocs(ctx, nil, SearchDocsInput{Query: ""})
	require.NoError(t, err)
	assert.Nil(t, out)
	assert.Equal(t, "Please provide a search query", res.Content[0].(*mcp.TextContent).Text)

	res, _, err = d.SubsystemDocs(ctx, nil, SubsystemDocsInput{Subsystem: "alert"})
	require.NoError(t, err)
	assert.Equal(t, "## Overview\nAlert sources.\n", res.Content[0].(*mcp.TextContent).Text)
}

func TestDocResources(t *testing.T) {
	engine := testEngine(t)
	session := connect(t, engine, nil)
	ctx := context.Background()

	list, err := session.ListResources(ctx, nil)
	require.NoError(t, err)
	uris := make([]string, 0, len(list.Resources))
	for _, r := range list.Resources {
		uris = append(uris, r.URI)
	}
	assert.ElementsMatch(t, []string{
		IndexURI,
		DocURI("overview"),
		DocURI("subsystem_alert"),
		DocURI("plugin_smb"),
	}, uris)

	index, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: IndexURI})
	require.NoError(t, err)
	require.Len(t, index.Contents, 1)
	assert.Equal(t, engine.TableOfContents(), index.Contents[0].Text)

	doc, err := session.ReadResource(ctx, &mcp.ReadResourceParams{URI: DocURI("plugin_smb")})
	require.NoError(t, err)
	require.Len(t, doc.Contents, 1)
	assert.Contains(t, doc.Contents[0].Text, "Samba shares")
	assert.Equal(t, "text/markdown", doc.Contents[0].MIMEType)

	_, err = session.ReadResource(ctx, &mcp.ReadResourceParams{URI: DocURI("plugin_nfs")})
	assert.Error(t, err)
}

func TestDocResources_ReadDocUnknown(t *testing.T) {
	r := NewDocResources(testEngine(t))

	_, err := r.ReadDoc(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: "truenas://other/overview"},
	})
	assert.Error(t, err)

	res, err := r.ReadDoc(context.Background(), &mcp.ReadResourceRequest{
		Params: &mcp.ReadResourceParams{URI: DocURI("overview")},
	})
	require.NoError(t, err)
	assert.Equal(t, "Middleware daemon.\n\nsrc/ and tests/", res.Contents[0].Text)
}

func TestRunTestsTool(t *testing.T) {
	script := filepath.Join(t.TempDir(), "run_middleware_tests.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\necho \"ran $1 $2\"\n"), 0o755))

	session := connect(t, testEngine(t), &runtime.Runner{Script: script, RepoPath: "/srv/middleware"})

	text := callText(t, session, ToolRunTests, map[string]any{"test_file": "test_smb.py"})
	assert.Contains(t, text, "✅ Tests completed successfully!")
	assert.Contains(t, text, "ran /srv/middleware test_smb.py")
}

func TestRunTestsTool_Errors(t *testing.T) {
	ctx := context.Background()

	missing := NewTestTools(&runtime.Runner{Script: filepath.Join(t.TempDir(), "missing.sh")})
	res, _, err := missing.RunTests(ctx, nil, RunTestsInput{})
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "Test script not found at")

	script := filepath.Join(t.TempDir(), "run.sh")
	require.NoError(t, os.WriteFile(script, []byte("#!/bin/sh\nexit 0\n"), 0o755))
	noRepo := NewTestTools(&runtime.Runner{Script: script})
	res, _, err = noRepo.RunTests(ctx, nil, RunTestsInput{})
	require.NoError(t, err)
	assert.Contains(t, res.Content[0].(*mcp.TextContent).Text, "❌ Error running tests:")
}
