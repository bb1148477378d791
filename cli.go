package main

import (
	"context"
	"fmt"
	"io"
	"log"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/truenas/docs-mcp-server/internal/config"
	"github.com/truenas/docs-mcp-server/internal/query"
	"github.com/truenas/docs-mcp-server/internal/runtime"
	"github.com/truenas/docs-mcp-server/tools"
)

// Dependencies holds everything a command needs once the cache is built
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Config *config.Config
	Engine *query.Engine
}

// CLI defines the command-line interface structure for Kong
type CLI struct {
	Config   string `short:"c" type:"path" help:"Path to the YAML configuration file (default ./config.yaml)"`
	DocsPath string `name:"docs-path" type:"path" help:"Documentation root, overrides docs_path"`
	Verbose  bool   `short:"v" help:"Log every documentation file while building the cache"`

	Serve ServeCmd `cmd:"" default:"1" help:"Run the MCP server over stdio (default)"`
	Query QueryCmd `cmd:"" help:"Run one documentation tool and print its result"`
	Toc   TocCmd   `cmd:"" help:"Print the documentation table of contents"`
}

// apply layers the command line flags over the loaded configuration
func (c *CLI) apply(cfg *config.Config) {
	if c.DocsPath != "" {
		cfg.DocsPath = c.DocsPath
	}
	if c.Verbose {
		cfg.Log.Verbose = true
	}
}

// ServeCmd is the "serve" subcommand
type ServeCmd struct{}

// Run registers the tools and resources and serves MCP on stdin/stdout
func (c *ServeCmd) Run(deps *Dependencies) error {
	server := newMCPServer(deps.Config)

	toolCount := tools.RegisterDocTools(server, deps.Engine)
	if runner := testRunner(deps.Config); runner != nil {
		env := runtime.DetectEnvironment()
		if env.HasDocker {
			log.Printf("✓ Docker detected: %s", env.DockerVersion)
		} else {
			log.Printf("Warning: docker not found, %s will likely fail", tools.ToolRunTests)
		}
		tools.RegisterTestTools(server, runner, env)
		toolCount++
	} else {
		log.Printf("No test script found, %s is disabled", tools.ToolRunTests)
	}
	log.Printf("✓ All tools registered: %d tools", toolCount)

	resourceCount := tools.RegisterDocResources(server, deps.Engine)
	log.Printf("✓ Resources registered: %d (index + documentation entries)", resourceCount)

	log.Printf("✓ Server ready and waiting for connections")
	if err := server.Run(deps.Ctx, &mcp.StdioTransport{}); err != nil {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

func newMCPServer(cfg *config.Config) *mcp.Server {
	server := mcp.NewServer(
		&mcp.Implementation{
			Name:    cfg.Server.Name,
			Version: version,
		},
		nil, // Default options
	)

	log.Printf("Server initialized: %s v%s", cfg.Server.Name, version)
	return server
}

// testRunner returns nil when no test script can be found
func testRunner(cfg *config.Config) *runtime.Runner {
	script := cfg.ResolveTestScript()
	if script == "" {
		return nil
	}
	return &runtime.Runner{
		Script:   script,
		RepoPath: cfg.Tests.RepoPath,
		Timeout:  cfg.Tests.Timeout,
	}
}

// QueryCmd is the "query" subcommand
type QueryCmd struct {
	Tool string            `arg:"" help:"Tool name, e.g. truenas_search_docs"`
	Args map[string]string `short:"a" name:"arg" help:"Tool argument as key=value (repeatable)"`
}

// Run calls the tool through the same dispatcher the server uses
func (c *QueryCmd) Run(deps *Dependencies) error {
	args := make(map[string]any, len(c.Args))
	for k, v := range c.Args {
		args[k] = v
	}
	fmt.Fprintln(deps.Stdout, deps.Engine.Call(deps.Ctx, c.Tool, args))
	return nil
}

// TocCmd is the "toc" subcommand
type TocCmd struct{}

// Run prints the generated table of contents
func (c *TocCmd) Run(deps *Dependencies) error {
	fmt.Fprintln(deps.Stdout, deps.Engine.TableOfContents())
	return nil
}
