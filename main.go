package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/truenas/docs-mcp-server/internal/config"
	"github.com/truenas/docs-mcp-server/internal/docs"
	"github.com/truenas/docs-mcp-server/internal/query"
)

const (
	version     = "1.0.0"
	appName     = "truenas-docs-mcp"
	description = "MCP server exposing the TrueNAS middleware CLAUDE.md documentation"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	m := NewMain()
	err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	code := m.Shutdown(err, os.Stderr)

	stop()
	os.Exit(code)
}

// Main represents the program.
type Main struct {
	catalog *docs.Catalog
	logFile *os.File
}

// NewMain returns a new instance of Main.
func NewMain() *Main {
	return &Main{}
}

// Close releases the catalog and the log file.
func (m *Main) Close() error {
	var firstErr error
	if m.catalog != nil {
		if err := m.catalog.Close(); err != nil {
			firstErr = fmt.Errorf("failed to close catalog: %w", err)
		}
		m.catalog = nil
	}
	if m.logFile != nil {
		log.SetOutput(os.Stderr)
		if err := m.logFile.Close(); err != nil && firstErr == nil {
			firstErr = fmt.Errorf("failed to close log file: %w", err)
		}
		m.logFile = nil
	}
	return firstErr
}

// Shutdown reports err, releases everything Run opened and returns the exit code.
// The error is written to the log before the log file is closed.
func (m *Main) Shutdown(err error, stderr io.Writer) int {
	code := 0
	if err != nil {
		code = 1
		if m.logFile != nil {
			log.Printf("Fatal: %v", err)
		}
		fmt.Fprintln(stderr, err)
	}
	if closeErr := m.Close(); closeErr != nil {
		fmt.Fprintln(stderr, closeErr)
		code = 1
	}
	return code
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	if len(args) > 0 && args[0] == "--version" {
		fmt.Fprintf(stdout, "%s version %s\n", appName, version)
		return nil
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name(appName),
		kong.Description(description),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	// Help goes through Kong directly so the default command does not start
	for _, arg := range args {
		if arg == "help" || arg == "--help" || arg == "-h" {
			_, _ = parser.Parse([]string{"--help"})
			return nil
		}
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	cfg, err := config.Load(cli.Config)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	cli.apply(cfg)

	if err := m.setupLogging(cfg, stderr); err != nil {
		return err
	}
	log.Printf("%s v%s starting...", appName, version)

	engine, err := m.open(ctx, cfg)
	if err != nil {
		return err
	}

	return kongCtx.Run(&Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
		Config: cfg,
		Engine: engine,
	})
}

// setupLogging sends logs to stderr, or appends them to the log file in production
// mode. stdout is reserved for the MCP protocol.
func (m *Main) setupLogging(cfg *config.Config, stderr io.Writer) error {
	if !cfg.Production() {
		log.SetOutput(stderr)
		return nil
	}

	path := cfg.LogFile()
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open log file %s: %w", path, err)
	}
	m.logFile = f
	log.SetOutput(f)
	return nil
}

// open builds the documentation cache and the catalog over it
func (m *Main) open(ctx context.Context, cfg *config.Config) (*query.Engine, error) {
	root := cfg.ResolveDocsPath()
	cache, err := docs.BuildDir(ctx, root, docs.Options{Verbose: cfg.Log.Verbose})
	if err != nil {
		return nil, fmt.Errorf("failed to build documentation cache: %w", err)
	}

	catalog, err := docs.NewCatalog(cache)
	if err != nil {
		return nil, fmt.Errorf("failed to build documentation catalog: %w", err)
	}
	m.catalog = catalog
	log.Printf("✓ Documentation catalog ready (%016x)", cache.Fingerprint())

	return query.New(cache, catalog), nil
}
