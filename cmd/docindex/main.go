// Command docindex builds the documentation cache offline and reports what the
// server would serve: entries per category, the cache fingerprint and
// optionally the generated table of contents.
package main

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/alecthomas/kong"
	"github.com/truenas/docs-mcp-server/internal/docs"
	"github.com/truenas/docs-mcp-server/internal/query"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// CLI defines the command-line interface structure for Kong
type CLI struct {
	DocsPath string `arg:"" type:"existingdir" help:"Documentation root to index"`
	Toc      bool   `help:"Print the generated table of contents"`
	Verbose  bool   `short:"v" help:"Log every processed file"`
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("docindex"),
		kong.Description("Build the TrueNAS documentation cache and print its statistics"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no documentation root given")
	}
	if len(args) == 1 && (args[0] == "--help" || args[0] == "-h" || args[0] == "help") {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	if _, err := parser.Parse(args); err != nil {
		return err
	}

	log.SetOutput(stderr)
	log.Printf("TrueNAS Documentation Indexer")
	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")

	// Step 1: Build the cache
	cache, err := docs.BuildDir(ctx, cli.DocsPath, docs.Options{Verbose: cli.Verbose})
	if err != nil {
		return err
	}

	// Step 2: Build the catalog the server lists entities from
	catalog, err := docs.NewCatalog(cache)
	if err != nil {
		return err
	}
	defer catalog.Close()

	indexed, err := catalog.DocCount()
	if err != nil {
		return fmt.Errorf("failed to count catalog documents: %w", err)
	}
	if indexed != uint64(cache.Len()) {
		return fmt.Errorf("catalog holds %d documents, cache has %d entries", indexed, cache.Len())
	}
	log.Printf("✓ Catalog verified: %d documents", indexed)

	// Step 3: Report
	var size int
	for _, entry := range cache.Entries() {
		size += len(entry.Content)
	}

	fmt.Fprintf(stdout, "Location:     %s\n", cli.DocsPath)
	fmt.Fprintf(stdout, "Entries:      %d (%d bytes)\n", cache.Len(), size)
	for _, category := range []docs.Category{
		docs.CategoryOverview,
		docs.CategoryPluginGeneral,
		docs.CategoryPluginSpecific,
		docs.CategoryAPI,
		docs.CategoryTesting,
		docs.CategorySubsystem,
	} {
		keys, err := catalog.Keys(category)
		if err != nil {
			return err
		}
		line := fmt.Sprintf("  %-16s %d", category.String()+":", len(keys))
		if len(keys) > 0 {
			line += "  " + strings.Join(keys, ", ")
		}
		fmt.Fprintln(stdout, line)
	}
	fmt.Fprintf(stdout, "Fingerprint:  %016x\n", cache.Fingerprint())

	if cli.Toc {
		fmt.Fprintln(stdout)
		fmt.Fprintln(stdout, query.New(cache, catalog).TableOfContents())
	}

	log.Printf("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Printf("✓ Indexing complete!")
	return nil
}
