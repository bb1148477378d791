package docs

import (
	"context"
	"fmt"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// Options tunes a build. The zero value is ready to use.
type Options struct {
	// Verbose logs every processed file
	Verbose bool
}

// BuildDir builds the documentation cache from a directory on disk.
// The root must exist and be a directory; a root without any documentation
// files yields an empty cache.
func BuildDir(ctx context.Context, root string, opts Options) (*Cache, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access documentation root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("documentation root %s is not a directory", root)
	}

	log.Printf("Building documentation cache from %s", root)
	return build(ctx, os.DirFS(root), root, opts)
}

// Build builds the documentation cache from fsys
func Build(ctx context.Context, fsys fs.FS, opts Options) (*Cache, error) {
	return build(ctx, fsys, "", opts)
}

func build(ctx context.Context, fsys fs.FS, root string, opts Options) (*Cache, error) {
	startTime := time.Now()

	files, err := FindSourceFiles(fsys, root)
	if err != nil {
		return nil, err
	}
	log.Printf("Found %d %s files", len(files), DocFileName)

	contents, err := readSourceFiles(ctx, fsys, files)
	if err != nil {
		return nil, err
	}

	cache := NewCache()
	for i, file := range files {
		category, name := Classify(file.RelPath)
		if opts.Verbose {
			log.Printf("Processing %s (%s)", file.RelPath, category)
		}
		cache.put(newEntry(file, category, name, contents[i]))
	}

	log.Printf("✓ Documentation cache built: %d entries from %d files in %v",
		cache.Len(), len(files), time.Since(startTime).Round(time.Millisecond))
	return cache, nil
}

// FindSourceFiles walks fsys and returns every documentation file sorted by relative path.
// root is only used to report an on-disk path for each file.
func FindSourceFiles(fsys fs.FS, root string) ([]SourceFile, error) {
	var files []SourceFile
	err := fs.WalkDir(fsys, ".", func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return fmt.Errorf("failed to walk %s: %w", p, err)
		}
		if d.IsDir() || d.Name() != DocFileName {
			return nil
		}
		file := SourceFile{Path: p, RelPath: p}
		if root != "" {
			file.Path = filepath.Join(root, filepath.FromSlash(p))
		}
		files = append(files, file)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover documentation files: %w", err)
	}

	sort.Slice(files, func(i, j int) bool {
		return files[i].RelPath < files[j].RelPath
	})
	return files, nil
}

// readSourceFiles reads every file concurrently; contents[i] belongs to files[i]
func readSourceFiles(ctx context.Context, fsys fs.FS, files []SourceFile) ([]string, error) {
	contents := make([]string, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxParallelReads)
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			data, err := fs.ReadFile(fsys, file.RelPath)
			if err != nil {
				return fmt.Errorf("failed to read %s: %w", file.Path, err)
			}
			contents[i] = string(data)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return contents, nil
}

func newEntry(file SourceFile, category Category, name, content string) *Entry {
	sections := ExtractSections(content)
	entry := &Entry{
		Key:      CacheKey(category, name),
		Category: category,
		Name:     name,
		Source:   file.RelPath,
		Content:  content,
		Sections: sections,
	}

	if category == CategoryOverview {
		entry.Content = Summarize(
			sections.Lookup(SectionPurpose)+"\n\n"+sections.Lookup(SectionRepositoryStructure),
			DefaultSummaryLines,
		)
	}
	return entry
}

