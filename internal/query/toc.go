package query

import (
	"fmt"
	"sort"
	"strings"

	"github.com/truenas/docs-mcp-server/internal/docs"
)

const (
	tocHeader      = "# TrueNAS Middleware Documentation Index\n"
	tocDescription = "This MCP server provides documentation resources for the TrueNAS middleware codebase.\n"
	tocResources   = "## Available Resources\n"
)

// tocBucket groups entries whose key contains match
type tocBucket struct {
	title string
	match string
}

// An entry lands in the first bucket whose match is a substring of its key
var tocBuckets = []tocBucket{
	{title: "Overview", match: "overview"},
	{title: "Development", match: "development"},
	{title: "Plugins", match: "plugin"},
	{title: "API", match: "api"},
	{title: "Testing", match: "testing"},
	{title: "Subsystems", match: "subsystem"},
}

// TableOfContents renders an index of every cache entry grouped by bucket.
// It is computed on every call and never stored in the cache.
func (e *Engine) TableOfContents() string {
	entries := e.cache.Entries()
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Key < entries[j].Key
	})

	grouped := make([][]*docs.Entry, len(tocBuckets))
	for _, entry := range entries {
		for i, bucket := range tocBuckets {
			if strings.Contains(entry.Key, bucket.match) {
				grouped[i] = append(grouped[i], entry)
				break
			}
		}
	}

	// Lines keep their own trailing newline and are joined with another one,
	// so every header is followed by a blank line
	lines := []string{tocHeader, tocDescription, tocResources}
	for i, bucket := range tocBuckets {
		if len(grouped[i]) == 0 {
			continue
		}
		lines = append(lines, fmt.Sprintf("\n### %s\n", bucket.title))
		for _, entry := range grouped[i] {
			name, description := Describe(entry)
			lines = append(lines, fmt.Sprintf("- **%s** (`%s`): %s", name, entry.Key, description))
		}
	}
	return strings.Join(lines, "\n")
}

// Describe returns a display name and a one-line description for an entry
func Describe(entry *docs.Entry) (name, description string) {
	switch entry.Category {
	case docs.CategoryOverview:
		return "TrueNAS Overview", "Architecture and repository structure of the TrueNAS middleware"
	case docs.CategoryPluginGeneral:
		return "Plugin Development Guide", "Service types and common patterns for middleware plugins"
	case docs.CategoryPluginSpecific:
		return entityTitle(entry.Name) + " Plugin", fmt.Sprintf("Documentation for the %s plugin", entry.Name)
	case docs.CategoryAPI:
		return "API Documentation", "API versioning, models and best practices"
	case docs.CategoryTesting:
		return "Testing Guide", "Integration test structure and patterns"
	case docs.CategorySubsystem:
		return entityTitle(entry.Name) + " Subsystem", fmt.Sprintf("Documentation for the %s subsystem", entry.Name)
	default:
		return entryTitle(entry.Key), fmt.Sprintf("Documentation from %s", entry.Source)
	}
}

// entityTitle renders a plugin or subsystem directory name for display
func entityTitle(name string) string {
	return titleCase(strings.ReplaceAll(name, "_", " "))
}
