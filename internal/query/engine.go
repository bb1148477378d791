// Package query answers documentation requests against a built cache.
//
// Every operation is a pure read: the cache is never modified and no file is
// opened, so an Engine can be shared between goroutines.
package query

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/truenas/docs-mcp-server/internal/docs"
)

// Topics accepted by the category operations
const (
	TopicAll           = "all"
	TopicServiceTypes  = "service_types"
	TopicPatterns      = "patterns"
	TopicCategories    = "categories"
	TopicVersioning    = "versioning"
	TopicModels        = "models"
	TopicBestPractices = "best_practices"
	TopicOverview      = "overview"
)

const (
	searchContextLines = 2
	maxMatchesPerEntry = 3
)

// Lister lists the entity names of a category in cache order
type Lister interface {
	Names(category docs.Category) ([]string, error)
}

// Engine answers the documentation queries
type Engine struct {
	cache   *docs.Cache
	catalog Lister
}

// New creates an engine over a built cache. catalog provides the
// "available plugins/subsystems" listings.
func New(cache *docs.Cache, catalog Lister) *Engine {
	return &Engine{cache: cache, catalog: catalog}
}

// Cache returns the cache the engine reads from
func (e *Engine) Cache() *docs.Cache {
	return e.cache
}

// Overview returns the summarized overview, followed by the development
// guidelines when the overview document has them
func (e *Engine) Overview() string {
	entry, ok := e.cache.Get(docs.KeyOverview)
	if !ok {
		return "Overview documentation not found"
	}

	content := entry.Content
	if guidelines, ok := entry.Sections.Get(docs.SectionDevelopmentGuidelines); ok {
		content += "\n\n" + docs.FormatSection(docs.SectionDevelopmentGuidelines, guidelines)
	}
	return content
}

// PluginDocs returns a single plugin's document when pluginName is set,
// otherwise the requested topic of the general plugin guide
func (e *Engine) PluginDocs(pluginName, topic string) (string, error) {
	pluginName = strings.TrimSpace(pluginName)
	if pluginName != "" {
		if entry, ok := e.cache.Get(docs.PluginKeyPrefix + pluginName); ok {
			return entry.Content, nil
		}
		available, err := e.catalog.Names(docs.CategoryPluginSpecific)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf("Plugin '%s' not found. Available plugins: %s", pluginName, strings.Join(available, ", ")), nil
	}

	entry, ok := e.cache.Get(docs.KeyPluginsOverview)
	if !ok {
		return "Plugin overview documentation not found", nil
	}

	topic = normalizeTopic(topic)
	var parts []string
	switch topic {
	case TopicAll:
		parts = append(parts, entry.Content)
	case TopicServiceTypes:
		parts = appendSection(parts, entry.Sections, docs.SectionServiceTypes, docs.SectionServiceTypes)
	case TopicPatterns:
		parts = appendSection(parts, entry.Sections, docs.SectionCommonPluginPatterns, docs.SectionCommonPluginPatterns)
	case TopicCategories:
		parts = appendSection(parts, entry.Sections, docs.SectionKeyPluginsByCategory, docs.SectionKeyPluginsByCategory)
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Topic '%s' not found in plugin documentation", topic), nil
	}
	return strings.Join(parts, "\n\n"), nil
}

// APIDocs returns the requested topic of the API document
func (e *Engine) APIDocs(topic string) string {
	entry, ok := e.cache.Get(docs.KeyAPI)
	if !ok {
		return "API documentation not found"
	}

	topic = normalizeTopic(topic)
	var parts []string
	switch topic {
	case TopicAll:
		parts = append(parts, entry.Content)
	case TopicVersioning:
		for _, title := range []string{docs.SectionOverview, docs.SectionDirectoryStructure, docs.SectionMigration} {
			parts = appendSection(parts, entry.Sections, title, title)
		}
	case TopicModels:
		parts = appendSection(parts, entry.Sections, docs.SectionKeyConcepts, "API Models and Concepts")
	case TopicPatterns:
		parts = appendSection(parts, entry.Sections, docs.SectionCommonPatterns, "Common API Patterns")
	case TopicBestPractices:
		parts = appendSection(parts, entry.Sections, docs.SectionBestPractices, "API Best Practices")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Topic '%s' not found in API documentation", topic)
	}
	return strings.Join(parts, "\n\n")
}

// TestingDocs returns the requested topic of the testing document
func (e *Engine) TestingDocs(topic string) string {
	entry, ok := e.cache.Get(docs.KeyTesting)
	if !ok {
		return "Testing documentation not found"
	}

	topic = normalizeTopic(topic)
	var parts []string
	switch topic {
	case TopicAll:
		parts = append(parts, entry.Content)
	case TopicOverview:
		for _, title := range []string{docs.SectionOverview, docs.SectionTestStructure, docs.SectionWritingTests} {
			parts = appendSection(parts, entry.Sections, title, title)
		}
	case TopicPatterns:
		parts = appendSection(parts, entry.Sections, docs.SectionCommonPatterns, "Testing Patterns")
	}

	if len(parts) == 0 {
		return fmt.Sprintf("Topic '%s' not found in testing documentation", topic)
	}
	return strings.Join(parts, "\n\n")
}

// SubsystemDocs returns a subsystem's document. A blank name lists the
// known subsystems instead.
func (e *Engine) SubsystemDocs(subsystem string) (string, error) {
	subsystem = strings.TrimSpace(subsystem)
	if subsystem != "" {
		if entry, ok := e.cache.Get(docs.SubsystemKeyPrefix + subsystem); ok {
			return entry.Content, nil
		}
	}

	available, err := e.catalog.Names(docs.CategorySubsystem)
	if err != nil {
		return "", err
	}
	if subsystem == "" {
		return fmt.Sprintf("Please specify a subsystem. Available: %s", strings.Join(available, ", ")), nil
	}
	return fmt.Sprintf("Subsystem '%s' not found. Available subsystems: %s", subsystem, strings.Join(available, ", ")), nil
}

// SearchDocs does a case-insensitive substring search over every entry and
// returns up to three context windows per matching entry
func (e *Engine) SearchDocs(query string) string {
	query = strings.ToLower(strings.TrimSpace(query))
	if query == "" {
		return "Please provide a search query"
	}

	var results []string
	for _, entry := range e.cache.Entries() {
		if !strings.Contains(strings.ToLower(entry.Content), query) {
			continue
		}
		windows := matchWindows(entry.Content, query)
		results = append(results, fmt.Sprintf("## Found in %s\n\n%s", entryTitle(entry.Key), strings.Join(windows, "\n\n")))
	}

	if len(results) == 0 {
		return fmt.Sprintf("No results found for '%s'", query)
	}
	return fmt.Sprintf("# Search Results for '%s'\n\n", query) + strings.Join(results, "\n\n---\n\n")
}

// matchWindows returns "...<context>..." for the first matching lines of content
func matchWindows(content, query string) []string {
	lines := strings.Split(content, "\n")
	var windows []string
	for i, line := range lines {
		if !strings.Contains(strings.ToLower(line), query) {
			continue
		}
		start := max(0, i-searchContextLines)
		end := min(len(lines), i+searchContextLines+1)
		windows = append(windows, "..."+strings.Join(lines[start:end], "\n")+"...")
		if len(windows) == maxMatchesPerEntry {
			break
		}
	}
	return windows
}

// appendSection appends "## heading\nbody" when title is present in sections
func appendSection(parts []string, sections docs.Sections, title, heading string) []string {
	body, ok := sections.Get(title)
	if !ok {
		return parts
	}
	return append(parts, docs.FormatSection(heading, body))
}

func normalizeTopic(topic string) string {
	topic = strings.TrimSpace(topic)
	if topic == "" {
		return TopicAll
	}
	return topic
}

// entryTitle turns a cache key into a display title: "plugin_smb" -> "Plugin Smb"
func entryTitle(key string) string {
	return titleCase(strings.ReplaceAll(key, "_", " "))
}

// titleCase upper-cases the first letter of every run of letters and
// lower-cases the rest
func titleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		isLetter := unicode.IsLetter(r)
		switch {
		case isLetter && !prevLetter:
			b.WriteRune(unicode.ToUpper(r))
		case isLetter:
			b.WriteRune(unicode.ToLower(r))
		default:
			b.WriteRune(r)
		}
		prevLetter = isLetter
	}
	return b.String()
}
