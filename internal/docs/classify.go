package docs

import (
	"path"
	"strings"
)

// Classify maps a slash-separated path relative to the docs root to its category.
// The entity name is set for plugin-specific and subsystem files.
//
// Matching is substring containment on the whole path, so "graphics-api/CLAUDE.md"
// is an API document and "testsuite/CLAUDE.md" a testing one.
func Classify(relPath string) (Category, string) {
	relPath = strings.TrimPrefix(path.Clean(relPath), "./")
	dir, file := path.Split(relPath)
	parent := path.Base(strings.TrimSuffix(dir, "/"))

	switch {
	case dir == "" && file == DocFileName:
		return CategoryOverview, ""
	case strings.Contains(relPath, "plugins"):
		if parent == "plugins" {
			return CategoryPluginGeneral, ""
		}
		return CategoryPluginSpecific, parent
	case strings.Contains(relPath, "api"):
		return CategoryAPI, ""
	case strings.Contains(relPath, "tests"):
		return CategoryTesting, ""
	default:
		return CategorySubsystem, parent
	}
}

// CacheKey returns the logical key an entry of the given category and name is stored under
func CacheKey(category Category, name string) string {
	switch category {
	case CategoryOverview:
		return KeyOverview
	case CategoryPluginGeneral:
		return KeyPluginsOverview
	case CategoryPluginSpecific:
		return PluginKeyPrefix + name
	case CategoryAPI:
		return KeyAPI
	case CategoryTesting:
		return KeyTesting
	default:
		return SubsystemKeyPrefix + name
	}
}
