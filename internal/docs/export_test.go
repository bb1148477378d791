package docs

import "strings"

// KeysWithPrefix returns, in cache order, the keys starting with prefix with
// the prefix removed
func KeysWithPrefix(c *Cache, prefix string) []string {
	var names []string
	for _, key := range c.Keys() {
		if name, ok := strings.CutPrefix(key, prefix); ok {
			names = append(names, name)
		}
	}
	return names
}
