package docs

import (
	"encoding/binary"

	"github.com/cespare/xxhash/v2"
)

// Category is the documentation bucket a source file is classified into
type Category int

const (
	CategoryOverview Category = iota
	CategoryPluginGeneral
	CategoryPluginSpecific
	CategoryAPI
	CategoryTesting
	CategorySubsystem
)

var categoryNames = [...]string{
	CategoryOverview:       "overview",
	CategoryPluginGeneral:  "plugin_general",
	CategoryPluginSpecific: "plugin",
	CategoryAPI:            "api",
	CategoryTesting:        "testing",
	CategorySubsystem:      "subsystem",
}

func (c Category) String() string {
	if c < 0 || int(c) >= len(categoryNames) {
		return "unknown"
	}
	return categoryNames[c]
}

// SourceFile is a discovered documentation file
type SourceFile struct {
	Path    string `json:"path"`     // Path as seen by the walker (joined with the root for directories)
	RelPath string `json:"rel_path"` // Slash-separated path relative to the docs root
}

// Section is a titled block delimited by a "## " heading
type Section struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Sections is an ordered title -> body association list.
// Order is first appearance of a title; setting an existing title replaces its body in place.
type Sections struct {
	list  []Section
	index map[string]int
}

// Set stores body under title, keeping the original position for repeated titles
func (s *Sections) Set(title, body string) {
	if s.index == nil {
		s.index = make(map[string]int)
	}
	if i, ok := s.index[title]; ok {
		s.list[i].Body = body
		return
	}
	s.index[title] = len(s.list)
	s.list = append(s.list, Section{Title: title, Body: body})
}

// Get returns the body for title
func (s Sections) Get(title string) (string, bool) {
	i, ok := s.index[title]
	if !ok {
		return "", false
	}
	return s.list[i].Body, true
}

// Lookup returns the body for title or the empty string when absent
func (s Sections) Lookup(title string) string {
	body, _ := s.Get(title)
	return body
}

// Has reports whether title is present
func (s Sections) Has(title string) bool {
	_, ok := s.index[title]
	return ok
}

// Len returns the number of distinct titles
func (s Sections) Len() int {
	return len(s.list)
}

// Titles returns titles in document order
func (s Sections) Titles() []string {
	titles := make([]string, len(s.list))
	for i, sec := range s.list {
		titles[i] = sec.Title
	}
	return titles
}

// Entry is one addressable unit of the documentation cache
type Entry struct {
	Key      string   `json:"key"`
	Category Category `json:"category"`
	Name     string   `json:"name,omitempty"` // Plugin or subsystem name for entity categories
	Source   string   `json:"source"`         // Relative path of the file the entry was built from
	Content  string   `json:"content"`
	Sections Sections `json:"-"`
	Hash     uint64   `json:"hash"` // xxhash64 of Content
}

// Cache maps logical keys to entries, preserving first-insertion order.
// It is populated by Build and must not be modified afterwards.
type Cache struct {
	order   []string
	entries map[string]*Entry
}

// NewCache returns an empty cache
func NewCache() *Cache {
	return &Cache{entries: make(map[string]*Entry)}
}

// put inserts or replaces an entry. A replaced key keeps its original position.
func (c *Cache) put(e *Entry) {
	e.Hash = xxhash.Sum64String(e.Content)
	if _, exists := c.entries[e.Key]; !exists {
		c.order = append(c.order, e.Key)
	}
	c.entries[e.Key] = e
}

// Get returns the entry stored under key
func (c *Cache) Get(key string) (*Entry, bool) {
	e, ok := c.entries[key]
	return e, ok
}

// Len returns the number of entries
func (c *Cache) Len() int {
	return len(c.order)
}

// Keys returns all keys in cache order
func (c *Cache) Keys() []string {
	keys := make([]string, len(c.order))
	copy(keys, c.order)
	return keys
}

// Entries returns all entries in cache order
func (c *Cache) Entries() []*Entry {
	entries := make([]*Entry, 0, len(c.order))
	for _, key := range c.order {
		entries = append(entries, c.entries[key])
	}
	return entries
}

// Fingerprint hashes every key and entry hash in cache order.
// Two builds over the same files produce the same fingerprint.
func (c *Cache) Fingerprint() uint64 {
	d := xxhash.New()
	var buf [8]byte
	for _, key := range c.order {
		d.WriteString(key)
		d.Write([]byte{0})
		binary.LittleEndian.PutUint64(buf[:], c.entries[key].Hash)
		d.Write(buf[:])
	}
	return d.Sum64()
}
