package pattern

import (
	"slices"
	"strings"
)

// SnippetLength is the number of characters of content included in search
// results.
const SnippetLength = 200

// Library is the immutable in-memory pattern collection. All methods are
// pure reads over the slice captured at construction, so a single Library
// may be shared by concurrent requests without locking.
type Library struct {
	patterns []Pattern
}

// NewLibrary wraps an already-loaded collection. The caller must not
// modify patterns afterward.
func NewLibrary(patterns []Pattern) *Library {
	return &Library{patterns: patterns}
}

// Len reports the number of loaded patterns.
func (l *Library) Len() int {
	return len(l.patterns)
}

// Summary is the one-line listing form of a pattern.
type Summary struct {
	Name     string
	Category string
}

// List returns a summary for every pattern, in collection order.
func (l *Library) List() []Summary {
	out := make([]Summary, 0, len(l.patterns))
	for _, p := range l.patterns {
		out = append(out, Summary{Name: p.Metadata.Name, Category: p.Metadata.Category})
	}

	return out
}

// SearchRequest holds the optional search criteria. An empty field does not
// constrain the result; supplied criteria must all match (conjunction).
type SearchRequest struct {
	Query     string // Case-insensitive substring over name and content.
	Category  string // Exact, case-sensitive.
	Framework string // Exact, case-sensitive; never matches patterns without a framework.
	Tag       string // Exact, case-sensitive membership in the tag list.
}

// Search returns all patterns matching every supplied criterion, in
// collection order. An empty result is a normal outcome, not an error.
func (l *Library) Search(req SearchRequest) []Pattern {
	var out []Pattern

	for _, p := range l.patterns {
		if matches(p, req) {
			out = append(out, p)
		}
	}

	return out
}

func matches(p Pattern, req SearchRequest) bool {
	if req.Category != "" && p.Metadata.Category != req.Category {
		return false
	}

	if req.Framework != "" && p.Metadata.Framework != req.Framework {
		return false
	}

	if req.Tag != "" && !slices.Contains(p.Metadata.Tags, req.Tag) {
		return false
	}

	if req.Query != "" {
		searchable := strings.ToLower(p.Metadata.Name + " " + p.Content)
		if !strings.Contains(searchable, strings.ToLower(req.Query)) {
			return false
		}
	}

	return true
}

// Get returns the first pattern whose name equals name exactly, by scan
// order. Duplicate names are permitted at load time; first match wins.
func (l *Library) Get(name string) (Pattern, bool) {
	for _, p := range l.patterns {
		if p.Metadata.Name == name {
			return p, true
		}
	}

	return Pattern{}, false
}

// Snippet returns the first limit characters of content. Truncation counts
// runes, not bytes, so multi-byte characters are never split.
func Snippet(content string, limit int) string {
	if limit <= 0 {
		return ""
	}

	count := 0

	for i := range content {
		if count == limit {
			return content[:i]
		}

		count++
	}

	return content
}
