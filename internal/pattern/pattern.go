// Package pattern implements the on-disk pattern repository: parsing and
// loading pattern documents, querying the loaded collection, validating
// proposed names, and writing new documents.
//
// A pattern document is a UTF-8 markdown file with a frontmatter header:
//
//	---
//	pattern: retry-backoff
//	category: resilience
//	framework: stdlib
//	projects: [billing]
//	tags: [go, retry]
//	---
//
//	Body text.
//
// The collection is loaded once at startup and is immutable afterward, so
// concurrent reads need no locking. Write creates new documents on disk but
// never touches the loaded collection: new patterns become visible only
// after the process restarts (or a caller rebuilds the Library). That
// staleness window is deliberate and part of the contract.
package pattern

import (
	"strings"

	"github.com/patternkb/patternkb/internal/frontmatter"
)

// Extension is the file extension reserved for pattern documents.
const Extension = ".md"

// Header keys recognized in pattern documents.
const (
	keyPattern   = "pattern"
	keyCategory  = "category"
	keyFramework = "framework"
	keyProjects  = "projects"
	keyTags      = "tags"
)

// Metadata is the structured header of a pattern document.
type Metadata struct {
	Name      string   // Name is the "pattern" header value, unique by convention only.
	Category  string   // Category is a free-text classification.
	Framework string   // Framework is optional; empty means none.
	Projects  []string // Projects that used this pattern; may be empty.
	Tags      []string // Tags for filtering; duplicates are kept as-is.
}

// Pattern is one parsed pattern document. Patterns are immutable values;
// they are constructed by Parse and never modified.
type Pattern struct {
	Metadata Metadata
	Content  string // Body text, trimmed of surrounding whitespace.
	Path     string // Originating file, kept for diagnostics only.
}

// Parse parses a raw pattern document. It returns (Pattern, true) on
// success and (zero, false) on any malformed input: missing delimiters, a
// header outside the supported subset, a missing or empty required key, or
// a wrong-shaped optional key. Parse never returns an error; the loader
// treats false as "skip this file".
func Parse(src []byte, path string) (Pattern, bool) {
	fm, tail, err := frontmatter.Parse(src)
	if err != nil {
		return Pattern{}, false
	}

	name, ok := fm.GetString(keyPattern)
	if !ok || name == "" {
		return Pattern{}, false
	}

	category, ok := fm.GetString(keyCategory)
	if !ok || category == "" {
		return Pattern{}, false
	}

	meta := Metadata{Name: name, Category: category}

	if v, present := fm[keyFramework]; present {
		if v.Kind != frontmatter.ValueString {
			return Pattern{}, false
		}

		meta.Framework = v.Str
	}

	if v, present := fm[keyProjects]; present {
		if v.Kind != frontmatter.ValueList {
			return Pattern{}, false
		}

		meta.Projects = v.List
	}

	if v, present := fm[keyTags]; present {
		if v.Kind != frontmatter.ValueList {
			return Pattern{}, false
		}

		meta.Tags = v.List
	}

	return Pattern{
		Metadata: meta,
		Content:  strings.TrimSpace(string(tail)),
		Path:     path,
	}, true
}
