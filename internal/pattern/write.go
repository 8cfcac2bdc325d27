package pattern

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"

	"github.com/patternkb/patternkb/internal/frontmatter"
)

const filePerms = 0o644

// Draft holds the fields of a pattern document to be written. Name must
// already have passed ValidateName; Write trusts it as a file name.
type Draft struct {
	Name      string
	Category  string
	Framework string
	Projects  []string
	Tags      []string
	Content   string
}

// Format serializes a draft in the canonical on-disk form: the header with
// pattern, category, and framework always present, projects and tags only
// when non-empty, then a blank line and the raw content.
func Format(d Draft) (string, error) {
	fm := frontmatter.Frontmatter{
		keyPattern:   frontmatter.StringValue(d.Name),
		keyCategory:  frontmatter.StringValue(d.Category),
		keyFramework: frontmatter.StringValue(d.Framework),
	}

	keyOrder := []string{keyPattern, keyCategory, keyFramework}

	if len(d.Projects) > 0 {
		fm[keyProjects] = frontmatter.ListValue(d.Projects)
		keyOrder = append(keyOrder, keyProjects)
	}

	if len(d.Tags) > 0 {
		fm[keyTags] = frontmatter.ListValue(d.Tags)
		keyOrder = append(keyOrder, keyTags)
	}

	header, err := frontmatter.Marshal(fm, keyOrder)
	if err != nil {
		return "", err
	}

	return header + "\n" + d.Content + "\n", nil
}

// Write serializes the draft and persists it to dir as <name>.md, returning
// the resulting path. An existing file at that path is overwritten without
// an existence check; the atomic rename keeps concurrent same-name writes
// at last-writer-wins. Write never mutates the in-memory collection — the
// new pattern is invisible to queries until the next load.
func Write(dir string, d Draft) (string, error) {
	doc, err := Format(d)
	if err != nil {
		return "", fmt.Errorf("format pattern: %w", err)
	}

	path := filepath.Join(dir, d.Name+Extension)

	writeErr := atomic.WriteFile(path, strings.NewReader(doc))
	if writeErr != nil {
		return "", fmt.Errorf("write pattern file: %w", writeErr)
	}

	// Set file permissions (atomic.WriteFile doesn't set them for new files).
	chmodErr := os.Chmod(path, filePerms)
	if chmodErr != nil {
		return "", fmt.Errorf("set pattern file permissions: %w", chmodErr)
	}

	return path, nil
}
