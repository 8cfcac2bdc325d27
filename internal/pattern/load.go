package pattern

import (
	"os"
	"path/filepath"
)

// LoadDir loads every well-formed pattern document in dir, in directory
// enumeration order. Enumeration order is whatever the platform yields; it
// is stable within one process run, which is all callers may rely on.
//
// Load-time failures are filters, not faults: an unreadable directory
// yields an empty collection, and an unreadable or malformed file simply
// contributes no pattern. One bad file must never take down the whole
// repository view.
func LoadDir(dir string) []Pattern {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	patterns := make([]Pattern, 0, len(entries))

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != Extension {
			continue
		}

		path := filepath.Join(dir, entry.Name())

		src, readErr := os.ReadFile(path)
		if readErr != nil {
			continue
		}

		p, ok := Parse(src, path)
		if !ok {
			continue
		}

		patterns = append(patterns, p)
	}

	return patterns
}
