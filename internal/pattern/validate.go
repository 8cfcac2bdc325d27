package pattern

import (
	"unicode"
	"unicode/utf8"
)

const maxNameLength = 100

// ValidateName accepts or rejects a proposed pattern name before any write
// occurs. Names must be 1-100 characters of letters, digits, '-', or '_'.
// Because the name becomes the target file name verbatim, this charset rule
// is also the sole path-traversal guard: the writer does no further
// sanitization.
func ValidateName(name string) error {
	length := utf8.RuneCountInString(name)
	if length == 0 || length > maxNameLength {
		return ErrNameLength
	}

	for _, r := range name {
		if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '-' && r != '_' {
			return ErrNameCharset
		}
	}

	return nil
}
