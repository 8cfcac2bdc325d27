package frontmatter

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Marshal serializes a header in the canonical on-disk form: a '---' line,
// one "key: value" line per entry of keyOrder, and a closing '---' line.
// Lists are always written inline ("key: [a, b]") so the output stays a
// single line per key. Keys absent from fm are an error; callers build the
// map with exactly the keys they intend to write.
//
// Scalars that would not survive a round-trip through Parse (leading or
// trailing whitespace, a reserved leading character, an empty string) are
// double-quoted.
func Marshal(fm Frontmatter, keyOrder []string) (string, error) {
	if fm == nil {
		return "", errors.New("marshal header: nil map")
	}

	var builder strings.Builder

	builder.WriteString(delimiter)
	builder.WriteString("\n")

	for _, key := range keyOrder {
		value, ok := fm[key]
		if !ok {
			return "", fmt.Errorf("marshal header: missing %s", key)
		}

		builder.WriteString(key)
		builder.WriteString(":")

		switch value.Kind {
		case ValueString:
			builder.WriteString(" ")
			builder.WriteString(quoteIfNeeded(value.Str))
			builder.WriteString("\n")
		case ValueList:
			builder.WriteString(" [")

			for i, item := range value.List {
				if item == "" {
					return "", fmt.Errorf("marshal header: %s: empty list item", key)
				}

				if strings.Contains(item, ",") {
					return "", fmt.Errorf("marshal header: %s: comma in list item", key)
				}

				if i > 0 {
					builder.WriteString(", ")
				}

				builder.WriteString(quoteIfNeeded(item))
			}

			builder.WriteString("]\n")
		default:
			return "", fmt.Errorf("marshal header: %s: unsupported value kind %d", key, value.Kind)
		}
	}

	builder.WriteString(delimiter)
	builder.WriteString("\n")

	return builder.String(), nil
}

func quoteIfNeeded(s string) string {
	if s == "" {
		return `""`
	}

	if s != strings.TrimSpace(s) {
		return strconv.Quote(s)
	}

	if scalarHasUnsupportedPrefix([]byte(s)) || s[0] == '"' || s[0] == '\'' {
		return strconv.Quote(s)
	}

	if strings.ContainsAny(s, "\n\r") {
		return strconv.Quote(s)
	}

	return s
}
