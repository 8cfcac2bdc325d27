// Package frontmatter parses and serializes the restricted YAML subset used
// by pattern document headers.
//
// A pattern header only ever carries string scalars and flat string lists,
// so the grammar is intentionally small to keep parsing deterministic:
//
//	---
//	pattern: retry-backoff
//	category: resilience
//	framework: stdlib
//	projects: [billing, ingest]
//	tags:
//	  - go
//	  - retry
//	---
//
// Scalar values may be unquoted, single-quoted, or double-quoted strings.
// Lists are either inline ([a, b, c]) or indented blocks of "- item" lines,
// and contain only strings.
//
// Not supported: integers, booleans, nested objects, nested lists,
// multi-line strings, anchors, aliases, flow mappings, and nulls. Values in
// that territory are parse errors, not best-effort guesses.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
)

// ValueKind distinguishes the two shapes a header value can take.
type ValueKind uint8

// ValueKind values.
const (
	ValueString ValueKind = iota
	ValueList
)

// Value is one parsed header value.
type Value struct {
	Kind ValueKind // Kind describes which field is populated.
	Str  string    // Str holds the value when Kind == ValueString.
	List []string  // List holds the value when Kind == ValueList.
}

// StringValue creates a string-scalar Value.
func StringValue(s string) Value {
	return Value{Kind: ValueString, Str: s}
}

// ListValue creates a string-list Value.
func ListValue(items []string) Value {
	return Value{Kind: ValueList, List: items}
}

// Frontmatter maps header keys to parsed values.
type Frontmatter map[string]Value

// GetString returns the string value for key.
// Returns ("", false) if key is missing or holds a list.
func (fm Frontmatter) GetString(key string) (string, bool) {
	v, ok := fm[key]
	if !ok || v.Kind != ValueString {
		return "", false
	}

	return v.Str, true
}

// GetList returns the string slice for key.
// Returns (nil, false) if key is missing or holds a scalar.
func (fm Frontmatter) GetList(key string) ([]string, bool) {
	v, ok := fm[key]
	if !ok || v.Kind != ValueList {
		return nil, false
	}

	return v.List, true
}

const (
	delimiter        = "---"
	defaultLineLimit = 200 // Default header line limit; override with WithLineLimit.
)

var delimiterBytes = []byte(delimiter)

// ParseOptions configures header parsing behavior.
type ParseOptions struct {
	// LineLimit is the maximum number of header lines allowed. A value of 0
	// disables the limit.
	LineLimit int
}

// ParseOption mutates ParseOptions.
type ParseOption func(*ParseOptions)

// WithLineLimit sets the maximum number of header lines. Use 0 to disable
// the limit entirely.
func WithLineLimit(limit int) ParseOption {
	return func(opts *ParseOptions) {
		if limit < 0 {
			limit = 0
		}

		opts.LineLimit = limit
	}
}

// Parse parses a full pattern document, returning the header map and the
// remaining body bytes (tail) without extra copies. The document must open
// with a '---' line and close the header with a second '---' line. An empty
// header ("---\n---\n") is valid and returns an empty map. The tail starts
// immediately after the closing delimiter line; callers trim it as needed.
//
// Example:
//
//	payload := []byte("---\npattern: p\ncategory: c\n---\n\nBody\n")
//	fm, tail, err := frontmatter.Parse(payload)
//	if err != nil {
//		return err
//	}
//	name, _ := fm.GetString("pattern")
//	_ = tail // "\nBody\n"
func Parse(src []byte, opts ...ParseOption) (Frontmatter, []byte, error) {
	options := ParseOptions{LineLimit: defaultLineLimit}

	for _, opt := range opts {
		if opt != nil {
			opt(&options)
		}
	}

	source := newLineSource(src)

	first, ok := source.next()
	if !ok || !bytes.Equal(first.data, delimiterBytes) {
		return nil, nil, errors.New("parse header: missing opening delimiter")
	}

	parser := &headerParser{source: source, lineLimit: options.LineLimit}

	fm, sawDelimiter, err := parser.parse()
	if err != nil {
		return nil, nil, err
	}

	if !sawDelimiter {
		return nil, nil, errors.New("parse header: missing closing delimiter")
	}

	return fm, source.remainder(), nil
}

type lineToken struct {
	data []byte
	num  int
}

type headerParser struct {
	source    *lineSource
	linesSeen int
	lineLimit int
}

func (p *headerParser) parse() (Frontmatter, bool, error) {
	out := make(Frontmatter)

	for {
		tok, ok := p.source.next()
		if !ok {
			return out, false, nil
		}

		if bytes.Equal(tok.data, delimiterBytes) {
			return out, true, nil
		}

		err := p.bumpLineCount()
		if err != nil {
			return nil, false, err
		}

		if len(bytes.TrimSpace(tok.data)) == 0 {
			continue
		}

		if tok.data[0] == ' ' || tok.data[0] == '\t' {
			return nil, false, headerErr(tok.num, "unexpected indentation")
		}

		keyRaw, restRaw, cut := bytes.Cut(tok.data, []byte{':'})
		if !cut {
			return nil, false, headerErr(tok.num, "missing ':'")
		}

		keyBytes := bytes.TrimSpace(keyRaw)
		if len(keyBytes) == 0 {
			return nil, false, headerErr(tok.num, "empty key")
		}

		if bytes.IndexByte(keyBytes, ' ') != -1 || bytes.IndexByte(keyBytes, '\t') != -1 {
			return nil, false, headerErr(tok.num, "whitespace in key")
		}

		key := string(keyBytes)

		if _, exists := out[key]; exists {
			return nil, false, headerErr(tok.num, "duplicate key")
		}

		value := bytes.TrimSpace(restRaw)
		if len(value) != 0 {
			if value[0] == '[' {
				if value[len(value)-1] != ']' {
					return nil, false, headerErr(tok.num, "unterminated list")
				}

				list, listErr := parseInlineList(value)
				if listErr != nil {
					return nil, false, headerErr(tok.num, listErr.Error())
				}

				out[key] = Value{Kind: ValueList, List: list}

				continue
			}

			str, strErr := parseScalar(value)
			if strErr != nil {
				return nil, false, headerErr(tok.num, strErr.Error())
			}

			out[key] = Value{Kind: ValueString, Str: str}

			continue
		}

		// Bare "key:" line. The only supported block value is a list.
		list, listErr := p.parseBlockList(tok)
		if listErr != nil {
			return nil, false, listErr
		}

		out[key] = Value{Kind: ValueList, List: list}
	}
}

// parseBlockList consumes the indented "- item" lines following a bare key.
func (p *headerParser) parseBlockList(keyTok lineToken) ([]string, error) {
	first, ok, err := p.nextNonEmpty()
	if err != nil {
		return nil, err
	}

	if !ok {
		return nil, headerErr(keyTok.num, "missing block value")
	}

	indent, hasTab := leadingSpaces(first.data)
	if hasTab {
		return nil, headerErr(first.num, "tabs are not allowed")
	}

	if indent == 0 {
		return nil, headerErr(first.num, "expected indented block")
	}

	items := []string{}
	current := first

	for {
		item, itemErr := parseListItem(current, indent)
		if itemErr != nil {
			return nil, itemErr
		}

		items = append(items, item)

		for {
			next, more := p.source.next()
			if !more {
				return items, nil
			}

			if bytes.Equal(next.data, delimiterBytes) {
				p.source.unread(next)

				return items, nil
			}

			if len(bytes.TrimSpace(next.data)) == 0 {
				err = p.bumpLineCount()
				if err != nil {
					return nil, err
				}

				continue
			}

			lineIndent, nextTab := leadingSpaces(next.data)
			if nextTab {
				return nil, headerErr(next.num, "tabs are not allowed")
			}

			if lineIndent < indent {
				p.source.unread(next)

				return items, nil
			}

			if lineIndent != indent {
				return nil, headerErr(next.num, "inconsistent indentation")
			}

			err = p.bumpLineCount()
			if err != nil {
				return nil, err
			}

			current = next

			break
		}
	}
}

func (p *headerParser) nextNonEmpty() (lineToken, bool, error) {
	for {
		tok, ok := p.source.next()
		if !ok {
			return lineToken{}, false, nil
		}

		if bytes.Equal(tok.data, delimiterBytes) {
			p.source.unread(tok)

			return lineToken{}, false, nil
		}

		err := p.bumpLineCount()
		if err != nil {
			return lineToken{}, false, err
		}

		if len(bytes.TrimSpace(tok.data)) == 0 {
			continue
		}

		return tok, true, nil
	}
}

func (p *headerParser) bumpLineCount() error {
	p.linesSeen++
	if p.lineLimit == 0 {
		return nil
	}

	if p.linesSeen > p.lineLimit {
		return errors.New("parse header: exceeds maximum line limit")
	}

	return nil
}

func parseInlineList(value []byte) ([]string, error) {
	inner := bytes.TrimSpace(value[1 : len(value)-1])
	if len(inner) == 0 {
		return []string{}, nil
	}

	parts := bytes.Split(inner, []byte{','})

	items := make([]string, 0, len(parts))
	for _, part := range parts {
		item := bytes.TrimSpace(part)
		if len(item) == 0 {
			return nil, errors.New("empty list item")
		}

		parsed, err := parseString(item)
		if err != nil {
			return nil, err
		}

		items = append(items, parsed)
	}

	return items, nil
}

func parseListItem(tok lineToken, indent int) (string, error) {
	lineIndent, hasTab := leadingSpaces(tok.data)
	if hasTab {
		return "", headerErr(tok.num, "tabs are not allowed")
	}

	if lineIndent != indent {
		return "", headerErr(tok.num, "inconsistent indentation")
	}

	trimmed := tok.data[indent:]
	if len(trimmed) < 2 || trimmed[0] != '-' || trimmed[1] != ' ' {
		return "", headerErr(tok.num, "expected list item")
	}

	item := bytes.TrimSpace(trimmed[2:])
	if len(item) == 0 {
		return "", headerErr(tok.num, "empty list item")
	}

	parsed, err := parseString(item)
	if err != nil {
		return "", headerErr(tok.num, err.Error())
	}

	return parsed, nil
}

func parseScalar(value []byte) (string, error) {
	if len(value) == 0 {
		return "", errors.New("empty scalar")
	}

	if scalarHasUnsupportedPrefix(value) {
		return "", errors.New("unsupported value")
	}

	return parseString(value)
}

// scalarHasUnsupportedPrefix rejects YAML constructs outside the subset so
// they fail loudly instead of parsing as surprising strings.
func scalarHasUnsupportedPrefix(value []byte) bool {
	switch value[0] {
	case '[', '{', '}', ']', '|', '>', '&', '*', '!', '%', '@', '`':
		return true
	}

	return len(value) >= 2 && value[0] == '-' && value[1] == ' '
}

func parseString(value []byte) (string, error) {
	if len(value) > 0 && value[0] == '"' {
		if len(value) < 2 || value[len(value)-1] != '"' {
			return "", errors.New("unterminated quoted string")
		}

		parsed, err := strconv.Unquote(string(value))
		if err != nil {
			return "", errors.New("invalid quoted string")
		}

		return parsed, nil
	}

	if len(value) > 0 && value[0] == '\'' {
		if len(value) < 2 || value[len(value)-1] != '\'' {
			return "", errors.New("unterminated quoted string")
		}

		return string(value[1 : len(value)-1]), nil
	}

	return string(value), nil
}

func leadingSpaces(line []byte) (int, bool) {
	count := 0

	for _, b := range line {
		if b == ' ' {
			count++

			continue
		}

		if b == '\t' {
			return 0, true
		}

		break
	}

	return count, false
}

type headerError struct {
	line int
	msg  string
}

func (e *headerError) Error() string {
	return fmt.Sprintf("parse header line %d: %s", e.line, e.msg)
}

func headerErr(line int, msg string) error {
	return &headerError{line: line, msg: msg}
}

// lineSource yields '\n'-separated lines from a byte slice with one line of
// pushback, which the block-list parser needs to stop at dedents and the
// closing delimiter.
type lineSource struct {
	data    []byte
	idx     int
	lineNum int
	pending *lineToken
}

func newLineSource(data []byte) *lineSource {
	return &lineSource{data: data}
}

func (s *lineSource) next() (lineToken, bool) {
	if s.pending != nil {
		out := *s.pending
		s.pending = nil

		return out, true
	}

	if s.idx >= len(s.data) {
		return lineToken{}, false
	}

	start := s.idx
	for s.idx < len(s.data) && s.data[s.idx] != '\n' {
		s.idx++
	}

	end := s.idx
	if s.idx < len(s.data) && s.data[s.idx] == '\n' {
		s.idx++
	}

	s.lineNum++
	line := trimCR(s.data[start:end])

	return lineToken{data: line, num: s.lineNum}, true
}

func (s *lineSource) unread(tok lineToken) {
	s.pending = &lineToken{data: tok.data, num: tok.num}
}

func (s *lineSource) remainder() []byte {
	if s.idx >= len(s.data) {
		return nil
	}

	return s.data[s.idx:]
}

func trimCR(line []byte) []byte {
	if len(line) > 0 && line[len(line)-1] == '\r' {
		return line[:len(line)-1]
	}

	return line
}
