package mcp

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/patternkb/patternkb/internal/pattern"
)

// Tool request payloads. Absent optional fields decode to zero values,
// which the query engine treats as "criterion not supplied".

type searchPatternsRequest struct {
	Query     string `json:"query"`
	Category  string `json:"category"`
	Framework string `json:"framework"`
	Tag       string `json:"tag"`
}

type getPatternRequest struct {
	PatternName string `json:"pattern_name"`
}

type createPatternRequest struct {
	PatternName string   `json:"pattern_name"`
	Category    string   `json:"category"`
	Framework   string   `json:"framework"`
	Projects    []string `json:"projects"`
	Tag         []string `json:"tag"`
	Content     string   `json:"content"`
}

func toolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		{
			Name:        "list_patterns",
			Description: "List all available patterns",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "search_patterns",
			Description: "Search patterns by query, category, framework or tag",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"query":     map[string]any{"type": "string", "description": "Text Search"},
					"category":  map[string]any{"type": "string", "description": "Filter by category"},
					"framework": map[string]any{"type": "string", "description": "Filter by framework"},
					"tag":       map[string]any{"type": "string", "description": "Filter by tag"},
				},
			},
		},
		{
			Name:        "get_pattern",
			Description: "Get the pattern based on the pattern name",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern_name": map[string]any{"type": "string", "description": "Pattern Name"},
				},
				"required": []string{"pattern_name"},
			},
		},
		{
			Name: "create_pattern",
			Description: "Create patterns by providing, category, framework, projects this pattern " +
				"was used in, tags, and the content. Look to existing patterns for examples on how this should look",
			InputSchema: map[string]any{
				"type": "object",
				"properties": map[string]any{
					"pattern_name": map[string]any{"type": "string", "description": "Pattern name"},
					"category":     map[string]any{"type": "string", "description": "Pattern category"},
					"framework":    map[string]any{"type": "string", "description": "Pattern framework"},
					"projects": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Projects in which these patterns were used",
					},
					"tag": map[string]any{
						"type":        "array",
						"items":       map[string]any{"type": "string"},
						"description": "Pattern tags",
					},
					"content": map[string]any{"type": "string", "description": "Pattern content"},
				},
				"required": []string{"pattern_name", "category", "framework", "tag", "content"},
			},
		},
	}
}

func (s *Server) callTool(name string, args json.RawMessage) (CallToolResult, *Error) {
	switch name {
	case "list_patterns":
		return s.listPatterns(), nil
	case "search_patterns":
		return s.searchPatterns(args)
	case "get_pattern":
		return s.getPattern(args)
	case "create_pattern":
		return s.createPattern(args)
	default:
		return CallToolResult{}, &Error{
			Code:    CodeInvalidParams,
			Message: fmt.Sprintf("Unknown tool: %s", name),
		}
	}
}

func (s *Server) listPatterns() CallToolResult {
	summaries := s.lib.List()

	lines := make([]string, 0, len(summaries))
	for _, summary := range summaries {
		lines = append(lines, fmt.Sprintf("- %s (%s)", summary.Name, summary.Category))
	}

	return TextResult("Available patterns:\n" + strings.Join(lines, "\n"))
}

func (s *Server) searchPatterns(args json.RawMessage) (CallToolResult, *Error) {
	var req searchPatternsRequest

	if err := unmarshalArgs(args, &req); err != nil {
		return CallToolResult{}, err
	}

	results := s.lib.Search(pattern.SearchRequest{
		Query:     req.Query,
		Category:  req.Category,
		Framework: req.Framework,
		Tag:       req.Tag,
	})

	if len(results) == 0 {
		return TextResult("No patterns found."), nil
	}

	blocks := make([]string, 0, len(results))
	for _, p := range results {
		blocks = append(blocks, fmt.Sprintf("**%s**\n%s",
			p.Metadata.Name, pattern.Snippet(p.Content, pattern.SnippetLength)))
	}

	return TextResult(strings.Join(blocks, "\n\n")), nil
}

func (s *Server) getPattern(args json.RawMessage) (CallToolResult, *Error) {
	var req getPatternRequest

	if err := unmarshalArgs(args, &req); err != nil {
		return CallToolResult{}, err
	}

	if req.PatternName == "" {
		return CallToolResult{}, &Error{Code: CodeInvalidParams, Message: "pattern_name is required"}
	}

	p, found := s.lib.Get(req.PatternName)
	if !found {
		// Not-found is a renderable result, not a protocol error.
		return TextResult(fmt.Sprintf("Pattern '%s' not found.", req.PatternName)), nil
	}

	return TextResult(p.Content), nil
}

func (s *Server) createPattern(args json.RawMessage) (CallToolResult, *Error) {
	var req createPatternRequest

	if err := unmarshalArgs(args, &req); err != nil {
		return CallToolResult{}, err
	}

	if validateErr := pattern.ValidateName(req.PatternName); validateErr != nil {
		return CallToolResult{}, &Error{Code: CodeInvalidParams, Message: validateErr.Error()}
	}

	if req.Category == "" {
		return CallToolResult{}, &Error{Code: CodeInvalidParams, Message: "category is required"}
	}

	if req.Framework == "" {
		return CallToolResult{}, &Error{Code: CodeInvalidParams, Message: "framework is required"}
	}

	if req.Content == "" {
		return CallToolResult{}, &Error{Code: CodeInvalidParams, Message: "content is required"}
	}

	path, writeErr := pattern.Write(s.dir, pattern.Draft{
		Name:      req.PatternName,
		Category:  req.Category,
		Framework: req.Framework,
		Projects:  req.Projects,
		Tags:      req.Tag,
		Content:   req.Content,
	})
	if writeErr != nil {
		return CallToolResult{}, &Error{
			Code:    CodeInternal,
			Message: fmt.Sprintf("Failed to create pattern: %v", writeErr),
		}
	}

	s.log.Info().
		Str("session", s.sessionID).
		Str("pattern", req.PatternName).
		Str("path", path).
		Msg("pattern created")

	return TextResult(fmt.Sprintf("Pattern '%s' created at %s", req.PatternName, path)), nil
}

func unmarshalArgs(args json.RawMessage, into any) *Error {
	if len(args) == 0 {
		return nil
	}

	if err := json.Unmarshal(args, into); err != nil {
		return &Error{Code: CodeInvalidParams, Message: "Invalid params"}
	}

	return nil
}
