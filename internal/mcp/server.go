package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/patternkb/patternkb/internal/pattern"
)

const (
	serverName    = "patternkb"
	serverVersion = "0.1.0"
)

// instructions is served on initialize so clients know how to use the
// pattern library.
const instructions = `I manage a library of software development patterns stored as markdown files with YAML frontmatter.
Use me to discover, search, and create reusable code patterns and architectural solutions.

Available operations:
- list_patterns: Get overview of all available patterns
- search_patterns: Find patterns by text, category, framework, or tags
- get_pattern: Retrieve full content of a specific pattern
- create_pattern: Add new patterns with proper metadata

Patterns include categories like 'rust', 'aws', 'web' and frameworks like 'axum', 'lambda'.
Each pattern contains implementation details, best practices, and usage examples.

When creating patterns, include relevant tags and specify which projects used them for better discoverability.`

// Server serves the pattern tools over newline-delimited JSON-RPC. The
// library it holds is the startup snapshot: creates go to disk only, and
// stay invisible to this server until it is restarted.
type Server struct {
	lib       *pattern.Library
	dir       string
	log       zerolog.Logger
	sessionID string
}

// NewServer creates a server over an already-loaded library. dir is the
// patterns directory used for create_pattern writes.
func NewServer(lib *pattern.Library, dir, sessionID string, log zerolog.Logger) *Server {
	return &Server{lib: lib, dir: dir, log: log, sessionID: sessionID}
}

// Run reads JSON-RPC messages from r line by line and writes responses to w
// until EOF, ctx cancellation, or a write failure. Malformed lines get a
// parse-error response; they never stop the loop.
func (s *Server) Run(ctx context.Context, r io.Reader, w io.Writer) error {
	reader := bufio.NewReader(r)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line, readErr := reader.ReadBytes('\n')
		if len(line) == 0 && readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}

			return fmt.Errorf("read request: %w", readErr)
		}

		var req Request

		if unmarshalErr := json.Unmarshal(line, &req); unmarshalErr != nil {
			s.log.Debug().Err(unmarshalErr).Msg("unparseable request line")

			writeErr := s.send(w, &Response{
				JSONRPC: "2.0",
				Error:   &Error{Code: CodeParse, Message: "Parse error"},
			})
			if writeErr != nil {
				return writeErr
			}

			continue
		}

		resp := s.handle(&req)
		if resp != nil {
			if writeErr := s.send(w, resp); writeErr != nil {
				return writeErr
			}
		}

		if readErr != nil {
			if errors.Is(readErr, io.EOF) {
				return nil
			}

			return fmt.Errorf("read request: %w", readErr)
		}
	}
}

func (s *Server) send(w io.Writer, resp *Response) error {
	data, err := json.Marshal(resp)
	if err != nil {
		return fmt.Errorf("marshal response: %w", err)
	}

	data = append(data, '\n')

	_, writeErr := w.Write(data)
	if writeErr != nil {
		return fmt.Errorf("write response: %w", writeErr)
	}

	return nil
}

func (s *Server) handle(req *Request) *Response {
	s.log.Debug().
		Str("session", s.sessionID).
		Str("method", req.Method).
		Msg("request")

	switch req.Method {
	case MethodInitialize:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result: InitializeResult{
				ProtocolVersion: ProtocolVersion,
				ServerInfo:      ServerInfo{Name: serverName, Version: serverVersion},
				Capabilities:    Capabilities{Tools: &ToolsCapability{}},
				Instructions:    instructions,
			},
		}
	case MethodInitialized:
		return nil // Notification, no response.
	case MethodToolsList:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  ToolsListResult{Tools: toolDefinitions()},
		}
	case MethodToolsCall:
		return s.handleToolCall(req)
	case MethodPing:
		return &Response{JSONRPC: "2.0", ID: req.ID, Result: struct{}{}}
	default:
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: CodeMethodNotFound, Message: "Method not found"},
		}
	}
}

func (s *Server) handleToolCall(req *Request) (resp *Response) {
	// A panicking tool handler must not take down the serve loop.
	defer func() {
		if r := recover(); r != nil {
			s.log.Error().Any("panic", r).Str("session", s.sessionID).Msg("tool handler panic")

			resp = &Response{
				JSONRPC: "2.0",
				ID:      req.ID,
				Error:   &Error{Code: CodeInternal, Message: fmt.Sprintf("internal error: %v", r)},
			}
		}
	}()

	var params CallToolParams

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return &Response{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error:   &Error{Code: CodeInvalidParams, Message: "Invalid params"},
		}
	}

	result, callErr := s.callTool(params.Name, params.Arguments)
	if callErr != nil {
		s.log.Debug().
			Str("session", s.sessionID).
			Str("tool", params.Name).
			Str("error", callErr.Message).
			Msg("tool error")

		return &Response{JSONRPC: "2.0", ID: req.ID, Error: callErr}
	}

	return &Response{JSONRPC: "2.0", ID: req.ID, Result: result}
}
