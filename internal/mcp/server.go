/*
Package mcp implements the MCP server that exposes the advisor engines as tools.

The server uses stdio transport (newline-delimited JSON-RPC 2.0) and exposes:
  - advisor_analyze, advisor_apply, advisor_history: project recommendations
  - content_generate, content_batch, content_count, content_search: learning content
  - impact_contribute, impact_learn, impact_metrics, impact_score: impact tracking
*/
package mcp

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"sync"

	"github.com/khanglvm/dev-advisor/internal/advisor"
	"github.com/khanglvm/dev-advisor/internal/version"
	"golang.org/x/time/rate"
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeInternalError  = -32603
	codeToolError      = -32000
)

// maxLineSize bounds a single request line.
const maxLineSize = 1 << 20

// Server represents the dev-advisor MCP server.
type Server struct {
	rt      *advisor.Runtime
	limiter *rate.Limiter

	outMu sync.Mutex
	out   io.Writer
}

// Option configures a Server.
type Option func(*Server)

// WithRateLimit limits tools/call to perSecond calls with the given burst.
// A non-positive rate leaves calls unlimited.
func WithRateLimit(perSecond float64, burst int) Option {
	return func(s *Server) {
		if perSecond <= 0 {
			s.limiter = nil
			return
		}
		if burst < 1 {
			burst = 1
		}
		s.limiter = rate.NewLimiter(rate.Limit(perSecond), burst)
	}
}

// NewServer creates a new MCP server over a runtime.
func NewServer(rt *advisor.Runtime, opts ...Option) *Server {
	s := &Server{rt: rt, out: os.Stdout}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Run starts the MCP server using stdio transport.
// This blocks until stdin is closed or ctx is cancelled.
func (s *Server) Run(ctx context.Context) error {
	return s.Serve(ctx, os.Stdin, os.Stdout)
}

// Serve reads requests from r and writes responses to w, one per line.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	s.out = w

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		response, err := s.handleRequest(ctx, line)
		if err != nil {
			s.sendError(err)
			continue
		}

		if response != nil {
			s.sendResponse(response)
		}
	}

	return scanner.Err()
}

// MCPRequest represents an incoming MCP JSON-RPC request.
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing MCP JSON-RPC response.
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents an MCP error.
type MCPError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// handleRequest processes an incoming MCP request. Notifications get no response.
func (s *Server) handleRequest(ctx context.Context, data []byte) (*MCPResponse, error) {
	var req MCPRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return nil, fmt.Errorf("invalid JSON-RPC request: %w", err)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(&req), nil
	case "tools/list":
		return s.handleToolsList(&req), nil
	case "tools/call":
		return s.handleToolsCall(ctx, &req), nil
	case "ping":
		return &MCPResponse{JSONRPC: "2.0", ID: req.ID, Result: map[string]interface{}{}}, nil
	}

	if req.ID == nil {
		return nil, nil
	}
	return errorResponse(req.ID, codeMethodNotFound, "Method not found"), nil
}

// handleInitialize handles the MCP initialize request.
func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "dev-advisor",
				"version": version.Version,
			},
		},
	}
}

// handleToolsList returns the list of available tools.
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": toolDefinitions(),
		},
	}
}

// handleToolsCall handles tool execution requests.
func (s *Server) handleToolsCall(ctx context.Context, req *MCPRequest) *MCPResponse {
	var params struct {
		Name      string                 `json:"name"`
		Arguments map[string]interface{} `json:"arguments"`
	}

	if err := json.Unmarshal(req.Params, &params); err != nil {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("invalid params: %v", err))
	}

	handler, ok := s.tools()[params.Name]
	if !ok {
		return errorResponse(req.ID, codeInvalidParams, fmt.Sprintf("Unknown tool: %s", params.Name))
	}

	if s.limiter != nil {
		if err := s.limiter.Wait(ctx); err != nil {
			return errorResponse(req.ID, codeToolError, fmt.Sprintf("rate limited: %v", err))
		}
	}

	result, err := invoke(ctx, handler, args(params.Arguments))
	if errors.Is(err, errHandlerPanic) {
		return errorResponse(req.ID, codeInternalError, err.Error())
	}
	if err != nil {
		return errorResponse(req.ID, codeToolError, err.Error())
	}

	text, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return errorResponse(req.ID, codeToolError, fmt.Sprintf("failed to encode result: %v", err))
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": string(text),
				},
			},
		},
	}
}

var errHandlerPanic = errors.New("internal error")

// invoke runs h, converting a panic into errHandlerPanic.
func invoke(ctx context.Context, h toolHandler, a args) (result interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			log.Printf("Warning: tool handler panicked: %v", r)
			result, err = nil, fmt.Errorf("%w: %v", errHandlerPanic, r)
		}
	}()
	return h(ctx, a)
}

func errorResponse(id interface{}, code int, message string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   &MCPError{Code: code, Message: message},
	}
}

// sendResponse writes a JSON-RPC response line.
func (s *Server) sendResponse(resp *MCPResponse) {
	data, _ := json.Marshal(resp)

	s.outMu.Lock()
	defer s.outMu.Unlock()
	fmt.Fprintln(s.out, string(data))
}

// sendError writes a parse error response.
func (s *Server) sendError(err error) {
	s.sendResponse(errorResponse(nil, codeParseError, err.Error()))
}
