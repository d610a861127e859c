package server

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/ironsheep/image-ingest-mcp/internal/digest"
	"github.com/ironsheep/image-ingest-mcp/internal/imaging"
	"github.com/ironsheep/image-ingest-mcp/internal/remote"
)

// Server handles MCP protocol communication
type Server struct {
	proc    *imaging.Processor
	digests *digest.Computer
	fetcher *remote.Fetcher
	quality int
	log     zerolog.Logger

	in  io.Reader
	out io.Writer
}

// Params carries the components a Server dispatches to. Nil fields are
// replaced with defaults that log nothing.
type Params struct {
	Processor *imaging.Processor
	Digests   *digest.Computer
	Fetcher   *remote.Fetcher
	Quality   int
	Logger    *zerolog.Logger
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a new MCP server instance
func New(p Params) *Server {
	s := &Server{
		proc:    p.Processor,
		digests: p.Digests,
		fetcher: p.Fetcher,
		quality: p.Quality,
		log:     zerolog.Nop(),
		in:      os.Stdin,
		out:     os.Stdout,
	}
	if p.Logger != nil {
		s.log = p.Logger.With().Str("component", "server").Logger()
	}
	if s.proc == nil {
		s.proc = imaging.New()
	}
	if s.digests == nil {
		s.digests = digest.New()
	}
	if s.fetcher == nil {
		s.fetcher = remote.New(s.proc)
	}
	if s.quality == 0 {
		s.quality = imaging.DefaultQuality
	}
	return s
}

// Run reads requests from stdin and writes responses to stdout until input
// ends. A malformed line is logged and skipped.
func (s *Server) Run(ctx context.Context) error {
	scanner := bufio.NewScanner(s.in)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(s.out)

	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return err
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			s.log.Error().Err(err).Msg("failed to parse request")
			continue
		}

		resp := s.handleRequest(ctx, &req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				s.log.Error().Err(err).Msg("failed to encode response")
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(ctx context.Context, req *MCPRequest) *MCPResponse {
	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(ctx, req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Error: &MCPError{
				Code:    -32601,
				Message: fmt.Sprintf("Method not found: %s", req.Method),
			},
		}
	}
}

// handleInitialize responds to the initialize request
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
				"name":    "image-ingest-mcp",
				"version": "0.1.0",
			},
		},
	}
}
