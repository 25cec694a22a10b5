package mcp

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"

	"salesim/internal/catalog"
	"salesim/internal/config"

	"github.com/rs/zerolog/log"
)

// JSON-RPC error codes.
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeToolError      = -32000
)

const protocolVersion = "2024-11-05"

// JSONRPCRequest represents a standard MCP/JSON-RPC request.
type JSONRPCRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// JSONRPCResponse represents a standard MCP/JSON-RPC response.
type JSONRPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

// RPCError is the error member of a response.
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server holds the state for the MCP server.
type Server struct {
	sales   config.SalesConfig
	catalog *catalog.Catalog
	seed    int64
	version string
}

// NewServer creates a new MCP server simulating customers against cat.
func NewServer(sales config.SalesConfig, cat *catalog.Catalog, seed int64, version string) *Server {
	return &Server{sales: sales, catalog: cat, seed: seed, version: version}
}

// Serve runs the JSON-RPC loop, one message per line, until in is exhausted
// or ctx is canceled.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	w := bufio.NewWriter(out)
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := reader.ReadBytes('\n')
		if len(bytes.TrimSpace(line)) > 0 {
			if werr := s.handleLine(w, line); werr != nil {
				return werr
			}
		}
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}
	}
}

func (s *Server) handleLine(w *bufio.Writer, line []byte) error {
	var req JSONRPCRequest
	if err := json.Unmarshal(line, &req); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal request")
		return s.write(w, JSONRPCResponse{
			JSONRPC: "2.0",
			Error:   &RPCError{Code: codeParseError, Message: "Parse error"},
		})
	}
	resp, ok := s.handleRequest(req)
	if !ok {
		return nil
	}
	return s.write(w, resp)
}

func (s *Server) write(w *bufio.Writer, resp JSONRPCResponse) error {
	out, err := json.Marshal(resp)
	if err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "%s\n", out); err != nil {
		return err
	}
	return w.Flush()
}

// handleRequest answers req. Notifications carry no ID and get no answer.
func (s *Server) handleRequest(req JSONRPCRequest) (JSONRPCResponse, bool) {
	var result interface{}
	var errRes *RPCError

	switch req.Method {
	case "initialize":
		result = map[string]interface{}{
			"protocolVersion": protocolVersion,
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    "salesim",
				"version": s.version,
			},
		}
	case "tools/list":
		result = s.listTools()
	case "tools/call":
		result, errRes = s.callTool(req.Params)
	default:
		if req.ID == nil {
			log.Debug().Str("method", req.Method).Msg("Ignoring notification")
			return JSONRPCResponse{}, false
		}
		errRes = &RPCError{Code: codeMethodNotFound, Message: fmt.Sprintf("Method %s not found", req.Method)}
	}

	if req.ID == nil {
		return JSONRPCResponse{}, false
	}
	return JSONRPCResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result:  result,
		Error:   errRes,
	}, true
}
