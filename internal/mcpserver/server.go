// Package mcpserver exposes the tools to AI agents over MCP. Tools read and
// write local files, so the server is meant for stdio use on the same machine.
package mcpserver

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/dgallion1/humantools/internal/tools"
)

// Server is the MCP server for humantools.
type Server struct {
	mcp   *server.MCPServer
	tools *tools.Toolkit
	log   *slog.Logger

	maxFiles int
}

// New creates the server and registers every tool.
func New(kit *tools.Toolkit, log *slog.Logger, version string, maxFiles int) *Server {
	if maxFiles <= 0 {
		maxFiles = 200
	}
	s := &Server{tools: kit, log: log, maxFiles: maxFiles}

	s.mcp = server.NewMCPServer(
		"humantools",
		version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
	)

	s.registerPDFTools()
	s.registerPhotoTools()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.log.Info("starting mcp stdio server")
	return server.ServeStdio(s.mcp)
}

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}
