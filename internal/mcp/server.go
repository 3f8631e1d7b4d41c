package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/pagehand/pagehand/internal/logging"
	"github.com/pagehand/pagehand/internal/tools"
)

// Server exposes a tool registry over the Model Context Protocol.
type Server struct {
	registry *tools.Registry
	server   *mcp.Server
}

// NewServer wraps a registry, registering every tool with its schema.
func NewServer(registry *tools.Registry, version string) *Server {
	s := &Server{
		registry: registry,
		server: mcp.NewServer(&mcp.Implementation{
			Name:    "pagehand",
			Version: version,
		}, nil),
	}
	s.registerTools()
	return s
}

func (s *Server) registerTools() {
	for _, def := range s.registry.List() {
		var schemaMap map[string]any
		if err := json.Unmarshal(def.InputSchema, &schemaMap); err != nil {
			logging.Errorf("mcp: bad schema for %s: %v", def.Name, err)
			continue
		}
		s.server.AddTool(&mcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: schemaMap,
		}, s.toolHandler(def.Name))
	}
}

// toolHandler bridges one MCP call into the registry. Panics are recovered
// into error results so a single bad call cannot kill the transport.
func (s *Server) toolHandler(name string) mcp.ToolHandler {
	return func(ctx context.Context, req *mcp.CallToolRequest) (result *mcp.CallToolResult, err error) {
		reqID := uuid.NewString()[:8]
		defer func() {
			if r := recover(); r != nil {
				logging.Errorf("mcp[%s]: panic in %s: %v", reqID, name, r)
				result = &mcp.CallToolResult{
					Content: []mcp.Content{&mcp.TextContent{
						Text: fmt.Sprintf(`{"success":false,"error":"internal error: %v"}`, r),
					}},
					IsError: true,
				}
				err = nil
			}
		}()

		input := json.RawMessage(req.Params.Arguments)
		logging.Debugf("mcp[%s]: %s called", reqID, name)

		res := s.registry.Execute(ctx, name, input)

		return &mcp.CallToolResult{
			Content: []mcp.Content{&mcp.TextContent{Text: res.Content}},
			IsError: res.IsError,
		}, nil
	}
}

// Run serves the stdio transport until ctx is done.
func (s *Server) Run(ctx context.Context) error {
	return s.server.Run(ctx, &mcp.StdioTransport{})
}

// Handler returns the streamable HTTP handler for mounting on a router.
func (s *Server) Handler() http.Handler {
	return mcp.NewStreamableHTTPHandler(
		func(r *http.Request) *mcp.Server {
			return s.server
		},
		nil,
	)
}
