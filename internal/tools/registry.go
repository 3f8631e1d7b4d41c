package tools

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/pagehand/pagehand/internal/logging"
)

// ToolResult carries the marshaled JSON object a tool produced. Content is
// always a JSON object with at least a "success" field; IsError mirrors
// success=false so transports can flag failures without re-parsing.
type ToolResult struct {
	Content string `json:"content"`
	IsError bool   `json:"is_error,omitempty"`
}

// Tool is implemented by every browser operation.
type Tool interface {
	// Name returns the tool's unique name
	Name() string

	// Description returns a description for the client
	Description() string

	// Schema returns the JSON schema for the tool's input
	Schema() json.RawMessage

	// Execute runs the tool with the given input. Operational failures are
	// reported inside the result, never as a Go error.
	Execute(ctx context.Context, input json.RawMessage) *ToolResult
}

// Definition is the transport-facing view of a registered tool.
type Definition struct {
	Name        string          `json:"name"`
	Description string          `json:"description"`
	InputSchema json.RawMessage `json:"input_schema"`
}

// Registry manages available tools
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

// NewRegistry creates a new tool registry
func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// Register adds a tool to the registry
func (r *Registry) Register(tool Tool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.tools[tool.Name()]; !exists {
		r.order = append(r.order, tool.Name())
	}
	r.tools[tool.Name()] = tool
}

// Get returns a tool by name
func (r *Registry) Get(name string) (Tool, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	tool, ok := r.tools[name]
	return tool, ok
}

// List returns tool definitions in registration order.
func (r *Registry) List() []Definition {
	r.mu.RLock()
	defer r.mu.RUnlock()

	defs := make([]Definition, 0, len(r.order))
	for _, name := range r.order {
		tool := r.tools[name]
		defs = append(defs, Definition{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.Schema(),
		})
	}
	return defs
}

// Execute dispatches a named call. Unknown tools come back as failure
// results, same as any other operational error.
func (r *Registry) Execute(ctx context.Context, name string, input json.RawMessage) *ToolResult {
	r.mu.RLock()
	tool, ok := r.tools[name]
	r.mu.RUnlock()

	if !ok {
		logging.Warnf("registry: unknown tool %q", name)
		return fail("unknown tool: %s", name)
	}

	logging.Debugf("registry: executing %s", name)
	result := tool.Execute(ctx, input)
	if result.IsError {
		logging.Debugf("registry: %s failed: %s", name, result.Content)
	}
	return result
}

// ok marshals fields into a success result. The success key is forced true.
func ok(fields map[string]any) *ToolResult {
	if fields == nil {
		fields = map[string]any{}
	}
	fields["success"] = true
	data, err := json.Marshal(fields)
	if err != nil {
		return fail("marshal result: %v", err)
	}
	return &ToolResult{Content: string(data)}
}

// fail builds a {success:false, error} result.
func fail(format string, args ...any) *ToolResult {
	data, _ := json.Marshal(map[string]any{
		"success": false,
		"error":   fmt.Sprintf(format, args...),
	})
	return &ToolResult{Content: string(data), IsError: true}
}

// failErr is fail for an already-built error.
func failErr(err error) *ToolResult {
	return fail("%v", err)
}
