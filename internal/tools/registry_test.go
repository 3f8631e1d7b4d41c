package tools

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubTool struct {
	name    string
	result  *ToolResult
	gotArgs json.RawMessage
}

func (s *stubTool) Name() string            { return s.name }
func (s *stubTool) Description() string     { return "stub" }
func (s *stubTool) Schema() json.RawMessage { return json.RawMessage(`{"type":"object"}`) }
func (s *stubTool) Execute(_ context.Context, input json.RawMessage) *ToolResult {
	s.gotArgs = input
	return s.result
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry()
	stub := &stubTool{name: "echo", result: ok(map[string]any{"value": 1})}
	r.Register(stub)

	res := r.Execute(context.Background(), "echo", json.RawMessage(`{"a":1}`))
	require.False(t, res.IsError)
	assert.JSONEq(t, `{"a":1}`, string(stub.gotArgs))

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, true, payload["success"])
	assert.Equal(t, float64(1), payload["value"])
}

func TestRegistryUnknownTool(t *testing.T) {
	r := NewRegistry()

	res := r.Execute(context.Background(), "nope", nil)
	require.True(t, res.IsError)

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, false, payload["success"])
	assert.Contains(t, payload["error"], "unknown tool")
}

func TestRegistryListPreservesOrder(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "b"})
	r.Register(&stubTool{name: "a"})
	r.Register(&stubTool{name: "c"})

	defs := r.List()
	require.Len(t, defs, 3)
	assert.Equal(t, "b", defs[0].Name)
	assert.Equal(t, "a", defs[1].Name)
	assert.Equal(t, "c", defs[2].Name)
}

func TestRegistryReRegisterReplaces(t *testing.T) {
	r := NewRegistry()
	r.Register(&stubTool{name: "x", result: fail("old")})
	r.Register(&stubTool{name: "x", result: ok(nil)})

	require.Len(t, r.List(), 1)
	res := r.Execute(context.Background(), "x", nil)
	assert.False(t, res.IsError)
}

func TestOkForcesSuccessTrue(t *testing.T) {
	res := ok(map[string]any{"success": false, "n": 2})

	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.Content), &payload))
	assert.Equal(t, true, payload["success"])
}

func TestFailShape(t *testing.T) {
	res := fail("broke: %d", 7)
	require.True(t, res.IsError)
	assert.JSONEq(t, `{"success":false,"error":"broke: 7"}`, res.Content)
}
